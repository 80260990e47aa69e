// Package errors provides structured error types for the WASI host adapter.
//
// Errors are categorized by Phase (which host operation failed) and Kind
// (error category). The Error type carries the guest-visible path when one
// is involved and the unmodified host error as its cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseOpen, errors.KindNotSupported).
//		Path("data/log.txt").
//		Detail("SYNC family of fdflags").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Io(errors.PhaseRead, hostErr)
//	err := errors.Overflow(errors.PhaseWrite, n, "u64")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind reports the Kind of a wrapped Error regardless of Phase.
package errors
