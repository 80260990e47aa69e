package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates which host operation produced the error
type Phase string

const (
	PhaseOpen    Phase = "open"    // path open, preopen binding
	PhaseRead    Phase = "read"    // vectored reads
	PhaseWrite   Phase = "write"   // vectored writes
	PhaseSeek    Phase = "seek"    // cursor movement
	PhaseSync    Phase = "sync"    // sync, datasync
	PhaseStat    Phase = "stat"    // metadata, file type
	PhaseFlags   Phase = "flags"   // descriptor flag get/set
	PhasePath    Phase = "path"    // mkdir, unlink, rename, readlink
	PhaseTable   Phase = "table"   // descriptor table lookups
	PhaseBuild   Phase = "build"   // context assembly
	PhasePoll    Phase = "poll"    // readiness polling
	PhaseConfig  Phase = "config"  // configuration loading
	PhaseRuntime Phase = "runtime" // guest execution
)

// Kind categorizes the error
type Kind string

const (
	KindIo            Kind = "io"
	KindNotSupported  Kind = "not_supported"
	KindOverflow      Kind = "overflow"
	KindArrayTooLarge Kind = "array_too_large"
	KindContainsNul   Kind = "contains_nul"
	KindBadDescriptor Kind = "bad_descriptor"
	KindNotCapable    Kind = "not_capable"
	KindNotPermitted  Kind = "not_permitted"
	KindConsumed      Kind = "consumed"
	KindInvalidInput  Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Path   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the guest-visible path
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Io wraps a failed host call. The host error is kept unmodified as the cause.
func Io(phase Phase, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIo,
		Cause: cause,
	}
}

// IoPath is Io with the guest path that was being operated on.
func IoPath(phase Phase, path string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIo,
		Path:  path,
		Cause: cause,
	}
}

// NotSupported creates an error for a request with no host equivalent
func NotSupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotSupported,
		Detail: what,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// ArrayTooLarge creates an error for a string array exceeding the guest ABI limits
func ArrayTooLarge(phase Phase, what string, limit uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArrayTooLarge,
		Detail: fmt.Sprintf("%s exceeds the limit of %d", what, limit),
		Value:  limit,
	}
}

// ContainsNul creates an error for a string with an interior NUL byte
func ContainsNul(phase Phase, what string, value string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindContainsNul,
		Detail: fmt.Sprintf("%s contains a NUL byte", what),
		Value:  value,
	}
}

// BadDescriptor creates an error for an unknown or mistyped descriptor
func BadDescriptor(phase Phase, fd uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadDescriptor,
		Detail: fmt.Sprintf("descriptor %d", fd),
		Value:  fd,
	}
}

// NotCapable creates an error for a descriptor lacking a required capability
func NotCapable(phase Phase, fd uint32, missing fmt.Stringer) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotCapable,
		Detail: fmt.Sprintf("descriptor %d lacks %s", fd, missing),
		Value:  fd,
	}
}

// NotPermitted creates an error for a forbidden operation
func NotPermitted(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotPermitted,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Consumed creates an error for use of an accumulator after it was finalized
func Consumed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConsumed,
		Detail: fmt.Sprintf("%s already consumed", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
