// Package adapter implements the guest file and directory capability
// surfaces of package wasi on top of the host primitive in package hostfs.
//
// The package has four parts:
//
//   - a flag translator between wasi.OFlags/wasi.FdFlags and the host's
//     hostfs.OpenOptions/hostfs.FdFlags,
//   - a file type classifier over hostfs.TypePredicates,
//   - File, Socket and Stdio, each owning exactly one host handle,
//   - Dir, owning exactly one capability-scoped host directory.
//
// Every operation runs synchronously on the calling goroutine. Host errors
// are returned wrapped as errors.KindIo with the host error as the cause, and
// nothing is retried, buffered or cached.
package adapter
