// Package hostfs is the capability-scoped host primitive the adapters sit on.
//
// A Dir wraps an os.Root: every path handed to it is resolved relative to the
// root and the host refuses any path that would escape it, including through
// ".." components and symbolic links. OpenOptions and FdFlags are host-side
// vocabularies that are never visible to a guest.
//
// Descriptor flags and vectored I/O go through golang.org/x/sys/unix on Linux
// and Darwin; other platforms fall back to portable os.File calls.
package hostfs
