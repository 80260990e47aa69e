package wasi

import (
	"context"
	"syscall"
	"time"
)

// File is the capability surface of an open, non-directory descriptor.
//
// Every method blocks the calling goroutine until the host call returns.
// The context parameter mirrors the guest's asynchronous interface shape; it
// is not consulted for cancellation, and no method yields or spawns work.
// Callers multiplexing many guests on few goroutines must offload calls
// themselves.
type File interface {
	FileType(ctx context.Context) (FileType, error)
	FdFlags(ctx context.Context) (FdFlags, error)
	SetFdFlags(ctx context.Context, flags FdFlags) error
	Filestat(ctx context.Context) (Filestat, error)

	ReadVectored(ctx context.Context, bufs [][]byte) (uint64, error)
	ReadVectoredAt(ctx context.Context, bufs [][]byte, offset uint64) (uint64, error)
	WriteVectored(ctx context.Context, bufs [][]byte) (uint64, error)
	WriteVectoredAt(ctx context.Context, bufs [][]byte, offset uint64) (uint64, error)
	// Seek uses io.Seeker whence values.
	Seek(ctx context.Context, offset int64, whence int) (uint64, error)

	// Advise hints the access pattern for [offset, offset+length). A zero
	// length covers the rest of the file.
	Advise(ctx context.Context, offset, length uint64, advice Advice) error
	// SetSize truncates or zero-extends the file.
	SetSize(ctx context.Context, size uint64) error
	// SetTimes updates access and modification times. A nil time is left
	// unchanged.
	SetTimes(ctx context.Context, atim, mtim *time.Time) error

	Datasync(ctx context.Context) error
	Sync(ctx context.Context) error

	// Pollable returns a handle usable for native readiness polling. The
	// second result is false on platforms without such polling. The
	// runtime bridge waits on it before blocking reads of the standard
	// streams; embedders driving their own poll_oneoff use it with
	// sched.Scheduler.
	Pollable() (syscall.RawConn, bool)

	Close() error
}

// Dirent is one entry returned by Dir.Readdir.
type Dirent struct {
	Name     string
	Inode    uint64
	FileType FileType
}

// Dir is the capability surface of an open directory descriptor. Paths are
// always relative to the directory and never resolve outside of it.
type Dir interface {
	OpenFile(ctx context.Context, followSymlinks bool, path string, oflags OFlags, read, write bool, fdflags FdFlags) (File, error)
	OpenDir(ctx context.Context, followSymlinks bool, path string) (Dir, error)

	CreateDir(ctx context.Context, path string) error
	RemoveDir(ctx context.Context, path string) error
	UnlinkFile(ctx context.Context, path string) error
	Rename(ctx context.Context, from, to string) error
	Readlink(ctx context.Context, path string) (string, error)

	Stat(ctx context.Context) (Filestat, error)
	StatAt(ctx context.Context, followSymlinks bool, path string) (Filestat, error)
	Readdir(ctx context.Context) ([]Dirent, error)

	Close() error
}
