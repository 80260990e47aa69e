package hostfs

import (
	"os"

	"golang.org/x/sys/unix"
)

// iovMax is the Linux per-call iovec limit (IOV_MAX). Longer lists are cut
// to it, which surfaces to the caller as a short transfer.
const iovMax = 1024

// ReadVectored reads into bufs in a single readv call. End of file is a zero
// count with a nil error.
func ReadVectored(f *os.File, bufs [][]byte) (int, error) {
	bufs = clampIovecs(bufs)
	return vectored(f, func(fd int) (int, error) { return unix.Readv(fd, bufs) })
}

// ReadVectoredAt is ReadVectored at offset, leaving the file position alone.
func ReadVectoredAt(f *os.File, bufs [][]byte, offset int64) (int, error) {
	bufs = clampIovecs(bufs)
	return vectored(f, func(fd int) (int, error) { return unix.Preadv(fd, bufs, offset) })
}

// WriteVectored writes bufs in a single writev call.
func WriteVectored(f *os.File, bufs [][]byte) (int, error) {
	bufs = clampIovecs(bufs)
	return vectored(f, func(fd int) (int, error) { return unix.Writev(fd, bufs) })
}

// WriteVectoredAt is WriteVectored at offset. With O_APPEND the host appends
// regardless of offset.
func WriteVectoredAt(f *os.File, bufs [][]byte, offset int64) (int, error) {
	bufs = clampIovecs(bufs)
	return vectored(f, func(fd int) (int, error) { return unix.Pwritev(fd, bufs, offset) })
}

// Datasync flushes file data without forcing a metadata flush.
func Datasync(f *os.File) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		opErr = unix.Fdatasync(int(fd))
	}); err != nil {
		return err
	}
	return opErr
}

func clampIovecs(bufs [][]byte) [][]byte {
	if len(bufs) > iovMax {
		return bufs[:iovMax]
	}
	return bufs
}

func vectored(f *os.File, op func(fd int) (int, error)) (int, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var n int
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		n, opErr = op(int(fd))
	}); err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	return n, opErr
}
