//go:build linux || darwin

package hostfs

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// fcntlGetfl runs inside RawConn.Control; f.Fd() would force the descriptor
// back into blocking mode.
func fcntlGetfl(c syscall.Conn) (int, error) {
	rc, err := c.SyscallConn()
	if err != nil {
		return 0, err
	}
	var o int
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		o, opErr = unix.FcntlInt(fd, unix.F_GETFL, 0)
	}); err != nil {
		return 0, err
	}
	return o, opErr
}

func fcntlSetfl(c syscall.Conn, flags FdFlags) error {
	rc, err := c.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		var o int
		if o, opErr = unix.FcntlInt(fd, unix.F_GETFL, 0); opErr != nil {
			return
		}
		o &^= unix.O_APPEND | unix.O_NONBLOCK
		if flags.Has(FdAppend) {
			o |= unix.O_APPEND
		}
		if flags.Has(FdNonblock) {
			o |= unix.O_NONBLOCK
		}
		_, opErr = unix.FcntlInt(fd, unix.F_SETFL, o)
	}); err != nil {
		return err
	}
	return opErr
}
