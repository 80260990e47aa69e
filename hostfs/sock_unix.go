//go:build linux || darwin

package hostfs

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// PollSupported reports whether descriptors can be polled natively.
const PollSupported = true

// IsDatagram reports whether conn is a datagram socket, using SO_TYPE.
func IsDatagram(conn syscall.Conn) (bool, error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return false, err
	}
	var typ int
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		typ, opErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_TYPE)
	}); err != nil {
		return false, err
	}
	if opErr != nil {
		return false, opErr
	}
	return typ == unix.SOCK_DGRAM, nil
}
