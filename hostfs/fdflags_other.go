//go:build !linux && !darwin

package hostfs

import "syscall"

// GetFdFlags is unsupported on this platform.
func GetFdFlags(syscall.Conn) (FdFlags, error) { return 0, ErrUnsupported }

// SetFdFlags is unsupported on this platform.
func SetFdFlags(syscall.Conn, FdFlags) error { return ErrUnsupported }
