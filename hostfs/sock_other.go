//go:build !linux && !darwin

package hostfs

import "syscall"

// PollSupported reports whether descriptors can be polled natively.
const PollSupported = false

// IsDatagram always reports a stream socket on this platform.
func IsDatagram(syscall.Conn) (bool, error) { return false, nil }
