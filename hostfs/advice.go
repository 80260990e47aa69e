package hostfs

import (
	"os"
	"syscall"
	"time"
)

// Advice is an access pattern hint for a byte range.
type Advice uint8

const (
	AdviceNormal Advice = iota
	AdviceSequential
	AdviceRandom
	AdviceWillNeed
	AdviceDontNeed
	AdviceNoReuse
)

// Truncate sets the file size, zero filling on growth.
func Truncate(f *os.File, size int64) error {
	return f.Truncate(size)
}

func control(c syscall.Conn, op func(fd int) error) error {
	rc, err := c.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		opErr = op(int(fd))
	}); err != nil {
		return err
	}
	return opErr
}

// timeOrKeep picks t when set, else the current value.
func timeOrKeep(t *time.Time, current time.Time) time.Time {
	if t != nil {
		return *t
	}
	return current
}
