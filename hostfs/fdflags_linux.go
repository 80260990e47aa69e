package hostfs

import (
	"syscall"

	"golang.org/x/sys/unix"
)

var platformFlags = [...]struct {
	host FdFlags
	o    int
}{
	{FdAppend, unix.O_APPEND},
	{FdDsync, unix.O_DSYNC},
	{FdNonblock, unix.O_NONBLOCK},
	{FdRsync, unix.O_RSYNC},
	{FdSync, unix.O_SYNC},
}

// GetFdFlags reads the descriptor status flags of c.
func GetFdFlags(c syscall.Conn) (FdFlags, error) {
	o, err := fcntlGetfl(c)
	if err != nil {
		return 0, err
	}
	return decodeFlags(o), nil
}

// SetFdFlags replaces the settable status flags of c with flags. Bits outside
// FdSettable are ignored.
func SetFdFlags(c syscall.Conn, flags FdFlags) error {
	return fcntlSetfl(c, flags)
}

// decodeFlags uses containment checks since O_SYNC carries the O_DSYNC bits
// and O_RSYNC equals O_SYNC.
func decodeFlags(o int) FdFlags {
	var out FdFlags
	for _, pf := range platformFlags {
		if o&pf.o == pf.o {
			out |= pf.host
		}
	}
	return out
}
