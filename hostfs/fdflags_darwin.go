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
	{FdSync, unix.O_SYNC},
}

// GetFdFlags reads the descriptor status flags of c. Darwin has no O_RSYNC,
// so FdRsync is never reported.
func GetFdFlags(c syscall.Conn) (FdFlags, error) {
	o, err := fcntlGetfl(c)
	if err != nil {
		return 0, err
	}
	var out FdFlags
	for _, pf := range platformFlags {
		if o&pf.o == pf.o {
			out |= pf.host
		}
	}
	return out, nil
}

// SetFdFlags replaces the settable status flags of c with flags.
func SetFdFlags(c syscall.Conn, flags FdFlags) error {
	return fcntlSetfl(c, flags)
}
