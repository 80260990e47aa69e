package hostfs

import "errors"

// ErrUnsupported is returned by host operations the platform cannot express.
var ErrUnsupported = errors.ErrUnsupported

// FdFlags are host descriptor flags. Each flag has its own bit, unlike the
// platform O_* values where SYNC may include the DSYNC bits.
type FdFlags uint8

const (
	FdAppend FdFlags = 1 << iota
	FdDsync
	FdNonblock
	FdRsync
	FdSync
)

// FdSettable are the flags SetFdFlags can change on an open descriptor.
const FdSettable = FdAppend | FdNonblock

func (f FdFlags) Has(o FdFlags) bool { return f&o == o }
