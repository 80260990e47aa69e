package wasi

import "strings"

// OFlags are the open flags a guest passes to path_open.
type OFlags uint16

const (
	OFlagsCreate OFlags = 1 << iota
	OFlagsDirectory
	OFlagsExclusive
	OFlagsTruncate
)

// Has reports whether every bit of o is set.
func (f OFlags) Has(o OFlags) bool { return f&o == o }

func (f OFlags) String() string {
	return flagString(uint64(f), []string{"CREATE", "DIRECTORY", "EXCLUSIVE", "TRUNCATE"})
}

// FdFlags are descriptor flags, supplied at open time or queried afterwards.
type FdFlags uint16

const (
	FdFlagsAppend FdFlags = 1 << iota
	FdFlagsDsync
	FdFlagsNonblock
	FdFlagsRsync
	FdFlagsSync
)

// FdFlagsSyncFamily is the set of synchronized-I/O flags.
const FdFlagsSyncFamily = FdFlagsDsync | FdFlagsRsync | FdFlagsSync

// Has reports whether every bit of o is set.
func (f FdFlags) Has(o FdFlags) bool { return f&o == o }

// Intersects reports whether any bit of o is set.
func (f FdFlags) Intersects(o FdFlags) bool { return f&o != 0 }

func (f FdFlags) String() string {
	return flagString(uint64(f), []string{"APPEND", "DSYNC", "NONBLOCK", "RSYNC", "SYNC"})
}

func flagString(v uint64, names []string) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, name)
			v &^= 1 << i
		}
	}
	if v != 0 {
		parts = append(parts, "?")
	}
	return strings.Join(parts, "|")
}
