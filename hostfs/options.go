package hostfs

import (
	"os"
	"strings"
)

// OpenOptions is the host primitive's open request.
type OpenOptions struct {
	Read           bool
	Write          bool
	Append         bool
	Truncate       bool
	Create         bool
	CreateNew      bool
	FollowSymlinks bool
}

// Flag returns the os.OpenFile flag for these options. FollowSymlinks has no
// flag equivalent and is enforced by Dir.OpenFile.
func (o OpenOptions) Flag() int {
	var flag int
	switch {
	case o.Read && o.Write:
		flag = os.O_RDWR
	case o.Write:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if o.Append {
		flag |= os.O_APPEND
	}
	if o.Truncate {
		flag |= os.O_TRUNC
	}
	switch {
	case o.CreateNew:
		flag |= os.O_CREATE | os.O_EXCL
	case o.Create:
		flag |= os.O_CREATE
	}
	return flag
}

func (o OpenOptions) String() string {
	var parts []string
	add := func(set bool, name string) {
		if set {
			parts = append(parts, name)
		}
	}
	add(o.Read, "read")
	add(o.Write, "write")
	add(o.Append, "append")
	add(o.Truncate, "truncate")
	add(o.Create, "create")
	add(o.CreateNew, "create_new")
	add(o.FollowSymlinks, "follow")
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ",") + "}"
}
