package adapter

import (
	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// ToOpenOptions translates a guest open request into host open options.
//
// Read is forced on when write is not requested so the host open succeeds
// for descriptors without write rights; rights are enforced by the
// descriptor table, not here. NONBLOCK is not an open option and is left to
// the caller to apply after the open. Any flag of the synchronized I/O family
// fails with KindNotSupported since the host has no such open mode.
func ToOpenOptions(oflags wasi.OFlags, fdflags wasi.FdFlags, read, write, followSymlinks bool) (hostfs.OpenOptions, error) {
	var opts hostfs.OpenOptions

	switch {
	case oflags.Has(wasi.OFlagsCreate | wasi.OFlagsExclusive):
		opts.CreateNew = true
		opts.Write = true
	case oflags.Has(wasi.OFlagsCreate):
		opts.Create = true
		opts.Write = true
	}
	if oflags.Has(wasi.OFlagsTruncate) {
		opts.Truncate = true
	}
	if read {
		opts.Read = true
	}
	if write {
		opts.Write = true
	} else {
		opts.Read = true
	}
	if fdflags.Has(wasi.FdFlagsAppend) {
		opts.Append = true
	}
	opts.FollowSymlinks = followSymlinks

	if fdflags.Intersects(wasi.FdFlagsSyncFamily) {
		return hostfs.OpenOptions{}, errors.NotSupported(errors.PhaseOpen, "SYNC family of fdflags")
	}
	return opts, nil
}

var fdFlagTable = [...]struct {
	guest wasi.FdFlags
	host  hostfs.FdFlags
}{
	{wasi.FdFlagsAppend, hostfs.FdAppend},
	{wasi.FdFlagsDsync, hostfs.FdDsync},
	{wasi.FdFlagsNonblock, hostfs.FdNonblock},
	{wasi.FdFlagsRsync, hostfs.FdRsync},
	{wasi.FdFlagsSync, hostfs.FdSync},
}

// FdFlagsFromHost maps host descriptor flags to guest descriptor flags.
func FdFlagsFromHost(f hostfs.FdFlags) wasi.FdFlags {
	var out wasi.FdFlags
	for _, e := range fdFlagTable {
		if f.Has(e.host) {
			out |= e.guest
		}
	}
	return out
}

// FdFlagsToHost maps guest descriptor flags to host descriptor flags.
func FdFlagsToHost(f wasi.FdFlags) hostfs.FdFlags {
	var out hostfs.FdFlags
	for _, e := range fdFlagTable {
		if f.Has(e.guest) {
			out |= e.host
		}
	}
	return out
}
