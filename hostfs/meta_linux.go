package hostfs

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

var fadvise = [...]int{
	AdviceNormal:     unix.FADV_NORMAL,
	AdviceSequential: unix.FADV_SEQUENTIAL,
	AdviceRandom:     unix.FADV_RANDOM,
	AdviceWillNeed:   unix.FADV_WILLNEED,
	AdviceDontNeed:   unix.FADV_DONTNEED,
	AdviceNoReuse:    unix.FADV_NOREUSE,
}

// Advise passes an access pattern hint for [offset, offset+length) to the
// host. A zero length covers the rest of the file.
func Advise(f *os.File, offset, length int64, advice Advice) error {
	if int(advice) >= len(fadvise) {
		return unix.EINVAL
	}
	return control(f, func(fd int) error {
		return unix.Fadvise(fd, offset, length, fadvise[advice])
	})
}

// SetTimes sets access and modification times with nanosecond precision. A
// nil time leaves that timestamp unchanged.
func SetTimes(f *os.File, atim, mtim *time.Time) error {
	if atim == nil && mtim == nil {
		return nil
	}
	ts := []unix.Timespec{toTimespec(atim), toTimespec(mtim)}
	return control(f, func(fd int) error {
		// utimensat has no empty-path form for a bare descriptor.
		return unix.UtimesNanoAt(unix.AT_FDCWD, "/proc/self/fd/"+strconv.Itoa(fd), ts, 0)
	})
}

func toTimespec(t *time.Time) unix.Timespec {
	if t == nil {
		return unix.Timespec{Nsec: unix.UTIME_OMIT}
	}
	return unix.NsecToTimespec(t.UnixNano())
}
