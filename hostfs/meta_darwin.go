package hostfs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Advise accepts every hint and applies none; darwin has no fadvise.
func Advise(_ *os.File, _, _ int64, advice Advice) error {
	if advice > AdviceNoReuse {
		return unix.EINVAL
	}
	return nil
}

// SetTimes sets access and modification times with microsecond precision. A
// nil time leaves that timestamp unchanged.
func SetTimes(f *os.File, atim, mtim *time.Time) error {
	if atim == nil && mtim == nil {
		return nil
	}
	return control(f, func(fd int) error {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil {
			return err
		}
		a := timeOrKeep(atim, time.Unix(st.Atim.Unix()))
		m := timeOrKeep(mtim, time.Unix(st.Mtim.Unix()))
		return unix.Futimes(fd, []unix.Timeval{
			unix.NsecToTimeval(a.UnixNano()),
			unix.NsecToTimeval(m.UnixNano()),
		})
	})
}
