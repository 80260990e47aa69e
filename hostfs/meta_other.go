//go:build !linux && !darwin

package hostfs

import (
	"os"
	"time"
)

// Advise accepts every hint and applies none.
func Advise(_ *os.File, _, _ int64, advice Advice) error {
	if advice > AdviceNoReuse {
		return ErrUnsupported
	}
	return nil
}

// SetTimes falls back to the file name, so it only works for handles opened
// with a host path.
func SetTimes(f *os.File, atim, mtim *time.Time) error {
	if atim == nil && mtim == nil {
		return nil
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}
	cur := info.ModTime()
	return os.Chtimes(f.Name(), timeOrKeep(atim, cur), timeOrKeep(mtim, cur))
}
