//go:build !linux

package hostfs

import (
	"errors"
	"io"
	"os"
)

// ReadVectored fills bufs in order, stopping at the first short read. End of
// file is a zero count with a nil error.
func ReadVectored(f *os.File, bufs [][]byte) (int, error) {
	var total int
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		n, err := f.Read(b)
		total += n
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n < len(b) {
			break
		}
	}
	return total, nil
}

// ReadVectoredAt is ReadVectored at offset, leaving the file position alone.
func ReadVectoredAt(f *os.File, bufs [][]byte, offset int64) (int, error) {
	var total int
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		n, err := f.ReadAt(b, offset+int64(total))
		total += n
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteVectored writes bufs in order.
func WriteVectored(f *os.File, bufs [][]byte) (int, error) {
	var total int
	for _, b := range bufs {
		n, err := f.Write(b)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteVectoredAt writes bufs contiguously starting at offset.
func WriteVectoredAt(f *os.File, bufs [][]byte, offset int64) (int, error) {
	var total int
	for _, b := range bufs {
		n, err := f.WriteAt(b, offset+int64(total))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Datasync falls back to a full sync.
func Datasync(f *os.File) error {
	return f.Sync()
}
