package adapter

import (
	"context"
	stderrors "errors"
	"math"
	"os"
	"syscall"
	"time"

	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// File adapts one host file handle to wasi.File. It owns the handle
// exclusively; Close releases it.
type File struct {
	f *os.File
}

var _ wasi.File = (*File)(nil)

// NewFile takes ownership of f.
func NewFile(f *os.File) *File {
	return &File{f: f}
}

// Name returns the host name the handle was opened with.
func (a *File) Name() string { return a.f.Name() }

// OSFile returns the owned handle. The File keeps ownership.
func (a *File) OSFile() *os.File { return a.f }

func (a *File) FileType(context.Context) (wasi.FileType, error) {
	info, err := a.f.Stat()
	if err != nil {
		return wasi.FileTypeUnknown, errors.IoPath(errors.PhaseStat, a.f.Name(), err)
	}
	return fileTypeFromMode(info.Mode()), nil
}

func (a *File) Filestat(context.Context) (wasi.Filestat, error) {
	info, err := a.f.Stat()
	if err != nil {
		return wasi.Filestat{}, errors.IoPath(errors.PhaseStat, a.f.Name(), err)
	}
	return filestatFromInfo(sys.NewStat_t(info)), nil
}

func (a *File) FdFlags(context.Context) (wasi.FdFlags, error) {
	return getFdFlags(a.f)
}

func (a *File) SetFdFlags(_ context.Context, flags wasi.FdFlags) error {
	return setFdFlags(a.f, flags)
}

func (a *File) ReadVectored(_ context.Context, bufs [][]byte) (uint64, error) {
	n, err := hostfs.ReadVectored(a.f, bufs)
	if err != nil {
		return 0, errors.IoPath(errors.PhaseRead, a.f.Name(), err)
	}
	return checkedCount(errors.PhaseRead, n)
}

func (a *File) ReadVectoredAt(_ context.Context, bufs [][]byte, offset uint64) (uint64, error) {
	off, err := checkedOffset(errors.PhaseRead, offset)
	if err != nil {
		return 0, err
	}
	n, err := hostfs.ReadVectoredAt(a.f, bufs, off)
	if err != nil {
		return 0, errors.IoPath(errors.PhaseRead, a.f.Name(), err)
	}
	return checkedCount(errors.PhaseRead, n)
}

func (a *File) WriteVectored(_ context.Context, bufs [][]byte) (uint64, error) {
	n, err := hostfs.WriteVectored(a.f, bufs)
	if err != nil {
		return 0, errors.IoPath(errors.PhaseWrite, a.f.Name(), err)
	}
	return checkedCount(errors.PhaseWrite, n)
}

func (a *File) WriteVectoredAt(_ context.Context, bufs [][]byte, offset uint64) (uint64, error) {
	off, err := checkedOffset(errors.PhaseWrite, offset)
	if err != nil {
		return 0, err
	}
	n, err := hostfs.WriteVectoredAt(a.f, bufs, off)
	if err != nil {
		return 0, errors.IoPath(errors.PhaseWrite, a.f.Name(), err)
	}
	return checkedCount(errors.PhaseWrite, n)
}

func (a *File) Seek(_ context.Context, offset int64, whence int) (uint64, error) {
	pos, err := a.f.Seek(offset, whence)
	if err != nil {
		return 0, errors.IoPath(errors.PhaseSeek, a.f.Name(), err)
	}
	if pos < 0 {
		return 0, errors.Overflow(errors.PhaseSeek, pos, "uint64")
	}
	return uint64(pos), nil
}

// Advise forwards an access pattern hint. Hosts without fadvise accept and
// ignore it.
func (a *File) Advise(_ context.Context, offset, length uint64, advice wasi.Advice) error {
	if !advice.Valid() {
		return errors.InvalidInput(errors.PhaseStat, "unknown advice %d", advice)
	}
	off, err := checkedOffset(errors.PhaseStat, offset)
	if err != nil {
		return err
	}
	n, err := checkedOffset(errors.PhaseStat, length)
	if err != nil {
		return err
	}
	if err := hostfs.Advise(a.f, off, n, hostfs.Advice(advice)); err != nil {
		return errors.IoPath(errors.PhaseStat, a.f.Name(), err)
	}
	return nil
}

// SetSize truncates or zero-extends the file. The file position is left
// alone.
func (a *File) SetSize(_ context.Context, size uint64) error {
	n, err := checkedOffset(errors.PhaseWrite, size)
	if err != nil {
		return err
	}
	if err := hostfs.Truncate(a.f, n); err != nil {
		return errors.IoPath(errors.PhaseWrite, a.f.Name(), err)
	}
	return nil
}

func (a *File) SetTimes(_ context.Context, atim, mtim *time.Time) error {
	if err := hostfs.SetTimes(a.f, atim, mtim); err != nil {
		return errors.IoPath(errors.PhaseStat, a.f.Name(), err)
	}
	return nil
}

// Datasync blocks until file data reaches durable storage.
func (a *File) Datasync(context.Context) error {
	if err := hostfs.Datasync(a.f); err != nil {
		return errors.IoPath(errors.PhaseSync, a.f.Name(), err)
	}
	return nil
}

// Sync blocks until file data and metadata reach durable storage.
func (a *File) Sync(context.Context) error {
	if err := a.f.Sync(); err != nil {
		return errors.IoPath(errors.PhaseSync, a.f.Name(), err)
	}
	return nil
}

func (a *File) Pollable() (syscall.RawConn, bool) {
	return pollable(a.f)
}

func (a *File) Close() error {
	Logger().Debug("close file", zap.String("name", a.f.Name()))
	if err := a.f.Close(); err != nil {
		return errors.IoPath(errors.PhaseOpen, a.f.Name(), err)
	}
	return nil
}

// checkedCount converts a host byte count to the guest's 64-bit result.
func checkedCount(phase errors.Phase, n int) (uint64, error) {
	if n < 0 {
		return 0, errors.Overflow(phase, n, "uint64")
	}
	return uint64(n), nil
}

// checkedOffset converts a guest offset to the host's signed offset.
func checkedOffset(phase errors.Phase, offset uint64) (int64, error) {
	if offset > math.MaxInt64 {
		return 0, errors.Overflow(phase, offset, "int64")
	}
	return int64(offset), nil
}

func pollable(c syscall.Conn) (syscall.RawConn, bool) {
	if !hostfs.PollSupported {
		return nil, false
	}
	rc, err := c.SyscallConn()
	if err != nil {
		return nil, false
	}
	return rc, true
}

func getFdFlags(c syscall.Conn) (wasi.FdFlags, error) {
	flags, err := hostfs.GetFdFlags(c)
	if err != nil {
		if stderrors.Is(err, hostfs.ErrUnsupported) {
			return 0, errors.NotSupported(errors.PhaseFlags, "descriptor flags")
		}
		return 0, errors.Io(errors.PhaseFlags, err)
	}
	return FdFlagsFromHost(flags), nil
}

// setFdFlags only changes APPEND and NONBLOCK; the synchronized I/O flags
// cannot be changed on an open descriptor.
func setFdFlags(c syscall.Conn, flags wasi.FdFlags) error {
	if flags.Intersects(wasi.FdFlagsSyncFamily) {
		return errors.NotSupported(errors.PhaseFlags, "SYNC family of fdflags")
	}
	if err := hostfs.SetFdFlags(c, FdFlagsToHost(flags)); err != nil {
		if stderrors.Is(err, hostfs.ErrUnsupported) {
			return errors.NotSupported(errors.PhaseFlags, "descriptor flags")
		}
		return errors.Io(errors.PhaseFlags, err)
	}
	return nil
}

func filestatFromInfo(st sys.Stat_t) wasi.Filestat {
	var size uint64
	if st.Size > 0 {
		size = uint64(st.Size)
	}
	return wasi.Filestat{
		Atim:     time.Unix(0, st.Atim),
		Mtim:     time.Unix(0, st.Mtim),
		Ctim:     time.Unix(0, st.Ctim),
		Device:   st.Dev,
		Inode:    uint64(st.Ino),
		Nlink:    st.Nlink,
		Size:     size,
		FileType: fileTypeFromMode(st.Mode),
	}
}
