package adapter

import (
	"context"
	"io/fs"
	"os"
	"syscall"

	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// HostDir is the capability-scoped directory primitive a Dir delegates to.
// It must refuse any path resolving outside of itself. *hostfs.Dir is the
// production implementation.
type HostDir interface {
	Name() string
	OpenFile(path string, opts hostfs.OpenOptions) (*os.File, error)
	OpenDir(path string, followSymlinks bool) (*hostfs.Dir, error)
	Mkdir(path string) error
	Remove(path string) error
	Rename(from, to string) error
	Readlink(path string) (string, error)
	Stat(path string) (fs.FileInfo, error)
	Lstat(path string) (fs.FileInfo, error)
	ReadDir() ([]fs.DirEntry, error)
	Close() error
}

var _ HostDir = (*hostfs.Dir)(nil)

// Dir adapts one host directory to wasi.Dir. It owns the directory
// exclusively; files opened through it are independent of it.
type Dir struct {
	host HostDir
}

var _ wasi.Dir = (*Dir)(nil)

// NewDir takes ownership of host.
func NewDir(host HostDir) *Dir {
	return &Dir{host: host}
}

// Name returns the host name of the directory.
func (d *Dir) Name() string { return d.host.Name() }

// Open opens path relative to d and returns the concrete adapter.
//
// The synchronized I/O flags are refused before the host is touched. Path
// containment is left entirely to the host primitive. NONBLOCK has no open
// option and is applied to the new handle afterwards; if that fails the
// handle is closed.
func (d *Dir) Open(followSymlinks bool, path string, oflags wasi.OFlags, read, write bool, fdflags wasi.FdFlags) (*File, error) {
	if fdflags.Intersects(wasi.FdFlagsSyncFamily) {
		return nil, errors.New(errors.PhaseOpen, errors.KindNotSupported).
			Path(path).
			Detail("SYNC family of fdflags").
			Build()
	}
	opts, err := ToOpenOptions(oflags, fdflags, read, write, followSymlinks)
	if err != nil {
		return nil, err
	}

	f, err := d.host.OpenFile(path, opts)
	if err != nil {
		return nil, errors.IoPath(errors.PhaseOpen, path, err)
	}

	if fdflags.Has(wasi.FdFlagsNonblock) {
		if err := setFdFlags(f, fdflags&(wasi.FdFlagsAppend|wasi.FdFlagsNonblock)); err != nil {
			f.Close()
			return nil, err
		}
	}

	Logger().Debug("open file",
		zap.String("dir", d.host.Name()),
		zap.String("path", path),
		zap.Stringer("oflags", oflags),
		zap.Stringer("fdflags", fdflags),
		zap.Stringer("options", opts))
	return NewFile(f), nil
}

func (d *Dir) OpenFile(_ context.Context, followSymlinks bool, path string, oflags wasi.OFlags, read, write bool, fdflags wasi.FdFlags) (wasi.File, error) {
	f, err := d.Open(followSymlinks, path, oflags, read, write, fdflags)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (d *Dir) OpenDir(_ context.Context, followSymlinks bool, path string) (wasi.Dir, error) {
	sub, err := d.host.OpenDir(path, followSymlinks)
	if err != nil {
		return nil, errors.IoPath(errors.PhaseOpen, path, err)
	}
	return NewDir(sub), nil
}

func (d *Dir) CreateDir(_ context.Context, path string) error {
	if err := d.host.Mkdir(path); err != nil {
		return errors.IoPath(errors.PhasePath, path, err)
	}
	return nil
}

// RemoveDir removes the empty directory at path. A non-directory fails with
// ENOTDIR.
func (d *Dir) RemoveDir(_ context.Context, path string) error {
	info, err := d.host.Lstat(path)
	if err != nil {
		return errors.IoPath(errors.PhasePath, path, err)
	}
	if !info.IsDir() {
		return errors.IoPath(errors.PhasePath, path, &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTDIR})
	}
	if err := d.host.Remove(path); err != nil {
		return errors.IoPath(errors.PhasePath, path, err)
	}
	return nil
}

// UnlinkFile removes the non-directory at path. A directory fails with
// EISDIR.
func (d *Dir) UnlinkFile(_ context.Context, path string) error {
	info, err := d.host.Lstat(path)
	if err != nil {
		return errors.IoPath(errors.PhasePath, path, err)
	}
	if info.IsDir() {
		return errors.IoPath(errors.PhasePath, path, &os.PathError{Op: "unlink", Path: path, Err: syscall.EISDIR})
	}
	if err := d.host.Remove(path); err != nil {
		return errors.IoPath(errors.PhasePath, path, err)
	}
	return nil
}

func (d *Dir) Rename(_ context.Context, from, to string) error {
	if err := d.host.Rename(from, to); err != nil {
		return errors.IoPath(errors.PhasePath, from, err)
	}
	return nil
}

func (d *Dir) Readlink(_ context.Context, path string) (string, error) {
	target, err := d.host.Readlink(path)
	if err != nil {
		return "", errors.IoPath(errors.PhasePath, path, err)
	}
	return target, nil
}

func (d *Dir) Stat(ctx context.Context) (wasi.Filestat, error) {
	return d.StatAt(ctx, true, ".")
}

func (d *Dir) StatAt(_ context.Context, followSymlinks bool, path string) (wasi.Filestat, error) {
	stat := d.host.Lstat
	if followSymlinks {
		stat = d.host.Stat
	}
	info, err := stat(path)
	if err != nil {
		return wasi.Filestat{}, errors.IoPath(errors.PhaseStat, path, err)
	}
	return filestatFromInfo(sys.NewStat_t(info)), nil
}

// Readdir lists d sorted by name. Entries removed while listing are reported
// with a zero inode.
func (d *Dir) Readdir(context.Context) ([]wasi.Dirent, error) {
	entries, err := d.host.ReadDir()
	if err != nil {
		return nil, errors.IoPath(errors.PhaseRead, d.host.Name(), err)
	}
	out := make([]wasi.Dirent, 0, len(entries))
	for _, e := range entries {
		dirent := wasi.Dirent{Name: e.Name(), FileType: fileTypeFromMode(e.Type())}
		if info, err := e.Info(); err == nil {
			dirent.Inode = uint64(sys.NewStat_t(info).Ino)
		}
		out = append(out, dirent)
	}
	return out, nil
}

func (d *Dir) Close() error {
	if err := d.host.Close(); err != nil {
		return errors.IoPath(errors.PhaseOpen, d.host.Name(), err)
	}
	return nil
}
