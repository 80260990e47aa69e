package hostfs

import (
	"io/fs"
	"os"
	"syscall"
)

// DefaultPerm is the permission requested for created files and directories,
// before the process umask.
const (
	DefaultPerm    fs.FileMode = 0o666
	DefaultDirPerm fs.FileMode = 0o777
)

// Dir is a directory handle that only resolves paths beneath itself.
type Dir struct {
	root *os.Root
}

// OpenDir opens the host directory at path as a capability root.
func OpenDir(path string) (*Dir, error) {
	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

// FromRoot wraps an already opened root. The Dir takes ownership.
func FromRoot(root *os.Root) *Dir {
	return &Dir{root: root}
}

// Name returns the host path the root was opened with.
func (d *Dir) Name() string { return d.root.Name() }

// OpenFile opens path beneath d. Without FollowSymlinks a symlink in the final
// component fails with ELOOP.
func (d *Dir) OpenFile(path string, opts OpenOptions) (*os.File, error) {
	if !opts.FollowSymlinks {
		if err := d.refuseSymlink("open", path); err != nil {
			return nil, err
		}
	}
	return d.root.OpenFile(path, opts.Flag(), DefaultPerm)
}

// OpenDir opens the subdirectory at path as a new independent Dir.
func (d *Dir) OpenDir(path string, followSymlinks bool) (*Dir, error) {
	if !followSymlinks {
		if err := d.refuseSymlink("openat", path); err != nil {
			return nil, err
		}
	}
	root, err := d.root.OpenRoot(path)
	if err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

func (d *Dir) refuseSymlink(op, path string) error {
	info, err := d.root.Lstat(path)
	if err != nil {
		// Missing targets are left to the open itself, which may create them.
		return nil
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return &os.PathError{Op: op, Path: path, Err: syscall.ELOOP}
	}
	return nil
}

// Mkdir creates the directory path beneath d.
func (d *Dir) Mkdir(path string) error {
	return d.root.Mkdir(path, DefaultDirPerm)
}

// Remove removes the file or empty directory at path.
func (d *Dir) Remove(path string) error {
	return d.root.Remove(path)
}

// Rename renames from to to, both beneath d.
func (d *Dir) Rename(from, to string) error {
	return d.root.Rename(from, to)
}

// Readlink returns the target of the symlink at path.
func (d *Dir) Readlink(path string) (string, error) {
	return d.root.Readlink(path)
}

// Stat follows a symlink in the final component.
func (d *Dir) Stat(path string) (fs.FileInfo, error) {
	return d.root.Stat(path)
}

// Lstat does not follow a symlink in the final component.
func (d *Dir) Lstat(path string) (fs.FileInfo, error) {
	return d.root.Lstat(path)
}

// ReadDir lists the entries of d itself, sorted by name.
func (d *Dir) ReadDir() ([]fs.DirEntry, error) {
	f, err := d.root.Open(".")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

// Close releases the root handle.
func (d *Dir) Close() error {
	return d.root.Close()
}
