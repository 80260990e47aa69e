package runtime

import (
	"context"
	"io"
	"io/fs"
	"path"
	"time"

	experimentalsys "github.com/tetratelabs/wazero/experimental/sys"
	"github.com/tetratelabs/wazero/sys"

	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// guestFS exposes a preopened directory to wazero. Opens are decoded back
// into guest flags and routed through the directory adapter, so the flag
// translation rules and the host containment apply to guest calls too.
type guestFS struct {
	experimentalsys.UnimplementedFS
	ctx  context.Context
	root wasi.Dir
}

func newGuestFS(ctx context.Context, root wasi.Dir) *guestFS {
	return &guestFS{ctx: ctx, root: root}
}

// OpenFile ignores perm; new files get hostfs.DefaultPerm.
func (g *guestFS) OpenFile(p string, flag experimentalsys.Oflag, _ fs.FileMode) (experimentalsys.File, experimentalsys.Errno) {
	name := cleanPath(p)
	if name == "." {
		if flag&(experimentalsys.O_RDWR|experimentalsys.O_WRONLY) != 0 {
			return nil, experimentalsys.EISDIR
		}
		return &guestDir{ctx: g.ctx, dir: g.root, borrowed: true}, 0
	}

	oflags, fdflags, read, write, follow := decodeOflag(flag)
	wantDir := oflags.Has(wasi.OFlagsDirectory)
	if !wantDir && !oflags.Has(wasi.OFlagsCreate) {
		if st, err := g.root.StatAt(g.ctx, follow, name); err == nil && st.FileType == wasi.FileTypeDirectory {
			if write {
				return nil, experimentalsys.EISDIR
			}
			wantDir = true
		}
	}

	if wantDir {
		d, err := g.root.OpenDir(g.ctx, follow, name)
		if err != nil {
			return nil, toErrno(err)
		}
		return &guestDir{ctx: g.ctx, dir: d}, 0
	}

	f, err := g.root.OpenFile(g.ctx, follow, name, oflags, read, write, fdflags)
	if err != nil {
		return nil, toErrno(err)
	}
	return &guestFile{ctx: g.ctx, f: f}, 0
}

func (g *guestFS) Lstat(p string) (sys.Stat_t, experimentalsys.Errno) {
	return g.stat(p, false)
}

func (g *guestFS) Stat(p string) (sys.Stat_t, experimentalsys.Errno) {
	return g.stat(p, true)
}

func (g *guestFS) stat(p string, follow bool) (sys.Stat_t, experimentalsys.Errno) {
	name := cleanPath(p)
	var (
		st  wasi.Filestat
		err error
	)
	if name == "." {
		st, err = g.root.Stat(g.ctx)
	} else {
		st, err = g.root.StatAt(g.ctx, follow, name)
	}
	if err != nil {
		return sys.Stat_t{}, toErrno(err)
	}
	return toStat(st), 0
}

func (g *guestFS) Mkdir(p string, _ fs.FileMode) experimentalsys.Errno {
	return toErrno(g.root.CreateDir(g.ctx, cleanPath(p)))
}

func (g *guestFS) Rmdir(p string) experimentalsys.Errno {
	return toErrno(g.root.RemoveDir(g.ctx, cleanPath(p)))
}

func (g *guestFS) Unlink(p string) experimentalsys.Errno {
	return toErrno(g.root.UnlinkFile(g.ctx, cleanPath(p)))
}

func (g *guestFS) Rename(from, to string) experimentalsys.Errno {
	return toErrno(g.root.Rename(g.ctx, cleanPath(from), cleanPath(to)))
}

func (g *guestFS) Readlink(p string) (string, experimentalsys.Errno) {
	dst, err := g.root.Readlink(g.ctx, cleanPath(p))
	if err != nil {
		return "", toErrno(err)
	}
	return dst, 0
}

// decodeOflag splits a wazero open flag into the guest vocabulary.
func decodeOflag(flag experimentalsys.Oflag) (oflags wasi.OFlags, fdflags wasi.FdFlags, read, write, follow bool) {
	read = flag&experimentalsys.O_WRONLY == 0
	write = flag&(experimentalsys.O_RDWR|experimentalsys.O_WRONLY) != 0
	follow = flag&experimentalsys.O_NOFOLLOW == 0

	if flag&experimentalsys.O_CREAT != 0 {
		oflags |= wasi.OFlagsCreate
	}
	if flag&experimentalsys.O_DIRECTORY != 0 {
		oflags |= wasi.OFlagsDirectory
	}
	if flag&experimentalsys.O_EXCL != 0 {
		oflags |= wasi.OFlagsExclusive
	}
	if flag&experimentalsys.O_TRUNC != 0 {
		oflags |= wasi.OFlagsTruncate
	}

	if flag&experimentalsys.O_APPEND != 0 {
		fdflags |= wasi.FdFlagsAppend
	}
	if flag&experimentalsys.O_DSYNC != 0 {
		fdflags |= wasi.FdFlagsDsync
	}
	if flag&experimentalsys.O_NONBLOCK != 0 {
		fdflags |= wasi.FdFlagsNonblock
	}
	if flag&experimentalsys.O_RSYNC != 0 {
		fdflags |= wasi.FdFlagsRsync
	}
	if flag&experimentalsys.O_SYNC != 0 {
		fdflags |= wasi.FdFlagsSync
	}
	return
}

func cleanPath(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

func toStat(st wasi.Filestat) sys.Stat_t {
	return sys.Stat_t{
		Dev:   st.Device,
		Ino:   sys.Inode(st.Inode),
		Mode:  fileMode(st.FileType),
		Nlink: st.Nlink,
		Size:  int64(st.Size),
		Atim:  epochNano(st.Atim),
		Mtim:  epochNano(st.Mtim),
		Ctim:  epochNano(st.Ctim),
	}
}

func epochNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// fileMode carries only the type bits the guest ABI can observe plus a
// nominal permission.
func fileMode(t wasi.FileType) fs.FileMode {
	switch t {
	case wasi.FileTypeDirectory:
		return fs.ModeDir | 0o755
	case wasi.FileTypeSymbolicLink:
		return fs.ModeSymlink | 0o777
	case wasi.FileTypeCharacterDevice:
		return fs.ModeDevice | fs.ModeCharDevice | 0o666
	case wasi.FileTypeBlockDevice:
		return fs.ModeDevice | 0o666
	case wasi.FileTypeSocketDgram, wasi.FileTypeSocketStream:
		return fs.ModeSocket | 0o666
	case wasi.FileTypeRegularFile:
		return 0o644
	}
	return fs.ModeIrregular
}

// guestFile bridges an adapter file to wazero.
type guestFile struct {
	experimentalsys.UnimplementedFile
	ctx context.Context
	f   wasi.File
}

func (g *guestFile) Dev() (uint64, experimentalsys.Errno) {
	st, errno := g.Stat()
	return st.Dev, errno
}

func (g *guestFile) Ino() (sys.Inode, experimentalsys.Errno) {
	st, errno := g.Stat()
	return st.Ino, errno
}

func (g *guestFile) IsDir() (bool, experimentalsys.Errno) { return false, 0 }

func (g *guestFile) IsAppend() bool {
	flags, err := g.f.FdFlags(g.ctx)
	return err == nil && flags&wasi.FdFlagsAppend != 0
}

func (g *guestFile) SetAppend(enable bool) experimentalsys.Errno {
	flags, err := g.f.FdFlags(g.ctx)
	if err != nil {
		return toErrno(err)
	}
	if enable {
		flags |= wasi.FdFlagsAppend
	} else {
		flags &^= wasi.FdFlagsAppend
	}
	return toErrno(g.f.SetFdFlags(g.ctx, flags))
}

func (g *guestFile) Stat() (sys.Stat_t, experimentalsys.Errno) {
	st, err := g.f.Filestat(g.ctx)
	if err != nil {
		return sys.Stat_t{}, toErrno(err)
	}
	return toStat(st), 0
}

func (g *guestFile) Read(buf []byte) (int, experimentalsys.Errno) {
	n, err := g.f.ReadVectored(g.ctx, [][]byte{buf})
	return int(n), toErrno(err)
}

func (g *guestFile) Pread(buf []byte, off int64) (int, experimentalsys.Errno) {
	if off < 0 {
		return 0, experimentalsys.EINVAL
	}
	n, err := g.f.ReadVectoredAt(g.ctx, [][]byte{buf}, uint64(off))
	return int(n), toErrno(err)
}

func (g *guestFile) Write(buf []byte) (int, experimentalsys.Errno) {
	n, err := g.f.WriteVectored(g.ctx, [][]byte{buf})
	return int(n), toErrno(err)
}

func (g *guestFile) Pwrite(buf []byte, off int64) (int, experimentalsys.Errno) {
	if off < 0 {
		return 0, experimentalsys.EINVAL
	}
	n, err := g.f.WriteVectoredAt(g.ctx, [][]byte{buf}, uint64(off))
	return int(n), toErrno(err)
}

func (g *guestFile) Seek(offset int64, whence int) (int64, experimentalsys.Errno) {
	pos, err := g.f.Seek(g.ctx, offset, whence)
	if err != nil {
		return 0, toErrno(err)
	}
	return int64(pos), 0
}

func (g *guestFile) Truncate(size int64) experimentalsys.Errno {
	if size < 0 {
		return experimentalsys.EINVAL
	}
	return toErrno(g.f.SetSize(g.ctx, uint64(size)))
}

// Utimens takes epoch nanoseconds; UTIME_OMIT leaves a timestamp alone.
func (g *guestFile) Utimens(atim, mtim int64) experimentalsys.Errno {
	return toErrno(g.f.SetTimes(g.ctx, utimeArg(atim), utimeArg(mtim)))
}

func utimeArg(nsec int64) *time.Time {
	if nsec == experimentalsys.UTIME_OMIT {
		return nil
	}
	t := time.Unix(0, nsec)
	return &t
}

func (g *guestFile) Sync() experimentalsys.Errno { return toErrno(g.f.Sync(g.ctx)) }

func (g *guestFile) Datasync() experimentalsys.Errno { return toErrno(g.f.Datasync(g.ctx)) }

func (g *guestFile) Close() experimentalsys.Errno { return toErrno(g.f.Close()) }

// guestDir bridges an adapter directory to wazero. Entries are listed once
// and served from memory until the guest rewinds.
type guestDir struct {
	experimentalsys.UnimplementedFile
	ctx context.Context
	dir wasi.Dir
	// borrowed directories belong to the execution context and outlive
	// the guest handle.
	borrowed bool

	entries []experimentalsys.Dirent
	loaded  bool
	pos     int
}

func (g *guestDir) IsDir() (bool, experimentalsys.Errno) { return true, 0 }

func (g *guestDir) Dev() (uint64, experimentalsys.Errno) {
	st, errno := g.Stat()
	return st.Dev, errno
}

func (g *guestDir) Ino() (sys.Inode, experimentalsys.Errno) {
	st, errno := g.Stat()
	return st.Ino, errno
}

func (g *guestDir) Stat() (sys.Stat_t, experimentalsys.Errno) {
	st, err := g.dir.Stat(g.ctx)
	if err != nil {
		return sys.Stat_t{}, toErrno(err)
	}
	return toStat(st), 0
}

func (g *guestDir) Read([]byte) (int, experimentalsys.Errno) { return 0, experimentalsys.EISDIR }

// Seek only supports rewinding, which restarts the listing.
func (g *guestDir) Seek(offset int64, whence int) (int64, experimentalsys.Errno) {
	if offset != 0 || whence != io.SeekStart {
		return 0, experimentalsys.EINVAL
	}
	g.entries, g.loaded, g.pos = nil, false, 0
	return 0, 0
}

func (g *guestDir) Readdir(n int) ([]experimentalsys.Dirent, experimentalsys.Errno) {
	if !g.loaded {
		list, err := g.dir.Readdir(g.ctx)
		if err != nil {
			return nil, toErrno(err)
		}
		g.entries = make([]experimentalsys.Dirent, 0, len(list))
		for _, e := range list {
			g.entries = append(g.entries, experimentalsys.Dirent{
				Ino:  sys.Inode(e.Inode),
				Name: e.Name,
				Type: fileMode(e.FileType).Type(),
			})
		}
		g.loaded = true
	}

	rest := g.entries[g.pos:]
	if n > 0 && n < len(rest) {
		rest = rest[:n]
	}
	g.pos += len(rest)
	return rest, 0
}

func (g *guestDir) Close() experimentalsys.Errno {
	if g.borrowed {
		return 0
	}
	return toErrno(g.dir.Close())
}
