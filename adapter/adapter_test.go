package adapter

import (
	"context"
	"net"
	"os"
	"path/filepath"
	goruntime "runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// spyDir counts calls that reach the host primitive.
type spyDir struct {
	*hostfs.Dir
	opens int
}

func (s *spyDir) OpenFile(path string, opts hostfs.OpenOptions) (*os.File, error) {
	s.opens++
	return s.Dir.OpenFile(path, opts)
}

func newSpyDir(t *testing.T) (*spyDir, string) {
	t.Helper()
	host := t.TempDir()
	d, err := hostfs.OpenDir(host)
	require.NoError(t, err)
	spy := &spyDir{Dir: d}
	t.Cleanup(func() { spy.Close() })
	return spy, host
}

var allFdFlags = []wasi.FdFlags{
	wasi.FdFlagsAppend,
	wasi.FdFlagsDsync,
	wasi.FdFlagsNonblock,
	wasi.FdFlagsRsync,
	wasi.FdFlagsSync,
}

func TestFdFlagsRoundTrip(t *testing.T) {
	for set := 0; set < 1<<len(allFdFlags); set++ {
		var f wasi.FdFlags
		for i, flag := range allFdFlags {
			if set&(1<<i) != 0 {
				f |= flag
			}
		}
		host := FdFlagsToHost(f)
		require.Equal(t, f, FdFlagsFromHost(host), "from(to(%s))", f)
		require.Equal(t, host, FdFlagsToHost(FdFlagsFromHost(host)), "to(from(to(%s)))", f)
	}
}

func TestToOpenOptions(t *testing.T) {
	tests := []struct {
		name        string
		oflags      wasi.OFlags
		fdflags     wasi.FdFlags
		read, write bool
		follow      bool
		want        hostfs.OpenOptions
	}{
		{
			name: "read only",
			read: true,
			want: hostfs.OpenOptions{Read: true},
		},
		{
			name: "neither read nor write forces read",
			want: hostfs.OpenOptions{Read: true},
		},
		{
			name:  "write only",
			write: true,
			want:  hostfs.OpenOptions{Write: true},
		},
		{
			name:   "create implies write",
			oflags: wasi.OFlagsCreate,
			read:   true,
			want:   hostfs.OpenOptions{Read: true, Write: true, Create: true},
		},
		{
			name:   "create exclusive",
			oflags: wasi.OFlagsCreate | wasi.OFlagsExclusive,
			write:  true,
			want:   hostfs.OpenOptions{Write: true, CreateNew: true},
		},
		{
			name:   "exclusive without create is ignored",
			oflags: wasi.OFlagsExclusive,
			read:   true,
			want:   hostfs.OpenOptions{Read: true},
		},
		{
			name:    "truncate append follow",
			oflags:  wasi.OFlagsTruncate,
			fdflags: wasi.FdFlagsAppend,
			write:   true,
			follow:  true,
			want:    hostfs.OpenOptions{Write: true, Truncate: true, Append: true, FollowSymlinks: true},
		},
		{
			name:    "nonblock is not an open option",
			fdflags: wasi.FdFlagsNonblock,
			read:    true,
			want:    hostfs.OpenOptions{Read: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToOpenOptions(tt.oflags, tt.fdflags, tt.read, tt.write, tt.follow)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToOpenOptions_SyncFamily(t *testing.T) {
	for _, f := range []wasi.FdFlags{wasi.FdFlagsDsync, wasi.FdFlagsRsync, wasi.FdFlagsSync, wasi.FdFlagsAppend | wasi.FdFlagsSync} {
		_, err := ToOpenOptions(wasi.OFlagsCreate, f, true, true, false)
		require.True(t, errors.IsKind(err, errors.KindNotSupported), "%s: %v", f, err)
	}
}

func TestFileTypeFrom(t *testing.T) {
	tests := []struct {
		name string
		p    hostfs.TypePredicates
		want wasi.FileType
	}{
		{"dir", hostfs.TypePredicates{Dir: true}, wasi.FileTypeDirectory},
		{"symlink", hostfs.TypePredicates{Symlink: true}, wasi.FileTypeSymbolicLink},
		{"socket", hostfs.TypePredicates{Socket: true}, wasi.FileTypeSocketStream},
		{"block", hostfs.TypePredicates{BlockDevice: true}, wasi.FileTypeBlockDevice},
		{"char", hostfs.TypePredicates{CharDevice: true}, wasi.FileTypeCharacterDevice},
		{"file", hostfs.TypePredicates{File: true}, wasi.FileTypeRegularFile},
		{"none", hostfs.TypePredicates{}, wasi.FileTypeUnknown},
		{"socket and block", hostfs.TypePredicates{Socket: true, BlockDevice: true}, wasi.FileTypeSocketDgram},
		{"dir wins", hostfs.TypePredicates{Dir: true, Symlink: true, File: true}, wasi.FileTypeDirectory},
		{"symlink before socket", hostfs.TypePredicates{Symlink: true, Socket: true}, wasi.FileTypeSymbolicLink},
		{"block before char", hostfs.TypePredicates{BlockDevice: true, CharDevice: true}, wasi.FileTypeBlockDevice},
		{"char before file", hostfs.TypePredicates{CharDevice: true, File: true}, wasi.FileTypeCharacterDevice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FileTypeFrom(tt.p))
		})
	}
}

func TestDir_Open_SyncFamilyNeverReachesHost(t *testing.T) {
	spy, _ := newSpyDir(t)
	d := NewDir(spy)
	ctx := context.Background()

	for _, f := range []wasi.FdFlags{wasi.FdFlagsDsync, wasi.FdFlagsRsync, wasi.FdFlagsSync} {
		_, err := d.OpenFile(ctx, false, "a.txt", wasi.OFlagsCreate, true, true, f)
		require.True(t, errors.IsKind(err, errors.KindNotSupported))
	}
	require.Zero(t, spy.opens)

	_, err := os.Stat(filepath.Join(spy.Name(), "a.txt"))
	require.True(t, os.IsNotExist(err), "rejected open must not create the file")
}

func TestDir_Open_CreateSemantics(t *testing.T) {
	spy, host := newSpyDir(t)
	d := NewDir(spy)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(host, "exists"), []byte("content"), 0o644))

	_, err := d.OpenFile(ctx, false, "exists", wasi.OFlagsCreate|wasi.OFlagsExclusive, true, true, 0)
	require.True(t, errors.IsKind(err, errors.KindIo))
	require.ErrorIs(t, err, os.ErrExist)

	f, err := d.OpenFile(ctx, false, "exists", wasi.OFlagsCreate, true, true, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	data, err := os.ReadFile(filepath.Join(host, "exists"))
	require.NoError(t, err)
	require.Equal(t, "content", string(data), "CREATE alone must not truncate")

	f, err = d.OpenFile(ctx, false, "exists", wasi.OFlagsCreate|wasi.OFlagsTruncate, true, true, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	data, err = os.ReadFile(filepath.Join(host, "exists"))
	require.NoError(t, err)
	require.Empty(t, data)

	require.Equal(t, 3, spy.opens)
}

func TestDir_Open_Escape(t *testing.T) {
	spy, host := newSpyDir(t)
	d := NewDir(spy)
	ctx := context.Background()

	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret"), []byte("x"), 0o644))
	rel, err := filepath.Rel(host, filepath.Join(outside, "secret"))
	require.NoError(t, err)

	_, err = d.OpenFile(ctx, true, rel, 0, true, false, 0)
	require.True(t, errors.IsKind(err, errors.KindIo), "escape must fail: %v", err)
	require.Equal(t, 1, spy.opens, "containment is delegated to the host primitive")
}

func TestDir_Open_Nonblock(t *testing.T) {
	spy, _ := newSpyDir(t)
	d := NewDir(spy)
	ctx := context.Background()

	f, err := d.OpenFile(ctx, false, "nb", wasi.OFlagsCreate, true, true, wasi.FdFlagsNonblock|wasi.FdFlagsAppend)
	if errors.IsKind(err, errors.KindNotSupported) {
		t.Skip("descriptor flags unsupported on this platform")
	}
	require.NoError(t, err)
	defer f.Close()

	flags, err := f.FdFlags(ctx)
	require.NoError(t, err)
	require.True(t, flags.Has(wasi.FdFlagsNonblock|wasi.FdFlagsAppend), "got %s", flags)
}

func TestFile_IO(t *testing.T) {
	spy, _ := newSpyDir(t)
	d := NewDir(spy)
	ctx := context.Background()

	f, err := d.Open(false, "io", wasi.OFlagsCreate, true, true, 0)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.WriteVectored(ctx, [][]byte{[]byte("abc"), []byte("def")})
	require.NoError(t, err)
	require.Equal(t, uint64(6), n)

	n, err = f.WriteVectoredAt(ctx, [][]byte{[]byte("X")}, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)

	pos, err := f.Seek(ctx, 0, 0)
	require.NoError(t, err)
	require.Zero(t, pos)

	a, b := make([]byte, 2), make([]byte, 8)
	n, err = f.ReadVectored(ctx, [][]byte{a, b})
	require.NoError(t, err)
	require.Equal(t, uint64(6), n)
	require.Equal(t, "aX", string(a))
	require.Equal(t, "cdef", string(b[:4]))

	c := make([]byte, 3)
	n, err = f.ReadVectoredAt(ctx, [][]byte{c}, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)
	require.Equal(t, "def", string(c))

	_, err = f.ReadVectoredAt(ctx, [][]byte{c}, 1<<63)
	require.True(t, errors.IsKind(err, errors.KindOverflow))

	require.NoError(t, f.Datasync(ctx))
	require.NoError(t, f.Sync(ctx))

	st, err := f.Filestat(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(6), st.Size)
	require.Equal(t, wasi.FileTypeRegularFile, st.FileType)
}

func TestFile_VectoredIovLimit(t *testing.T) {
	if goruntime.GOOS != "linux" {
		t.Skip("iovec limit applies to the linux readv family")
	}
	spy, _ := newSpyDir(t)
	ctx := context.Background()

	f, err := NewDir(spy).Open(false, "iov", wasi.OFlagsCreate, true, true, 0)
	require.NoError(t, err)
	defer f.Close()

	bufs := make([][]byte, 2048)
	for i := range bufs {
		bufs[i] = []byte{'a'}
	}
	n, err := f.WriteVectored(ctx, bufs)
	require.NoError(t, err)
	require.Equal(t, uint64(1024), n)

	n, err = f.WriteVectoredAt(ctx, bufs, 1024)
	require.NoError(t, err)
	require.Equal(t, uint64(1024), n)

	for i := range bufs {
		bufs[i] = make([]byte, 1)
	}
	n, err = f.ReadVectoredAt(ctx, bufs, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1024), n)

	_, err = f.Seek(ctx, 0, 0)
	require.NoError(t, err)
	n, err = f.ReadVectored(ctx, bufs)
	require.NoError(t, err)
	require.Equal(t, uint64(1024), n)
}

func TestFile_Metadata(t *testing.T) {
	spy, host := newSpyDir(t)
	ctx := context.Background()

	f, err := NewDir(spy).Open(false, "meta", wasi.OFlagsCreate, true, true, 0)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteVectored(ctx, [][]byte{[]byte("0123456789")})
	require.NoError(t, err)

	require.NoError(t, f.SetSize(ctx, 4))
	st, err := f.Filestat(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(4), st.Size)

	require.NoError(t, f.SetSize(ctx, 8))
	buf := make([]byte, 8)
	n, err := f.ReadVectoredAt(ctx, [][]byte{buf}, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(8), n)
	require.Equal(t, "0123\x00\x00\x00\x00", string(buf))

	err = f.SetSize(ctx, 1<<63)
	require.True(t, errors.IsKind(err, errors.KindOverflow))

	atime := time.Date(2021, 5, 6, 7, 8, 9, 0, time.UTC)
	mtime := time.Date(2022, 6, 7, 8, 9, 10, 0, time.UTC)
	require.NoError(t, f.SetTimes(ctx, &atime, &mtime))
	info, err := os.Stat(filepath.Join(host, "meta"))
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(mtime), "mtime %v", info.ModTime())

	// A nil time keeps the current value.
	later := mtime.Add(time.Hour)
	require.NoError(t, f.SetTimes(ctx, &later, nil))
	info, err = os.Stat(filepath.Join(host, "meta"))
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(mtime))

	for a := wasi.AdviceNormal; a <= wasi.AdviceNoReuse; a++ {
		require.NoError(t, f.Advise(ctx, 0, 0, a), "advice %s", a)
	}
	err = f.Advise(ctx, 0, 0, wasi.Advice(42))
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))
	err = f.Advise(ctx, 1<<63, 0, wasi.AdviceNormal)
	require.True(t, errors.IsKind(err, errors.KindOverflow))
}

func TestFile_ClosedHandle(t *testing.T) {
	spy, _ := newSpyDir(t)
	f, err := NewDir(spy).Open(false, "closed", wasi.OFlagsCreate, true, true, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = f.ReadVectored(context.Background(), [][]byte{make([]byte, 1)})
	require.True(t, errors.IsKind(err, errors.KindIo))
}

func TestDir_PathOperations(t *testing.T) {
	spy, host := newSpyDir(t)
	d := NewDir(spy)
	ctx := context.Background()

	require.NoError(t, d.CreateDir(ctx, "sub"))
	f, err := d.OpenFile(ctx, false, "sub/f", wasi.OFlagsCreate, false, true, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = d.UnlinkFile(ctx, "sub")
	require.True(t, errors.IsKind(err, errors.KindIo))
	err = d.RemoveDir(ctx, "sub/f")
	require.True(t, errors.IsKind(err, errors.KindIo))

	require.NoError(t, d.Rename(ctx, "sub/f", "sub/g"))

	sub, err := d.OpenDir(ctx, false, "sub")
	require.NoError(t, err)
	entries, err := sub.Readdir(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "g", entries[0].Name)
	require.Equal(t, wasi.FileTypeRegularFile, entries[0].FileType)
	require.NotZero(t, entries[0].Inode)
	require.NoError(t, sub.Close())

	if err := os.Symlink("sub/g", filepath.Join(host, "link")); err == nil {
		target, err := d.Readlink(ctx, "link")
		require.NoError(t, err)
		require.Equal(t, "sub/g", target)

		st, err := d.StatAt(ctx, false, "link")
		require.NoError(t, err)
		require.Equal(t, wasi.FileTypeSymbolicLink, st.FileType)
		st, err = d.StatAt(ctx, true, "link")
		require.NoError(t, err)
		require.Equal(t, wasi.FileTypeRegularFile, st.FileType)
		require.NoError(t, d.UnlinkFile(ctx, "link"))
	}

	require.NoError(t, d.UnlinkFile(ctx, "sub/g"))
	require.NoError(t, d.RemoveDir(ctx, "sub"))

	st, err := d.Stat(ctx)
	require.NoError(t, err)
	require.Equal(t, wasi.FileTypeDirectory, st.FileType)
}

func TestSocket(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
		close(accepted)
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()

	s := NewSocket(client.(*net.TCPConn))
	defer s.Close()
	ctx := context.Background()

	ft, err := s.FileType(ctx)
	require.NoError(t, err)
	require.Equal(t, wasi.FileTypeSocketStream, ft)

	n, err := s.WriteVectored(ctx, [][]byte{[]byte("ping "), []byte("pong")})
	require.NoError(t, err)
	require.Equal(t, uint64(9), n)

	buf := make([]byte, 9)
	_, err = server.Read(buf)
	require.NoError(t, err)

	_, err = s.WriteVectoredAt(ctx, [][]byte{[]byte("x")}, 0)
	require.True(t, errors.IsKind(err, errors.KindIo))
	require.True(t, errors.IsKind(s.Sync(ctx), errors.KindNotSupported))
	require.True(t, errors.IsKind(s.SetSize(ctx, 0), errors.KindIo))
	require.True(t, errors.IsKind(s.Advise(ctx, 0, 0, wasi.AdviceNormal), errors.KindIo))
	require.True(t, errors.IsKind(s.SetTimes(ctx, nil, nil), errors.KindNotSupported))

	_, err = server.Write([]byte("hi"))
	require.NoError(t, err)
	rb := make([]byte, 2)
	n, err = s.ReadVectored(ctx, [][]byte{{}, rb})
	require.NoError(t, err)
	require.NotZero(t, n)
}

func TestSocket_Datagram(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	s := NewSocket(conn.(*net.UDPConn))
	defer s.Close()

	ft, err := s.FileType(context.Background())
	require.NoError(t, err)
	if hostfs.PollSupported {
		require.Equal(t, wasi.FileTypeSocketDgram, ft)
	}
}

func TestStdio_IsTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()

	require.False(t, IsTerminal(w))
	s := NewStdio(r)
	defer s.Close()
	require.False(t, s.IsTerminal())
}
