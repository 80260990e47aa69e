package adapter

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// Socket adapts a pre-existing host socket to wasi.File. Sockets are not
// seekable; positioned I/O and sync fail.
type Socket struct {
	conn syscall.Conn
}

var _ wasi.File = (*Socket)(nil)

// NewSocket takes ownership of conn. conn is usually a *net.TCPConn,
// *net.UDPConn, *net.UnixConn or one of the listener types.
func NewSocket(conn syscall.Conn) *Socket {
	return &Socket{conn: conn}
}

// Conn returns the wrapped socket.
func (s *Socket) Conn() syscall.Conn { return s.conn }

func (s *Socket) FileType(context.Context) (wasi.FileType, error) {
	dgram, err := hostfs.IsDatagram(s.conn)
	if err != nil {
		return wasi.FileTypeUnknown, errors.Io(errors.PhaseStat, err)
	}
	if dgram {
		return wasi.FileTypeSocketDgram, nil
	}
	return wasi.FileTypeSocketStream, nil
}

func (s *Socket) Filestat(ctx context.Context) (wasi.Filestat, error) {
	ft, err := s.FileType(ctx)
	if err != nil {
		return wasi.Filestat{}, err
	}
	return wasi.Filestat{FileType: ft, Nlink: 1}, nil
}

func (s *Socket) FdFlags(context.Context) (wasi.FdFlags, error) {
	return getFdFlags(s.conn)
}

func (s *Socket) SetFdFlags(_ context.Context, flags wasi.FdFlags) error {
	return setFdFlags(s.conn, flags)
}

// ReadVectored fills the first non-empty buffer with a single read.
func (s *Socket) ReadVectored(_ context.Context, bufs [][]byte) (uint64, error) {
	r, ok := s.conn.(io.Reader)
	if !ok {
		return 0, errors.NotSupported(errors.PhaseRead, "read on listener socket")
	}
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		n, err := r.Read(b)
		if err != nil && !stderrors.Is(err, io.EOF) {
			return 0, errors.Io(errors.PhaseRead, err)
		}
		return checkedCount(errors.PhaseRead, n)
	}
	return 0, nil
}

func (s *Socket) ReadVectoredAt(context.Context, [][]byte, uint64) (uint64, error) {
	return 0, errors.Io(errors.PhaseRead, syscall.ESPIPE)
}

// WriteVectored uses writev where the connection supports it.
func (s *Socket) WriteVectored(_ context.Context, bufs [][]byte) (uint64, error) {
	w, ok := s.conn.(io.Writer)
	if !ok {
		return 0, errors.NotSupported(errors.PhaseWrite, "write on listener socket")
	}
	nb := make(net.Buffers, len(bufs))
	copy(nb, bufs)
	n, err := nb.WriteTo(w)
	if err != nil {
		return 0, errors.Io(errors.PhaseWrite, err)
	}
	return checkedCount(errors.PhaseWrite, int(n))
}

func (s *Socket) WriteVectoredAt(context.Context, [][]byte, uint64) (uint64, error) {
	return 0, errors.Io(errors.PhaseWrite, syscall.ESPIPE)
}

func (s *Socket) Seek(context.Context, int64, int) (uint64, error) {
	return 0, errors.Io(errors.PhaseSeek, syscall.ESPIPE)
}

func (s *Socket) Advise(context.Context, uint64, uint64, wasi.Advice) error {
	return errors.Io(errors.PhaseStat, syscall.ESPIPE)
}

func (s *Socket) SetSize(context.Context, uint64) error {
	return errors.Io(errors.PhaseWrite, syscall.EINVAL)
}

func (s *Socket) SetTimes(context.Context, *time.Time, *time.Time) error {
	return errors.NotSupported(errors.PhaseStat, "timestamps on socket")
}

func (s *Socket) Datasync(context.Context) error {
	return errors.NotSupported(errors.PhaseSync, "sync on socket")
}

func (s *Socket) Sync(context.Context) error {
	return errors.NotSupported(errors.PhaseSync, "sync on socket")
}

func (s *Socket) Pollable() (syscall.RawConn, bool) {
	return pollable(s.conn)
}

func (s *Socket) Close() error {
	c, ok := s.conn.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		return errors.Io(errors.PhaseOpen, err)
	}
	return nil
}
