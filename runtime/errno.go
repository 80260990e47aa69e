package runtime

import (
	stderrors "errors"
	"io/fs"
	"os"
	"syscall"

	experimentalsys "github.com/tetratelabs/wazero/experimental/sys"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
)

// toErrno maps an adapter error to the errno reported to the guest. Kinds
// raised by the adapter itself decide first; host failures keep the errno
// of their cause.
func toErrno(err error) experimentalsys.Errno {
	if err == nil {
		return 0
	}
	switch errors.KindOf(err) {
	case errors.KindNotSupported:
		return experimentalsys.ENOTSUP
	case errors.KindBadDescriptor:
		return experimentalsys.EBADF
	case errors.KindNotCapable, errors.KindNotPermitted:
		return experimentalsys.EPERM
	case errors.KindOverflow, errors.KindArrayTooLarge, errors.KindContainsNul, errors.KindInvalidInput:
		return experimentalsys.EINVAL
	}
	return mapOSError(err)
}

func mapOSError(err error) experimentalsys.Errno {
	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		return experimentalsys.UnwrapOSError(errno)
	}
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return experimentalsys.ENOENT
	case stderrors.Is(err, fs.ErrExist):
		return experimentalsys.EEXIST
	case stderrors.Is(err, fs.ErrPermission):
		return experimentalsys.EPERM
	case stderrors.Is(err, fs.ErrClosed):
		return experimentalsys.EBADF
	case stderrors.Is(err, fs.ErrInvalid):
		return experimentalsys.EINVAL
	}
	// os.Root reports escapes as a *PathError with an unexported cause.
	var pathErr *os.PathError
	if stderrors.As(err, &pathErr) {
		return experimentalsys.EPERM
	}
	return experimentalsys.EIO
}
