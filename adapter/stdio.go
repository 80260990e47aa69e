package adapter

import (
	"os"

	"golang.org/x/term"
)

// Stdio is a File bound to one of the standard streams.
type Stdio struct {
	*File
}

// NewStdio takes ownership of f.
func NewStdio(f *os.File) *Stdio {
	return &Stdio{File: NewFile(f)}
}

// IsTerminal reports whether the stream is attached to a terminal.
func (s *Stdio) IsTerminal() bool {
	return IsTerminal(s.f)
}

// IsTerminal reports whether f is attached to a terminal. The descriptor is
// inspected without changing its blocking mode.
func IsTerminal(f *os.File) bool {
	rc, err := f.SyscallConn()
	if err != nil {
		return false
	}
	var tty bool
	if err := rc.Control(func(fd uintptr) {
		tty = term.IsTerminal(int(fd))
	}); err != nil {
		return false
	}
	return tty
}
