//go:build linux || darwin

package sched

import (
	"math"
	"time"

	"golang.org/x/sys/unix"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
)

func poll(subs []Subscription, timeout time.Duration) ([]Event, error) {
	fds := make([]unix.PollFd, len(subs))
	events := make([]Event, len(subs))
	for i, s := range subs {
		events[i].Userdata = s.Userdata
		if s.Read {
			fds[i].Events |= unix.POLLIN
		}
		if s.Write {
			fds[i].Events |= unix.POLLOUT
		}
		fds[i].Fd = -1
		if s.Conn == nil {
			events[i].Err = errors.BadDescriptor(errors.PhasePoll, 0)
			continue
		}
		if err := s.Conn.Control(func(fd uintptr) {
			fds[i].Fd = int32(fd)
		}); err != nil {
			events[i].Err = errors.Io(errors.PhasePoll, err)
		}
	}

	ms := -1
	if timeout >= 0 {
		ms = int(min(timeout.Milliseconds(), math.MaxInt32))
	}

	for {
		_, err := unix.Poll(fds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, errors.Io(errors.PhasePoll, err)
		}
		break
	}

	var ready []Event
	for i, pfd := range fds {
		ev := events[i]
		ev.Readable = pfd.Revents&unix.POLLIN != 0
		ev.Writable = pfd.Revents&unix.POLLOUT != 0
		ev.Hangup = pfd.Revents&unix.POLLHUP != 0
		if pfd.Revents&(unix.POLLERR|unix.POLLNVAL) != 0 && ev.Err == nil {
			ev.Err = errors.Io(errors.PhasePoll, unix.EBADF)
		}
		if ev.Readable || ev.Writable || ev.Hangup || ev.Err != nil {
			ready = append(ready, ev)
		}
	}
	return ready, nil
}
