package sched

import (
	"context"
	"runtime"
	"syscall"
	"time"
)

// Subscription asks for readiness of one descriptor.
type Subscription struct {
	Conn     syscall.RawConn
	Userdata uint64
	Read     bool
	Write    bool
}

// Event reports readiness for the subscription with the same Userdata.
type Event struct {
	Err      error
	Userdata uint64
	Readable bool
	Writable bool
	Hangup   bool
}

// Scheduler is the guest's view of time-based and readiness waits.
type Scheduler interface {
	Sleep(ctx context.Context, d time.Duration) error
	Yield(ctx context.Context) error
	// Poll waits until at least one subscription is ready or timeout passes.
	// A negative timeout waits indefinitely.
	Poll(ctx context.Context, subs []Subscription, timeout time.Duration) ([]Event, error)
}

// Host is the default Scheduler backed by the Go runtime and the host's
// poll(2).
type Host struct{}

var _ Scheduler = Host{}

// New returns the default scheduler.
func New() Host { return Host{} }

func (Host) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (Host) Yield(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
}

func (Host) Poll(ctx context.Context, subs []Subscription, timeout time.Duration) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		if timeout < 0 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return nil, Host{}.Sleep(ctx, timeout)
	}
	return poll(subs, timeout)
}
