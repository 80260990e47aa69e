package wasictx

import (
	"io"

	"github.com/apepkuss/wasmedge-wasi-for-quark/clocks"
	"github.com/apepkuss/wasmedge-wasi-for-quark/resource"
	"github.com/apepkuss/wasmedge-wasi-for-quark/sched"
)

type options struct {
	clock     *clocks.Clock
	scheduler sched.Scheduler
	random    io.Reader
	limit     uint64
	observers []resource.Observer
}

// Option configures a Builder.
type Option func(*options)

// WithClock sets the clock source.
func WithClock(c clocks.Clock) Option {
	return func(o *options) { o.clock = &c }
}

// WithScheduler sets the scheduler.
func WithScheduler(s sched.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithRandom sets the random source, usually random.NewSecureSource().
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.random = r }
}

// WithStringArrayLimit bounds args and environ separately, both in element
// count and in cumulative NUL-terminated size.
func WithStringArrayLimit(limit uint64) Option {
	return func(o *options) { o.limit = limit }
}

// WithObserver subscribes o to the descriptor table before anything is
// bound, so it sees stdio and preopen bindings too.
func WithObserver(obs resource.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}
