package wasictx

import (
	"io"

	"github.com/apepkuss/wasmedge-wasi-for-quark/clocks"
	"github.com/apepkuss/wasmedge-wasi-for-quark/resource"
	"github.com/apepkuss/wasmedge-wasi-for-quark/sched"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// EnvVar is one environment pair.
type EnvVar struct {
	Key   string
	Value string
}

// Preopen is a directory bound before the guest starts.
type Preopen struct {
	Dir       wasi.Dir
	GuestPath string
	FD        uint32
}

// Context is the finalized execution context of one guest run.
type Context struct {
	table    *resource.Table
	env      *wasi.StringArray
	envVars  []EnvVar
	args     *wasi.StringArray
	random   io.Reader
	clock    clocks.Clock
	sched    sched.Scheduler
	preopens []Preopen
	limit    uint64
}

// Table returns the descriptor table. Rows bound during building are pinned.
func (c *Context) Table() *resource.Table { return c.table }

// Env returns the environment pairs in insertion order.
func (c *Context) Env() []EnvVar {
	out := make([]EnvVar, len(c.envVars))
	copy(out, c.envVars)
	return out
}

// Environ returns the environment as key=value strings.
func (c *Context) Environ() []string { return c.env.Elems() }

// Args returns the arguments in insertion order.
func (c *Context) Args() []string { return c.args.Elems() }

func (c *Context) Random() io.Reader { return c.random }

func (c *Context) Clock() clocks.Clock { return c.clock }

func (c *Context) Scheduler() sched.Scheduler { return c.sched }

// Preopens returns the preopened directories in descriptor order.
func (c *Context) Preopens() []Preopen {
	out := make([]Preopen, len(c.preopens))
	copy(out, c.preopens)
	return out
}

// Close releases every handle owned by the context.
func (c *Context) Close() error {
	return c.table.Close()
}
