package wasictx

import (
	stderrors "errors"
	"io"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/apepkuss/wasmedge-wasi-for-quark/adapter"
	"github.com/apepkuss/wasmedge-wasi-for-quark/clocks"
	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/random"
	"github.com/apepkuss/wasmedge-wasi-for-quark/resource"
	"github.com/apepkuss/wasmedge-wasi-for-quark/sched"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// SocketCaps is the fixed right set of a preopened socket. Write is never
// granted, whatever the socket itself allows.
const SocketCaps = wasi.FileCapsFdstatSetFlags |
	wasi.FileCapsFilestatGet |
	wasi.FileCapsRead |
	wasi.FileCapsPollReadwrite

// Builder accumulates an execution context. Every method either applies
// fully or leaves the builder unchanged. After Build every method fails with
// errors.KindConsumed.
type Builder struct {
	ctx      *Context
	consumed bool
}

// NewBuilder returns an empty builder. Collaborators not given as options are
// defaulted to the host clock, the host scheduler and a fresh secure random
// source.
func NewBuilder(opts ...Option) *Builder {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	limit := o.limit
	if limit == 0 {
		limit = wasi.DefaultStringArrayLimit
	}
	c := &Context{
		table:  resource.NewTable(),
		env:    wasi.NewStringArray(limit),
		args:   wasi.NewStringArray(limit),
		limit:  limit,
		random: o.random,
		sched:  o.scheduler,
	}
	if o.clock != nil {
		c.clock = *o.clock
	} else {
		c.clock = clocks.New()
	}
	if c.sched == nil {
		c.sched = sched.New()
	}
	if c.random == nil {
		c.random = random.NewSecureSource()
	}
	for _, obs := range o.observers {
		c.table.Subscribe(obs)
	}
	return &Builder{ctx: c}
}

func (b *Builder) check(op string) error {
	if b.consumed {
		return errors.Consumed(errors.PhaseBuild, "builder ("+op+")")
	}
	return nil
}

// Env appends key=value to the environment.
func (b *Builder) Env(key, value string) error {
	return b.Envs([]EnvVar{{Key: key, Value: value}})
}

// Envs appends pairs in order. The whole batch is validated first.
func (b *Builder) Envs(pairs []EnvVar) error {
	if err := b.check("envs"); err != nil {
		return err
	}
	kv := make([]string, len(pairs))
	for i, p := range pairs {
		kv[i] = p.Key + "=" + p.Value
	}
	if err := b.ctx.env.Push(kv...); err != nil {
		return b.stringArrayError("env", kv, err)
	}
	b.ctx.envVars = append(b.ctx.envVars, pairs...)
	return nil
}

// Arg appends one argument.
func (b *Builder) Arg(value string) error {
	return b.Args([]string{value})
}

// Args appends values in order. The whole batch is validated first.
func (b *Builder) Args(values []string) error {
	if err := b.check("args"); err != nil {
		return err
	}
	if err := b.ctx.args.Push(values...); err != nil {
		return b.stringArrayError("args", values, err)
	}
	return nil
}

func (b *Builder) stringArrayError(what string, values []string, err error) error {
	if stderrors.Is(err, wasi.ErrStringArrayNul) {
		for _, v := range values {
			if strings.IndexByte(v, 0) >= 0 {
				return errors.ContainsNul(errors.PhaseBuild, what, v)
			}
		}
	}
	return errors.ArrayTooLarge(errors.PhaseBuild, what, b.ctx.limit)
}

// PreopenedDir binds dir at the lowest free descriptor >= 3 with every
// directory right and every inheritable file right. The Context owns dir
// afterwards.
func (b *Builder) PreopenedDir(dir *hostfs.Dir, guestPath string) (uint32, error) {
	if err := b.check("preopened_dir"); err != nil {
		return 0, err
	}
	if dir == nil {
		return 0, errors.InvalidInput(errors.PhaseBuild, "preopened dir %q is nil", guestPath)
	}
	if strings.IndexByte(guestPath, 0) >= 0 {
		return 0, errors.ContainsNul(errors.PhaseBuild, "preopen guest path", guestPath)
	}

	fd, err := b.ctx.table.Push(resource.Entry{
		Kind:      resource.KindDir,
		Value:     adapter.NewDir(dir),
		DirCaps:   wasi.AllDirCaps,
		FileCaps:  wasi.AllFileCaps,
		GuestPath: guestPath,
	})
	if err != nil {
		return 0, err
	}
	Logger().Debug("preopened dir",
		zap.Uint32("fd", fd),
		zap.String("host", dir.Name()),
		zap.String("guest", guestPath))
	return fd, nil
}

// PreopenedSocket binds conn at fd with SocketCaps. The Context owns conn
// afterwards.
func (b *Builder) PreopenedSocket(fd uint32, conn syscall.Conn) error {
	if err := b.check("preopened_socket"); err != nil {
		return err
	}
	if conn == nil {
		return errors.InvalidInput(errors.PhaseBuild, "preopened socket %d is nil", fd)
	}
	if err := b.bind(fd, resource.Entry{
		Kind:     resource.KindSocket,
		Value:    adapter.NewSocket(conn),
		FileCaps: SocketCaps,
	}); err != nil {
		return err
	}
	Logger().Debug("preopened socket", zap.Uint32("fd", fd))
	return nil
}

// Stdin binds f at descriptor 0, replacing and closing any earlier binding.
func (b *Builder) Stdin(f wasi.File) error { return b.stdio("stdin", 0, f) }

// Stdout binds f at descriptor 1, replacing and closing any earlier binding.
func (b *Builder) Stdout(f wasi.File) error { return b.stdio("stdout", 1, f) }

// Stderr binds f at descriptor 2, replacing and closing any earlier binding.
func (b *Builder) Stderr(f wasi.File) error { return b.stdio("stderr", 2, f) }

func (b *Builder) stdio(name string, fd uint32, f wasi.File) error {
	if err := b.check(name); err != nil {
		return err
	}
	if f == nil {
		return errors.InvalidInput(errors.PhaseBuild, "%s is nil", name)
	}
	return b.bind(fd, resource.Entry{
		Kind:     resource.KindStdio,
		Value:    f,
		FileCaps: wasi.AllFileCaps,
	})
}

// bind replaces the row at fd. The replaced value is owned by the builder
// and is closed.
func (b *Builder) bind(fd uint32, e resource.Entry) error {
	old, replaced := b.ctx.table.Get(fd)
	if err := b.ctx.table.InsertAt(fd, e); err != nil {
		return err
	}
	if replaced {
		if c, ok := old.Value.(io.Closer); ok {
			if err := c.Close(); err != nil {
				Logger().Warn("close replaced descriptor", zap.Uint32("fd", fd), zap.Error(err))
			}
		}
	}
	return nil
}

// Build finalizes the context. Descriptor bindings made so far are pinned and
// the builder is consumed.
func (b *Builder) Build() (*Context, error) {
	if err := b.check("build"); err != nil {
		return nil, err
	}
	b.consumed = true

	c := b.ctx
	b.ctx = nil
	c.table.Freeze()
	c.table.Each(func(fd uint32, e resource.Entry) bool {
		if e.Kind == resource.KindDir {
			c.preopens = append(c.preopens, Preopen{FD: fd, GuestPath: e.GuestPath, Dir: e.Value.(wasi.Dir)})
		}
		return true
	})

	Logger().Debug("built context",
		zap.Int("args", c.args.Len()),
		zap.Int("env", c.env.Len()),
		zap.Int("descriptors", c.table.Len()),
		zap.Int("preopens", len(c.preopens)))
	return c, nil
}
