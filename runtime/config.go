package runtime

import (
	"context"
	"io"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/experimental/sysfs"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/resource"
	"github.com/apepkuss/wasmedge-wasi-for-quark/sched"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasictx"
)

// NewModuleConfig translates an execution context into a wazero module
// configuration. ctx is handed to every adapter call the guest triggers.
func NewModuleConfig(ctx context.Context, wctx *wasictx.Context) wazero.ModuleConfig {
	cfg := wazero.NewModuleConfig().
		WithArgs(wctx.Args()...).
		WithRandSource(wctx.Random())

	for _, kv := range wctx.Env() {
		cfg = cfg.WithEnv(kv.Key, kv.Value)
	}

	clock := wctx.Clock()
	wall, mono := clock.Wall, clock.Monotonic
	cfg = cfg.
		WithWalltime(func() (int64, int32) {
			now := wall.Now()
			return now.Unix(), int32(now.Nanosecond())
		}, resolution(wall.Resolution())).
		WithNanotime(func() int64 {
			return int64(mono.Now())
		}, resolution(mono.Resolution()))

	scheduler := wctx.Scheduler()
	cfg = cfg.
		WithNanosleep(func(ns int64) {
			if err := scheduler.Sleep(ctx, time.Duration(ns)); err != nil {
				Logger().Debug("guest sleep interrupted", zap.Error(err))
			}
		}).
		WithOsyield(func() {
			if err := scheduler.Yield(ctx); err != nil {
				Logger().Debug("guest yield failed", zap.Error(err))
			}
		})

	table := wctx.Table()
	logStdio(table)
	if f := stdioFile(table, 0, wasi.FileCapsRead); f != nil {
		cfg = cfg.WithStdin(&fileReader{ctx: ctx, f: f, sched: scheduler})
	}
	if f := stdioFile(table, 1, wasi.FileCapsWrite); f != nil {
		cfg = cfg.WithStdout(&fileWriter{ctx: ctx, f: f})
	}
	if f := stdioFile(table, 2, wasi.FileCapsWrite); f != nil {
		cfg = cfg.WithStderr(&fileWriter{ctx: ctx, f: f})
	}

	fsCfg := wazero.NewFSConfig()
	for _, p := range wctx.Preopens() {
		fsCfg = fsCfg.(sysfs.FSConfig).WithSysFSMount(newGuestFS(ctx, p.Dir), p.GuestPath)
		Logger().Debug("mounted preopen",
			zap.String("guest_path", p.GuestPath),
			zap.Uint32("fd", p.FD))
	}
	cfg = cfg.WithFSConfig(fsCfg)

	table.Each(func(fd uint32, e resource.Entry) bool {
		if e.Kind == resource.KindSocket {
			Logger().Warn("preopened socket is not visible to the guest",
				zap.Uint32("fd", fd))
		}
		return true
	})

	return cfg
}

func resolution(d time.Duration) sys.ClockResolution {
	if d <= 0 {
		return 1
	}
	return sys.ClockResolution(d.Nanoseconds())
}

func stdioFile(table *resource.Table, fd uint32, caps wasi.FileCaps) wasi.File {
	if _, ok := table.Get(fd); !ok {
		return nil
	}
	f, err := table.GetFile(fd, caps)
	if err != nil {
		Logger().Warn("stdio binding skipped", zap.Uint32("fd", fd), zap.Error(err))
		return nil
	}
	return f
}

// logStdio records which standard streams are attached to a terminal.
func logStdio(table *resource.Table) {
	for fd := uint32(0); fd < resource.FirstFreeFD; fd++ {
		e, ok := table.Get(fd)
		if !ok {
			continue
		}
		if t, ok := e.Value.(interface{ IsTerminal() bool }); ok {
			Logger().Debug("stdio stream",
				zap.Uint32("fd", fd),
				zap.Bool("terminal", t.IsTerminal()))
		}
	}
}

// readPollSlice bounds each readiness wait so cancellation of the run
// context is noticed while the guest blocks on stdin.
const readPollSlice = 100 * time.Millisecond

type fileReader struct {
	ctx   context.Context
	f     wasi.File
	sched sched.Scheduler
}

func (r *fileReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := r.waitReadable(); err != nil {
		return 0, err
	}
	n, err := r.f.ReadVectored(r.ctx, [][]byte{p})
	if err != nil {
		return int(n), err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return int(n), nil
}

// waitReadable returns once the stream has data, hangs up or fails, or the
// run context ends. Streams without native polling are read directly.
func (r *fileReader) waitReadable() error {
	if r.sched == nil {
		return nil
	}
	rc, ok := r.f.Pollable()
	if !ok {
		return nil
	}
	subs := []sched.Subscription{{Conn: rc, Read: true}}
	for {
		events, err := r.sched.Poll(r.ctx, subs, readPollSlice)
		if errors.IsKind(err, errors.KindNotSupported) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(events) > 0 {
			return nil
		}
	}
}

type fileWriter struct {
	ctx context.Context
	f   wasi.File
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.WriteVectored(w.ctx, [][]byte{p})
	return int(n), err
}
