package runtime

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/metrics"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasictx"
)

// Config holds configuration for runtime creation.
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB
	// each). 0 means the wazero default.
	MemoryLimitPages uint32

	// Metrics, when set, records every run.
	Metrics *metrics.Metrics
}

// Runtime executes guest modules.
type Runtime struct {
	runtime wazero.Runtime
	metrics *metrics.Metrics
}

// New creates a runtime with WASI preview1 host functions instantiated.
func New(ctx context.Context, cfg *Config) (*Runtime, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	var m *metrics.Metrics
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		m = cfg.Metrics
	}

	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		r.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindIo, err, "instantiate wasi_snapshot_preview1")
	}
	return &Runtime{runtime: r, metrics: m}, nil
}

// Close releases all runtime resources.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Run compiles wasm, runs its start function against wctx and returns the
// guest's exit code. A guest returning normally exits with 0. wctx stays
// owned by the caller.
func (r *Runtime) Run(ctx context.Context, wasm []byte, wctx *wasictx.Context) (uint32, error) {
	start := time.Now()
	code, err := r.run(ctx, wasm, wctx)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case code != 0:
		result = "exit"
	}
	if r.metrics != nil {
		r.metrics.ObserveRun(result, time.Since(start))
	}
	Logger().Debug("guest finished",
		zap.String("result", result),
		zap.Uint32("exit_code", code),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return code, err
}

func (r *Runtime) run(ctx context.Context, wasm []byte, wctx *wasictx.Context) (uint32, error) {
	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidInput, err, "compile module")
	}
	defer compiled.Close(ctx)

	cfg := NewModuleConfig(ctx, wctx)
	mod, err := r.runtime.InstantiateModule(ctx, compiled, cfg.WithName(""))
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if stderrors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, errors.Wrap(errors.PhaseRuntime, errors.KindIo, err, "run module")
	}
	return 0, nil
}
