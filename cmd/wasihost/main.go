package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/apepkuss/wasmedge-wasi-for-quark/adapter"
	"github.com/apepkuss/wasmedge-wasi-for-quark/config"
	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/metrics"
	"github.com/apepkuss/wasmedge-wasi-for-quark/runtime"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasictx"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to YAML configuration")
		wasmFile    = flag.String("wasm", "", "Path to module wasm file (overrides config)")
		envVars     = flag.String("env", "", "Environment variables (KEY=VAL,KEY2=VAL2)")
		cliArgs     = flag.String("argv", "", "CLI arguments (comma-separated)")
		preopens    = flag.String("preopens", "", "Preopened directories (/host:/guest,/host2:/guest2)")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address")
		interactive = flag.Bool("i", false, "Inspect the descriptor table before running")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&cfg, *wasmFile, *envVars, *cliArgs, *preopens, *logLevel, *metricsAddr)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Module == "" {
		fmt.Fprintln(os.Stderr, "Usage: wasihost -wasm <file.wasm> [-argv a,b] [-env K=V,...] [-preopens /host:/guest,...]")
		fmt.Fprintln(os.Stderr, "       wasihost -config wasihost.yml")
		fmt.Fprintln(os.Stderr, "       wasihost -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	adapter.SetLogger(logger.Named("adapter"))
	wasictx.SetLogger(logger.Named("wasictx"))
	runtime.SetLogger(logger.Named("runtime"))

	if *interactive {
		if err := checkInteractive(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	code, err := run(cfg, logger, *interactive)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
	os.Exit(int(code))
}

func loadConfig(file string) (config.Config, error) {
	if file == "" {
		return config.Default(), nil
	}
	return config.LoadFile(file)
}

// applyFlags overrides the configuration with non-empty flags.
func applyFlags(cfg *config.Config, wasmFile, envStr, argvStr, preopensStr, logLevel, metricsAddr string) {
	if wasmFile != "" {
		cfg.Module = wasmFile
	}
	if envStr != "" {
		cfg.Env = append(cfg.Env, strings.Split(envStr, ",")...)
	}
	if argvStr != "" {
		cfg.Args = strings.Split(argvStr, ",")
	}
	if preopensStr != "" {
		for _, mapping := range strings.Split(preopensStr, ",") {
			host, guest, ok := strings.Cut(mapping, ":")
			if !ok {
				guest = "/"
			}
			cfg.Preopens = append(cfg.Preopens, config.PreopenConfig{Host: host, Guest: guest})
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = metricsAddr
	}
}

// checkInteractive refuses interactive mode when stdin cannot drive the
// table view.
func checkInteractive(stdin *os.File) error {
	if !adapter.IsTerminal(stdin) {
		return fmt.Errorf("interactive mode needs a terminal on %s", stdin.Name())
	}
	return nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level())
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func run(cfg config.Config, logger *zap.Logger, interactive bool) (uint32, error) {
	ctx := context.Background()

	data, err := os.ReadFile(cfg.Module)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics(reg)
	if cfg.Metrics.Enabled {
		srv := serveMetrics(cfg.Metrics.ListenAddr, reg, logger)
		defer srv.Close()
	}

	wctx, err := buildContext(cfg, m)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := wctx.Close(); err != nil {
			logger.Warn("close context", zap.Error(err))
		}
	}()

	if interactive {
		proceed, err := runInteractive(cfg.Module, wctx)
		if err != nil || !proceed {
			return 0, err
		}
	}

	rt, err := runtime.New(ctx, &runtime.Config{
		MemoryLimitPages: cfg.Runtime.MemoryLimitPages,
		Metrics:          m,
	})
	if err != nil {
		return 0, fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	return rt.Run(ctx, data, wctx)
}

func buildContext(cfg config.Config, obs *metrics.Metrics) (*wasictx.Context, error) {
	b := wasictx.NewBuilder(
		wasictx.WithObserver(obs),
		wasictx.WithStringArrayLimit(cfg.Runtime.StringArrayLimit),
	)

	if err := b.Arg(filepath.Base(cfg.Module)); err != nil {
		return nil, err
	}
	if err := b.Args(cfg.Args); err != nil {
		return nil, err
	}
	var env []wasictx.EnvVar
	for _, kv := range cfg.EnvPairs() {
		env = append(env, wasictx.EnvVar{Key: kv[0], Value: kv[1]})
	}
	if err := b.Envs(env); err != nil {
		return nil, err
	}

	if cfg.InheritStdio {
		streams := []struct {
			f    *os.File
			bind func(wasi.File) error
		}{
			{os.Stdin, b.Stdin},
			{os.Stdout, b.Stdout},
			{os.Stderr, b.Stderr},
		}
		for _, s := range streams {
			// The context closes what it owns; the process keeps its own streams.
			f, err := dupFile(s.f)
			if err != nil {
				return nil, fmt.Errorf("dup %s: %w", s.f.Name(), err)
			}
			if err := s.bind(adapter.NewStdio(f)); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	for _, p := range cfg.Preopens {
		dir, err := hostfs.OpenDir(p.Host)
		if err != nil {
			return nil, fmt.Errorf("preopen %s: %w", p.Host, err)
		}
		if _, err := b.PreopenedDir(dir, p.Guest); err != nil {
			dir.Close()
			return nil, err
		}
	}

	return b.Build()
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}
