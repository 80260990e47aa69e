package main

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/apepkuss/wasmedge-wasi-for-quark/config"
	"github.com/apepkuss/wasmedge-wasi-for-quark/metrics"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Env = []string{"FROM_FILE=1"}
	applyFlags(&cfg, "app.wasm", "A=1,B=2", "x,y", "/tmp:/sandbox,/var", "debug", ":9191")

	require.Equal(t, "app.wasm", cfg.Module)
	require.Equal(t, []string{"FROM_FILE=1", "A=1", "B=2"}, cfg.Env)
	require.Equal(t, []string{"x", "y"}, cfg.Args)
	require.Equal(t, []config.PreopenConfig{
		{Host: "/tmp", Guest: "/sandbox"},
		{Host: "/var", Guest: "/"},
	}, cfg.Preopens)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, ":9191", cfg.Metrics.ListenAddr)
	require.NoError(t, cfg.Validate())
}

func TestBuildContext(t *testing.T) {
	cfg := config.Default()
	cfg.Module = "/path/to/app.wasm"
	cfg.Args = []string{"--flag"}
	cfg.Env = []string{"HOME=/home/guest"}
	cfg.Preopens = []config.PreopenConfig{{Host: t.TempDir(), Guest: "/sandbox"}}

	m := metrics.NewMetrics(prometheus.NewRegistry())
	wctx, err := buildContext(cfg, m)
	require.NoError(t, err)
	defer wctx.Close()

	require.Equal(t, []string{"app.wasm", "--flag"}, wctx.Args())
	require.Equal(t, []string{"HOME=/home/guest"}, wctx.Environ())
	require.Len(t, wctx.Preopens(), 1)
	require.Equal(t, "/sandbox", wctx.Preopens()[0].GuestPath)
	require.Equal(t, 1.0, testutil.ToFloat64(m.DescriptorsOpen.WithLabelValues("dir")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.DescriptorsOpen.WithLabelValues("stdio")))
}

func TestBuildContext_MissingPreopen(t *testing.T) {
	cfg := config.Default()
	cfg.Module = "app.wasm"
	cfg.InheritStdio = false
	cfg.Preopens = []config.PreopenConfig{{Host: "/does/not/exist", Guest: "/data"}}

	_, err := buildContext(cfg, metrics.NewMetrics(prometheus.NewRegistry()))
	require.Error(t, err)
}

func TestCheckInteractive_RefusesPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	err = checkInteractive(r)
	require.Error(t, err)
	require.Contains(t, err.Error(), "terminal")
}

func TestInteractiveModel(t *testing.T) {
	cfg := config.Default()
	cfg.Module = "app.wasm"
	cfg.InheritStdio = false
	cfg.Preopens = []config.PreopenConfig{{Host: t.TempDir(), Guest: "/sandbox"}}

	wctx, err := buildContext(cfg, metrics.NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	defer wctx.Close()

	m := newInteractiveModel(cfg.Module, wctx)
	require.Len(t, m.rows, 1)
	require.Contains(t, m.View(), "/sandbox")
	require.Contains(t, m.View(), "dir caps")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.proceed)
}
