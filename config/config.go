// Package config loads the YAML configuration of the wasihost command.
package config

import (
	"os"
	"path"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
)

// PreopenConfig maps a host directory into the guest.
type PreopenConfig struct {
	// Host is the host directory, opened as a capability root.
	Host string `yaml:"host"`
	// Guest is the absolute path the guest sees.
	Guest string `yaml:"guest"`
}

type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level"`
	// Development switches to the human-readable zap encoder.
	Development bool `yaml:"development"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// ListenAddr is the address serving /metrics (e.g. ":9090").
	ListenAddr string `yaml:"listen_addr"`
}

type RuntimeConfig struct {
	// MemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
	// engine default.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages"`
	// StringArrayLimit caps the encoded size of args and of env. 0 keeps
	// the WASI default.
	StringArrayLimit uint64 `yaml:"string_array_limit"`
}

type Config struct {
	// Module is the path of the .wasm file to run.
	Module string `yaml:"module"`
	// Args are passed to the guest after the program name.
	Args []string `yaml:"args"`
	// Env entries are KEY=VALUE, kept in order.
	Env      []string        `yaml:"env"`
	Preopens []PreopenConfig `yaml:"preopens"`

	// InheritStdio binds the host's standard streams to fds 0 to 2.
	InheritStdio bool `yaml:"inherit_stdio"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

func Default() Config {
	return Config{
		InheritStdio: true,
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9090",
		},
	}
}

func LoadFile(file string) (Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return Config{}, errors.IoPath(errors.PhaseConfig, file, err)
	}
	// ${VAR} references are expanded before parsing.
	expanded := os.ExpandEnv(string(b))
	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config yaml")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EnvPairs splits Env into keys and values. Validate guarantees every entry
// has a non-empty key.
func (c Config) EnvPairs() [][2]string {
	pairs := make([][2]string, 0, len(c.Env))
	for _, kv := range c.Env {
		k, v, _ := strings.Cut(kv, "=")
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs
}

// Level returns the parsed log level.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Validate checks the configuration shape. Module may still be empty; the
// command line can supply it.
func (c Config) Validate() error {
	for i, kv := range c.Env {
		k, _, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return errors.InvalidInput(errors.PhaseConfig, "env[%d] must be KEY=VALUE, got %q", i, kv)
		}
	}

	guests := make(map[string]struct{}, len(c.Preopens))
	for i, p := range c.Preopens {
		if p.Host == "" {
			return errors.InvalidInput(errors.PhaseConfig, "preopens[%d].host is required", i)
		}
		if !path.IsAbs(p.Guest) {
			return errors.InvalidInput(errors.PhaseConfig, "preopens[%d].guest must be absolute, got %q", i, p.Guest)
		}
		guest := path.Clean(p.Guest)
		if _, dup := guests[guest]; dup {
			return errors.InvalidInput(errors.PhaseConfig, "preopens[%d].guest %q is mounted twice", i, guest)
		}
		guests[guest] = struct{}{}
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return errors.InvalidInput(errors.PhaseConfig, "metrics.listen_addr is required when enabled")
	}
	return nil
}
