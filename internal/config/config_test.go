package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9090,
		},
		Filter: FilterConfig{
			Mode: "runs",
		},
		Decode: DecodeConfig{
			DelayDepth: 3,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "bad metrics port",
			mutate:  func(c *Config) { c.Metrics.Port = 0 },
			wantErr: "invalid metrics port",
		},
		{
			name:   "metrics disabled skips port check",
			mutate: func(c *Config) { c.Metrics.Enabled = false; c.Metrics.Port = 0 },
		},
		{
			name:    "bad filter mode",
			mutate:  func(c *Config) { c.Filter.Mode = "gop" },
			wantErr: "invalid filter mode",
		},
		{
			name:    "inverted size bounds",
			mutate:  func(c *Config) { c.Filter.MinSize = 2000; c.Filter.MaxSize = 1000 },
			wantErr: "exceeds max_size",
		},
		{
			name:    "inverted pts bounds",
			mutate:  func(c *Config) { c.Filter.MinPTS = 500; c.Filter.MaxPTS = 100 },
			wantErr: "exceeds max_pts",
		},
		{
			name:    "negative delay depth",
			mutate:  func(c *Config) { c.Decode.DelayDepth = -1 },
			wantErr: "delay_depth",
		},
		{
			name:    "negative max packets",
			mutate:  func(c *Config) { c.Decode.MaxPackets = -1 },
			wantErr: "max_packets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
  format: text
filter:
  mode: boundaries
  min_size: 100
decode:
  delay_depth: 5
  max_packets: 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "boundaries", cfg.Filter.Mode)
	assert.Equal(t, 100, cfg.Filter.MinSize)
	assert.Equal(t, 5, cfg.Decode.DelayDepth)
	assert.Equal(t, 200, cfg.Decode.MaxPackets)

	// Defaults fill the rest
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
filter:
  mode: nonsense
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter mode")
}
