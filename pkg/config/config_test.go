package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/coolbeans/harvester/pkg/errdefs"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, "dutch-law", cfg.Profile)
	assert.GreaterOrEqual(t, cfg.Concurrency, 1)
	assert.Equal(t, 256, cfg.MaxDepth)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `width: 80
profile: regeling
profile_dir: ./profiles
concurrency: 4
max_depth: 64
log_level: debug
output_dir: out
`
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Width:       80,
		Profile:     "regeling",
		ProfileDir:  "./profiles",
		Concurrency: 4,
		MaxDepth:    64,
		LogLevel:    "debug",
		OutputDir:   "out",
	}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("width: 60\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Width)
	assert.Equal(t, "dutch-law", cfg.Profile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("width: [\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigNotFound))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvWidth, "72")
	t.Setenv(EnvProfile, "regeling")
	t.Setenv(EnvProfileDir, "/etc/harvester/profiles")
	t.Setenv(EnvConcurrency, "2")
	t.Setenv(EnvMaxDepth, "32")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvOutputDir, "/tmp/out")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 72, cfg.Width)
	assert.Equal(t, "regeling", cfg.Profile)
	assert.Equal(t, "/etc/harvester/profiles", cfg.ProfileDir)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 32, cfg.MaxDepth)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestApplyEnv_InvalidInteger(t *testing.T) {
	t.Setenv(EnvWidth, "wide")

	err := DefaultConfig().ApplyEnv()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
	assert.Contains(t, err.Error(), EnvWidth)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"zero max depth", func(c *Config) { c.MaxDepth = 0 }},
		{"empty profile", func(c *Config) { c.Profile = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
		})
	}

	cfg := DefaultConfig()
	cfg.Width = 0
	assert.NoError(t, cfg.Validate(), "zero width disables wrapping")
}
