// Package config holds the process configuration of the harvester.
// Values come from defaults, an optional YAML file, and HARVESTER_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/harvester/pkg/element"
	"github.com/coolbeans/harvester/pkg/errdefs"
	"github.com/coolbeans/harvester/pkg/profile"
	"github.com/coolbeans/harvester/pkg/yamlout"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// FileName is the config file looked up in the working directory.
const FileName = "harvester.yaml"

// Environment variables read by ApplyEnv.
const (
	EnvWidth       = "HARVESTER_WIDTH"
	EnvProfile     = "HARVESTER_PROFILE"
	EnvProfileDir  = "HARVESTER_PROFILE_DIR"
	EnvConcurrency = "HARVESTER_CONCURRENCY"
	EnvMaxDepth    = "HARVESTER_MAX_DEPTH"
	EnvLogLevel    = "HARVESTER_LOG_LEVEL"
	EnvOutputDir   = "HARVESTER_OUTPUT_DIR"
)

type Config struct {
	// Width is the YAML wrap width.
	Width int `yaml:"width"`
	// Profile names the harvesting profile to use.
	Profile    string `yaml:"profile"`
	ProfileDir string `yaml:"profile_dir,omitempty"`
	// Concurrency bounds the number of documents processed at once.
	Concurrency int    `yaml:"concurrency"`
	MaxDepth    int    `yaml:"max_depth"`
	LogLevel    string `yaml:"log_level"`
	OutputDir   string `yaml:"output_dir,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:       yamlout.DefaultWidth,
		Profile:     profile.BuiltinName,
		Concurrency: runtime.NumCPU(),
		MaxDepth:    element.DefaultMaxDepth,
		LogLevel:    "info",
	}
}

// LoadFile reads a YAML config file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from HARVESTER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvProfile); ok {
		c.Profile = v
	}
	if v, ok := os.LookupEnv(EnvProfileDir); ok {
		c.ProfileDir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvOutputDir); ok {
		c.OutputDir = v
	}

	ints := []struct {
		name  string
		field *int
	}{
		{EnvWidth, &c.Width},
		{EnvConcurrency, &c.Concurrency},
		{EnvMaxDepth, &c.MaxDepth},
	}
	for _, i := range ints {
		v, ok := os.LookupEnv(i.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &errdefs.ConfigurationError{Component: "environment", Reason: fmt.Sprintf("%s=%q is not an integer", i.name, v)}
		}
		*i.field = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.Width < 0:
		return c.invalid("width must not be negative, got %d", c.Width)
	case c.Concurrency < 1:
		return c.invalid("concurrency must be at least 1, got %d", c.Concurrency)
	case c.MaxDepth < 1:
		return c.invalid("max_depth must be at least 1, got %d", c.MaxDepth)
	case c.Profile == "":
		return c.invalid("profile is required")
	}
	if _, err := c.Level(); err != nil {
		return c.invalid("%v", err)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

func (c *Config) invalid(format string, args ...any) error {
	return &errdefs.ConfigurationError{Component: "config", Reason: fmt.Sprintf(format, args...)}
}
