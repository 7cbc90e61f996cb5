package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coolbeans/harvester/pkg/config"
	"github.com/coolbeans/harvester/pkg/harvest"
	"github.com/coolbeans/harvester/pkg/profile"
	"github.com/coolbeans/harvester/pkg/yamlout"
)

var version = "0.1.0"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "harvester",
		Short: "Dutch statutory law harvester",
		Long: `Harvester converts Dutch statutory XML (BWB) into an addressable
hierarchy of articles and writes it as canonical YAML.

Every artikel, lid and onderdeel gets a dot-notation address such as 1.2.a,
so individual provisions can be referenced, diffed and executed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./"+config.FileName+" when present)")
	flags.String("profile", "", "Harvesting profile name")
	flags.String("profile-dir", "", "Directory with profile YAML files")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(profilesCmd())

	return rootCmd
}

// environment is the resolved configuration shared by all commands.
type environment struct {
	cfg      *config.Config
	logger   *zap.Logger
	profiles *profile.Registry
}

// loadEnvironment resolves configuration from the config file, HARVESTER_*
// variables and command flags, in that order of precedence.
func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile, _ = flags.GetString("profile")
	}
	if flags.Changed("profile-dir") {
		cfg.ProfileDir, _ = flags.GetString("profile-dir")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Lookup("width") != nil && flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Lookup("concurrency") != nil && flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Lookup("output-dir") != nil && flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	logger, err := newLogger(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	profiles := profile.NewRegistry(profile.WithLogger(logger))
	if cfg.ProfileDir != "" {
		if err := profiles.LoadDirectory(cfg.ProfileDir); err != nil {
			return nil, err
		}
	}

	return &environment{cfg: cfg, logger: logger, profiles: profiles}, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadFile(config.FileName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.FileName, err)
	}
	return cfg, nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true
	return zc.Build()
}

// pipeline builds a harvest pipeline for the configured profile.
func (env *environment) pipeline(opts ...harvest.Option) (*harvest.Pipeline, error) {
	prof, ok := env.profiles.Get(env.cfg.Profile)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", env.cfg.Profile)
	}
	registry, err := prof.ElementRegistry()
	if err != nil {
		return nil, err
	}

	base := []harvest.Option{
		harvest.WithElementRegistry(registry),
		harvest.WithHierarchy(prof.Hierarchy()),
		harvest.WithWriter(yamlout.NewWriter(yamlout.WithWidth(env.cfg.Width))),
		harvest.WithLogger(env.logger),
		harvest.WithMaxDepth(env.cfg.MaxDepth),
	}
	return harvest.NewPipeline(append(base, opts...)...), nil
}
