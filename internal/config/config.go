// Package config resolves the application configuration from defaults, an
// optional YAML file, HASHFINDER_* environment variables and command-line
// flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/agbru/hashfinder/internal/digest"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/logging"
	"github.com/agbru/hashfinder/internal/search"
)

// EnvPrefix is the prefix of every environment variable read by the
// application.
const EnvPrefix = "HASHFINDER_"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// ZeroCount is the number of trailing zero hex characters required.
	ZeroCount int `env:"HASHFINDER_NUMBER_OF_ZEROS" yaml:"numberOfZeros"`
	// ResultCount is the number of matches to find.
	ResultCount int `env:"HASHFINDER_COUNT_OF_HASHES" yaml:"countOfHashes"`
	// Workers is the requested worker count; 0 selects the host concurrency.
	Workers int `env:"HASHFINDER_WORKERS" env-default:"0" yaml:"workers"`
	// Strategy is the worker stop strategy ("local" or "shared").
	Strategy string `env:"HASHFINDER_STRATEGY" env-default:"local" yaml:"strategy"`
	// CheckInterval is the number of candidates between worker checkpoints.
	// 0 selects the calibrated value, or the engine default without one.
	CheckInterval uint64 `env:"HASHFINDER_CHECK_INTERVAL" env-default:"0" yaml:"checkInterval"`
	// Timeout bounds the whole search; 0 disables it.
	Timeout time.Duration `env:"HASHFINDER_TIMEOUT" env-default:"0s" yaml:"timeout"`
	// Format is the result format ("text" or "json").
	Format string `env:"HASHFINDER_FORMAT" env-default:"text" yaml:"format"`
	// OutputFile, when set, receives a copy of the results.
	OutputFile string `env:"HASHFINDER_OUTPUT" yaml:"output"`
	// Quiet suppresses progress and informational output.
	Quiet bool `env:"HASHFINDER_QUIET" yaml:"quiet"`
	// Verbose adds the execution header and the per-worker summary.
	Verbose bool `env:"HASHFINDER_VERBOSE" yaml:"verbose"`
	// TUI runs the interactive dashboard.
	TUI bool `env:"HASHFINDER_TUI" yaml:"tui"`
	// Calibrate measures the host hash rate and stores a tuned check interval
	// instead of searching.
	Calibrate bool `env:"HASHFINDER_CALIBRATE" yaml:"-"`
	// NoColor disables ANSI colors. NO_COLOR has the same effect.
	NoColor bool `env:"HASHFINDER_NO_COLOR" yaml:"noColor"`
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `env:"HASHFINDER_METRICS_ADDR" yaml:"metricsAddr"`
	// LogLevel is the minimum level of diagnostic logs.
	LogLevel string `env:"HASHFINDER_LOG_LEVEL" env-default:"info" yaml:"logLevel"`
	// ConfigFile is the YAML file the configuration was read from, if any.
	ConfigFile string `env:"HASHFINDER_CONFIG" yaml:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() AppConfig {
	return AppConfig{
		Strategy: search.StrategyLocalCap.String(),
		Format:   FormatText,
		LogLevel: "info",
	}
}

// readSources fills cfg from the YAML file at path (when non-empty) and the
// environment. cleanenv applies env-default tags for fields left unset.
func readSources(path string, cfg *AppConfig) error {
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return classifySourceError(err, "could not read config file %s: %v", path, err)
		}
		cfg.ConfigFile = path
		return nil
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return classifySourceError(err, "invalid environment configuration: %v", err)
	}
	return nil
}

// classifySourceError gives a malformed number of zeros or count of hashes
// read from the environment the same ValidationError as the matching flag.
// Any other read failure is a ConfigError built from format and args.
func classifySourceError(err error, format string, args ...any) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, EnvPrefix+"NUMBER_OF_ZEROS"):
		return apperrors.ValidationError{Field: apperrors.FieldZeroCount, Message: msg}
	case strings.Contains(msg, EnvPrefix+"COUNT_OF_HASHES"):
		return apperrors.ValidationError{Field: apperrors.FieldResultCount, Message: msg}
	}
	return apperrors.NewConfigError(format, args...)
}

// Validate checks the semantic validity of the configuration.
//
// Returns:
//   - error: A ValidationError for an out-of-range number of zeros or count
//     of hashes, a ConfigError for any other invalid setting, nil otherwise.
func (c AppConfig) Validate() error {
	if c.ZeroCount < 1 || c.ZeroCount > digest.MaxZeroCount {
		return apperrors.ValidationError{
			Field:   apperrors.FieldZeroCount,
			Message: fmt.Sprintf("must be between 1 and %d, got %d", digest.MaxZeroCount, c.ZeroCount),
		}
	}
	if c.ResultCount < 1 {
		return apperrors.ValidationError{
			Field:   apperrors.FieldResultCount,
			Message: fmt.Sprintf("must be at least 1, got %d", c.ResultCount),
		}
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("--workers must be non-negative, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("--timeout must be non-negative, got %s", c.Timeout)
	}
	if _, err := search.ParseStrategy(c.Strategy); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	switch strings.ToLower(c.Format) {
	case FormatText, FormatJSON:
	default:
		return apperrors.NewConfigError("unknown format %q (valid: %s, %s)", c.Format, FormatText, FormatJSON)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("--tui and --quiet cannot be combined")
	}
	return nil
}

// ToSearchParams returns the search parameters described by the configuration.
func (c AppConfig) ToSearchParams() search.Params {
	return search.Params{ZeroCount: c.ZeroCount, ResultCount: c.ResultCount}
}

// ToEngineOptions returns the engine options described by the configuration.
// The worker count is resolved against the host here, once.
func (c AppConfig) ToEngineOptions() []search.Option {
	strategy, _ := search.ParseStrategy(c.Strategy)
	return []search.Option{
		search.WithWorkers(ResolveWorkers(c.Workers)),
		search.WithStrategy(strategy),
		search.WithCheckInterval(c.CheckInterval),
	}
}
