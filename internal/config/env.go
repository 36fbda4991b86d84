// This file contains the command-line flag definitions and the resolution of
// flags against the file and environment sources.

package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/search"
)

// Flag names.
const (
	FlagZeroCount     = apperrors.FieldZeroCount
	FlagResultCount   = apperrors.FieldResultCount
	FlagWorkers       = "workers"
	FlagStrategy      = "strategy"
	FlagCheckInterval = "check-interval"
	FlagTimeout       = "timeout"
	FlagFormat        = "format"
	FlagOutput        = "output"
	FlagQuiet         = "quiet"
	FlagVerbose       = "verbose"
	FlagTUI           = "tui"
	FlagCalibrate     = "calibrate"
	FlagNoColor       = "no-color"
	FlagMetricsAddr   = "metrics-addr"
	FlagLogLevel      = "log-level"
	FlagConfig        = "config"
)

// RegisterFlags declares the application flags on fs. Flag defaults mirror
// Default() so --help shows the effective values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.IntP(FlagZeroCount, "N", 0, "number of trailing zero characters the digest must end with (1-64)")
	fs.IntP(FlagResultCount, "F", 0, "number of matching candidates to find")
	fs.IntP(FlagWorkers, "w", 0, "number of parallel workers (0 = host concurrency)")
	fs.String(FlagStrategy, d.Strategy, "worker stop strategy: "+strings.Join(search.StrategyNames(), ", "))
	fs.Uint64(FlagCheckInterval, d.CheckInterval, "candidates scanned between cancellation checks (0 = calibrated or built-in)")
	fs.Duration(FlagTimeout, 0, "abort the search after this duration (0 = no limit)")
	fs.String(FlagFormat, d.Format, "result format: text, json")
	fs.StringP(FlagOutput, "o", "", "also write the results to this file")
	fs.BoolP(FlagQuiet, "q", false, "print only the results")
	fs.BoolP(FlagVerbose, "v", false, "print the execution header and per-worker summary")
	fs.Bool(FlagTUI, false, "run the interactive dashboard")
	fs.Bool(FlagNoColor, false, "disable colored output")
	fs.String(FlagMetricsAddr, "", "serve Prometheus metrics on this address (e.g. :9090)")
	fs.String(FlagLogLevel, d.LogLevel, "diagnostic log level: debug, info, warn, error, disabled")
	fs.StringP(FlagConfig, "c", "", "read configuration from this YAML file")
	fs.Bool(FlagCalibrate, false, "measure the hash rate, store a tuned check interval and exit")
}

// flagOverride applies one explicitly set flag to the configuration.
type flagOverride struct {
	flag  string
	apply func(*AppConfig, *pflag.FlagSet) error
}

// flagOverrides is the declarative table of flag overrides.
var flagOverrides = []flagOverride{
	{FlagZeroCount, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.ZeroCount, err = fs.GetInt(FlagZeroCount)
		return err
	}},
	{FlagResultCount, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.ResultCount, err = fs.GetInt(FlagResultCount)
		return err
	}},
	{FlagWorkers, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.Workers, err = fs.GetInt(FlagWorkers)
		return err
	}},
	{FlagStrategy, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.Strategy, err = fs.GetString(FlagStrategy)
		return err
	}},
	{FlagCheckInterval, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.CheckInterval, err = fs.GetUint64(FlagCheckInterval)
		return err
	}},
	{FlagTimeout, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.Timeout, err = fs.GetDuration(FlagTimeout)
		return err
	}},
	{FlagFormat, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.Format, err = fs.GetString(FlagFormat)
		return err
	}},
	{FlagOutput, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.OutputFile, err = fs.GetString(FlagOutput)
		return err
	}},
	{FlagQuiet, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.Quiet, err = fs.GetBool(FlagQuiet)
		return err
	}},
	{FlagVerbose, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.Verbose, err = fs.GetBool(FlagVerbose)
		return err
	}},
	{FlagTUI, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.TUI, err = fs.GetBool(FlagTUI)
		return err
	}},
	{FlagCalibrate, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.Calibrate, err = fs.GetBool(FlagCalibrate)
		return err
	}},
	{FlagNoColor, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.NoColor, err = fs.GetBool(FlagNoColor)
		return err
	}},
	{FlagMetricsAddr, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.MetricsAddr, err = fs.GetString(FlagMetricsAddr)
		return err
	}},
	{FlagLogLevel, func(c *AppConfig, fs *pflag.FlagSet) (err error) {
		c.LogLevel, err = fs.GetString(FlagLogLevel)
		return err
	}},
}

// Load resolves the configuration with the priority
// flags > environment > config file > defaults. Only flags explicitly set on
// the command line override the other sources.
//
// Parameters:
//   - fs: A parsed flag set on which RegisterFlags was called.
//
// Returns:
//   - AppConfig: The resolved configuration (not yet validated).
//   - error: A ConfigError if a source could not be read.
func Load(fs *pflag.FlagSet) (AppConfig, error) {
	cfg := Default()

	path := os.Getenv(EnvPrefix + "CONFIG")
	if fs.Changed(FlagConfig) {
		var err error
		if path, err = fs.GetString(FlagConfig); err != nil {
			return cfg, apperrors.NewConfigError("%v", err)
		}
	}
	if err := readSources(path, &cfg); err != nil {
		return cfg, err
	}

	for _, o := range flagOverrides {
		if !fs.Changed(o.flag) {
			continue
		}
		if err := o.apply(&cfg, fs); err != nil {
			return cfg, apperrors.NewConfigError("flag --%s: %v", o.flag, err)
		}
	}
	return cfg, nil
}

// ClassifyFlagError maps a flag parsing error onto the application error
// taxonomy, so malformed values for the number of zeros or the count of
// hashes get their dedicated exit codes.
func ClassifyFlagError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "--"+FlagZeroCount), strings.Contains(msg, "'N'"):
		return apperrors.ValidationError{Field: apperrors.FieldZeroCount, Message: msg}
	case strings.Contains(msg, "--"+FlagResultCount), strings.Contains(msg, "'F'"):
		return apperrors.ValidationError{Field: apperrors.FieldResultCount, Message: msg}
	}
	return apperrors.NewConfigError("%s", msg)
}
