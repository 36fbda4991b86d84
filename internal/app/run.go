package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/signal"
	"syscall"

	"github.com/agbru/hashfinder/internal/calibration"
	"github.com/agbru/hashfinder/internal/cli"
	"github.com/agbru/hashfinder/internal/config"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/logging"
	"github.com/agbru/hashfinder/internal/metrics"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/search"
	"github.com/agbru/hashfinder/internal/server"
	"github.com/agbru/hashfinder/internal/sysmon"
	"github.com/agbru/hashfinder/internal/tui"
	"github.com/agbru/hashfinder/internal/ui"
)

// run executes one search with a validated configuration and returns the
// exit code.
func (a *Application) run(ctx context.Context, cfg config.AppConfig) int {
	ui.InitTheme(cfg.NoColor || !(cfg.TUI || a.Interactive()))

	// The dashboard owns the terminal, so its diagnostics are held back and
	// flushed once it exits.
	var held bytes.Buffer
	logger := a.newLogger(cfg, &held)
	defer func() {
		if held.Len() > 0 {
			_, _ = a.ErrOut.Write(held.Bytes())
		}
	}()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	if cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.Timeout)
		defer cancelTimeout()
	}

	registry := metrics.NewRegistry()
	if cfg.MetricsAddr != "" {
		stop, err := a.startMetricsServer(ctx, cfg.MetricsAddr, registry, logger)
		if err != nil {
			return cli.CLIResultPresenter{}.HandleError(apperrors.NewConfigError("%v", err), 0, a.ErrOut)
		}
		defer stop()
	}

	if cfg.CheckInterval == 0 {
		if p, ok := calibration.LoadCachedProfile(a.ProfilePath, calibration.DefaultMaxAge); ok {
			cfg.CheckInterval = p.CheckInterval
			logger.Debug("using calibrated check interval", logging.Uint64("check_interval", p.CheckInterval))
		}
	}

	searcher := a.NewSearcher(cfg)
	logger.Debug("search configured",
		logging.Int("zeros", cfg.ZeroCount),
		logging.Int("hashes", cfg.ResultCount),
		logging.Int("workers", searcher.WorkerCount()),
		logging.Int("logical_cores", sysmon.LogicalCores()),
		logging.String("strategy", cfg.Strategy))

	if cfg.TUI {
		return a.runTUI(ctx, cfg, searcher, registry)
	}
	return a.runCLI(ctx, cfg, searcher, registry, logger)
}

// newLogger builds the diagnostic logger. In dashboard mode entries go to
// held as plain text instead of the terminal.
func (a *Application) newLogger(cfg config.AppConfig, held io.Writer) logging.Logger {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	if cfg.TUI {
		return logging.NewStdLoggerAdapter(log.New(held, "", log.LstdFlags))
	}
	return logging.NewConsoleLogger(a.ErrOut, "hashfinder", level)
}

// startMetricsServer binds addr and serves the registry until ctx ends. The
// returned function stops the server and waits for it.
func (a *Application) startMetricsServer(ctx context.Context, addr string, registry *metrics.Registry, logger logging.Logger) (func(), error) {
	srv := server.New(addr, registry, logger)
	if err := srv.Listen(); err != nil {
		return nil, err
	}

	srvCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(srvCtx); err != nil {
			logger.Error("metrics server failed", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

func (a *Application) runCLI(ctx context.Context, cfg config.AppConfig, searcher orchestration.Searcher, registry *metrics.Registry, logger logging.Logger) int {
	params := cfg.ToSearchParams()
	strategy, _ := search.ParseStrategy(cfg.Strategy)
	workers := searcher.WorkerCount()

	if cfg.Verbose && !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, workers, a.ErrOut)
	}

	var reporter orchestration.ProgressReporter = orchestration.NullProgressReporter{}
	if !cfg.Quiet && a.Interactive() {
		reporter = cli.CLIProgressReporter{Params: params, Strategy: strategy}
	}
	reporter = orchestration.ObservingReporter{Observe: registry.ObserveUpdate, Next: reporter}

	registry.StartSearch(workers)
	outcome := orchestration.ExecuteSearch(ctx, searcher, params, reporter, a.ErrOut)
	registry.ObserveSearch(metrics.StatusFor(outcome.Err), outcome.Duration, len(outcome.Result.Matches))
	logger.Debug("search finished",
		logging.Duration("duration", outcome.Duration),
		logging.Uint64("scanned", outcome.Result.Scanned()),
		logging.Int("matches", len(outcome.Result.Matches)))

	return a.present(outcome, cfg)
}

func (a *Application) runTUI(ctx context.Context, cfg config.AppConfig, searcher orchestration.Searcher, registry *metrics.Registry) int {
	strategy, _ := search.ParseStrategy(cfg.Strategy)
	outcome, err := tui.Run(ctx, tui.Options{
		Searcher: searcher,
		Params:   cfg.ToSearchParams(),
		Strategy: strategy,
		Version:  Version,
		Observe:  registry.ObserveUpdate,
		OnStart:  registry.StartSearch,
		OnFinish: func(o orchestration.SearchOutcome) {
			registry.ObserveSearch(metrics.StatusFor(o.Err), o.Duration, len(o.Result.Matches))
		},
	})
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(apperrors.WrapError(err, "dashboard failed"), 0, a.ErrOut)
	}
	return a.present(outcome, cfg)
}

// present prints the matches to Out and everything else to ErrOut.
func (a *Application) present(outcome orchestration.SearchOutcome, cfg config.AppConfig) int {
	opts := orchestration.PresentationOptions{Format: cfg.Format, Verbose: cfg.Verbose, Quiet: cfg.Quiet}
	presenter := cli.CLIResultPresenter{OutputFile: cfg.OutputFile}
	code := orchestration.AnalyzeOutcome(outcome, opts, presenter, a.Out, a.ErrOut)
	if code == apperrors.ExitSuccess && cfg.OutputFile != "" && !cfg.Quiet {
		cli.DisplaySavedNotice(a.ErrOut, cfg.OutputFile)
	}
	return code
}

// runCalibration measures the hash rate, prints the derived intervals and
// stores the profile used by later searches.
func (a *Application) runCalibration(ctx context.Context, cfg config.AppConfig) int {
	ui.InitTheme(cfg.NoColor || !a.Interactive())
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	fmt.Fprintf(a.ErrOut, "Measuring the hash rate for %s...\n", calibration.DefaultWindow)
	p, err := calibration.Calibrate(ctx, calibration.DefaultWindow, calibration.DefaultTargetLatency)
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrOut)
	}
	calibration.PrintCalibrationResults(a.Out, p)
	if err := p.SaveProfile(a.ProfilePath); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrOut)
	}
	calibration.PrintCalibrationOutput(a.Out, p, a.ProfilePath)
	return apperrors.ExitSuccess
}
