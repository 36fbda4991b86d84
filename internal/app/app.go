// Package app wires the command line, configuration, logging, metrics and the
// search engine into the hashfinder executable.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agbru/hashfinder/internal/calibration"
	"github.com/agbru/hashfinder/internal/config"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/search"
	"github.com/agbru/hashfinder/internal/ui"
)

// Application represents the hashfinder application instance.
type Application struct {
	Out    io.Writer
	ErrOut io.Writer

	// NewSearcher builds the searcher for a resolved configuration.
	NewSearcher func(cfg config.AppConfig) orchestration.Searcher
	// Interactive reports whether progress output goes to a terminal.
	Interactive func() bool
	// ProfilePath is the cached calibration profile.
	ProfilePath string

	root     *cobra.Command
	exitCode int
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSearcherFactory replaces the search engine, e.g. with a test double.
func WithSearcherFactory(f func(cfg config.AppConfig) orchestration.Searcher) AppOption {
	return func(a *Application) { a.NewSearcher = f }
}

// WithInteractive overrides terminal detection for the progress display.
func WithInteractive(interactive bool) AppOption {
	return func(a *Application) { a.Interactive = func() bool { return interactive } }
}

// WithProfilePath sets the calibration profile location.
func WithProfilePath(path string) AppOption {
	return func(a *Application) { a.ProfilePath = path }
}

// New creates an Application writing results to out and diagnostics to errOut.
func New(out, errOut io.Writer, opts ...AppOption) *Application {
	a := &Application{
		Out:    out,
		ErrOut: errOut,
		NewSearcher: func(cfg config.AppConfig) orchestration.Searcher {
			return search.NewEngine(cfg.ToEngineOptions()...)
		},
		Interactive: func() bool { return ui.IsTerminal(os.Stderr) },
		ProfilePath: calibration.GetDefaultProfilePath(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.root = a.newRootCommand()
	return a
}

func (a *Application) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashfinder -N zeros -F count",
		Short: "Find integers whose SHA-256 digest ends with zeros",
		Long: `hashfinder searches the non-negative integers, in ascending order, for
candidates whose SHA-256 digest (of the decimal string) ends with a given
number of '0' hex characters, and prints the first matches found.`,
		Example: `  hashfinder -N 3 -F 6
  hashfinder -N 5 -F 3 --workers 8 --format json -o results.json
  hashfinder -N 6 -F 2 --tui`,
		Version:       Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return apperrors.NewConfigError("%v", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Calibrate {
				a.exitCode = a.runCalibration(cmd.Context(), cfg)
				return nil
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.exitCode = a.run(cmd.Context(), cfg)
			return nil
		},
	}
	cmd.SetVersionTemplate(versionTemplate())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return config.ClassifyFlagError(err)
	})
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// Execute parses args (without the program name), runs the selected mode and
// returns the process exit code.
func (a *Application) Execute(ctx context.Context, args []string) int {
	a.exitCode = apperrors.ExitSuccess
	a.root.SetArgs(args)
	a.root.SetOut(a.Out)
	a.root.SetErr(a.ErrOut)

	if err := a.root.ExecuteContext(ctx); err != nil {
		ui.InitTheme(!a.Interactive())
		fmt.Fprintf(a.ErrOut, "%sError%s: %v\n", ui.ColorRed(), ui.ColorReset(), err)
		return apperrors.ExitCodeFor(err)
	}
	return a.exitCode
}
