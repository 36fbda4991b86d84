package cli

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"

	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/format"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
	"github.com/agbru/hashfinder/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and an aggregated progress line.
type CLIProgressReporter struct {
	// Params and Strategy size the completion estimate.
	Params   search.Params
	Strategy search.Strategy
}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays the spinner until the progress channel closes.
func (r CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numWorkers int, out io.Writer) {
	DisplayProgress(wg, progressChan, orchestration.NewProgressAggregator(r.Params, numWorkers, r.Strategy), out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for the
// command line.
type CLIResultPresenter struct {
	// OutputFile additionally receives the rendered matches when set.
	OutputFile string
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentMatches writes the matches in the configured format.
func (p CLIResultPresenter) PresentMatches(matches []search.Match, opts orchestration.PresentationOptions, out io.Writer) error {
	return DisplayMatchesWithConfig(out, matches, OutputConfig{Format: opts.Format, OutputFile: p.OutputFile})
}

// PresentSummary writes the per-worker statistics table.
func (CLIResultPresenter) PresentSummary(outcome orchestration.SearchOutcome, out io.Writer) {
	DisplayWorkerSummary(outcome, out)
}

// HandleError reports a search failure and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleSearchError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// DisplayWorkerSummary renders a table with one row per worker followed by
// a totals line.
//
// Parameters:
//   - outcome: The finished search outcome.
//   - out: The writer for the table.
func DisplayWorkerSummary(outcome orchestration.SearchOutcome, out io.Writer) {
	res := outcome.Result
	fmt.Fprintf(out, "\n%s--- Worker Summary ---%s\n", ui.ColorBold(), ui.ColorReset())

	table := tablewriter.NewWriter(out)
	table.Header("Worker", "Scanned", "Matches", "Duration", "Rate", "Exhausted")
	for _, w := range res.Workers {
		_ = table.Append(
			strconv.Itoa(w.Index),
			format.FormatCount(w.Scanned),
			strconv.Itoa(w.Matches),
			format.FormatExecutionDuration(w.Duration),
			format.FormatRate(rate(w.Scanned, w.Duration)),
			strconv.FormatBool(w.Exhausted),
		)
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(out, "failed to render summary: %v\n", err)
		return
	}

	scanned := res.Scanned()
	fmt.Fprintf(out, "Found %s%d%s of %d matches for %d trailing zeros, %s candidates in %s%s%s (%s).\n",
		ui.ColorPrimary(), len(res.Matches), ui.ColorReset(), outcome.Params.ResultCount, outcome.Params.ZeroCount,
		format.FormatCount(scanned),
		ui.ColorMuted(), format.FormatExecutionDuration(outcome.Duration), ui.ColorReset(),
		format.FormatRate(rate(scanned, res.Duration)))
}

func rate(scanned uint64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(scanned) / d.Seconds()
}
