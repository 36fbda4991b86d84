package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
)

// Searcher runs a search. *search.Engine implements it.
type Searcher interface {
	Search(ctx context.Context, params search.Params, progressChan chan<- progress.Update) (search.Result, error)
	WorkerCount() int
}

// SearchOutcome is the result of one search run. It is the shared domain
// type between orchestration and presentation layers.
type SearchOutcome struct {
	// Params are the parameters the search ran with.
	Params search.Params
	// Result holds the ordered matches and per-worker statistics.
	Result search.Result
	// Duration is the wall-clock time of the run, progress display included.
	Duration time.Duration
	// Err is the search error, nil on success.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Format  string
	Verbose bool
	Quiet   bool
}

// ProgressReporter defines the interface for displaying search progress.
// Implementations handle the visual representation (spinners, dashboards)
// while the orchestration layer coordinates the search.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from workers.
	//   - numWorkers: The number of workers being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numWorkers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.Update, numWorkers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numWorkers int, out io.Writer) {
	f(wg, progressChan, numWorkers, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting search results,
// allowing different output formats without modifying orchestration logic.
type ResultPresenter interface {
	// PresentMatches writes the ordered matches in the configured format.
	PresentMatches(matches []search.Match, opts PresentationOptions, out io.Writer) error

	// PresentSummary writes the per-worker statistics of a finished search.
	PresentSummary(outcome SearchOutcome, out io.Writer)

	// HandleError reports a search failure and returns its exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// ObservingReporter passes every update to Observe before forwarding it to
// Next. Observe runs on the reporter goroutine and must not block.
type ObservingReporter struct {
	Observe func(progress.Update)
	Next    ProgressReporter
}

// DisplayProgress relays updates to Next through an internal channel and
// returns once Next has finished.
func (r ObservingReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numWorkers int, out io.Writer) {
	defer wg.Done()
	next := r.Next
	if next == nil {
		next = NullProgressReporter{}
	}

	relay := make(chan progress.Update, cap(progressChan))
	var inner sync.WaitGroup
	inner.Add(1)
	go next.DisplayProgress(&inner, relay, numWorkers, out)

	for u := range progressChan {
		if r.Observe != nil {
			r.Observe(u)
		}
		relay <- u
	}
	close(relay)
	inner.Wait()
}
