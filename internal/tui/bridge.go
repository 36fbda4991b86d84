package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
)

// programRef is a shared reference to the tea.Program. Bubbletea copies the
// model on every Update, so bridge goroutines need a pointer that survives.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send delivers msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by turning
// worker updates into ProgressMsg values.
type TUIProgressReporter struct {
	ref        *programRef
	params     search.Params
	strategy   search.Strategy
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel into the dashboard.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numWorkers int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(t.params, numWorkers, t.strategy)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		t.ref.Send(ProgressMsg{
			AggregatedProgress: agg.Update(update),
			WorkerScanned:      update.Scanned,
			WorkerMatches:      update.Matches,
			Done:               update.Done,
			Generation:         t.generation,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.generation})
}

// TUIResultPresenter implements orchestration.ResultPresenter by logging
// results in the dashboard instead of writing them out.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

// PresentMatches sends the matches to the event log.
func (t *TUIResultPresenter) PresentMatches(matches []search.Match, _ orchestration.PresentationOptions, _ io.Writer) error {
	t.ref.Send(MatchesMsg{Matches: matches, Generation: t.generation})
	return nil
}

// PresentSummary sends the search totals to the event log.
func (t *TUIResultPresenter) PresentSummary(outcome orchestration.SearchOutcome, _ io.Writer) {
	t.ref.Send(SummaryMsg{Outcome: outcome, Generation: t.generation})
}

// HandleError sends the failure to the dashboard and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration, Generation: t.generation})
	return apperrors.ExitCodeFor(err)
}
