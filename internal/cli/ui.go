//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/hashfinder/internal/format"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/progress"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress line.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a real terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// FormatProgressLine renders one progress line: the bar with its ETA, the
// matches found so far, the number of candidates scanned and the scan rate.
func FormatProgressLine(p orchestration.AggregatedProgress) string {
	return fmt.Sprintf(" %s | %d/%d matches | %s scanned | %s",
		format.FormatProgressBarWithETA(p.AverageProgress, p.ETA, ProgressBarWidth),
		min(p.Matches, p.Target), p.Target,
		format.FormatCount(p.Scanned),
		format.FormatRate(p.Rate))
}

// DisplayProgress shows a spinner with an aggregated progress line until
// progressChan is closed, then prints the final line and calls wg.Done.
//
// Parameters:
//   - wg: The WaitGroup to signal on completion.
//   - progressChan: The channel of worker updates.
//   - agg: The aggregator folding updates; nil drains the channel silently.
//   - out: The writer for the spinner and final line.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, agg *orchestration.ProgressAggregator, out io.Writer) {
	defer wg.Done()
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var last orchestration.AggregatedProgress
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				if last.Target > 0 {
					fmt.Fprintln(out, FormatProgressLine(last))
				}
				return
			}
			last = agg.Update(update)
		case <-ticker.C:
			if last.Target > 0 {
				s.UpdateSuffix(FormatProgressLine(last))
			}
		}
	}
}
