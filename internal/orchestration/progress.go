package orchestration

import (
	"math"
	"time"

	"github.com/agbru/hashfinder/internal/format"
	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
)

// maxRunningFraction keeps a running worker below 100% until it reports done.
const maxRunningFraction = 0.99

// ProgressAggregator folds worker updates into search-wide totals and an
// estimated completion. Both CLI and TUI use it to avoid duplicating the
// aggregation logic.
//
// A worker's completion is estimated from the expected number of candidates
// it must scan: a match occurs once every 16^zeroCount candidates on average.
type ProgressAggregator struct {
	tracker         *progress.Tracker
	eta             *format.ProgressWithETA
	expectedPerWork float64
	target          int
}

// NewProgressAggregator creates an aggregator for a search with the given
// parameters. Returns nil if numWorkers <= 0.
func NewProgressAggregator(params search.Params, numWorkers int, strategy search.Strategy) *ProgressAggregator {
	if numWorkers <= 0 {
		return nil
	}
	expected := float64(params.ResultCount) * math.Pow(16, float64(params.ZeroCount))
	if strategy == search.StrategySharedBound {
		expected /= float64(numWorkers)
	}
	return &ProgressAggregator{
		tracker:         progress.NewTracker(numWorkers),
		eta:             format.NewProgressWithETA(numWorkers),
		expectedPerWork: max(expected, 1),
		target:          params.ResultCount,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// WorkerIndex is the index of the worker that sent the update.
	WorkerIndex int
	// WorkerProgress is the estimated completion of that worker in [0, 1].
	WorkerProgress float64
	// Scanned is the total number of candidates scanned by all workers.
	Scanned uint64
	// Matches is the total number of matches recorded by all workers.
	Matches int
	// Target is the requested number of matches.
	Target int
	// Finished is the number of workers that have stopped.
	Finished int
	// Rate is the overall scan throughput in candidates per second.
	Rate float64
	// AverageProgress is the estimated completion in [0, 1].
	AverageProgress float64
	// ETA is the estimated time remaining.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update progress.Update) AggregatedProgress {
	a.tracker.Apply(update)
	fraction := 1.0
	if !update.Done {
		fraction = min(float64(update.Scanned)/a.expectedPerWork, maxRunningFraction)
	}
	avg, eta := a.eta.UpdateWithETA(update.WorkerIndex, fraction)
	return AggregatedProgress{
		WorkerIndex:     update.WorkerIndex,
		WorkerProgress:  fraction,
		Scanned:         a.tracker.Scanned(),
		Matches:         a.tracker.Matches(),
		Target:          a.target,
		Finished:        a.tracker.Finished(),
		Rate:            a.tracker.Rate(a.tracker.Elapsed()),
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current estimated completion without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.eta.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.eta.GetETA()
}

// Tracker exposes the per-worker totals.
func (a *ProgressAggregator) Tracker() *progress.Tracker {
	return a.tracker
}

// NumWorkers returns the number of workers being tracked.
func (a *ProgressAggregator) NumWorkers() int {
	return a.tracker.NumWorkers()
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan progress.Update) {
	for range progressChan {
	}
}
