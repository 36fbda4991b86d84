package orchestration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/hashfinder/internal/digest"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. Workers never block on it, so a larger buffer only reduces the
// number of dropped intermediate updates when the display is slow.
const ProgressBufferMultiplier = 5

// ExecuteSearch runs one search while a progress reporter consumes worker
// updates.
//
// The reporter runs in its own goroutine and the progress channel is closed
// only after the search's join has returned, so the reporter always sees
// every delivered update before it exits. After a successful search every
// worker's final totals are delivered, even if its own last update was
// dropped.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - searcher: The engine that performs the search.
//   - params: The validated search parameters.
//   - progressReporter: The progress reporter (NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - SearchOutcome: The result, its duration and any error.
func ExecuteSearch(ctx context.Context, searcher Searcher, params search.Params, progressReporter ProgressReporter, out io.Writer) SearchOutcome {
	numWorkers := searcher.WorkerCount()
	progressChan := make(chan progress.Update, numWorkers*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, numWorkers, out)

	start := time.Now()
	res, err := searcher.Search(ctx, params, progressChan)
	if err == nil {
		publishFinalTotals(progressChan, res.Workers)
	}
	close(progressChan)
	displayWg.Wait()

	return SearchOutcome{Params: params, Result: res, Duration: time.Since(start), Err: err}
}

// publishFinalTotals sends one Done update per worker from the joined
// statistics. Workers publish without blocking and may drop their last
// update on a full buffer; the reporter drains until close, so these sends
// always complete and the display ends on the real totals.
func publishFinalTotals(progressChan chan<- progress.Update, workers []search.WorkerStats) {
	for _, w := range workers {
		progressChan <- progress.Update{
			WorkerIndex: w.Index,
			Scanned:     w.Scanned,
			Matches:     w.Matches,
			Done:        true,
		}
	}
}

// VerifyMatches re-checks a result set independently of the engine: every
// digest is recomputed and must end with the required zeros, candidates must
// be strictly ascending and the set must not exceed the requested count.
func VerifyMatches(matches []search.Match, params search.Params) error {
	if len(matches) > params.ResultCount {
		return fmt.Errorf("got %d matches, requested %d", len(matches), params.ResultCount)
	}
	for i, m := range matches {
		if i > 0 && m.Candidate <= matches[i-1].Candidate {
			return fmt.Errorf("candidate %d at position %d is not above %d", m.Candidate, i, matches[i-1].Candidate)
		}
		if d := digest.Of(m.Candidate); d != m.Digest {
			return fmt.Errorf("digest of %d is %s, reported %s", m.Candidate, d, m.Digest)
		}
		if !digest.HasZeroSuffix(m.Digest, params.ZeroCount) {
			return fmt.Errorf("digest of %d does not end with %d zeros", m.Candidate, params.ZeroCount)
		}
	}
	return nil
}

// AnalyzeOutcome turns a search outcome into presented output and an exit
// code.
//
// Failed searches are reported through the presenter's error handler. A
// successful result is re-verified before it is presented; a result that
// fails verification is never printed.
//
// Parameters:
//   - outcome: The outcome returned by ExecuteSearch.
//   - opts: The presentation options.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer receiving the results.
//   - errOut: The io.Writer receiving diagnostics and the summary.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeOutcome(outcome SearchOutcome, opts PresentationOptions, presenter ResultPresenter, out, errOut io.Writer) int {
	if outcome.Err != nil {
		return presenter.HandleError(outcome.Err, outcome.Duration, errOut)
	}

	if err := VerifyMatches(outcome.Result.Matches, outcome.Params); err != nil {
		fmt.Fprintf(errOut, "CRITICAL: result verification failed: %v\n", err)
		return apperrors.ExitErrorMismatch
	}

	if err := presenter.PresentMatches(outcome.Result.Matches, opts, out); err != nil {
		return presenter.HandleError(apperrors.WrapError(err, "failed to write results"), outcome.Duration, errOut)
	}
	if opts.Verbose && !opts.Quiet {
		presenter.PresentSummary(outcome, errOut)
	}
	return apperrors.ExitSuccess
}
