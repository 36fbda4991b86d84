package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agbru/hashfinder/internal/digest"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
)

// MockResultPresenter records what it was asked to present.
type MockResultPresenter struct {
	mu        sync.Mutex
	presented []search.Match
	summaries int
	presentFn func() error
}

func (m *MockResultPresenter) PresentMatches(matches []search.Match, _ PresentationOptions, _ io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presented = matches
	if m.presentFn != nil {
		return m.presentFn()
	}
	return nil
}

func (m *MockResultPresenter) PresentSummary(SearchOutcome, io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries++
}

func (m *MockResultPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	return apperrors.ExitCodeFor(err)
}

// MockSearcher is a Searcher whose behavior is supplied by the test.
type MockSearcher struct {
	Workers    int
	SearchFunc func(ctx context.Context, params search.Params, progressChan chan<- progress.Update) (search.Result, error)
}

func (m *MockSearcher) WorkerCount() int { return m.Workers }

func (m *MockSearcher) Search(ctx context.Context, params search.Params, progressChan chan<- progress.Update) (search.Result, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, params, progressChan)
	}
	return search.Result{}, nil
}

func realMatches(cs ...uint64) []search.Match {
	out := make([]search.Match, len(cs))
	for i, c := range cs {
		out[i] = search.Match{Candidate: c, Digest: digest.Of(c)}
	}
	return out
}

// TestExecuteSearch verifies that the orchestrator runs the searcher and
// forwards its result and error.
func TestExecuteSearch(t *testing.T) {
	t.Parallel()
	params := search.Params{ZeroCount: 1, ResultCount: 2}
	tests := []struct {
		name    string
		fn      func(context.Context, search.Params, chan<- progress.Update) (search.Result, error)
		wantErr bool
		wantLen int
	}{
		{
			name: "success",
			fn: func(context.Context, search.Params, chan<- progress.Update) (search.Result, error) {
				return search.Result{Matches: realMatches(23, 38)}, nil
			},
			wantLen: 2,
		},
		{
			name: "failure",
			fn: func(context.Context, search.Params, chan<- progress.Update) (search.Result, error) {
				return search.Result{}, apperrors.WorkerError{Worker: 1, Cause: errors.New("boom")}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &MockSearcher{Workers: 2, SearchFunc: tt.fn}
			outcome := ExecuteSearch(context.Background(), s, params, NullProgressReporter{}, io.Discard)
			if (outcome.Err != nil) != tt.wantErr {
				t.Errorf("Err = %v, wantErr %v", outcome.Err, tt.wantErr)
			}
			if len(outcome.Result.Matches) != tt.wantLen {
				t.Errorf("got %d matches, want %d", len(outcome.Result.Matches), tt.wantLen)
			}
			if outcome.Params != params {
				t.Errorf("Params = %+v, want %+v", outcome.Params, params)
			}
		})
	}
}

// TestExecuteSearch_ReporterSeesUpdates verifies that updates sent during the
// search reach the reporter before ExecuteSearch returns.
func TestExecuteSearch_ReporterSeesUpdates(t *testing.T) {
	t.Parallel()
	s := &MockSearcher{
		Workers: 2,
		SearchFunc: func(_ context.Context, _ search.Params, ch chan<- progress.Update) (search.Result, error) {
			ch <- progress.Update{WorkerIndex: 0, Scanned: 10}
			ch <- progress.Update{WorkerIndex: 1, Scanned: 20, Done: true}
			return search.Result{}, nil
		},
	}

	var received []progress.Update
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan progress.Update, numWorkers int, _ io.Writer) {
		defer wg.Done()
		if numWorkers != 2 {
			t.Errorf("numWorkers = %d, want 2", numWorkers)
		}
		for u := range ch {
			received = append(received, u)
		}
	})

	ExecuteSearch(context.Background(), s, search.Params{ZeroCount: 1, ResultCount: 1}, reporter, io.Discard)
	if len(received) != 2 {
		t.Fatalf("reporter received %d updates, want 2", len(received))
	}
}

// TestExecuteSearch_FinalTotalsReachReporter verifies that the reporter ends
// on every worker's joined totals even when the workers' own final updates
// were dropped, and that a failed search publishes none.
func TestExecuteSearch_FinalTotalsReachReporter(t *testing.T) {
	t.Parallel()
	stats := []search.WorkerStats{
		{Index: 0, Scanned: 4096, Matches: 2},
		{Index: 1, Scanned: 4100, Matches: 1},
		{Index: 2, Scanned: 3999, Matches: 0},
	}
	tests := []struct {
		name      string
		err       error
		wantFinal int
	}{
		{"success", nil, 3},
		{"failure", context.Canceled, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &MockSearcher{
				Workers: len(stats),
				SearchFunc: func(context.Context, search.Params, chan<- progress.Update) (search.Result, error) {
					return search.Result{Workers: stats}, tt.err
				},
			}

			agg := NewProgressAggregator(search.Params{ZeroCount: 1, ResultCount: 3}, len(stats), search.StrategyLocalCap)
			var last AggregatedProgress
			var final int
			reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan progress.Update, _ int, _ io.Writer) {
				defer wg.Done()
				for u := range ch {
					if u.Done {
						final++
					}
					last = agg.Update(u)
				}
			})

			ExecuteSearch(context.Background(), s, search.Params{ZeroCount: 1, ResultCount: 3}, reporter, io.Discard)
			if final != tt.wantFinal {
				t.Fatalf("final updates = %d, want %d", final, tt.wantFinal)
			}
			if tt.wantFinal == 0 {
				return
			}
			if last.Finished != len(stats) {
				t.Errorf("Finished = %d, want %d", last.Finished, len(stats))
			}
			if last.Scanned != 12195 || last.Matches != 3 {
				t.Errorf("totals = %d scanned, %d matches; want 12195 and 3", last.Scanned, last.Matches)
			}
		})
	}
}

// TestExecuteSearch_RealEngine runs the orchestrator end to end.
func TestExecuteSearch_RealEngine(t *testing.T) {
	t.Parallel()
	engine := search.NewEngine(search.WithWorkers(4))
	params := search.Params{ZeroCount: 2, ResultCount: 3}

	outcome := ExecuteSearch(context.Background(), engine, params, NullProgressReporter{}, io.Discard)
	if outcome.Err != nil {
		t.Fatalf("unexpected error: %v", outcome.Err)
	}
	if err := VerifyMatches(outcome.Result.Matches, params); err != nil {
		t.Errorf("VerifyMatches() = %v", err)
	}
	if outcome.Result.Matches[0].Candidate != 403 {
		t.Errorf("first match = %d, want 403", outcome.Result.Matches[0].Candidate)
	}
}

func TestVerifyMatches(t *testing.T) {
	t.Parallel()
	params := search.Params{ZeroCount: 1, ResultCount: 3}
	forged := realMatches(23, 38)
	forged[1].Digest = digest.Of(39)

	tests := []struct {
		name    string
		matches []search.Match
		params  search.Params
		wantErr string
	}{
		{"valid", realMatches(23, 38, 76), params, ""},
		{"empty", nil, params, ""},
		{"too many", realMatches(23, 38, 76, 105), params, "requested 3"},
		{"not ascending", realMatches(38, 23), params, "not above"},
		{"duplicate", realMatches(23, 23), params, "not above"},
		{"wrong digest", forged, params, "reported"},
		{"missing zeros", realMatches(24), params, "does not end"},
		{"too few zeros for request", realMatches(23), search.Params{ZeroCount: 2, ResultCount: 1}, "does not end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := VerifyMatches(tt.matches, tt.params)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

// TestAnalyzeOutcome verifies exit codes and what gets presented.
func TestAnalyzeOutcome(t *testing.T) {
	t.Parallel()
	params := search.Params{ZeroCount: 1, ResultCount: 2}
	bad := realMatches(23, 38)
	bad[0].Digest = strings.Repeat("f", digest.HexLen)

	tests := []struct {
		name          string
		outcome       SearchOutcome
		opts          PresentationOptions
		presentErr    error
		wantCode      int
		wantPresented bool
		wantSummaries int
	}{
		{
			name:          "success",
			outcome:       SearchOutcome{Params: params, Result: search.Result{Matches: realMatches(23, 38)}},
			wantCode:      apperrors.ExitSuccess,
			wantPresented: true,
		},
		{
			name:          "success verbose",
			outcome:       SearchOutcome{Params: params, Result: search.Result{Matches: realMatches(23, 38)}},
			opts:          PresentationOptions{Verbose: true},
			wantCode:      apperrors.ExitSuccess,
			wantPresented: true,
			wantSummaries: 1,
		},
		{
			name:     "timeout",
			outcome:  SearchOutcome{Params: params, Err: context.DeadlineExceeded},
			wantCode: apperrors.ExitErrorTimeout,
		},
		{
			name:     "worker failure",
			outcome:  SearchOutcome{Params: params, Err: apperrors.WorkerError{Worker: 0, Cause: errors.New("x")}},
			wantCode: apperrors.ExitErrorWorker,
		},
		{
			name:     "corrupted result",
			outcome:  SearchOutcome{Params: params, Result: search.Result{Matches: bad}},
			wantCode: apperrors.ExitErrorMismatch,
		},
		{
			name:          "write failure",
			outcome:       SearchOutcome{Params: params, Result: search.Result{Matches: realMatches(23)}},
			presentErr:    errors.New("disk full"),
			wantCode:      apperrors.ExitErrorGeneric,
			wantPresented: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &MockResultPresenter{}
			if tt.presentErr != nil {
				presenter.presentFn = func() error { return tt.presentErr }
			}
			var errOut bytes.Buffer
			code := AnalyzeOutcome(tt.outcome, tt.opts, presenter, io.Discard, &errOut)
			if code != tt.wantCode {
				t.Errorf("expected code %d, got %d (stderr: %q)", tt.wantCode, code, errOut.String())
			}
			if (presenter.presented != nil) != tt.wantPresented {
				t.Errorf("presented = %v, want presented=%v", presenter.presented, tt.wantPresented)
			}
			if presenter.summaries != tt.wantSummaries {
				t.Errorf("summaries = %d, want %d", presenter.summaries, tt.wantSummaries)
			}
		})
	}
}
