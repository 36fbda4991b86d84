package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
)

var testParams = search.Params{ZeroCount: 1, ResultCount: 3}

func newTestReporter() *TUIProgressReporter {
	return &TUIProgressReporter{ref: &programRef{}, params: testParams, strategy: search.StrategyLocalCap}
}

func TestTUIProgressReporter_DrainsChannel(t *testing.T) {
	reporter := newTestReporter()

	ch := make(chan progress.Update, 10)
	ch <- progress.Update{WorkerIndex: 0, Scanned: 16}
	ch <- progress.Update{WorkerIndex: 1, Scanned: 32, Matches: 1}
	ch <- progress.Update{WorkerIndex: 0, Scanned: 48, Matches: 2, Done: true}
	ch <- progress.Update{WorkerIndex: 1, Scanned: 64, Matches: 1, Done: true}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 2, nil)
	wg.Wait()

	if len(ch) != 0 {
		t.Errorf("channel should be drained, %d updates left", len(ch))
	}
}

func TestTUIProgressReporter_ZeroWorkers(t *testing.T) {
	reporter := newTestReporter()

	ch := make(chan progress.Update, 1)
	ch <- progress.Update{WorkerIndex: 0, Scanned: 1}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 0, nil)
	wg.Wait()
}

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{}
	ref.Send(ProgressMsg{})
}

func TestProgramRef_Send_Concurrent(t *testing.T) {
	ref := &programRef{}

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Send(ProgressMsg{WorkerScanned: uint64(i)})
		}()
	}
	wg.Wait()
}

func TestTUIResultPresenter_HandleError(t *testing.T) {
	presenter := &TUIResultPresenter{ref: &programRef{}}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, apperrors.ExitSuccess},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"worker", apperrors.WorkerError{Worker: 2, Cause: errors.New("panic")}, apperrors.ExitErrorWorker},
		{"generic", errors.New("something failed"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenter.HandleError(tt.err, time.Second, nil); got != tt.want {
				t.Errorf("HandleError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestTUIResultPresenter_PresentDoesNotWrite(t *testing.T) {
	presenter := &TUIResultPresenter{ref: &programRef{}}
	matches := []search.Match{{Candidate: 23, Digest: "x"}}

	if err := presenter.PresentMatches(matches, orchestration.PresentationOptions{}, nil); err != nil {
		t.Errorf("PresentMatches returned %v", err)
	}
	presenter.PresentSummary(orchestration.SearchOutcome{Params: testParams}, nil)
}
