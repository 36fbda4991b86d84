package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/agbru/hashfinder/internal/digest"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/progress"
)

func newTestWorker(seq Subsequence, zeros, limit int) *worker {
	return &worker{
		seq:           seq,
		matcher:       digest.NewMatcher(zeros),
		limit:         limit,
		checkInterval: 16,
	}
}

func TestWorker_StopsAtLimit(t *testing.T) {
	t.Parallel()
	w := newTestWorker(Subsequence{Offset: 0, Stride: 1}, 1, 3)

	matches, stats, err := w.run(context.Background())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	want := []uint64{23, 38, 76}
	got := candidates(matches)
	if len(got) != len(want) {
		t.Fatalf("run() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("run() = %v, want %v", got, want)
		}
	}
	// The worker stops on the candidate that completes its quota.
	if stats.Scanned != 77 {
		t.Errorf("Scanned = %d, want 77", stats.Scanned)
	}
	if stats.Matches != 3 {
		t.Errorf("Matches = %d, want 3", stats.Matches)
	}
}

func TestWorker_ScansOnlyItsSubsequence(t *testing.T) {
	t.Parallel()
	seq := Subsequence{Offset: 1, Stride: 4}
	w := newTestWorker(seq, 1, 5)

	matches, _, err := w.run(context.Background())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	prev := int64(-1)
	for _, m := range matches {
		if !seq.Contains(m.Candidate) {
			t.Errorf("candidate %d is outside %+v", m.Candidate, seq)
		}
		if int64(m.Candidate) <= prev {
			t.Errorf("matches not ascending: %v", candidates(matches))
		}
		prev = int64(m.Candidate)
		if m.Digest != digest.Of(m.Candidate) || !digest.HasZeroSuffix(m.Digest, 1) {
			t.Errorf("bad match %+v", m)
		}
	}
}

func TestWorker_DomainExhaustion(t *testing.T) {
	t.Parallel()
	w := newTestWorker(Subsequence{Offset: math.MaxUint64 - 100, Stride: 7}, 64, 1)

	matches, stats, err := w.run(context.Background())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !stats.Exhausted {
		t.Error("worker should report exhaustion after wrapping")
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %v", candidates(matches))
	}
	if stats.Scanned != 15 {
		t.Errorf("Scanned = %d, want 15", stats.Scanned)
	}
}

func TestWorker_Cancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newTestWorker(Subsequence{Offset: 0, Stride: 1}, 64, 1)
	_, stats, err := w.run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run() error = %v, want context.Canceled", err)
	}
	if stats.Scanned != w.checkInterval {
		t.Errorf("worker should stop at the first checkpoint, scanned %d", stats.Scanned)
	}
}

func TestWorker_PanicBecomesWorkerError(t *testing.T) {
	t.Parallel()
	w := newTestWorker(Subsequence{Offset: 0, Stride: 1}, 64, 1)
	w.index = 4
	w.checkpoint = func(int, uint64) { panic("corrupted state") }

	matches, _, err := w.run(context.Background())
	var workerErr apperrors.WorkerError
	if !errors.As(err, &workerErr) {
		t.Fatalf("run() error = %v, want WorkerError", err)
	}
	if workerErr.Worker != 4 {
		t.Errorf("WorkerError.Worker = %d, want 4", workerErr.Worker)
	}
	if matches != nil {
		t.Errorf("failed worker should not return matches, got %v", candidates(matches))
	}
}

func TestWorker_StopsPastSharedBound(t *testing.T) {
	t.Parallel()
	bound := newSharedBound(1)
	bound.offer(23)

	w := newTestWorker(Subsequence{Offset: 0, Stride: 1}, 2, 1)
	w.bound = bound

	matches, stats, err := w.run(context.Background())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("no candidate below the bound has two zeros, got %v", candidates(matches))
	}
	if stats.Scanned != 24 {
		t.Errorf("Scanned = %d, want 24 (candidates 0..23)", stats.Scanned)
	}
}

func TestWorker_PublishesProgress(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.Update, 64)
	w := newTestWorker(Subsequence{Offset: 0, Stride: 1}, 2, 2)
	w.index = 1
	w.progress = ch

	_, stats, err := w.run(context.Background())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	close(ch)

	var last progress.Update
	count := 0
	for u := range ch {
		if u.WorkerIndex != 1 {
			t.Errorf("update from worker %d, want 1", u.WorkerIndex)
		}
		if u.Scanned < last.Scanned {
			t.Errorf("progress went backwards: %d after %d", u.Scanned, last.Scanned)
		}
		last = u
		count++
	}
	if count < 2 {
		t.Errorf("expected periodic and final updates, got %d", count)
	}
	if !last.Done || last.Scanned != stats.Scanned || last.Matches != 2 {
		t.Errorf("final update = %+v, want Done with Scanned=%d Matches=2", last, stats.Scanned)
	}
}
