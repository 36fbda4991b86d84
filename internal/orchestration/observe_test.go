package orchestration

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/agbru/hashfinder/internal/progress"
)

func TestObservingReporter_ForwardsEveryUpdate(t *testing.T) {
	t.Parallel()

	var observed []progress.Update
	var forwarded []progress.Update
	reporter := ObservingReporter{
		Observe: func(u progress.Update) { observed = append(observed, u) },
		Next: ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan progress.Update, _ int, _ io.Writer) {
			defer wg.Done()
			for u := range ch {
				forwarded = append(forwarded, u)
			}
		}),
	}

	ch := make(chan progress.Update, 4)
	for i := range 4 {
		ch <- progress.Update{WorkerIndex: i, Scanned: uint64(i * 10)}
	}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	reporter.DisplayProgress(&wg, ch, 4, io.Discard)
	wg.Wait()

	if len(observed) != 4 || len(forwarded) != 4 {
		t.Fatalf("observed %d and forwarded %d updates, want 4 each", len(observed), len(forwarded))
	}
	for i := range forwarded {
		if forwarded[i] != observed[i] {
			t.Errorf("update %d differs: %+v vs %+v", i, forwarded[i], observed[i])
		}
	}
}

func TestObservingReporter_NilNextDrains(t *testing.T) {
	t.Parallel()

	ch := make(chan progress.Update)
	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		wg.Add(1)
		ObservingReporter{}.DisplayProgress(&wg, ch, 1, io.Discard)
		wg.Wait()
		close(done)
	}()

	ch <- progress.Update{Scanned: 1}
	close(ch)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ObservingReporter did not return after the channel closed")
	}
}
