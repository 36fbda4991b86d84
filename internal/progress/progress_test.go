package progress

import (
	"testing"
	"time"
)

func TestNewTracker_NonPositive(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -1} {
		if tr := NewTracker(n); tr != nil {
			t.Errorf("NewTracker(%d) should be nil", n)
		}
	}
}

func TestTracker_Apply(t *testing.T) {
	t.Parallel()
	tr := NewTracker(3)

	tr.Apply(Update{WorkerIndex: 0, Scanned: 1024, Matches: 1})
	tr.Apply(Update{WorkerIndex: 1, Scanned: 2048, Matches: 2})
	// Updates are cumulative, the latest one wins.
	tr.Apply(Update{WorkerIndex: 0, Scanned: 3072, Matches: 2, Done: true})
	tr.Apply(Update{WorkerIndex: 7, Scanned: 1 << 40})

	if got := tr.Scanned(); got != 5120 {
		t.Errorf("Scanned() = %d, want 5120", got)
	}
	if got := tr.Matches(); got != 4 {
		t.Errorf("Matches() = %d, want 4", got)
	}
	if got := tr.Finished(); got != 1 {
		t.Errorf("Finished() = %d, want 1", got)
	}
	if got := tr.Worker(2).WorkerIndex; got != 2 {
		t.Errorf("Worker(2).WorkerIndex = %d, want 2", got)
	}
	if tr.NumWorkers() != 3 {
		t.Errorf("NumWorkers() = %d, want 3", tr.NumWorkers())
	}
}

func TestTracker_Rate(t *testing.T) {
	t.Parallel()
	tr := NewTracker(1)
	tr.Apply(Update{Scanned: 5000})

	if got := tr.Rate(2 * time.Second); got != 2500 {
		t.Errorf("Rate(2s) = %f, want 2500", got)
	}
	if got := tr.Rate(0); got != 0 {
		t.Errorf("Rate(0) = %f, want 0", got)
	}
}

func TestTrySend(t *testing.T) {
	t.Parallel()
	if TrySend(nil, Update{}) {
		t.Error("TrySend on nil channel should report false")
	}

	ch := make(chan Update, 1)
	if !TrySend(ch, Update{Scanned: 1}) {
		t.Error("TrySend with free buffer should deliver")
	}
	if TrySend(ch, Update{Scanned: 2}) {
		t.Error("TrySend on full buffer should drop")
	}
	if u := <-ch; u.Scanned != 1 {
		t.Errorf("received Scanned=%d, want 1", u.Scanned)
	}
}
