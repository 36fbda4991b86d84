// Package progress defines the progress updates published by search workers
// and a Tracker that folds them into search-wide totals.
package progress

import "time"

// Update is a cumulative snapshot of one worker's scan.
type Update struct {
	// WorkerIndex identifies the worker that sent the update.
	WorkerIndex int
	// Scanned is the number of candidates the worker has digested so far.
	Scanned uint64
	// Matches is the number of matches the worker has recorded so far.
	Matches int
	// Done is set on the worker's final update.
	Done bool
}

// TrySend publishes u without blocking. It reports whether the update was
// delivered; a nil channel or a full buffer drops it.
func TrySend(ch chan<- Update, u Update) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- u:
		return true
	default:
		return false
	}
}

// Tracker aggregates the latest update of every worker. It is meant to be
// owned by the single goroutine draining the progress channel.
type Tracker struct {
	workers []Update
	started time.Time
}

// NewTracker creates a tracker for n workers. Returns nil if n <= 0.
func NewTracker(n int) *Tracker {
	if n <= 0 {
		return nil
	}
	workers := make([]Update, n)
	for i := range workers {
		workers[i].WorkerIndex = i
	}
	return &Tracker{workers: workers, started: time.Now()}
}

// Apply records u. Updates for unknown workers are ignored.
func (t *Tracker) Apply(u Update) {
	if u.WorkerIndex < 0 || u.WorkerIndex >= len(t.workers) {
		return
	}
	t.workers[u.WorkerIndex] = u
}

// NumWorkers returns the number of tracked workers.
func (t *Tracker) NumWorkers() int { return len(t.workers) }

// Worker returns the latest update from worker i.
func (t *Tracker) Worker(i int) Update { return t.workers[i] }

// Scanned returns the candidates scanned across all workers.
func (t *Tracker) Scanned() uint64 {
	var total uint64
	for _, w := range t.workers {
		total += w.Scanned
	}
	return total
}

// Matches returns the matches recorded across all workers. This can exceed
// the requested count since workers over-collect before aggregation.
func (t *Tracker) Matches() int {
	total := 0
	for _, w := range t.workers {
		total += w.Matches
	}
	return total
}

// Finished returns how many workers have sent their final update.
func (t *Tracker) Finished() int {
	n := 0
	for _, w := range t.workers {
		if w.Done {
			n++
		}
	}
	return n
}

// Elapsed returns the time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration { return time.Since(t.started) }

// Rate returns the scan throughput in candidates per second over elapsed.
func (t *Tracker) Rate(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(t.Scanned()) / elapsed.Seconds()
}
