package search

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/agbru/hashfinder/internal/digest"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/progress"
)

// initialMatchCapacity caps the up-front allocation of a worker's buffer.
const initialMatchCapacity = 64

// worker scans one subsequence. All of its state is private except the
// optional shared bound, which is consulted at checkpoints and on matches.
type worker struct {
	index         int
	seq           Subsequence
	matcher       digest.Matcher
	limit         int
	checkInterval uint64
	bound         *sharedBound
	progress      chan<- progress.Update
	checkpoint    func(worker int, cursor uint64)
}

// run scans until the worker holds limit matches, its cursor passes the
// shared bound, the domain ends or ctx is done. A panic is converted into a
// WorkerError so the join can fail the whole search.
func (w *worker) run(ctx context.Context) (matches []Match, stats WorkerStats, err error) {
	start := time.Now()
	stats.Index = w.index
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = apperrors.WorkerError{Worker: w.index, Cause: fmt.Errorf("panic: %v", r)}
		}
		stats.Matches = len(matches)
		stats.Duration = time.Since(start)
	}()

	h := digest.NewHasher()
	matches = make([]Match, 0, min(w.limit, initialMatchCapacity))
	interval := max(w.checkInterval, 1)
	ceiling := uint64(math.MaxUint64)
	if w.bound != nil {
		ceiling = w.bound.load()
	}

	var sinceCheck uint64
	for c := w.seq.Offset; len(matches) < w.limit && c <= ceiling; {
		sum := h.Sum(c)
		stats.Scanned++
		if w.matcher.Match(sum) {
			matches = append(matches, Match{Candidate: c, Digest: h.Hex(sum)})
			if w.bound != nil {
				ceiling = w.bound.offer(c)
			}
		}

		next := c + w.seq.Stride
		if next <= c {
			stats.Exhausted = true
			break
		}
		c = next

		sinceCheck++
		if sinceCheck < interval {
			continue
		}
		sinceCheck = 0
		if err := ctx.Err(); err != nil {
			return matches, stats, err
		}
		if w.checkpoint != nil {
			w.checkpoint(w.index, c)
		}
		if w.bound != nil {
			ceiling = w.bound.load()
		}
		progress.TrySend(w.progress, progress.Update{
			WorkerIndex: w.index, Scanned: stats.Scanned, Matches: len(matches),
		})
	}

	progress.TrySend(w.progress, progress.Update{
		WorkerIndex: w.index, Scanned: stats.Scanned, Matches: len(matches), Done: true,
	})
	return matches, stats, nil
}
