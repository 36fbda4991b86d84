package search

import (
	"container/heap"
	"math"
	"sync"
	"sync/atomic"
)

// candidateHeap is a max-heap of candidates.
type candidateHeap []uint64

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i] > h[j] }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(uint64)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// sharedBound tracks the limit smallest matches reported by all workers.
// Once limit matches are known, no candidate above the largest of them can
// make the final answer, so the bound only ever decreases.
type sharedBound struct {
	limit int
	mu    sync.Mutex
	best  candidateHeap
	value atomic.Uint64
}

func newSharedBound(limit int) *sharedBound {
	b := &sharedBound{limit: limit, best: make(candidateHeap, 0, min(limit, initialMatchCapacity))}
	b.value.Store(math.MaxUint64)
	return b
}

// load returns the current bound. It is MaxUint64 until limit matches exist.
func (b *sharedBound) load() uint64 {
	return b.value.Load()
}

// offer records a match and returns the updated bound.
func (b *sharedBound) offer(c uint64) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case len(b.best) < b.limit:
		heap.Push(&b.best, c)
	case c < b.best[0]:
		b.best[0] = c
		heap.Fix(&b.best, 0)
	default:
		return b.value.Load()
	}
	if len(b.best) == b.limit {
		b.value.Store(b.best[0])
	}
	return b.value.Load()
}
