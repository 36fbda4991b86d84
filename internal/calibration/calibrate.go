package calibration

import (
	"context"
	"math/bits"
	"time"

	"github.com/agbru/hashfinder/internal/digest"
)

const (
	// DefaultTargetLatency is the spacing between worker checkpoints that
	// the recommended interval aims for.
	DefaultTargetLatency = 2 * time.Millisecond
	// DefaultWindow is how long the hash rate is measured for.
	DefaultWindow = 300 * time.Millisecond
	// DefaultMaxAge is how long a cached profile is trusted.
	DefaultMaxAge = 30 * 24 * time.Hour

	// MinCheckInterval and MaxCheckInterval bound derived intervals.
	MinCheckInterval uint64 = 64
	MaxCheckInterval uint64 = 1 << 20

	batchSize = 256
)

// Latencies are the checkpoint spacings shown in the calibration table.
var Latencies = []time.Duration{
	500 * time.Microsecond,
	time.Millisecond,
	DefaultTargetLatency,
	5 * time.Millisecond,
	10 * time.Millisecond,
	50 * time.Millisecond,
}

// MeasureHashRate runs the worker hot loop (digest and predicate) over
// consecutive candidates on the calling goroutine for window and returns the
// rate in candidates per second.
func MeasureHashRate(ctx context.Context, window time.Duration) (float64, error) {
	h := digest.NewHasher()
	m := digest.NewMatcher(1)
	var scanned uint64
	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for range batchSize {
			_ = m.Match(h.Sum(scanned))
			scanned++
		}
		if elapsed := time.Since(start); elapsed >= window {
			return float64(scanned) / elapsed.Seconds(), nil
		}
	}
}

// IntervalFor returns the largest power of two not above the number of
// candidates hashed in latency at rate, clamped to
// [MinCheckInterval, MaxCheckInterval].
func IntervalFor(rate float64, latency time.Duration) uint64 {
	n := rate * latency.Seconds()
	switch {
	case n <= float64(MinCheckInterval):
		return MinCheckInterval
	case n >= float64(MaxCheckInterval):
		return MaxCheckInterval
	}
	return 1 << (bits.Len64(uint64(n)) - 1)
}

// Calibrate measures the hash rate for window and builds a profile whose
// check interval targets latency.
func Calibrate(ctx context.Context, window, latency time.Duration) (*CalibrationProfile, error) {
	rate, err := MeasureHashRate(ctx, window)
	if err != nil {
		return nil, err
	}
	p := NewProfile()
	p.HashRate = rate
	p.TargetLatency = latency
	p.CheckInterval = IntervalFor(rate, latency)
	return p, nil
}
