package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates so a search that will practically never finish still
// renders a finite value.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest rate sample in the moving average.
const etaSmoothing = 0.3

// ProgressState tracks the completion fraction of each worker.
type ProgressState struct {
	progresses []float64
	numWorkers int
}

// NewProgressState creates a state for n workers.
func NewProgressState(n int) *ProgressState {
	n = max(n, 0)
	return &ProgressState{progresses: make([]float64, n), numWorkers: n}
}

// Update sets the completion fraction of worker i, clamped to [0, 1].
// Unknown indices are ignored.
func (s *ProgressState) Update(i int, value float64) {
	if i < 0 || i >= len(s.progresses) {
		return
	}
	s.progresses[i] = min(max(value, 0), 1)
}

// CalculateAverage returns the mean completion fraction.
func (s *ProgressState) CalculateAverage() float64 {
	if s.numWorkers == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.progresses {
		sum += p
	}
	return sum / float64(s.numWorkers)
}

// ProgressWithETA extends ProgressState with a smoothed completion rate used
// to estimate the time remaining.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates a tracker for n workers.
func NewProgressWithETA(n int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(n),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a worker's progress and returns the new average and
// the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(i int, value float64) (float64, time.Duration) {
	p.Update(i, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 {
		sample := (avg - p.lastProgress) / dt
		if sample >= 0 {
			if p.progressRate == 0 {
				p.progressRate = sample
			} else {
				p.progressRate = etaSmoothing*sample + (1-etaSmoothing)*p.progressRate
			}
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated time remaining, 0 while unknown.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	seconds := remaining / p.progressRate
	if seconds > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(seconds * float64(time.Second))
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// ProgressBar renders a bar of the given length for a fraction in [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  pct% ETA: eta".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
