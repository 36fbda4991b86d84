package metrics

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agbru/hashfinder/internal/progress"
)

// Namespace prefixes every metric name.
const Namespace = "hashfinder"

// Search outcome labels for the searches counter.
const (
	StatusSuccess  = "success"
	StatusTimeout  = "timeout"
	StatusCanceled = "canceled"
	StatusError    = "error"
)

// Registry owns the Prometheus collectors of one process. Collectors are
// registered on a private registry so tests can create as many as they need.
type Registry struct {
	reg *prometheus.Registry

	scanned  *prometheus.CounterVec
	matches  prometheus.Counter
	searches *prometheus.CounterVec
	duration prometheus.Histogram
	workers  prometheus.Gauge

	mu          sync.Mutex
	lastScanned map[int]uint64
}

// NewRegistry creates a registry with the search collectors plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		scanned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "candidates_scanned_total",
			Help:      "Candidates digested, by worker.",
		}, []string{"worker"}),
		matches: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "matches_total",
			Help:      "Matching candidates reported by workers.",
		}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "searches_total",
			Help:      "Completed searches, by outcome.",
		}, []string{"status"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 12),
		}),
		workers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "workers",
			Help:      "Workers of the current search.",
		}),
		lastScanned: make(map[int]uint64),
	}
}

// Prometheus returns the underlying registry for exposition and for
// registering further collectors.
func (r *Registry) Prometheus() *prometheus.Registry { return r.reg }

// StartSearch resets per-worker state and records the pool size.
func (r *Registry) StartSearch(workers int) {
	r.mu.Lock()
	clear(r.lastScanned)
	r.mu.Unlock()
	r.workers.Set(float64(workers))
}

// ObserveUpdate folds a cumulative worker update into the counters. Updates
// carry totals, so only the increase since the worker's previous update is
// added.
func (r *Registry) ObserveUpdate(u progress.Update) {
	r.mu.Lock()
	prev := r.lastScanned[u.WorkerIndex]
	if u.Scanned > prev {
		r.lastScanned[u.WorkerIndex] = u.Scanned
	}
	r.mu.Unlock()

	if u.Scanned > prev {
		r.scanned.WithLabelValues(workerLabel(u.WorkerIndex)).Add(float64(u.Scanned - prev))
	}
}

// ObserveSearch records a finished search.
func (r *Registry) ObserveSearch(status string, duration time.Duration, matches int) {
	r.searches.WithLabelValues(status).Inc()
	r.duration.Observe(duration.Seconds())
	r.matches.Add(float64(matches))
}

// StatusFor maps a search error to its searches_total label.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	default:
		return StatusError
	}
}

func workerLabel(i int) string { return strconv.Itoa(i) }
