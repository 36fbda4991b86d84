package tui

import (
	"time"

	"github.com/agbru/hashfinder/internal/metrics"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/search"
	"github.com/agbru/hashfinder/internal/sysmon"
)

// ProgressMsg carries one aggregated worker update.
type ProgressMsg struct {
	orchestration.AggregatedProgress
	// WorkerScanned and WorkerMatches are the reporting worker's own totals.
	WorkerScanned uint64
	WorkerMatches int
	// Done is set when the reporting worker has stopped.
	Done       bool
	Generation uint64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// MatchesMsg carries the verified matches of a finished search.
type MatchesMsg struct {
	Matches    []search.Match
	Generation uint64
}

// SummaryMsg carries the outcome of a finished search.
type SummaryMsg struct {
	Outcome    orchestration.SearchOutcome
	Generation uint64
}

// ErrorMsg reports a failed search.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// SearchCompleteMsg is sent once the search and its analysis are finished.
type SearchCompleteMsg struct {
	Outcome    orchestration.SearchOutcome
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the search context ends, e.g. on SIGINT
// or timeout.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory reading.
type MemStatsMsg struct {
	metrics.MemorySnapshot
}

// SysStatsMsg carries a host and process resource reading.
type SysStatsMsg struct {
	sysmon.Stats
}
