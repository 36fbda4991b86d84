package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/agbru/hashfinder/internal/digest"
	apperrors "github.com/agbru/hashfinder/internal/errors"
)

// ErrDomainExhausted is returned when every worker ran off the end of the
// uint64 domain before the requested number of matches was found.
var ErrDomainExhausted = errors.New("candidate domain exhausted")

// Params are the validated inputs of a search.
type Params struct {
	// ZeroCount is the number of trailing '0' hex characters required, in [1, 64].
	ZeroCount int
	// ResultCount is the number of matches to return, at least 1.
	ResultCount int
}

// Validate checks the parameter domains.
func (p Params) Validate() error {
	if p.ZeroCount < 1 || p.ZeroCount > digest.MaxZeroCount {
		return apperrors.ValidationError{
			Field:   apperrors.FieldZeroCount,
			Message: fmt.Sprintf("must be between 1 and %d, got %d", digest.MaxZeroCount, p.ZeroCount),
		}
	}
	if p.ResultCount < 1 {
		return apperrors.ValidationError{
			Field:   apperrors.FieldResultCount,
			Message: fmt.Sprintf("must be at least 1, got %d", p.ResultCount),
		}
	}
	return nil
}

// Match is a candidate whose digest ends with the required zeros.
type Match struct {
	Candidate uint64
	Digest    string
}

// WorkerStats describes how much work one worker did.
type WorkerStats struct {
	Index    int
	Scanned  uint64
	Matches  int
	Duration time.Duration
	// Exhausted is set when the worker walked off the end of the domain.
	Exhausted bool
}

// Result is the outcome of a search.
type Result struct {
	// Matches holds at most ResultCount matches, strictly ascending.
	Matches []Match
	// Workers holds per-worker statistics, indexed by worker.
	Workers []WorkerStats
	// Duration is the wall-clock time of the search.
	Duration time.Duration
}

// Scanned returns the total number of candidates digested by all workers.
func (r Result) Scanned() uint64 {
	var total uint64
	for _, w := range r.Workers {
		total += w.Scanned
	}
	return total
}
