package search

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/hashfinder/internal/digest"
	"github.com/agbru/hashfinder/internal/progress"
)

// DefaultCheckInterval is the number of candidates a worker digests between
// cancellation checks and progress updates.
const DefaultCheckInterval = 1024

const tracerName = "github.com/agbru/hashfinder/internal/search"

// Engine runs searches with a fixed worker pool size and stop strategy.
type Engine struct {
	// Workers is the number of parallel workers, at least 1.
	Workers int
	// Strategy selects the worker stop condition.
	Strategy Strategy
	// CheckInterval is the number of candidates between checkpoints.
	CheckInterval uint64

	checkpoint func(worker int, cursor uint64)
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the worker count. Values below 1 select a single worker.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.Workers = n }
}

// WithStrategy sets the stop strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.Strategy = s }
}

// WithCheckInterval sets the checkpoint interval. Zero keeps the default.
func WithCheckInterval(n uint64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.CheckInterval = n
		}
	}
}

// NewEngine creates an engine sized to GOMAXPROCS with the local-cap
// strategy, then applies opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		Workers:       runtime.GOMAXPROCS(0),
		Strategy:      StrategyLocalCap,
		CheckInterval: DefaultCheckInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Workers = max(e.Workers, 1)
	return e
}

// WorkerCount returns the number of workers a search will start.
func (e *Engine) WorkerCount() int { return max(e.Workers, 1) }

// Search finds the params.ResultCount smallest candidates whose digest ends
// with params.ZeroCount zeros.
//
// Each worker scans its own subsequence and publishes cumulative progress on
// progressChan without blocking; progressChan may be nil and is never closed
// by Search. The join is fatal: if any worker fails, Search returns that
// error and no matches. Cancelling ctx stops every worker at its next
// checkpoint and returns ctx's error.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - params: The zero count and result count.
//   - progressChan: Optional channel receiving worker progress.
//
// Returns:
//   - Result: The ordered matches and per-worker statistics.
//   - error: A validation, worker, context or domain exhaustion error.
func (e *Engine) Search(ctx context.Context, params Params, progressChan chan<- progress.Update) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	workers := e.WorkerCount()
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "search")
	defer span.End()
	span.SetAttributes(
		attribute.Int("search.zero_count", params.ZeroCount),
		attribute.Int("search.result_count", params.ResultCount),
		attribute.Int("search.workers", workers),
		attribute.String("search.strategy", e.Strategy.String()),
	)

	var bound *sharedBound
	if e.Strategy == StrategySharedBound {
		bound = newSharedBound(params.ResultCount)
	}
	matcher := digest.NewMatcher(params.ZeroCount)
	locals := make([][]Match, workers)
	stats := make([]WorkerStats, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i, seq := range Partition(workers) {
		w := &worker{
			index:         i,
			seq:           seq,
			matcher:       matcher,
			limit:         params.ResultCount,
			checkInterval: e.CheckInterval,
			bound:         bound,
			progress:      progressChan,
			checkpoint:    e.checkpoint,
		}
		g.Go(func() error {
			wctx, wspan := tracer.Start(gctx, "search.worker")
			defer wspan.End()
			matches, st, err := w.run(wctx)
			wspan.SetAttributes(
				attribute.Int("worker.index", i),
				attribute.Int64("worker.scanned", int64(st.Scanned)),
				attribute.Int("worker.matches", st.Matches),
			)
			if err != nil {
				wspan.RecordError(err)
				wspan.SetStatus(codes.Error, err.Error())
			}
			locals[i], stats[i] = matches, st
			return err
		})
	}

	err := g.Wait()
	result := Result{Workers: stats, Duration: time.Since(start)}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	result.Matches = Aggregate(locals, params.ResultCount)
	span.SetAttributes(
		attribute.Int64("search.scanned", int64(result.Scanned())),
		attribute.Int("search.matches", len(result.Matches)),
	)
	if len(result.Matches) < params.ResultCount {
		err = fmt.Errorf("found %d of %d matches: %w", len(result.Matches), params.ResultCount, ErrDomainExhausted)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	return result, nil
}

// Search runs a search with a default engine and returns the ordered
// matches. It is the plain entry point for callers that need neither
// progress nor statistics.
func Search(ctx context.Context, zeroCount, resultCount int) ([]Match, error) {
	res, err := NewEngine().Search(ctx, Params{ZeroCount: zeroCount, ResultCount: resultCount}, nil)
	return res.Matches, err
}
