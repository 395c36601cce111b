package corpus

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pdfcheck/observability"
	"pdfcheck/structure"
)

// Config bounds a run. Zero values select the defaults.
type Config struct {
	// Concurrency is the worker pool size.
	Concurrency int
	// PerFileTimeout bounds one job. The timeout is owned by the goroutine
	// issuing the job, not by the pool, so one expiry never blocks or
	// cancels sibling jobs.
	PerFileTimeout time.Duration
	// BatchSize is the unit of cancellation and checkpointing: the run
	// context is observed only between batches, and an in-flight batch
	// always drains.
	BatchSize int
	// ProgressEvery fires OnProgress at a fixed completion cadence.
	ProgressEvery int
	// OnProgress is purely observational; it must not touch run state.
	OnProgress func(Progress)
	// AfterBatch observes each drained batch, in completion order. The
	// checkpointing harness folds and persists here.
	AfterBatch func([]Result)

	Logger observability.Logger
}

// Progress is a periodic rate/ETA notification, consumed by nothing else in
// the core.
type Progress struct {
	Completed int
	Total     int
	Rate      float64 // files per second since the run started
	ETA       time.Duration
}

const (
	defaultConcurrency   = 4
	defaultTimeout       = 30 * time.Second
	defaultBatchSize     = 50
	defaultProgressEvery = 10
)

type Runner struct {
	analyzer Analyzer
	cfg      Config
}

func NewRunner(a Analyzer, cfg Config) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.PerFileTimeout <= 0 {
		cfg.PerFileTimeout = defaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = defaultProgressEvery
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NopLogger{}
	}
	return &Runner{analyzer: a, cfg: cfg}
}

// Run processes files through the bounded pool and returns one result per
// processed file, in completion order. Callers requiring a deterministic
// report must sort by file ID. Cancellation is cooperative and observed only
// at batch boundaries; the worst case to stop is one batch draining.
func (r *Runner) Run(ctx context.Context, files []FileRef) []Result {
	results := make([]Result, 0, len(files))
	start := time.Now()
	completed := 0
	for beg := 0; beg < len(files); beg += r.cfg.BatchSize {
		if ctx.Err() != nil {
			r.cfg.Logger.Info("run cancelled, stopping at batch boundary",
				observability.Int("completed", completed),
				observability.Int("total", len(files)))
			break
		}
		end := beg + r.cfg.BatchSize
		if end > len(files) {
			end = len(files)
		}
		batch := r.runBatch(files[beg:end], len(files), start, &completed)
		results = append(results, batch...)
		if r.cfg.AfterBatch != nil {
			r.cfg.AfterBatch(batch)
		}
	}
	return results
}

// runBatch fans the batch out over the pool and drains every job. The
// draining loop below is the only writer of completion state.
func (r *Runner) runBatch(batch []FileRef, total int, start time.Time, completed *int) []Result {
	out := make(chan Result)
	go func() {
		g := new(errgroup.Group)
		g.SetLimit(r.cfg.Concurrency)
		for _, f := range batch {
			f := f
			g.Go(func() error {
				out <- r.process(f)
				return nil
			})
		}
		g.Wait()
		close(out)
	}()

	results := make([]Result, 0, len(batch))
	for res := range out {
		results = append(results, res)
		*completed++
		if r.cfg.OnProgress != nil && *completed%r.cfg.ProgressEvery == 0 {
			r.cfg.OnProgress(progressAt(*completed, total, start))
		}
	}
	return results
}

// process runs one job under its own deadline. An expired job is recorded as
// a timeout; a result arriving after the deadline is discarded and never
// mutates shared state (the buffered channel lets the worker finish alone).
func (r *Runner) process(f FileRef) Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.PerFileTimeout)
	defer cancel()

	ch := make(chan Analysis, 1)
	go func() {
		ch <- r.analyzer.Analyze(ctx, f.Path)
	}()

	select {
	case an := <-ch:
		return Result{File: f, Analysis: an, Elapsed: time.Since(start)}
	case <-ctx.Done():
		r.cfg.Logger.Warn("analysis timed out",
			observability.String("file", f.ID),
			observability.Duration("limit", r.cfg.PerFileTimeout))
		return Result{
			File: f,
			Analysis: Analysis{
				Outcome: OutcomeTimeout,
				Kind:    structure.KindAnalyzerTimeout,
				Message: "analysis exceeded " + r.cfg.PerFileTimeout.String(),
			},
			Elapsed: time.Since(start),
		}
	}
}

func progressAt(completed, total int, start time.Time) Progress {
	elapsed := time.Since(start).Seconds()
	p := Progress{Completed: completed, Total: total}
	if elapsed > 0 {
		p.Rate = float64(completed) / elapsed
	}
	if p.Rate > 0 {
		p.ETA = time.Duration(float64(total-completed) / p.Rate * float64(time.Second))
	}
	return p
}
