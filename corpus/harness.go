package corpus

import (
	"context"
	"fmt"

	"pdfcheck/checkpoint"
	"pdfcheck/observability"
	"pdfcheck/report"
)

// Harness ties the runner to a checkpoint store so a long batch run can be
// interrupted and resumed without reprocessing. An uninterrupted run and an
// interrupted-then-resumed run over the same corpus produce identical final
// counters: a file is marked processed only after its result is folded, and
// folding is additive.
type Harness struct {
	Analyzer Analyzer
	Store    *checkpoint.Store // nil disables checkpointing
	Config   Config
	Logger   observability.Logger
	// MaxIssues caps the sampled compatibility issues; zero keeps the
	// report default.
	MaxIssues int
}

// Run processes the corpus minus any already-checkpointed files. A corrupt
// or unreadable checkpoint refuses the resume outright: starting over while
// believing the run resumed would silently produce wrong aggregate counts.
// Running two instances against one checkpoint path concurrently is
// undefined behavior (last writer wins) and is the operator's responsibility.
func (h *Harness) Run(ctx context.Context, files []FileRef) (*report.Stats, error) {
	logger := h.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}

	var state *checkpoint.State
	if h.Store != nil {
		var err error
		state, err = h.Store.Load()
		if err != nil {
			return nil, fmt.Errorf("resume refused: %w", err)
		}
	}
	if state == nil {
		state = checkpoint.NewState()
	}
	if h.MaxIssues > 0 {
		state.Stats.MaxIssues = h.MaxIssues
	}

	processed := state.ProcessedSet()
	pending := make([]FileRef, 0, len(files))
	for _, f := range files {
		if !processed[f.ID] {
			pending = append(pending, f)
		}
	}
	logger.Info("corpus run starting",
		observability.Int("total", len(files)),
		observability.Int("already_processed", len(files)-len(pending)),
		observability.Int("pending", len(pending)))

	cfg := h.Config
	cfg.Logger = logger
	after := h.Config.AfterBatch
	cfg.AfterBatch = func(batch []Result) {
		for _, res := range batch {
			state.Stats.Fold(res.Record())
			state.MarkProcessed(res.File.ID)
		}
		if h.Store != nil {
			if err := h.Store.Save(state); err != nil {
				// The run keeps going; a stale checkpoint only means a resume
				// reprocesses this batch.
				logger.Error("checkpoint save failed", observability.Error("err", err))
			}
		}
		if after != nil {
			after(batch)
		}
	}

	NewRunner(h.Analyzer, cfg).Run(ctx, pending)

	if ctx.Err() == nil && h.Store != nil {
		if err := h.Store.Clear(); err != nil {
			logger.Warn("could not remove completed checkpoint", observability.Error("err", err))
		}
	}
	return &state.Stats, nil
}
