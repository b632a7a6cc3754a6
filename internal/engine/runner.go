package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/lenspop/internal/config"
	"github.com/roach88/lenspop/internal/ir"
	"github.com/roach88/lenspop/internal/population"
	"github.com/roach88/lenspop/internal/simerr"
	"github.com/roach88/lenspop/internal/store"
)

// Runner executes population runs and, when a ledger is attached, records
// them for replay.
//
// A Runner is not safe for concurrent Run calls: population draws mutate
// state and there is no internal locking.
type Runner struct {
	store  *store.Store
	clock  Sequencer
	ids    RunIDGenerator
	logger *slog.Logger
}

// Sequencer hands out logical seq values. Implemented by *Clock and by the
// resettable clock tests use.
type Sequencer interface {
	Next() int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStore attaches a draw ledger. Without one, runs are not recorded.
func WithStore(s *store.Store) RunnerOption {
	return func(r *Runner) { r.store = s }
}

// WithClock sets the logical clock. Default: NewClock().
func WithClock(c Sequencer) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithRunIDGenerator sets the run ID generator. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) RunnerOption {
	return func(r *Runner) { r.ids = g }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = NewClock()
	}
	if r.ids == nil {
		r.ids = UUIDv7Generator{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Draw is one source drawn during a run.
type Draw struct {
	Seq    int64             `json:"seq"`
	Source population.Source `json:"source"`
}

// RunResult describes a finished or stopped run.
type RunResult struct {
	RunID      string `json:"run_id"`
	Name       string `json:"name"`
	ConfigHash string `json:"config_hash"`

	// CatalogSize is the number of generated records.
	CatalogSize int `json:"catalog_size"`

	// SourceNumber is the population's source count after construction,
	// i.e. after any cut.
	SourceNumber int `json:"source_number"`

	// Remaining is SourceNumber at the end of the run.
	Remaining int `json:"remaining"`

	// Density is sources per square degree.
	Density float64 `json:"density_per_deg2"`

	RequestedDraws int    `json:"requested_draws"`
	Draws          []Draw `json:"draws"`
	DrawsHash      string `json:"draws_hash"`
	Status         string `json:"status"`
}

// IDs returns the record IDs of the drawn sources in draw order.
func (r *RunResult) IDs() []int {
	ids := make([]int, len(r.Draws))
	for i, d := range r.Draws {
		ids[i] = d.Source.ID
	}
	return ids
}

// Run generates the population for cfg and draws n sources.
//
// If the population is exhausted before n draws, Run returns the partial
// result together with the ExhaustionError. Other errors return a nil
// result, except that a cancelled context also returns the partial result.
func (r *Runner) Run(ctx context.Context, cfg *config.Config, n int) (*RunResult, error) {
	if n < 0 {
		return nil, simerr.Configuration("draws", "must be >= 0, got %d", n)
	}

	snapshot, err := cfg.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot config: %w", err)
	}
	configHash, err := ir.PopulationHash(snapshot)
	if err != nil {
		return nil, err
	}

	pop, records, err := Build(cfg, r.logger)
	if err != nil {
		return nil, err
	}
	density, err := pop.SourceDensity()
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:          r.ids.Generate(),
		Name:           cfg.Name,
		ConfigHash:     configHash,
		CatalogSize:    len(records),
		SourceNumber:   pop.SourceNumber(),
		Density:        density,
		RequestedDraws: n,
		Draws:          []Draw{},
		Status:         store.StatusRunning,
	}

	logger := r.logger.With("run_id", result.RunID, "name", cfg.Name)
	logger.Info("run started",
		"config_hash", configHash,
		"catalog_size", result.CatalogSize,
		"source_number", result.SourceNumber,
		"policy", pop.Policy().String(),
		"draws", n,
	)

	if r.store != nil {
		configJSON, err := cfg.JSON()
		if err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		err = r.store.WriteRun(ctx, store.Run{
			ID:             result.RunID,
			Name:           cfg.Name,
			ConfigHash:     configHash,
			ConfigJSON:     string(configJSON),
			SourceNumber:   result.SourceNumber,
			RequestedDraws: n,
			Seq:            r.clock.Next(),
		})
		if err != nil {
			return nil, err
		}
	}

	runErr := r.drawAll(ctx, pop, result, logger)
	result.Remaining = pop.SourceNumber()

	switch {
	case runErr == nil:
		result.Status = store.StatusCompleted
	case simerr.IsExhaustionError(runErr):
		result.Status = store.StatusExhausted
	default:
		result.Status = store.StatusFailed
	}

	if hash, err := ir.DrawsHash(result.IDs()); err == nil {
		result.DrawsHash = hash
	} else if runErr == nil {
		runErr = err
		result.Status = store.StatusFailed
	}

	if r.store != nil {
		msg := ""
		if runErr != nil {
			msg = runErr.Error()
		}
		// The run's own context may be cancelled; the final status must still land.
		if err := r.store.FinishRun(context.WithoutCancel(ctx), result.RunID, result.Status, result.DrawsHash, msg); err != nil {
			return nil, err
		}
	}

	logger.Info("run finished", "status", result.Status, "drawn", len(result.Draws), "remaining", result.Remaining)

	if runErr != nil {
		if simerr.IsExhaustionError(runErr) || ctx.Err() != nil {
			return result, runErr
		}
		return nil, runErr
	}
	return result, nil
}

func (r *Runner) drawAll(ctx context.Context, pop *population.Population, result *RunResult, logger *slog.Logger) error {
	for i := 0; i < result.RequestedDraws; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, err := pop.DrawSource()
		if err != nil {
			logger.Warn("draw failed", "index", i, "error", err)
			return err
		}

		d := Draw{Seq: r.clock.Next(), Source: src}
		result.Draws = append(result.Draws, d)

		if r.store != nil {
			if err := r.store.WriteDraw(ctx, ledgerDraw(result.RunID, d)); err != nil {
				return err
			}
		}
	}
	return nil
}

func ledgerDraw(runID string, d Draw) store.Draw {
	sd := store.Draw{
		RunID:     runID,
		Seq:       d.Seq,
		RecordID:  d.Source.ID,
		Redshift:  d.Source.Redshift,
		Magnitude: d.Source.Magnitude,
	}
	if d.Source.Derived != nil {
		abs := d.Source.Derived.AbsoluteMagnitude
		sd.AbsMagnitude = &abs
	}
	return sd
}
