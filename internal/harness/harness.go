package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/lenspop/internal/engine"
	"github.com/roach88/lenspop/internal/simerr"
	"github.com/roach88/lenspop/internal/store"
	"github.com/roach88/lenspop/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory ledger for isolation.
// Execution errors other than exhaustion are returned as errors; assertion
// failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	if scenario.Config == nil {
		return nil, fmt.Errorf("scenario %s: no configuration", scenario.Name)
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := engine.NewRunner(
		engine.WithStore(st),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
		engine.WithLogger(logger),
	)

	run, runErr := runner.Run(ctx, scenario.Config, scenario.Draws)
	if runErr != nil && !simerr.IsExhaustionError(runErr) {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, runErr)
	}

	result := NewResult()
	result.RunID = run.RunID
	result.SourceNumber = run.SourceNumber
	result.Remaining = run.Remaining
	result.Density = run.Density
	result.Status = run.Status
	result.DrawsHash = run.DrawsHash
	if runErr != nil {
		result.RunError = runErr.Error()
	}
	for _, d := range run.Draws {
		result.AddDraw(TraceEvent{
			Seq:       d.Seq,
			RecordID:  d.Source.ID,
			Redshift:  d.Source.Redshift,
			Magnitude: d.Source.Magnitude,
			Derived:   d.Source.Derived != nil,
			Fields:    len(d.Source.Fields()),
		})
	}

	actx := &AssertionContext{
		Ctx:      ctx,
		Store:    st,
		Scenario: scenario,
		Run:      run,
		Logger:   logger,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	if runErr != nil && !expectsExhaustion(scenario.Assertions) {
		result.AddError(fmt.Sprintf("run stopped after %d of %d draws: %v", len(run.Draws), scenario.Draws, runErr))
	}

	return result, nil
}

func expectsExhaustion(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertExhaustedAfter {
			return true
		}
	}
	return false
}
