package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/lenspop/internal/ir"
)

// TraceSnapshot is the golden-file view of a scenario execution. It leaves
// out floating-point aggregates so the snapshot only changes when the draw
// sequence does.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunID        string       `json:"run_id"`
	Status       string       `json:"status"`
	SourceNumber int          `json:"source_number"`
	Remaining    int          `json:"remaining"`
	DrawsHash    string       `json:"draws_hash"`
	Trace        []TraceEvent `json:"trace"`
}

// NewTraceSnapshot builds the snapshot for a result.
func NewTraceSnapshot(scenarioName string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: scenarioName,
		RunID:        result.RunID,
		Status:       result.Status,
		SourceNumber: result.SourceNumber,
		Remaining:    result.Remaining,
		DrawsHash:    result.DrawsHash,
		Trace:        result.Trace,
	}
}

// toCanonicalMap converts a TraceSnapshot to the generic form
// ir.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		traceList[i] = map[string]any{
			"seq":     event.Seq,
			"id":      event.RecordID,
			"z":       event.Redshift,
			"mag_i":   event.Magnitude,
			"derived": event.Derived,
			"fields":  event.Fields,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"status":        s.Status,
		"source_number": s.SourceNumber,
		"remaining":     s.Remaining,
		"draws_hash":    s.DrawsHash,
		"trace":         traceList,
	}
}

// Canonical returns the snapshot as canonical JSON.
func (s *TraceSnapshot) Canonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := NewTraceSnapshot(scenarioName, result)
	traceJSON, err := snapshot.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
