package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The degenerate scenario draws identical redshifts and magnitudes, so its
// trace is independent of the random stream.
func TestRunWithGolden_DegenerateSequential(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/degenerate_sequential.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestTraceSnapshot_CanonicalIsStable(t *testing.T) {
	result := NewResult()
	result.RunID = "r"
	result.Status = "completed"
	result.SourceNumber = 2
	result.Remaining = 2
	result.DrawsHash = "h"
	result.AddDraw(TraceEvent{Seq: 2, RecordID: 1, Redshift: 0.25, Magnitude: 19, Derived: true, Fields: 8})

	snap := NewTraceSnapshot("s", result)
	a, err := snap.Canonical()
	require.NoError(t, err)
	b, err := snap.Canonical()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t,
		`{"draws_hash":"h","remaining":2,"run_id":"r","scenario_name":"s","source_number":2,"status":"completed",`+
			`"trace":[{"derived":true,"fields":8,"id":1,"mag_i":19,"seq":2,"z":0.25}]}`,
		string(a))
}
