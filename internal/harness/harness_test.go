package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lenspop/internal/store"
	"github.com/roach88/lenspop/internal/testutil"
)

func TestRun_ShippedScenariosPass(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_QuasarFixture(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/quasar_fixture.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, "quasar-fixture-run", result.RunID)
	assert.Equal(t, 50000, result.SourceNumber)
	assert.Equal(t, store.StatusCompleted, result.Status)
	require.Len(t, result.Trace, 1)
	assert.Greater(t, result.Trace[0].Fields, 0)
	assert.True(t, result.Trace[0].Derived)
	assert.Equal(t, int64(2), result.Trace[0].Seq, "seq 1 stamps the run itself")
}

func TestRun_UnexpectedExhaustionFails(t *testing.T) {
	path := writeScenario(t, `
name: too_many_draws
description: sequential catalog of 10 drawn 11 times
draws: 11
`+inlineConfig+`  draw:
    policy: sequential
assertions:
  - type: fields_non_empty
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, store.StatusExhausted, result.Status)
	assert.Len(t, result.Trace, 10)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[len(result.Errors)-1], "run stopped after 10 of 11 draws")
}

func TestRun_FailingAssertionReported(t *testing.T) {
	path := writeScenario(t, `
name: wrong_count
description: expects the wrong source number
draws: 1
`+inlineConfig+`
assertions:
  - type: source_number
    op: "=="
    value: 11
  - type: ledger_status
    status: failed
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "source_number == 11")
	assert.Contains(t, result.Errors[1], "Expected: failed")
}

func TestRun_DefaultRunID(t *testing.T) {
	path := writeScenario(t, "name: x\ndescription: y\ndraws: 1\n"+inlineConfig+"assertions:\n  - type: fields_non_empty\n")
	s, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, testutil.DefaultRunID, result.RunID)
}

func TestRun_NoConfig(t *testing.T) {
	_, err := Run(&Scenario{Name: "empty"})
	assert.Error(t, err)
}
