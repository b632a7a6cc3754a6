package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lenspop/internal/catalog"
	"github.com/roach88/lenspop/internal/config"
	"github.com/roach88/lenspop/internal/simerr"
	"github.com/roach88/lenspop/internal/store"
)

func TestBuild_QuasarFixture(t *testing.T) {
	cfg, err := config.Load("../config/testdata/quasars.yaml")
	require.NoError(t, err)

	pop, records, err := Build(cfg, nil)
	require.NoError(t, err)
	require.Len(t, records, 50000)
	assert.Equal(t, 50000, pop.SourceNumber())

	src, err := pop.DrawSource()
	require.NoError(t, err)
	assert.NotEmpty(t, src.Fields())
	require.NotNil(t, src.Derived, "fixture redshifts start at 0.1, so derived values exist")
}

func TestRunner_RecordsRunAndDraws(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	r := NewRunner(WithStore(s), WithRunIDGenerator(NewFixedGenerator("run-1")))

	res, err := r.Run(ctx, testConfig(t, 1000, "with-replacement"), 20)
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, store.StatusCompleted, res.Status)
	assert.Equal(t, 1000, res.CatalogSize)
	assert.Equal(t, 1000, res.SourceNumber)
	assert.Equal(t, 1000, res.Remaining, "with replacement never shrinks")
	assert.InDelta(t, 10000.0, res.Density, 1e-9)
	require.Len(t, res.Draws, 20)
	assert.NotEmpty(t, res.DrawsHash)

	run, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, run.Status)
	assert.Equal(t, res.ConfigHash, run.ConfigHash)
	assert.Equal(t, res.DrawsHash, run.DrawsHash)
	assert.Equal(t, 20, run.RequestedDraws)
	assert.Empty(t, run.ErrorMessage)

	draws, err := s.ReadDraws(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, draws, 20)
	for i, d := range draws {
		assert.Equal(t, res.Draws[i].Seq, d.Seq)
		assert.Equal(t, res.Draws[i].Source.ID, d.RecordID)
		assert.Greater(t, d.Seq, run.Seq, "draws are stamped after their run")
		if i > 0 {
			assert.Greater(t, d.Seq, draws[i-1].Seq)
		}
	}
}

func TestRunner_ExhaustionKeepsPartialResult(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	r := NewRunner(WithStore(s), WithRunIDGenerator(NewFixedGenerator("run-x")))

	res, err := r.Run(ctx, testConfig(t, 5, "sequential"), 8)
	require.Error(t, err)
	assert.True(t, simerr.IsExhaustionError(err))
	require.NotNil(t, res)

	assert.Equal(t, store.StatusExhausted, res.Status)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.IDs(), "sequential draws follow catalog order")
	assert.Equal(t, 0, res.Remaining)

	run, err := s.ReadRun(ctx, "run-x")
	require.NoError(t, err)
	assert.Equal(t, store.StatusExhausted, run.Status)
	assert.Contains(t, run.ErrorMessage, "EXHAUSTED")

	n, err := s.CountDraws(ctx, "run-x")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestRunner_WithoutReplacementDrawsDistinct(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), testConfig(t, 50, "without-replacement"), 50)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, id := range res.IDs() {
		assert.False(t, seen[id], "record %d drawn twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, 50)
	assert.Equal(t, 0, res.Remaining)
}

func TestRunner_Deterministic(t *testing.T) {
	cfg := testConfig(t, 2000, "with-replacement")

	a, err := NewRunner().Run(context.Background(), cfg, 100)
	require.NoError(t, err)
	b, err := NewRunner().Run(context.Background(), cfg, 100)
	require.NoError(t, err)

	assert.Equal(t, a.ConfigHash, b.ConfigHash)
	assert.Equal(t, a.DrawsHash, b.DrawsHash)
	for i := range a.Draws {
		assert.Equal(t, a.Draws[i].Source, b.Draws[i].Source)
	}
}

func TestRunner_DrawsInBounds(t *testing.T) {
	cfg := testConfig(t, 500, "with-replacement")
	res, err := NewRunner().Run(context.Background(), cfg, 500)
	require.NoError(t, err)

	b := cfg.Bounds()
	for _, d := range res.Draws {
		assert.True(t, b.ContainsRedshift(d.Source.Redshift))
		assert.True(t, b.ContainsMagnitude(d.Source.Magnitude))
		assert.GreaterOrEqual(t, d.Source.VariabilityAmplitude, catalog.AmplitudeMin)
		assert.LessOrEqual(t, d.Source.VariabilityAmplitude, catalog.AmplitudeMax)
	}
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner().Run(ctx, testConfig(t, 10, "with-replacement"), 5)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Empty(t, res.Draws)
	assert.Equal(t, store.StatusFailed, res.Status)
}

func TestRunner_NegativeDraws(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), testConfig(t, 10, "with-replacement"), -1)
	assert.True(t, simerr.IsConfigurationError(err))
}

func TestRunner_ZeroDraws(t *testing.T) {
	res, err := NewRunner().Run(context.Background(), testConfig(t, 10, "with-replacement"), 0)
	require.NoError(t, err)
	assert.Empty(t, res.Draws)
	assert.Equal(t, store.StatusCompleted, res.Status)
}
