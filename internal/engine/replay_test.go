package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lenspop/internal/store"
)

func TestReplay_Identical(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	r := NewRunner(WithStore(s), WithRunIDGenerator(NewFixedGenerator("run-1")))

	_, err := r.Run(ctx, testConfig(t, 300, "without-replacement"), 40)
	require.NoError(t, err)

	res, err := Replay(ctx, s, "run-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Draws)
	assert.True(t, res.Identical(), "mismatches: %v", res.Mismatches)
}

func TestReplay_ExhaustedRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	r := NewRunner(WithStore(s), WithRunIDGenerator(NewFixedGenerator("run-e")))

	_, err := r.Run(ctx, testConfig(t, 3, "without-replacement"), 10)
	require.Error(t, err)

	res, err := Replay(ctx, s, "run-e", nil)
	require.NoError(t, err)
	assert.Equal(t, store.StatusExhausted, res.Status)
	assert.Equal(t, 3, res.Draws)
	assert.True(t, res.Identical(), "mismatches: %v", res.Mismatches)
}

func TestReplay_DetectsTamperedDraw(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	r := NewRunner(WithStore(s), WithRunIDGenerator(NewFixedGenerator("run-t")))

	_, err := r.Run(ctx, testConfig(t, 100, "sequential"), 5)
	require.NoError(t, err)

	_, err = s.DB().Exec(`UPDATE draws SET record_id = 99, magnitude = 0 WHERE run_id = 'run-t' AND seq = (SELECT MIN(seq) FROM draws WHERE run_id = 'run-t')`)
	require.NoError(t, err)

	res, err := Replay(ctx, s, "run-t", nil)
	require.NoError(t, err)
	require.False(t, res.Identical())

	fields := map[string]bool{}
	for _, m := range res.Mismatches {
		fields[m.Field] = true
	}
	assert.True(t, fields["record_id"])
	assert.True(t, fields["mag_i"])
	assert.Equal(t, 0, res.Mismatches[0].Index)
}

func TestReplay_DetectsConfigHashChange(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	r := NewRunner(WithStore(s), WithRunIDGenerator(NewFixedGenerator("run-h")))

	_, err := r.Run(ctx, testConfig(t, 10, "sequential"), 2)
	require.NoError(t, err)

	_, err = s.DB().Exec(`UPDATE runs SET config_hash = 'bogus' WHERE id = 'run-h'`)
	require.NoError(t, err)

	res, err := Replay(ctx, s, "run-h", nil)
	require.NoError(t, err)
	require.Len(t, res.Mismatches, 1)
	assert.Equal(t, "config_hash", res.Mismatches[0].Field)
}

func TestReplay_UnknownRun(t *testing.T) {
	_, err := Replay(context.Background(), testStore(t), "nope", nil)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}
