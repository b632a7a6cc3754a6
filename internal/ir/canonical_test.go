package ir

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"z_max":  5.0,
		"number": 50000,
		"m_min":  17.0,
		"a":      map[string]any{"y": true, "x": "deg2"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"x":"deg2","y":true},"m_min":17,"number":50000,"z_max":5}`, string(got))
}

func TestMarshalCanonical_Floats(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.1, "0.1"},
		{17, "17"},
		{-2.5, "-2.5"},
		{0.3, "0.3"},
		{1e-7, "1e-07"},
	}
	for _, tt := range tests {
		got, err := MarshalCanonical(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalCanonical(bad)
		assert.Error(t, err)
	}
}

func TestMarshalCanonical_JSONNumber(t *testing.T) {
	got, err := MarshalCanonical([]any{json.Number("18446744073709551615"), json.Number("2.50"), json.Number("-3")})
	require.NoError(t, err)
	assert.Equal(t, "[18446744073709551615,2.5,-3]", string(got))
}

func TestMarshalCanonical_Strings(t *testing.T) {
	// Decomposed é (e + combining acute) normalizes to the precomposed form.
	got, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(got))

	got, err = MarshalCanonical("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"k": []any{1, nil}})
	assert.ErrorContains(t, err, "array[1]")

	_, err = MarshalCanonical(struct{}{})
	assert.ErrorContains(t, err, "unsupported type")
}

func TestCompareUTF16(t *testing.T) {
	// U+1F600 encodes as the surrogate pair D83D DE00, so it sorts before
	// U+FF61 in UTF-16 even though it sorts after it in UTF-8.
	assert.Less(t, compareUTF16("\U0001F600", "｡"), 0)
	assert.Equal(t, 0, compareUTF16("abc", "abc"))
	assert.Less(t, compareUTF16("ab", "abc"), 0)
}

func TestPopulationHash_OrderIndependent(t *testing.T) {
	a := map[string]any{"seed": 1, "number": 10}
	b := map[string]any{"number": 10, "seed": 1}

	ha, err := PopulationHash(a)
	require.NoError(t, err)
	hb, err := PopulationHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	hc, err := PopulationHash(map[string]any{"number": 11, "seed": 1})
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
