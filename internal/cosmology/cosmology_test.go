package cosmology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lenspop/internal/simerr"
)

func planck70(t *testing.T) *FlatLambdaCDM {
	t.Helper()
	c, err := NewFlatLambdaCDM(70, 0.3)
	require.NoError(t, err)
	return c
}

func TestNewFlatLambdaCDM_Invalid(t *testing.T) {
	tests := []struct {
		name string
		h0   float64
		om0  float64
	}{
		{"zero H0", 0, 0.3},
		{"negative H0", -70, 0.3},
		{"NaN H0", math.NaN(), 0.3},
		{"zero Om0", 70, 0},
		{"Om0 above one", 70, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFlatLambdaCDM(tt.h0, tt.om0)
			require.Error(t, err)
			assert.True(t, simerr.IsConfigurationError(err))
		})
	}
}

func TestDistances_ReferenceValues(t *testing.T) {
	c := planck70(t)

	tests := []struct {
		z        float64
		comoving float64
		modulus  float64
		angular  float64
		lookback float64
	}{
		{0.5, 1888.625, 42.2612, 1259.084, 5.0406},
		{1, 3303.829, 44.1002, 1651.914, 7.7153},
		{2, 5179.862, 45.9572, 1726.621, 10.2404},
		{5, 7775.370, 48.3444, 1295.895, 12.3122},
	}

	for _, tt := range tests {
		dc, err := c.ComovingDistance(tt.z)
		require.NoError(t, err)
		assert.InDelta(t, tt.comoving, dc, 0.05, "comoving distance at z=%v", tt.z)

		dl, err := c.LuminosityDistance(tt.z)
		require.NoError(t, err)
		assert.InDelta(t, (1+tt.z)*tt.comoving, dl, 0.2, "luminosity distance at z=%v", tt.z)

		dm, err := c.DistanceModulus(tt.z)
		require.NoError(t, err)
		assert.InDelta(t, tt.modulus, dm, 1e-3, "distance modulus at z=%v", tt.z)

		da, err := c.AngularDiameterDistance(tt.z)
		require.NoError(t, err)
		assert.InDelta(t, tt.angular, da, 0.05, "angular diameter distance at z=%v", tt.z)

		lt, err := c.LookbackTime(tt.z)
		require.NoError(t, err)
		assert.InDelta(t, tt.lookback, lt, 1e-3, "lookback time at z=%v", tt.z)
	}
}

func TestAge(t *testing.T) {
	c := planck70(t)

	age0, err := c.Age(0)
	require.NoError(t, err)
	assert.InDelta(t, 13.467, age0, 0.01)

	age1, err := c.Age(1)
	require.NoError(t, err)
	assert.InDelta(t, 5.7516, age1, 0.01)

	lt, err := c.LookbackTime(1)
	require.NoError(t, err)
	assert.InDelta(t, age0-age1, lt, 0.01)
}

func TestZeroRedshift(t *testing.T) {
	c := planck70(t)

	dc, err := c.ComovingDistance(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dc)

	_, err = c.DistanceModulus(0)
	assert.Error(t, err)
}

func TestNegativeRedshift(t *testing.T) {
	c := planck70(t)

	_, err := c.LuminosityDistance(-0.1)
	assert.Error(t, err)
	_, err = c.LookbackTime(math.NaN())
	assert.Error(t, err)
	_, err = c.Age(-1)
	assert.Error(t, err)
}

func TestDifferentialComovingVolume(t *testing.T) {
	c := planck70(t)

	v, err := c.DifferentialComovingVolume(1)
	require.NoError(t, err)
	assert.InEpsilon(t, 2.65507557e10, v, 1e-4)
}

func TestModelInterface(t *testing.T) {
	var m Model = planck70(t)
	dl, err := m.LuminosityDistance(1)
	require.NoError(t, err)
	assert.Greater(t, dl, 0.0)
	assert.Equal(t, "FlatLambdaCDM(H0=70, Om0=0.3)", planck70(t).String())
}
