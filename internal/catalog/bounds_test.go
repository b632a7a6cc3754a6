package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lenspop/internal/simerr"
)

func validBounds() PopulationBounds {
	return PopulationBounds{Number: 100, ZMin: 0.1, ZMax: 5, MMin: 17, MMax: 25}
}

func TestPopulationBounds_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PopulationBounds)
		field  string
	}{
		{"zero number", func(b *PopulationBounds) { b.Number = 0 }, "number"},
		{"negative number", func(b *PopulationBounds) { b.Number = -5 }, "number"},
		{"inverted redshift", func(b *PopulationBounds) { b.ZMin, b.ZMax = 5, 0.1 }, "z_min"},
		{"negative redshift", func(b *PopulationBounds) { b.ZMin = -0.5 }, "z_min"},
		{"inverted magnitude", func(b *PopulationBounds) { b.MMin, b.MMax = 25, 17 }, "m_min"},
		{"NaN z_max", func(b *PopulationBounds) { b.ZMax = math.NaN() }, "z_max"},
		{"infinite m_max", func(b *PopulationBounds) { b.MMax = math.Inf(1) }, "m_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBounds()
			tt.mutate(&b)

			err := b.Validate()
			require.Error(t, err)
			assert.True(t, simerr.IsConfigurationError(err))

			var se *simerr.Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestPopulationBounds_ValidateAcceptsDegenerate(t *testing.T) {
	b := PopulationBounds{Number: 1, ZMin: 2, ZMax: 2, MMin: 20, MMax: 20}
	assert.NoError(t, b.Validate())
	assert.True(t, b.ContainsRedshift(2))
	assert.False(t, b.ContainsRedshift(2.0000001))
	assert.True(t, b.ContainsMagnitude(20))
}
