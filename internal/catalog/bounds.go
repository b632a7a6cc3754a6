package catalog

import (
	"math"

	"github.com/roach88/lenspop/internal/simerr"
)

// PopulationBounds configures catalog generation.
//
// Equal endpoints are a valid degenerate range: every record then takes that
// exact value.
type PopulationBounds struct {
	Number int     `json:"number" yaml:"number" toml:"number"`
	ZMin   float64 `json:"z_min" yaml:"z_min" toml:"z_min"`
	ZMax   float64 `json:"z_max" yaml:"z_max" toml:"z_max"`
	MMin   float64 `json:"m_min" yaml:"m_min" toml:"m_min"`
	MMax   float64 `json:"m_max" yaml:"m_max" toml:"m_max"`
}

// Validate fails fast on invalid bounds. Nothing is clamped.
func (b PopulationBounds) Validate() error {
	if b.Number <= 0 {
		return simerr.Configuration("number", "must be positive, got %d", b.Number)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"z_min", b.ZMin}, {"z_max", b.ZMax}, {"m_min", b.MMin}, {"m_max", b.MMax},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return simerr.Configuration(f.name, "must be finite, got %v", f.v)
		}
	}
	if b.ZMin < 0 {
		return simerr.Configuration("z_min", "must be non-negative, got %v", b.ZMin)
	}
	if b.ZMin > b.ZMax {
		return simerr.Configuration("z_min", "must not exceed z_max (%v > %v)", b.ZMin, b.ZMax)
	}
	if b.MMin > b.MMax {
		return simerr.Configuration("m_min", "must not exceed m_max (%v > %v)", b.MMin, b.MMax)
	}
	return nil
}

// ContainsRedshift reports whether z lies in [ZMin, ZMax].
func (b PopulationBounds) ContainsRedshift(z float64) bool {
	return z >= b.ZMin && z <= b.ZMax
}

// ContainsMagnitude reports whether m lies in [MMin, MMax].
func (b PopulationBounds) ContainsMagnitude(m float64) bool {
	return m >= b.MMin && m <= b.MMax
}
