package catalog

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/roach88/lenspop/internal/simerr"
)

// MagnitudeModel selects the apparent-magnitude distribution.
type MagnitudeModel string

const (
	MagnitudeUniform  MagnitudeModel = "uniform"
	MagnitudePowerLaw MagnitudeModel = "power-law"
)

// DefaultPowerLawSlope is the faint-end quasar number-count slope used when
// power-law counts are requested without an explicit slope.
const DefaultPowerLawSlope = 0.3

// pcgStream is the fixed PCG stream selector mixed into every seed.
const pcgStream = 0x9e3779b97f4a7c15

// NewSource returns a deterministic random source for seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^pcgStream)
}

type options struct {
	magnitude MagnitudeModel
	slope     float64
}

// Option customizes the population model used by Generate.
type Option func(*options)

// WithMagnitudeModel selects the magnitude distribution.
func WithMagnitudeModel(m MagnitudeModel) Option {
	return func(o *options) { o.magnitude = m }
}

// WithPowerLawSlope sets the slope of dN/dm ∝ 10^(slope·m). It only applies
// to MagnitudePowerLaw.
func WithPowerLawSlope(slope float64) Option {
	return func(o *options) { o.slope = slope }
}

// Generate draws exactly b.Number records.
func Generate(b PopulationBounds, src rand.Source, opts ...Option) ([]QuasarRecord, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, simerr.Configuration("source", "random source is required")
	}

	o := options{magnitude: MagnitudeUniform, slope: DefaultPowerLawSlope}
	for _, opt := range opts {
		opt(&o)
	}

	magnitude, err := magnitudeSampler(b, o, src)
	if err != nil {
		return nil, err
	}

	redshift := distuv.Uniform{Min: b.ZMin, Max: b.ZMax, Src: src}
	amplitude := distuv.Uniform{Min: AmplitudeMin, Max: AmplitudeMax, Src: src}
	logTau := distuv.Uniform{Min: math.Log10(TimescaleMin), Max: math.Log10(TimescaleMax), Src: src}

	records := make([]QuasarRecord, b.Number)
	for i := range records {
		z := clamp(redshift.Rand(), b.ZMin, b.ZMax)
		m := magnitude()
		amp := clamp(amplitude.Rand(), AmplitudeMin, AmplitudeMax)
		tau := clamp(math.Pow(10, logTau.Rand()), TimescaleMin, TimescaleMax)

		records[i] = QuasarRecord{
			ID:                   i,
			Redshift:             z,
			Magnitude:            m,
			VariabilityAmplitude: amp,
			VariabilityTimescale: tau,
		}
	}
	return records, nil
}

func magnitudeSampler(b PopulationBounds, o options, src rand.Source) (func() float64, error) {
	switch o.magnitude {
	case MagnitudeUniform, "":
		u := distuv.Uniform{Min: b.MMin, Max: b.MMax, Src: src}
		return func() float64 { return clamp(u.Rand(), b.MMin, b.MMax) }, nil
	case MagnitudePowerLaw:
		if o.slope == 0 || math.IsNaN(o.slope) || math.IsInf(o.slope, 0) {
			return nil, simerr.Configuration("slope", "must be finite and non-zero, got %v", o.slope)
		}
		u := distuv.Uniform{Min: 0, Max: 1, Src: src}
		// Inverse CDF of 10^(slope·m) on [MMin, MMax], written relative to
		// MMin so large slope·m products cannot overflow.
		span := math.Pow(10, o.slope*(b.MMax-b.MMin)) - 1
		return func() float64 {
			m := b.MMin + math.Log10(1+u.Rand()*span)/o.slope
			return clamp(m, b.MMin, b.MMax)
		}, nil
	default:
		return nil, simerr.Configuration("magnitude_model", "unknown model %q", o.magnitude)
	}
}

// clamp guards the closed-range invariant against floating-point rounding
// at the upper endpoint.
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
