package catalog

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds catalog-level statistics.
type Summary struct {
	Count        int     `json:"count"`
	ZMin         float64 `json:"z_min"`
	ZMax         float64 `json:"z_max"`
	ZMean        float64 `json:"z_mean"`
	MagMin       float64 `json:"mag_min"`
	MagMax       float64 `json:"mag_max"`
	MagMean      float64 `json:"mag_mean"`
	MagStdDev    float64 `json:"mag_std_dev"`
	AmplitudeAvg float64 `json:"amplitude_mean"`
}

// Summarize computes Summary for records. An empty catalog yields a zero
// Summary.
func Summarize(records []QuasarRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	z := make([]float64, len(records))
	m := make([]float64, len(records))
	amp := make([]float64, len(records))
	for i, r := range records {
		z[i] = r.Redshift
		m[i] = r.Magnitude
		amp[i] = r.VariabilityAmplitude
	}
	s := Summary{
		Count:        len(records),
		ZMin:         floats.Min(z),
		ZMax:         floats.Max(z),
		ZMean:        stat.Mean(z, nil),
		MagMin:       floats.Min(m),
		MagMax:       floats.Max(m),
		AmplitudeAvg: stat.Mean(amp, nil),
	}
	s.MagMean = stat.Mean(m, nil)
	if len(m) > 1 {
		s.MagStdDev = stat.StdDev(m, nil)
	}
	return s
}
