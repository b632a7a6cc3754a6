// Package catalog generates synthetic background-quasar catalogs.
//
// Generate is a pure function of its bounds and an explicitly passed random
// source: the same seed and bounds always produce bit-identical records.
// There is no package-level random state.
//
// # Population model
//
// Redshift is uniform on [ZMin, ZMax]. Apparent magnitude is drawn
// independently of redshift, either uniform on [MMin, MMax] (the default) or
// from power-law number counts dN/dm ∝ 10^(slope·m) via inverse-CDF sampling.
// Neither distribution uses rejection, so the catalog always holds exactly
// Number records.
//
// Each record also carries variability parameters for a damped random walk:
//
//   - VariabilityAmplitude, uniform in [AmplitudeMin, AmplitudeMax] mag
//   - VariabilityTimescale, log-uniform in [TimescaleMin, TimescaleMax] rest-frame days
//
// Per record, values are drawn in the fixed order redshift, magnitude,
// amplitude, timescale from the single source.
package catalog
