// Package population wraps a generated quasar catalog and serves sources to
// the lensing pipeline.
//
// A Population exclusively owns its copy of the records. The cosmology model
// and sky area are shared read-only collaborators and are never mutated.
//
// Population is not safe for concurrent use: DrawSource mutates the draw
// state (random stream, cursor, and under WithoutReplacement the record
// slice). Callers drawing from several goroutines must serialize externally.
package population

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/roach88/lenspop/internal/catalog"
	"github.com/roach88/lenspop/internal/cosmology"
	"github.com/roach88/lenspop/internal/simerr"
	"github.com/roach88/lenspop/internal/units"
)

// Population is the source-population sampling interface.
type Population struct {
	records []catalog.QuasarRecord
	cosmo   cosmology.Model
	area    units.Area
	policy  Policy
	rng     *rand.Rand
	cursor  int
	total   int
	logger  *slog.Logger
}

type config struct {
	policy Policy
	src    rand.Source
	cut    Cut
	logger *slog.Logger
}

// Option configures a Population.
type Option func(*config)

// WithPolicy selects the draw policy. The default is WithReplacement.
func WithPolicy(p Policy) Option {
	return func(c *config) { c.policy = p }
}

// WithSource sets the random source used for draws. When unset, draws use
// catalog.NewSource(0) so behavior stays reproducible.
func WithSource(src rand.Source) Option {
	return func(c *config) { c.src = src }
}

// WithCut filters the catalog at construction.
func WithCut(cut Cut) Option {
	return func(c *config) { c.cut = cut }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New builds a Population over a private copy of records. It does not
// re-derive or re-validate redshift or magnitude ranges.
func New(records []catalog.QuasarRecord, cosmo cosmology.Model, area units.Area, opts ...Option) (*Population, error) {
	cfg := config{policy: WithReplacement}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cosmo == nil {
		return nil, simerr.Dependency("cosmology", fmt.Errorf("model is required"))
	}
	if _, ok := policyNames[cfg.policy]; !ok {
		return nil, simerr.Configuration("policy", "unknown draw policy %d", int(cfg.policy))
	}
	if err := cfg.cut.validate(); err != nil {
		return nil, err
	}
	if cfg.src == nil {
		cfg.src = catalog.NewSource(0)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	owned := cfg.cut.apply(records)

	p := &Population{
		records: owned,
		cosmo:   cosmo,
		area:    area,
		policy:  cfg.policy,
		rng:     rand.New(cfg.src),
		total:   len(owned),
		logger:  cfg.logger,
	}

	p.logger.Debug("population ready",
		"records", len(records),
		"kept", len(owned),
		"policy", cfg.policy.String(),
		"sky_area", area.String(),
	)
	return p, nil
}

// SourceNumber returns the number of records currently available for
// drawing. Under WithReplacement it never changes.
func (p *Population) SourceNumber() int {
	return len(p.records) - p.cursor
}

// Policy returns the draw policy.
func (p *Population) Policy() Policy {
	return p.policy
}

// SkyArea returns the sky area the population covers.
func (p *Population) SkyArea() units.Area {
	return p.area
}

// Cosmology returns the shared cosmology model.
func (p *Population) Cosmology() cosmology.Model {
	return p.cosmo
}

// SourceDensity returns the number of sources per square degree, counted
// at construction (after any cut).
func (p *Population) SourceDensity() (float64, error) {
	deg2, err := p.area.SquareDegrees()
	if err != nil {
		return 0, err
	}
	return float64(p.total) / deg2, nil
}

// DrawSource selects one record according to the policy and augments it with
// cosmology-derived quantities. A failed derivation leaves the draw state
// untouched.
func (p *Population) DrawSource() (Source, error) {
	if p.SourceNumber() == 0 {
		return Source{}, simerr.Exhausted("no records remaining (policy %s, catalog size %d)", p.policy, p.total)
	}

	var idx int
	switch p.policy {
	case Sequential:
		idx = p.cursor
	default:
		idx = p.rng.IntN(len(p.records))
	}

	src, err := p.derive(p.records[idx])
	if err != nil {
		return Source{}, err
	}

	switch p.policy {
	case Sequential:
		p.cursor++
	case WithoutReplacement:
		last := len(p.records) - 1
		p.records[idx] = p.records[last]
		p.records = p.records[:last]
	}

	p.logger.Debug("source drawn", "id", src.ID, "z", src.Redshift, "mag", src.Magnitude, "remaining", p.SourceNumber())
	return src, nil
}

func (p *Population) derive(r catalog.QuasarRecord) (Source, error) {
	s := Source{QuasarRecord: r}
	if r.Redshift == 0 {
		return s, nil
	}

	dl, err := p.cosmo.LuminosityDistance(r.Redshift)
	if err != nil {
		return Source{}, simerr.Dependency("luminosity distance", err)
	}
	dm, err := p.cosmo.DistanceModulus(r.Redshift)
	if err != nil {
		return Source{}, simerr.Dependency("distance modulus", err)
	}
	if !finite(dl) || dl <= 0 {
		return Source{}, simerr.Dependency("luminosity distance", fmt.Errorf("invalid value %v at z=%v", dl, r.Redshift))
	}
	if !finite(dm) {
		return Source{}, simerr.Dependency("distance modulus", fmt.Errorf("invalid value %v at z=%v", dm, r.Redshift))
	}

	s.Derived = &Derived{
		LuminosityDistance: dl,
		DistanceModulus:    dm,
		AbsoluteMagnitude:  r.Magnitude - dm,
	}
	return s, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
