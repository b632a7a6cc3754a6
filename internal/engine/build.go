package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/lenspop/internal/catalog"
	"github.com/roach88/lenspop/internal/config"
	"github.com/roach88/lenspop/internal/population"
)

// Build generates the catalog for cfg and wraps it in a Population. It is
// the single construction path shared by runs, replays and the harness.
func Build(cfg *config.Config, logger *slog.Logger) (*population.Population, []catalog.QuasarRecord, error) {
	records, err := catalog.Generate(cfg.Bounds(), catalog.NewSource(cfg.Seed), cfg.GenerateOptions()...)
	if err != nil {
		return nil, nil, err
	}

	cosmo, err := cfg.NewCosmology()
	if err != nil {
		return nil, nil, err
	}
	area, err := cfg.Area()
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.PopulationOptions()
	if err != nil {
		return nil, nil, err
	}
	if logger != nil {
		opts = append(opts, population.WithLogger(logger))
	}

	pop, err := population.New(records, cosmo, area, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("build population: %w", err)
	}
	return pop, records, nil
}
