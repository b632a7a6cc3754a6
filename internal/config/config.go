// Package config loads population run configurations.
//
// A configuration file (YAML or TOML) fixes everything a run depends on:
// catalog bounds and model, seeds, sky area, cosmology and draw policy.
// Decoding is strict: unknown keys are rejected. The decoded value is then
// checked against an embedded CUE schema, and finally each collaborator is
// constructed so that invalid values fail at load time rather than mid-run.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lenspop/internal/catalog"
	"github.com/roach88/lenspop/internal/cosmology"
	"github.com/roach88/lenspop/internal/population"
	"github.com/roach88/lenspop/internal/simerr"
	"github.com/roach88/lenspop/internal/units"
)

// Config is a complete population run configuration.
type Config struct {
	// Name labels the run in logs and the draw ledger.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Seed drives catalog generation.
	Seed uint64 `json:"seed" yaml:"seed" toml:"seed"`

	Population Population `json:"population" yaml:"population" toml:"population"`

	// SkyArea is a value with unit, e.g. "0.1 deg2".
	SkyArea string `json:"sky_area" yaml:"sky_area" toml:"sky_area"`

	Cosmology Cosmology `json:"cosmology" yaml:"cosmology" toml:"cosmology"`

	Draw *Draw `json:"draw,omitempty" yaml:"draw,omitempty" toml:"draw,omitempty"`
}

// Population holds the catalog bounds and population model.
type Population struct {
	Number         int      `json:"number" yaml:"number" toml:"number"`
	ZMin           float64  `json:"z_min" yaml:"z_min" toml:"z_min"`
	ZMax           float64  `json:"z_max" yaml:"z_max" toml:"z_max"`
	MMin           float64  `json:"m_min" yaml:"m_min" toml:"m_min"`
	MMax           float64  `json:"m_max" yaml:"m_max" toml:"m_max"`
	MagnitudeModel string   `json:"magnitude_model,omitempty" yaml:"magnitude_model,omitempty" toml:"magnitude_model,omitempty"`
	PowerLawSlope  *float64 `json:"power_law_slope,omitempty" yaml:"power_law_slope,omitempty" toml:"power_law_slope,omitempty"`
}

// Cosmology holds flat ΛCDM parameters.
type Cosmology struct {
	H0  float64 `json:"h0" yaml:"h0" toml:"h0"`
	Om0 float64 `json:"om0" yaml:"om0" toml:"om0"`
}

// Draw holds draw-policy settings.
type Draw struct {
	Policy string          `json:"policy,omitempty" yaml:"policy,omitempty" toml:"policy,omitempty"`
	Seed   *uint64         `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	Cut    *population.Cut `json:"cut,omitempty" yaml:"cut,omitempty" toml:"cut,omitempty"`
}

// Load reads a configuration file. The format follows the extension:
// .yaml/.yml, .toml or .json.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, simerr.Configuration("path", "unsupported config format %q", ext)
	}
}

// ParseYAML decodes and validates a YAML configuration.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, &simerr.Error{Code: simerr.CodeConfiguration, Message: "failed to parse YAML", Err: err}
	}
	return finish(&cfg)
}

// ParseTOML decodes and validates a TOML configuration.
func ParseTOML(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, &simerr.Error{Code: simerr.CodeConfiguration, Message: "failed to parse TOML", Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, simerr.Configuration(keys[0], "unknown keys: %s", strings.Join(keys, ", "))
	}
	return finish(&cfg)
}

// ParseJSON decodes and validates a JSON configuration, the form stored in
// the draw ledger.
func ParseJSON(data []byte) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &simerr.Error{Code: simerr.CodeConfiguration, Message: "failed to parse JSON", Err: err}
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the schema and builds every collaborator once.
func (c *Config) Validate() error {
	if err := validateSchema(c); err != nil {
		return err
	}
	if err := c.Bounds().Validate(); err != nil {
		return err
	}
	if _, err := c.NewCosmology(); err != nil {
		return err
	}
	if _, err := c.Area(); err != nil {
		return simerr.Configuration("sky_area", "%v", err)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Bounds returns the catalog bounds.
func (c *Config) Bounds() catalog.PopulationBounds {
	return catalog.PopulationBounds{
		Number: c.Population.Number,
		ZMin:   c.Population.ZMin,
		ZMax:   c.Population.ZMax,
		MMin:   c.Population.MMin,
		MMax:   c.Population.MMax,
	}
}

// GenerateOptions returns the catalog population-model options.
func (c *Config) GenerateOptions() []catalog.Option {
	var opts []catalog.Option
	if c.Population.MagnitudeModel != "" {
		opts = append(opts, catalog.WithMagnitudeModel(catalog.MagnitudeModel(c.Population.MagnitudeModel)))
	}
	if c.Population.PowerLawSlope != nil {
		opts = append(opts, catalog.WithPowerLawSlope(*c.Population.PowerLawSlope))
	}
	return opts
}

// NewCosmology builds the flat ΛCDM model.
func (c *Config) NewCosmology() (*cosmology.FlatLambdaCDM, error) {
	return cosmology.NewFlatLambdaCDM(c.Cosmology.H0, c.Cosmology.Om0)
}

// Area parses the sky area.
func (c *Config) Area() (units.Area, error) {
	a, err := units.ParseArea(c.SkyArea)
	if err != nil {
		return units.Area{}, err
	}
	if _, err := a.SquareDegrees(); err != nil {
		return units.Area{}, err
	}
	return a, nil
}

// Policy returns the draw policy.
func (c *Config) Policy() (population.Policy, error) {
	if c.Draw == nil {
		return population.WithReplacement, nil
	}
	return population.ParsePolicy(c.Draw.Policy)
}

// DrawSeed returns the seed of the draw stream. When unset it is derived
// from Seed so that one seed reproduces a whole run.
func (c *Config) DrawSeed() uint64 {
	if c.Draw != nil && c.Draw.Seed != nil {
		return *c.Draw.Seed
	}
	return c.Seed + 1
}

// PopulationOptions returns the options for population.New.
func (c *Config) PopulationOptions() ([]population.Option, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	opts := []population.Option{
		population.WithPolicy(policy),
		population.WithSource(catalog.NewSource(c.DrawSeed())),
	}
	if c.Draw != nil && c.Draw.Cut != nil {
		opts = append(opts, population.WithCut(*c.Draw.Cut))
	}
	return opts, nil
}

// JSON returns the configuration as JSON.
func (c *Config) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// Snapshot returns the configuration as a generic map suitable for
// canonical hashing. Numbers are kept as json.Number to preserve seeds
// above 2^53.
func (c *Config) Snapshot() (map[string]any, error) {
	data, err := c.JSON()
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}
