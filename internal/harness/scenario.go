package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lenspop/internal/config"
)

// Scenario defines a population contract test.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID fixes the ledger run ID. Defaults to testutil.DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// Draws is the number of sources to draw.
	Draws int `yaml:"draws"`

	// Config is the inline population configuration.
	Config *config.Config `yaml:"config,omitempty"`

	// ConfigFile is a configuration file path, relative to the scenario file.
	ConfigFile string `yaml:"config_file,omitempty"`

	// Assertions validate the run.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op is the comparison for source_number: ==, !=, >, >=, <, <=.
	Op string `yaml:"op,omitempty"`

	// Value is the expected value for source_number and source_density.
	Value *float64 `yaml:"value,omitempty"`

	// Tolerance is the allowed absolute difference for source_density.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Count is the expected number of successful draws for exhausted_after.
	Count *int `yaml:"count,omitempty"`

	// Status is the expected ledger status for ledger_status.
	Status string `yaml:"status,omitempty"`
}

// Assertion type constants.
const (
	AssertSourceNumber   = "source_number"
	AssertSourceDensity  = "source_density"
	AssertDrawsInBounds  = "draws_in_bounds"
	AssertFieldsNonEmpty = "fields_non_empty"
	AssertExhaustedAfter = "exhausted_after"
	AssertDeterministic  = "deterministic"
	AssertLedgerStatus   = "ledger_status"
)

var validOps = map[string]bool{"==": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := resolveConfig(&scenario, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// resolveConfig loads config_file, or validates the inline config.
func resolveConfig(s *Scenario, baseDir string) error {
	switch {
	case s.Config != nil && s.ConfigFile != "":
		return fmt.Errorf("config and config_file are mutually exclusive")
	case s.ConfigFile != "":
		path := s.ConfigFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("config_file: %w", err)
		}
		s.Config = cfg
	case s.Config != nil:
		if err := s.Config.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Config == nil {
		return fmt.Errorf("config or config_file is required")
	}
	if s.Draws < 0 {
		return fmt.Errorf("draws must be non-negative, got %d", s.Draws)
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSourceNumber:
		if !validOps[a.Op] {
			return fmt.Errorf("assertions[%d]: op must be one of ==, !=, >, >=, <, <= for source_number", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for source_number", index)
		}
	case AssertSourceDensity:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for source_density", index)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	case AssertExhaustedAfter:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for exhausted_after", index)
		}
	case AssertLedgerStatus:
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status is required for ledger_status", index)
		}
	case AssertDrawsInBounds, AssertFieldsNonEmpty, AssertDeterministic:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
