package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lenspop/internal/config"
	"github.com/roach88/lenspop/internal/ir"
)

// ValidationResult is the validate command's payload.
type ValidationResult struct {
	Valid      bool   `json:"valid"`
	Name       string `json:"name"`
	ConfigHash string `json:"config_hash"`
	Policy     string `json:"policy"`
	SkyArea    string `json:"sky_area"`
	Cosmology  string `json:"cosmology"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a population configuration",
		Long: `Load a population configuration (YAML, TOML or JSON), check it against
the schema and construct every collaborator without generating a catalog.

Exit codes:
  0 - Configuration is valid
  2 - Configuration is invalid or unreadable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	cfg, err := config.Load(path)
	if err != nil {
		_ = f.Error(err, map[string]string{"path": path})
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	result, err := describeConfig(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "describe configuration", err)
	}
	f.VerboseLog("validated %s", path)

	if f.Format == "json" {
		return f.Success(result)
	}
	return f.Success(formatValidation(result))
}

func describeConfig(cfg *config.Config) (ValidationResult, error) {
	snapshot, err := cfg.Snapshot()
	if err != nil {
		return ValidationResult{}, err
	}
	hash, err := ir.PopulationHash(snapshot)
	if err != nil {
		return ValidationResult{}, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return ValidationResult{}, err
	}
	area, err := cfg.Area()
	if err != nil {
		return ValidationResult{}, err
	}
	cosmo, err := cfg.NewCosmology()
	if err != nil {
		return ValidationResult{}, err
	}
	return ValidationResult{
		Valid:      true,
		Name:       cfg.Name,
		ConfigHash: hash,
		Policy:     policy.String(),
		SkyArea:    area.String(),
		Cosmology:  cosmo.String(),
	}, nil
}

func formatValidation(r ValidationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s is valid\n", r.Name)
	fmt.Fprintf(&b, "  hash:      %s\n", r.ConfigHash)
	fmt.Fprintf(&b, "  policy:    %s\n", r.Policy)
	fmt.Fprintf(&b, "  sky area:  %s\n", r.SkyArea)
	fmt.Fprintf(&b, "  cosmology: %s", r.Cosmology)
	return b.String()
}
