package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lenspop/internal/engine"
	"github.com/roach88/lenspop/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []*engine.ReplayResult `json:"runs"`
	TotalRuns        int                    `json:"total_runs"`
	AllDeterministic bool                   `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded runs and verify determinism",
		Long: `Rebuild each recorded run from its stored configuration, redraw it and
compare every draw with the ledger.

Exit codes:
  0 - Every replayed run reproduced exactly
  1 - At least one run differs from its ledger record
  2 - Command error (ledger not found, unknown run, etc.)

Examples:
  lenspop replay --db ledger.db
  lenspop replay --db ledger.db --run 0190a0c2-...
  lenspop replay --db ledger.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer st.Close()

	var runIDs []string
	if opts.RunID != "" {
		runIDs = []string{opts.RunID}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			runIDs = append(runIDs, r.ID)
		}
	}

	result := ReplayResult{
		Runs:             make([]*engine.ReplayResult, 0, len(runIDs)),
		TotalRuns:        len(runIDs),
		AllDeterministic: true,
	}
	logger := f.Logger()
	for _, id := range runIDs {
		rr, err := engine.Replay(ctx, st, id, logger)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		result.Runs = append(result.Runs, rr)
		if !rr.Identical() {
			result.AllDeterministic = false
		}
	}

	if f.Format == "json" {
		if err := f.Success(result); err != nil {
			return err
		}
	} else if err := f.Success(formatReplay(result, opts.Verbose)); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func formatReplay(r ReplayResult, verbose bool) string {
	if r.TotalRuns == 0 {
		return "No runs found in ledger."
	}

	var b strings.Builder
	for _, run := range r.Runs {
		mark := "✓"
		if !run.Identical() {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s (%s): %d draws, %d mismatches\n", mark, run.RunID, run.Status, run.Draws, len(run.Mismatches))
		limit := len(run.Mismatches)
		if !verbose && limit > 5 {
			limit = 5
		}
		for _, m := range run.Mismatches[:limit] {
			fmt.Fprintf(&b, "    %s\n", m)
		}
	}
	if r.AllDeterministic {
		fmt.Fprintf(&b, "All %d runs reproduced.", r.TotalRuns)
	} else {
		b.WriteString("Determinism verification failed.")
	}
	return b.String()
}
