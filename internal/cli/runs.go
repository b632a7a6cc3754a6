package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lenspop/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunSummary is one ledger run in the runs command's payload.
type RunSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	SourceNumber   int    `json:"source_number"`
	RequestedDraws int    `json:"requested_draws"`
	Draws          int    `json:"draws"`
	ConfigHash     string `json:"config_hash"`
	Error          string `json:"error,omitempty"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs recorded in a ledger",
		Long: `List the runs recorded in a draw ledger in the order they started.

Examples:
  lenspop runs --db ledger.db
  lenspop runs --db ledger.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		n, err := st.CountDraws(ctx, r.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to count draws", err)
		}
		summaries = append(summaries, RunSummary{
			ID:             r.ID,
			Name:           r.Name,
			Status:         r.Status,
			SourceNumber:   r.SourceNumber,
			RequestedDraws: r.RequestedDraws,
			Draws:          n,
			ConfigHash:     r.ConfigHash,
			Error:          r.ErrorMessage,
		})
	}

	if f.Format == "json" {
		return f.Success(summaries)
	}
	if len(summaries) == 0 {
		return f.Success("No runs found in ledger.")
	}

	var b strings.Builder
	for i, s := range summaries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %-10s %-20s %d/%d draws  %d sources", s.ID, s.Status, s.Name, s.Draws, s.RequestedDraws, s.SourceNumber)
	}
	return f.Success(b.String())
}
