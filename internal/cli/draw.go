package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lenspop/internal/config"
	"github.com/roach88/lenspop/internal/engine"
	"github.com/roach88/lenspop/internal/simerr"
	"github.com/roach88/lenspop/internal/store"
)

// DrawOptions holds flags for the draw command.
type DrawOptions struct {
	*RootOptions
	Count    int
	Database string // optional ledger path
}

// NewDrawCommand creates the draw command.
func NewDrawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "draw <config>",
		Short: "Draw sources from a population",
		Long: `Generate the population described by a configuration and draw sources
from it with the configured policy. With --db the run and every draw are
recorded in a SQLite ledger for later replay.

Exit codes:
  0 - All requested draws succeeded
  1 - The population was exhausted or a collaborator failed
  2 - Command error (invalid config, ledger not writable)

Examples:
  lenspop draw quasars.yaml -n 10
  lenspop draw quasars.yaml -n 1000 --db ledger.db --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraw(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of sources to draw")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite ledger")

	return cmd
}

func runDraw(ctx context.Context, opts *DrawOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := config.Load(path)
	if err != nil {
		_ = f.Error(err, nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	runnerOpts := []engine.RunnerOption{engine.WithLogger(f.Logger())}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open ledger", err)
		}
		defer st.Close()

		// Continue seq numbering after runs already in the ledger.
		clock, err := ledgerClock(ctx, st)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read ledger", err)
		}
		runnerOpts = append(runnerOpts, engine.WithStore(st), engine.WithClock(clock))
	}

	result, runErr := engine.NewRunner(runnerOpts...).Run(ctx, cfg, opts.Count)
	if result == nil {
		_ = f.Error(runErr, nil)
		return WrapExitError(exitCodeFor(runErr), "draw failed", runErr)
	}

	if f.Format == "json" {
		if runErr != nil {
			_ = f.Error(runErr, result)
		} else if err := f.Success(result); err != nil {
			return err
		}
	} else {
		if err := f.Success(formatDraws(result)); err != nil {
			return err
		}
		if runErr != nil {
			_ = f.Error(runErr, nil)
		}
	}

	if runErr != nil {
		if simerr.IsExhaustionError(runErr) {
			return WrapExitError(ExitFailure, fmt.Sprintf("population exhausted after %d draws", len(result.Draws)), runErr)
		}
		return WrapExitError(ExitFailure, "draw interrupted", runErr)
	}
	return nil
}

// ledgerClock returns a clock positioned after the highest seq in the ledger.
func ledgerClock(ctx context.Context, st *store.Store) (*engine.Clock, error) {
	last, err := st.LastSeq(ctx)
	if err != nil {
		return nil, err
	}
	return engine.NewClockAt(last), nil
}

func formatDraws(r *engine.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s (%s): %d/%d draws, %d sources remaining\n", r.RunID, r.Status, len(r.Draws), r.RequestedDraws, r.Remaining)
	fmt.Fprintf(&b, "%6s %7s %8s %8s %8s %9s", "seq", "id", "z", "mag_i", "abs_mag", "tau_days")
	for _, d := range r.Draws {
		abs := "-"
		if d.Source.Derived != nil {
			abs = fmt.Sprintf("%.3f", d.Source.Derived.AbsoluteMagnitude)
		}
		fmt.Fprintf(&b, "\n%6d %7d %8.4f %8.3f %8s %9.1f",
			d.Seq, d.Source.ID, d.Source.Redshift, d.Source.Magnitude, abs, d.Source.VariabilityTimescale)
	}
	return b.String()
}
