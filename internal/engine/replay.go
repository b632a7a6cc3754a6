package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/lenspop/internal/config"
	"github.com/roach88/lenspop/internal/ir"
	"github.com/roach88/lenspop/internal/simerr"
	"github.com/roach88/lenspop/internal/store"
)

// Mismatch is one difference between a recorded draw and its replay.
type Mismatch struct {
	Index    int    `json:"index"`
	Seq      int64  `json:"seq"`
	Field    string `json:"field"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("draw %d (seq %d): %s recorded=%s replayed=%s", m.Index, m.Seq, m.Field, m.Recorded, m.Replayed)
}

// ReplayResult reports whether a recorded run reproduces.
type ReplayResult struct {
	RunID      string     `json:"run_id"`
	Status     string     `json:"status"`
	Draws      int        `json:"draws"`
	Mismatches []Mismatch `json:"mismatches"`
}

// Identical reports whether the replay matched the ledger exactly.
func (r *ReplayResult) Identical() bool {
	return len(r.Mismatches) == 0
}

// Replay rebuilds a recorded run from its configuration snapshot and
// compares every draw against the ledger. Floats are compared exactly: the
// pipeline is deterministic, so any difference is a reproducibility bug.
//
// A run recorded as exhausted must also exhaust on replay immediately after
// its last recorded draw.
func Replay(ctx context.Context, s *store.Store, runID string, logger *slog.Logger) (*ReplayResult, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	recorded, err := s.ReadDraws(ctx, runID)
	if err != nil {
		return nil, err
	}

	cfg, err := config.ParseJSON([]byte(run.ConfigJSON))
	if err != nil {
		return nil, fmt.Errorf("replay %s: stored config: %w", runID, err)
	}

	result := &ReplayResult{RunID: runID, Status: run.Status, Draws: len(recorded), Mismatches: []Mismatch{}}

	snapshot, err := cfg.Snapshot()
	if err != nil {
		return nil, err
	}
	hash, err := ir.PopulationHash(snapshot)
	if err != nil {
		return nil, err
	}
	if hash != run.ConfigHash {
		result.Mismatches = append(result.Mismatches, Mismatch{Index: -1, Seq: run.Seq, Field: "config_hash", Recorded: run.ConfigHash, Replayed: hash})
	}

	pop, _, err := Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	if got := pop.SourceNumber(); got != run.SourceNumber {
		result.Mismatches = append(result.Mismatches, Mismatch{Index: -1, Seq: run.Seq, Field: "source_number",
			Recorded: strconv.Itoa(run.SourceNumber), Replayed: strconv.Itoa(got)})
	}

	ids := make([]int, 0, len(recorded))
	for i, want := range recorded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := pop.DrawSource()
		if err != nil {
			result.Mismatches = append(result.Mismatches, Mismatch{Index: i, Seq: want.Seq, Field: "error",
				Recorded: "", Replayed: err.Error()})
			break
		}
		got := ledgerDraw(runID, Draw{Seq: want.Seq, Source: src})
		result.Mismatches = append(result.Mismatches, compareDraw(i, want, got)...)
		ids = append(ids, src.ID)
	}

	if run.Status == store.StatusExhausted && len(ids) == len(recorded) {
		if _, err := pop.DrawSource(); !simerr.IsExhaustionError(err) {
			replayed := "draw succeeded"
			if err != nil {
				replayed = err.Error()
			}
			result.Mismatches = append(result.Mismatches, Mismatch{Index: len(recorded), Field: "exhaustion",
				Recorded: store.StatusExhausted, Replayed: replayed})
		}
	}

	if run.DrawsHash != "" && len(ids) == len(recorded) {
		drawsHash, err := ir.DrawsHash(ids)
		if err != nil {
			return nil, err
		}
		if drawsHash != run.DrawsHash {
			result.Mismatches = append(result.Mismatches, Mismatch{Index: -1, Field: "draws_hash", Recorded: run.DrawsHash, Replayed: drawsHash})
		}
	}

	if logger != nil {
		logger.Info("replay finished", "run_id", runID, "draws", len(recorded), "mismatches", len(result.Mismatches))
	}
	return result, nil
}

func compareDraw(i int, want, got store.Draw) []Mismatch {
	var out []Mismatch
	add := func(field, recorded, replayed string) {
		if recorded != replayed {
			out = append(out, Mismatch{Index: i, Seq: want.Seq, Field: field, Recorded: recorded, Replayed: replayed})
		}
	}
	add("record_id", strconv.Itoa(want.RecordID), strconv.Itoa(got.RecordID))
	add("z", formatFloat(want.Redshift), formatFloat(got.Redshift))
	add("mag_i", formatFloat(want.Magnitude), formatFloat(got.Magnitude))
	add("abs_mag_i", formatOptional(want.AbsMagnitude), formatOptional(got.AbsMagnitude))
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return "null"
	}
	return formatFloat(*f)
}
