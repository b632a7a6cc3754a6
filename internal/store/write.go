package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteRun inserts a run record. A duplicate run ID is an error: run IDs
// are generated fresh for every run.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	status := run.Status
	if status == "" {
		status = StatusRunning
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, name, config_hash, config_json, source_number, requested_draws, status, draws_hash, error_message, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Name,
		run.ConfigHash,
		run.ConfigJSON,
		run.SourceNumber,
		run.RequestedDraws,
		status,
		run.DrawsHash,
		run.ErrorMessage,
		run.Seq,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// FinishRun records the final status of a run.
func (s *Store) FinishRun(ctx context.Context, runID, status, drawsHash, errMsg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, draws_hash = ?, error_message = ? WHERE id = ?
	`, status, drawsHash, errMsg, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: %w", ErrRunNotFound)
	}
	return nil
}

// WriteDraw inserts a draw record.
// Uses ON CONFLICT(run_id, seq) DO NOTHING for idempotency.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteDraw(ctx context.Context, d Draw) error {
	var abs sql.NullFloat64
	if d.AbsMagnitude != nil {
		abs = sql.NullFloat64{Float64: *d.AbsMagnitude, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO draws
		(run_id, seq, record_id, redshift, magnitude, abs_magnitude)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		d.RunID,
		d.Seq,
		d.RecordID,
		d.Redshift,
		d.Magnitude,
		abs,
	)
	if err != nil {
		return fmt.Errorf("write draw: %w", err)
	}
	return nil
}
