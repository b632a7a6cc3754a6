package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run ID is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, name, config_hash, config_json, source_number, requested_draws, status, draws_hash, error_message, seq`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Name, &r.ConfigHash, &r.ConfigJSON, &r.SourceNumber,
		&r.RequestedDraws, &r.Status, &r.DrawsHash, &r.ErrorMessage, &r.Seq)
	return r, err
}

// ReadRun returns a single run.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return r, nil
}

// ListRuns returns all runs ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) for an empty ledger.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadDraws returns a run's draws ordered by seq.
// Returns an empty slice (not nil) if the run drew nothing.
func (s *Store) ReadDraws(ctx context.Context, runID string) ([]Draw, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, record_id, redshift, magnitude, abs_magnitude
		FROM draws
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	draws := []Draw{}
	for rows.Next() {
		var d Draw
		var abs sql.NullFloat64
		if err := rows.Scan(&d.RunID, &d.Seq, &d.RecordID, &d.Redshift, &d.Magnitude, &abs); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		if abs.Valid {
			v := abs.Float64
			d.AbsMagnitude = &v
		}
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draws: %w", err)
	}
	return draws, nil
}

// CountDraws returns the number of draws recorded for a run.
func (s *Store) CountDraws(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draws WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count draws: %w", err)
	}
	return n, nil
}
