// Package store provides the SQLite-backed draw ledger.
//
// The ledger is append-only and records, per run:
//   - Runs: configuration snapshot (canonical hash + JSON), catalog size,
//     requested draw count, final status and a hash of the drawn IDs
//   - Draws: one row per successful draw, keyed by (run_id, seq)
//
// It stores which records a run drew, not the catalog itself: a catalog is
// regenerated from the stored configuration and seed on replay.
//
// # Critical Patterns
//
// Logical ordering
//   - All ordering uses seq INTEGER from the engine's logical clock
//   - Queries include ORDER BY seq ASC so results are identical across replays
//
// Idempotent writes
//   - Draw rows use ON CONFLICT(run_id, seq) DO NOTHING
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
