// Package engine drives population runs.
//
// A run is the full pipeline for one configuration:
//
//  1. Generate the quasar catalog from the configured bounds and seed
//  2. Wrap it in a Population with the configured cosmology, sky area and policy
//  3. Draw the requested number of sources
//  4. Record the run and every draw in the ledger, if one is attached
//
// Every random stream is seeded from the configuration, so the same
// configuration always yields the same catalog and the same draws. Replay
// relies on this: it rebuilds the run from the configuration snapshot stored
// in the ledger and compares each draw against the recorded one.
//
// CRITICAL PATTERNS:
//
// Logical Clock
// Runs and draws are stamped with a monotonic seq from Clock.Next().
// NEVER use wall-clock timestamps for ordering.
//
// Fail fast
// Configuration, exhaustion and dependency errors end the run immediately.
// A run that exhausts its population keeps the draws made so far and is
// recorded with status "exhausted".
package engine
