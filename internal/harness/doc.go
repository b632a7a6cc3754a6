// Package harness runs population scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: quasar_fixture
//	description: "What this scenario validates"
//	run_id: fixture-run          # optional, fixed for golden output
//	draws: 1
//	config:                      # inline population configuration
//	  name: quasar-fixture
//	  seed: 42
//	  population: { number: 50000, z_min: 0.1, z_max: 5, m_min: 17, m_max: 25 }
//	  sky_area: 0.1 deg2
//	  cosmology: { h0: 70, om0: 0.3 }
//	assertions:
//	  - type: source_number
//	    op: ">"
//	    value: 0
//	  - type: fields_non_empty
//
// Instead of config, a scenario may name config_file, resolved relative to
// the scenario file.
//
// # Assertion Types
//
//   - source_number: compares the population's initial source count (op + value)
//   - source_density: compares sources per square degree (value, tolerance)
//   - draws_in_bounds: every drawn redshift and magnitude lies inside the bounds
//   - fields_non_empty: every drawn source exposes a non-empty field set
//   - exhausted_after: the run exhausted after exactly count draws
//   - deterministic: replaying the ledger and re-running reproduce every draw
//   - ledger_status: the run's ledger row has the given status
//
// A run that exhausts its population fails the scenario unless an
// exhausted_after assertion expects it.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory ledger with a resettable
// logical clock (testutil.DeterministicClock) and a fixed run ID
// (testutil.FixedRunIDGenerator), so traces are identical across runs and
// can be compared against golden files.
package harness
