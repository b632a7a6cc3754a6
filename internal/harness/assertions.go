package harness

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"

	"github.com/roach88/lenspop/internal/engine"
	"github.com/roach88/lenspop/internal/store"
	"github.com/roach88/lenspop/internal/testutil"
)

// AssertionContext carries what assertions beyond the trace need.
type AssertionContext struct {
	Ctx      context.Context
	Store    *store.Store
	Scenario *Scenario
	Run      *engine.RunResult
	Logger   *slog.Logger
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

func compare(op string, got, want float64) bool {
	switch op {
	case "==":
		return got == want
	case "!=":
		return got != want
	case ">":
		return got > want
	case ">=":
		return got >= want
	case "<":
		return got < want
	case "<=":
		return got <= want
	}
	return false
}

func assertSourceNumber(result *Result, a Assertion) error {
	if compare(a.Op, float64(result.SourceNumber), *a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSourceNumber,
		Expected: fmt.Sprintf("source_number %s %v", a.Op, *a.Value),
		Actual:   fmt.Sprintf("%d", result.SourceNumber),
	}
}

func assertSourceDensity(result *Result, a Assertion) error {
	if math.Abs(result.Density-*a.Value) <= a.Tolerance {
		return nil
	}
	return &AssertionError{
		Type:     AssertSourceDensity,
		Expected: fmt.Sprintf("%v ± %v per deg²", *a.Value, a.Tolerance),
		Actual:   fmt.Sprintf("%v per deg²", result.Density),
	}
}

func assertDrawsInBounds(result *Result, actx *AssertionContext) error {
	b := actx.Scenario.Config.Bounds()
	for i, e := range result.Trace {
		if !b.ContainsRedshift(e.Redshift) || !b.ContainsMagnitude(e.Magnitude) {
			return &AssertionError{
				Type:     AssertDrawsInBounds,
				Expected: fmt.Sprintf("z in [%v, %v], mag in [%v, %v]", b.ZMin, b.ZMax, b.MMin, b.MMax),
				Actual:   fmt.Sprintf("draw %d (id %d): z=%v mag=%v", i, e.RecordID, e.Redshift, e.Magnitude),
			}
		}
	}
	return nil
}

func assertFieldsNonEmpty(result *Result) error {
	if len(result.Trace) == 0 {
		return &AssertionError{Type: AssertFieldsNonEmpty, Expected: "at least one draw", Actual: "no draws"}
	}
	for i, e := range result.Trace {
		if e.Fields == 0 {
			return &AssertionError{
				Type:     AssertFieldsNonEmpty,
				Expected: "non-empty field set",
				Actual:   fmt.Sprintf("draw %d (id %d) has no fields", i, e.RecordID),
			}
		}
	}
	return nil
}

func assertExhaustedAfter(result *Result, a Assertion) error {
	if result.Status == store.StatusExhausted && len(result.Trace) == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertExhaustedAfter,
		Expected: fmt.Sprintf("exhausted after %d draws", *a.Count),
		Actual:   fmt.Sprintf("status %s after %d draws", result.Status, len(result.Trace)),
	}
}

// assertDeterministic replays the ledger and re-runs the configuration with
// fresh test doubles; both must reproduce every draw.
func assertDeterministic(actx *AssertionContext) error {
	replay, err := engine.Replay(actx.Ctx, actx.Store, actx.Run.RunID, actx.Logger)
	if err != nil {
		return fmt.Errorf("deterministic: replay failed: %w", err)
	}
	if !replay.Identical() {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: "replay identical to ledger",
			Actual:   fmt.Sprintf("%d mismatches, first: %s", len(replay.Mismatches), replay.Mismatches[0]),
		}
	}

	rerun := engine.NewRunner(
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(actx.Run.RunID)),
		engine.WithLogger(actx.Logger),
	)
	second, err := rerun.Run(actx.Ctx, actx.Scenario.Config, actx.Scenario.Draws)
	if second == nil {
		return fmt.Errorf("deterministic: second run failed: %w", err)
	}
	if second.DrawsHash != actx.Run.DrawsHash || len(second.Draws) != len(actx.Run.Draws) {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: fmt.Sprintf("draws hash %s", actx.Run.DrawsHash),
			Actual:   fmt.Sprintf("draws hash %s", second.DrawsHash),
		}
	}
	for i := range second.Draws {
		if !reflect.DeepEqual(second.Draws[i].Source, actx.Run.Draws[i].Source) {
			return &AssertionError{
				Type:     AssertDeterministic,
				Expected: fmt.Sprintf("draw %d: %+v", i, actx.Run.Draws[i].Source.QuasarRecord),
				Actual:   fmt.Sprintf("draw %d: %+v", i, second.Draws[i].Source.QuasarRecord),
			}
		}
	}
	return nil
}

func assertLedgerStatus(actx *AssertionContext, a Assertion) error {
	run, err := actx.Store.ReadRun(actx.Ctx, actx.Run.RunID)
	if err != nil {
		return fmt.Errorf("ledger_status: %w", err)
	}
	if run.Status != a.Status {
		return &AssertionError{Type: AssertLedgerStatus, Expected: a.Status, Actual: run.Status}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against a result.
// Returns a list of error messages; empty if every assertion holds.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertSourceNumber:
			err = assertSourceNumber(result, assertion)
		case AssertSourceDensity:
			err = assertSourceDensity(result, assertion)
		case AssertFieldsNonEmpty:
			err = assertFieldsNonEmpty(result)
		case AssertExhaustedAfter:
			err = assertExhaustedAfter(result, assertion)
		case AssertDrawsInBounds, AssertDeterministic, AssertLedgerStatus:
			if actx == nil || actx.Scenario == nil || actx.Run == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: %s requires run context", i, assertion.Type)
				break
			}
			switch assertion.Type {
			case AssertDrawsInBounds:
				err = assertDrawsInBounds(result, actx)
			case AssertDeterministic:
				err = assertDeterministic(actx)
			default:
				err = assertLedgerStatus(actx, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
