package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/lenspop/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestAssertSourceNumber(t *testing.T) {
	result := NewResult()
	result.SourceNumber = 5

	tests := []struct {
		op    string
		value float64
		pass  bool
	}{
		{"==", 5, true},
		{"!=", 5, false},
		{">", 0, true},
		{">=", 5, true},
		{"<", 5, false},
		{"<=", 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			err := assertSourceNumber(result, Assertion{Type: AssertSourceNumber, Op: tt.op, Value: ptr(tt.value)})
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAssertSourceDensity(t *testing.T) {
	result := NewResult()
	result.Density = 500000.00000000006

	assert.NoError(t, assertSourceDensity(result, Assertion{Value: ptr(500000.0), Tolerance: 1e-3}))
	assert.Error(t, assertSourceDensity(result, Assertion{Value: ptr(400000.0), Tolerance: 1}))
}

func TestAssertFieldsNonEmpty(t *testing.T) {
	result := NewResult()
	assert.Error(t, assertFieldsNonEmpty(result), "no draws is a failure")

	result.AddDraw(TraceEvent{RecordID: 1, Fields: 5})
	assert.NoError(t, assertFieldsNonEmpty(result))

	result.AddDraw(TraceEvent{RecordID: 2, Fields: 0})
	err := assertFieldsNonEmpty(result)
	assert.ErrorContains(t, err, "draw 1 (id 2) has no fields")
}

func TestAssertExhaustedAfter(t *testing.T) {
	result := NewResult()
	result.Status = store.StatusExhausted
	result.AddDraw(TraceEvent{})
	result.AddDraw(TraceEvent{})

	assert.NoError(t, assertExhaustedAfter(result, Assertion{Count: ptr(2)}))
	assert.Error(t, assertExhaustedAfter(result, Assertion{Count: ptr(3)}))

	result.Status = store.StatusCompleted
	assert.Error(t, assertExhaustedAfter(result, Assertion{Count: ptr(2)}))
}

func TestEvaluateAssertions_RequiresContext(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: AssertDeterministic}, {Type: "bogus"}}, nil)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs[0], "requires run context")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: "source_number", Expected: "== 1", Actual: "2"}
	assert.Equal(t, "Assertion failed: source_number\n  Expected: == 1\n  Actual: 2", err.Error())
}
