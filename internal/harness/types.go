package harness

// TraceEvent is one draw in a scenario trace.
type TraceEvent struct {
	Seq       int64   `json:"seq"`
	RecordID  int     `json:"id"`
	Redshift  float64 `json:"z"`
	Magnitude float64 `json:"mag_i"`

	// Derived reports whether cosmology-derived quantities were attached.
	Derived bool `json:"derived"`

	// Fields is the number of entries in the source's field collection.
	Fields int `json:"fields"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if the run succeeded and every assertion held.
	Pass bool `json:"pass"`

	RunID        string  `json:"run_id"`
	SourceNumber int     `json:"source_number"`
	Remaining    int     `json:"remaining"`
	Density      float64 `json:"density_per_deg2"`
	Status       string  `json:"status"`
	DrawsHash    string  `json:"draws_hash"`

	// RunError is the error that stopped the run early, if any.
	RunError string `json:"run_error,omitempty"`

	// Trace contains the draws in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddDraw appends a draw to the trace.
func (r *Result) AddDraw(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
