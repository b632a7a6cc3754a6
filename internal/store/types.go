package store

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusExhausted = "exhausted"
	StatusFailed    = "failed"
)

// Run is one ledger entry for a population run.
type Run struct {
	ID             string
	Name           string
	ConfigHash     string
	ConfigJSON     string
	SourceNumber   int
	RequestedDraws int
	Status         string
	DrawsHash      string
	ErrorMessage   string
	Seq            int64
}

// Draw is one successful draw within a run.
type Draw struct {
	RunID        string
	Seq          int64
	RecordID     int
	Redshift     float64
	Magnitude    float64
	AbsMagnitude *float64
}
