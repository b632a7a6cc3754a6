package catalog

// Documented ranges of the auxiliary variability parameters.
const (
	AmplitudeMin = 0.05 // mag
	AmplitudeMax = 0.35 // mag
	TimescaleMin = 10.0 // rest-frame days
	TimescaleMax = 1000.0
)

// Field names exposed by QuasarRecord.Fields.
const (
	FieldID        = "id"
	FieldRedshift  = "z"
	FieldMagnitude = "mag_i"
	FieldAmplitude = "variability_amplitude"
	FieldTimescale = "tau_days"
)

// QuasarRecord is one simulated source. Records are values; the catalog
// never hands out pointers into its storage.
type QuasarRecord struct {
	// ID is the record's position in the generated catalog.
	ID int `json:"id"`

	Redshift float64 `json:"z"`

	// Magnitude is the apparent i-band magnitude.
	Magnitude float64 `json:"mag_i"`

	VariabilityAmplitude float64 `json:"variability_amplitude"`
	VariabilityTimescale float64 `json:"tau_days"`
}

// Fields returns the record's attribute collection keyed by field name.
func (r QuasarRecord) Fields() map[string]float64 {
	return map[string]float64{
		FieldID:        float64(r.ID),
		FieldRedshift:  r.Redshift,
		FieldMagnitude: r.Magnitude,
		FieldAmplitude: r.VariabilityAmplitude,
		FieldTimescale: r.VariabilityTimescale,
	}
}
