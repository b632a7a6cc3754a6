package population

import (
	"github.com/roach88/lenspop/internal/catalog"
)

// Field names for derived quantities in Source.Fields.
const (
	FieldLuminosityDistance = "luminosity_distance_mpc"
	FieldDistanceModulus    = "distance_modulus"
	FieldAbsoluteMagnitude  = "abs_mag_i"
)

// Derived holds quantities computed from the cosmology model at draw time.
type Derived struct {
	LuminosityDistance float64 `json:"luminosity_distance_mpc"`
	DistanceModulus    float64 `json:"distance_modulus"`
	AbsoluteMagnitude  float64 `json:"abs_mag_i"`
}

// Source is one drawn quasar. Derived is nil for records at z = 0, where the
// distance modulus is undefined.
type Source struct {
	catalog.QuasarRecord
	Derived *Derived `json:"derived,omitempty"`
}

// Fields returns the record's fields plus any derived quantities.
func (s Source) Fields() map[string]float64 {
	fields := s.QuasarRecord.Fields()
	if s.Derived != nil {
		fields[FieldLuminosityDistance] = s.Derived.LuminosityDistance
		fields[FieldDistanceModulus] = s.Derived.DistanceModulus
		fields[FieldAbsoluteMagnitude] = s.Derived.AbsoluteMagnitude
	}
	return fields
}
