package population

import (
	"math"

	"github.com/roach88/lenspop/internal/catalog"
	"github.com/roach88/lenspop/internal/simerr"
)

// Cut filters the catalog once, at construction. A nil limit is not applied.
// Records with redshift above ZMax or magnitude above MagMax (fainter) are
// dropped; SourceNumber reports the filtered count.
type Cut struct {
	ZMax   *float64 `json:"z_max,omitempty" yaml:"z_max,omitempty" toml:"z_max,omitempty"`
	MagMax *float64 `json:"mag_max,omitempty" yaml:"mag_max,omitempty" toml:"mag_max,omitempty"`
}

// Empty reports whether no limit is set.
func (c Cut) Empty() bool {
	return c.ZMax == nil && c.MagMax == nil
}

func (c Cut) validate() error {
	if c.ZMax != nil && (math.IsNaN(*c.ZMax) || math.IsInf(*c.ZMax, 0)) {
		return simerr.Configuration("cut.z_max", "must be finite, got %v", *c.ZMax)
	}
	if c.MagMax != nil && (math.IsNaN(*c.MagMax) || math.IsInf(*c.MagMax, 0)) {
		return simerr.Configuration("cut.mag_max", "must be finite, got %v", *c.MagMax)
	}
	return nil
}

func (c Cut) keep(r catalog.QuasarRecord) bool {
	if c.ZMax != nil && r.Redshift > *c.ZMax {
		return false
	}
	if c.MagMax != nil && r.Magnitude > *c.MagMax {
		return false
	}
	return true
}

// apply returns the kept records in their original order.
func (c Cut) apply(records []catalog.QuasarRecord) []catalog.QuasarRecord {
	out := make([]catalog.QuasarRecord, 0, len(records))
	for _, r := range records {
		if c.keep(r) {
			out = append(out, r)
		}
	}
	return out
}
