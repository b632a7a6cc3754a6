// Package units provides the sky-area value consumed by the source population.
//
// An Area pairs a magnitude with a unit tag. Conversions go through square
// degrees. Unknown or malformed units are reported as dependency errors since
// the area is supplied by an external collaborator.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/lenspop/internal/simerr"
)

// Unit tags a solid-angle unit.
type Unit string

const (
	SquareDegree    Unit = "deg2"
	SquareArcminute Unit = "arcmin2"
	SquareArcsecond Unit = "arcsec2"
	Steradian       Unit = "sr"
)

// perSquareDegree holds how many square degrees one unit spans.
var perSquareDegree = map[Unit]float64{
	SquareDegree:    1,
	SquareArcminute: 1.0 / 3600,
	SquareArcsecond: 1.0 / (3600 * 3600),
	Steradian:       (180 / math.Pi) * (180 / math.Pi),
}

var unitAliases = map[string]Unit{
	"deg2":           SquareDegree,
	"deg^2":          SquareDegree,
	"degree2":        SquareDegree,
	"sqdeg":          SquareDegree,
	"sq deg":         SquareDegree,
	"square degree":  SquareDegree,
	"square degrees": SquareDegree,
	"arcmin2":        SquareArcminute,
	"arcmin^2":       SquareArcminute,
	"sq arcmin":      SquareArcminute,
	"arcsec2":        SquareArcsecond,
	"arcsec^2":       SquareArcsecond,
	"sq arcsec":      SquareArcsecond,
	"sr":             Steradian,
	"steradian":      Steradian,
	"steradians":     Steradian,
}

// ParseUnit resolves a unit tag. Input is NFKC-normalized first so that
// "deg²" and "deg2" resolve to the same unit.
func ParseUnit(s string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
	key = strings.Join(strings.Fields(key), " ")
	if u, ok := unitAliases[key]; ok {
		return u, nil
	}
	return "", simerr.Dependency("sky area", fmt.Errorf("unknown area unit %q", s))
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	_, ok := perSquareDegree[u]
	return ok
}

// Area is a solid angle with an attached unit.
type Area struct {
	Value float64
	Unit  Unit
}

// NewArea builds an Area after resolving the unit tag.
func NewArea(value float64, unit string) (Area, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return Area{}, err
	}
	return Area{Value: value, Unit: u}, nil
}

// ParseArea parses strings such as "0.1 deg2" or "3600 arcmin²".
func ParseArea(s string) (Area, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Area{}, simerr.Dependency("sky area", fmt.Errorf("expected \"<value> <unit>\", got %q", s))
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Area{}, simerr.Dependency("sky area", fmt.Errorf("parse value: %w", err))
	}
	return NewArea(v, strings.Join(fields[1:], " "))
}

// To converts the area into another unit.
func (a Area) To(target Unit) (Area, error) {
	from, ok := perSquareDegree[a.Unit]
	if !ok {
		return Area{}, simerr.Dependency("sky area", fmt.Errorf("unknown area unit %q", a.Unit))
	}
	to, ok := perSquareDegree[target]
	if !ok {
		return Area{}, simerr.Dependency("sky area", fmt.Errorf("unknown target unit %q", target))
	}
	return Area{Value: a.Value * from / to, Unit: target}, nil
}

// SquareDegrees returns the area in deg². The area must be finite and
// strictly positive to be usable for density normalization.
func (a Area) SquareDegrees() (float64, error) {
	deg, err := a.To(SquareDegree)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(deg.Value) || math.IsInf(deg.Value, 0) || deg.Value <= 0 {
		return 0, simerr.Dependency("sky area", fmt.Errorf("area must be positive and finite, got %v %s", a.Value, a.Unit))
	}
	return deg.Value, nil
}

func (a Area) String() string {
	return strconv.FormatFloat(a.Value, 'g', -1, 64) + " " + string(a.Unit)
}
