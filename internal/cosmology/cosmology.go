// Package cosmology provides the distance and time queries the source
// population needs from an expansion history.
//
// Consumers depend on the Model capability interface only. FlatLambdaCDM is
// the stock implementation: matter plus a cosmological constant, spatially
// flat, no radiation term.
package cosmology

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/roach88/lenspop/internal/simerr"
)

const (
	// SpeedOfLight in km/s.
	SpeedOfLight = 299792.458

	// hubbleTimeGyr is 1/H0 in Gyr for H0 = 1 km/s/Mpc.
	hubbleTimeGyr = 977.7922216807891

	// quadNodes is the Gauss-Legendre order used for every integral.
	quadNodes = 256
)

// Model is the capability the source population consumes.
// Distances are in Mpc.
type Model interface {
	LuminosityDistance(z float64) (float64, error)
	DistanceModulus(z float64) (float64, error)
}

// FlatLambdaCDM is a flat universe with matter density Om0 and dark energy
// density 1-Om0. H0 is in km/s/Mpc.
type FlatLambdaCDM struct {
	H0  float64
	Om0 float64
}

// NewFlatLambdaCDM validates the parameters.
func NewFlatLambdaCDM(h0, om0 float64) (*FlatLambdaCDM, error) {
	if !(h0 > 0) || math.IsInf(h0, 0) {
		return nil, simerr.Configuration("h0", "must be positive and finite, got %v", h0)
	}
	if !(om0 > 0 && om0 <= 1) {
		return nil, simerr.Configuration("om0", "must be in (0, 1], got %v", om0)
	}
	return &FlatLambdaCDM{H0: h0, Om0: om0}, nil
}

// Ode0 returns the dark energy density parameter.
func (c *FlatLambdaCDM) Ode0() float64 {
	return 1 - c.Om0
}

// HubbleDistance returns c/H0 in Mpc.
func (c *FlatLambdaCDM) HubbleDistance() float64 {
	return SpeedOfLight / c.H0
}

// HubbleTime returns 1/H0 in Gyr.
func (c *FlatLambdaCDM) HubbleTime() float64 {
	return hubbleTimeGyr / c.H0
}

// efunc is H(z)/H0.
func (c *FlatLambdaCDM) efunc(z float64) float64 {
	zp1 := 1 + z
	return math.Sqrt(c.Om0*zp1*zp1*zp1 + c.Ode0())
}

// ComovingDistance returns the line-of-sight comoving distance to z.
func (c *FlatLambdaCDM) ComovingDistance(z float64) (float64, error) {
	if err := checkRedshift(z); err != nil {
		return 0, err
	}
	if z == 0 {
		return 0, nil
	}
	integral := quad.Fixed(func(x float64) float64 {
		return 1 / c.efunc(x)
	}, 0, z, quadNodes, nil, 0)
	return c.HubbleDistance() * integral, nil
}

// LuminosityDistance returns (1+z) times the comoving distance.
func (c *FlatLambdaCDM) LuminosityDistance(z float64) (float64, error) {
	dc, err := c.ComovingDistance(z)
	if err != nil {
		return 0, err
	}
	return (1 + z) * dc, nil
}

// AngularDiameterDistance returns the comoving distance divided by (1+z).
func (c *FlatLambdaCDM) AngularDiameterDistance(z float64) (float64, error) {
	dc, err := c.ComovingDistance(z)
	if err != nil {
		return 0, err
	}
	return dc / (1 + z), nil
}

// DistanceModulus returns 5 log10(D_L / 10 pc). It is undefined at z = 0.
func (c *FlatLambdaCDM) DistanceModulus(z float64) (float64, error) {
	dl, err := c.LuminosityDistance(z)
	if err != nil {
		return 0, err
	}
	if dl <= 0 {
		return 0, fmt.Errorf("distance modulus undefined at z=%v", z)
	}
	return 5*math.Log10(dl) + 25, nil
}

// DifferentialComovingVolume returns dV_c/dz/dΩ in Mpc³/sr.
func (c *FlatLambdaCDM) DifferentialComovingVolume(z float64) (float64, error) {
	dc, err := c.ComovingDistance(z)
	if err != nil {
		return 0, err
	}
	return c.HubbleDistance() * dc * dc / c.efunc(z), nil
}

// LookbackTime returns the light travel time from z in Gyr.
func (c *FlatLambdaCDM) LookbackTime(z float64) (float64, error) {
	if err := checkRedshift(z); err != nil {
		return 0, err
	}
	if z == 0 {
		return 0, nil
	}
	integral := quad.Fixed(func(x float64) float64 {
		return 1 / ((1 + x) * c.efunc(x))
	}, 0, z, quadNodes, nil, 0)
	return c.HubbleTime() * integral, nil
}

// Age returns the age of the universe at z in Gyr.
// The integral runs over scale factor a in (0, 1/(1+z)].
func (c *FlatLambdaCDM) Age(z float64) (float64, error) {
	if err := checkRedshift(z); err != nil {
		return 0, err
	}
	ode := c.Ode0()
	integral := quad.Fixed(func(a float64) float64 {
		return 1 / math.Sqrt(c.Om0/a+ode*a*a)
	}, 0, 1/(1+z), quadNodes, nil, 0)
	return c.HubbleTime() * integral, nil
}

func (c *FlatLambdaCDM) String() string {
	return fmt.Sprintf("FlatLambdaCDM(H0=%g, Om0=%g)", c.H0, c.Om0)
}

func checkRedshift(z float64) error {
	if math.IsNaN(z) || math.IsInf(z, 0) || z < 0 {
		return fmt.Errorf("redshift must be finite and non-negative, got %v", z)
	}
	return nil
}
