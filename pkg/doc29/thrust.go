// pkg/doc29/thrust.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

// Thrust is the corrected-net-thrust-per-engine model: rated thrust as
// a function of calibrated airspeed, altitude and temperature. Two concrete forms (RatingThrust, PropellerThrust)
// plus NoThrust standing in for Doc29Thrust::Type::None.
type Thrust interface {
	Calculate(rating Rating, cas, altMSL, breakpointTemp float64, atm *atmos.Atmosphere) float64
	IsRatingSet(rating Rating) bool
}

// NoThrust is the zero-value thrust model: no rating is ever set, so
// departureProfileProceduralAllowed always fails for an aircraft that
// hasn't been given a real thrust model yet.
type NoThrust struct{}

func (NoThrust) Calculate(Rating, float64, float64, float64, *atmos.Atmosphere) float64 { return math.NaN() }
func (NoThrust) IsRatingSet(Rating) bool                                                { return false }

// RatingCoefficients are the E/F/Ga/Gb/H coefficients of Doc29 Volume 2
// formula B-1 for a single thrust rating.
type RatingCoefficients struct {
	E, F, Ga, Gb, H float64
}

// RatingThrust implements the rating thrust form: formula B-1
// below the engine breakpoint temperature, formula B-4 (high-temperature
// blend) above it, with an optional dedicated high-temperature
// coefficient set per rating taking priority over the blend.
type RatingThrust struct {
	coeffs map[Rating]RatingCoefficients
}

func NewRatingThrust() *RatingThrust {
	return &RatingThrust{coeffs: make(map[Rating]RatingCoefficients)}
}

// SetCoefficients assigns the B-1 coefficients for rating.
func (t *RatingThrust) SetCoefficients(rating Rating, c RatingCoefficients) {
	t.coeffs[rating] = c
}

func (t *RatingThrust) IsRatingSet(rating Rating) bool {
	_, ok := t.coeffs[rating]
	return ok
}

// Calculate mirrors Doc29ThrustRating::calculate: below the breakpoint
// temperature, formula B-1 directly; above it, prefer a dedicated
// high-temperature coefficient set if present, else blend via formula
// B-4 (Doc29ThrustRating::thrustHighTemperature).
func (t *RatingThrust) Calculate(rating Rating, cas, altMSL, breakpointTemp float64, atm *atmos.Atmosphere) float64 {
	temp := atm.Temperature(altMSL)
	if temp <= breakpointTemp {
		return t.thrust(rating, cas, altMSL, temp)
	}

	var highTempRating Rating
	switch rating {
	case MaximumTakeoff:
		highTempRating = MaximumTakeoffHighTemperature
	case MaximumClimb:
		highTempRating = MaximumClimbHighTemperature
	case Idle:
		highTempRating = IdleHighTemperature
	default:
		return t.thrust(rating, cas, altMSL, temp)
	}
	if t.IsRatingSet(highTempRating) {
		return t.thrust(highTempRating, cas, altMSL, temp)
	}
	return t.thrustHighTemperature(rating, cas, temp, breakpointTemp)
}

func toCelsius(kelvin float64) float64 { return kelvin - 273.15 }

// thrust is Doc29 formula B-1.
func (t *RatingThrust) thrust(rating Rating, cas, altMSL, temp float64) float64 {
	c := t.coeffs[rating]
	return c.E + c.F*cas + c.Ga*altMSL + c.Gb*altMSL*altMSL + c.H*toCelsius(temp)
}

// thrustHighTemperature is Doc29 formula B-4: F*Vcas unscaled, plus
// (E + H*Tc) blended by the ratio of the two (1 - 0.006*Tc) factors.
func (t *RatingThrust) thrustHighTemperature(rating Rating, cas, temp, breakpointTemp float64) float64 {
	c := t.coeffs[rating]
	tc, tcBreak := toCelsius(temp), toCelsius(breakpointTemp)
	return c.F*cas + (c.E+c.H*tc)*(1-0.006*tc)/(1-0.006*tcBreak)
}

// PropellerCoefficients are the efficiency/power pair of Doc29 Volume 2
// formula B-5.
type PropellerCoefficients struct {
	Efficiency float64 // Pe in (0, 1]
	Power      float64 // Pp > 0, Watts
}

// NewPropellerCoefficients validates the pair.
func NewPropellerCoefficients(efficiency, power float64) (PropellerCoefficients, error) {
	if !(efficiency > 0 && efficiency <= 1) {
		return PropellerCoefficients{}, grerr.NewValidation("Efficiency", efficiency, "must be in (0, 1]")
	}
	if power <= 0 {
		return PropellerCoefficients{}, grerr.NewValidation("Power", power, "must be > 0")
	}
	return PropellerCoefficients{Efficiency: efficiency, Power: power}, nil
}

// PropellerThrust implements the propeller thrust form. Only
// MaximumTakeoff and MaximumClimb ratings are supported
// (Doc29ThrustRatingPropeller::addCoefficients).
type PropellerThrust struct {
	coeffs map[Rating]PropellerCoefficients
}

func NewPropellerThrust() *PropellerThrust {
	return &PropellerThrust{coeffs: make(map[Rating]PropellerCoefficients)}
}

// SetCoefficients assigns the Pe/Pp pair for rating, which must be
// MaximumTakeoff or MaximumClimb.
func (t *PropellerThrust) SetCoefficients(rating Rating, c PropellerCoefficients) error {
	if rating != MaximumTakeoff && rating != MaximumClimb {
		return grerr.NewValidation("Rating", rating, "propeller thrust only supports max-takeoff or max-climb ratings")
	}
	t.coeffs[rating] = c
	return nil
}

func (t *PropellerThrust) IsRatingSet(rating Rating) bool {
	_, ok := t.coeffs[rating]
	return ok
}

// Calculate mirrors Doc29ThrustRatingPropeller::calculate: F_corr =
// Pe*Pp / (Vcas/sqrt(sigma)) / delta.
func (t *PropellerThrust) Calculate(rating Rating, cas, altMSL, _ float64, atm *atmos.Atmosphere) float64 {
	c := t.coeffs[rating]
	return c.Efficiency * c.Power / (cas / math.Sqrt(atm.DensityRatio(altMSL))) / atm.PressureRatio(altMSL)
}
