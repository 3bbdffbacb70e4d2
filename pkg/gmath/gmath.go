// pkg/gmath/gmath.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package gmath collects the small numeric helpers shared by the
// geodesy, atmosphere, Doc29 and noise packages: angle normalization,
// interpolation, and the two Doc.29 Volume 2 Appendix B formulas that
// don't belong to any one subsystem. Values here are float64: the
// coordinate system's 10^-6 m convergence threshold and the
// round-trip invariants need double precision headroom that a float32
// convention would not provide.
package gmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	// WGS84SemiMajorAxis is the WGS84 equatorial (semi-major) radius in meters.
	WGS84SemiMajorAxis = 6378137.0
	// WGS84Flattening is the WGS84 ellipsoid flattening.
	WGS84Flattening = 1.0 / 298.257223563

	// Precision is the convergence threshold for iterative geodesic
	// calculations, in meters, and the general floating
	// point comparison tolerance used throughout (e.g. turn radius
	// equality in the route expander).
	Precision = 1e-6
	// AngleThreshold is the residual-angle tolerance (degrees) below
	// which a partially-stepped arc is considered to have already
	// reached its target heading, both in the intersection algorithm
	// and in the route expander's turn discretization.
	AngleThreshold = 0.1
	// DistanceThreshold is the 1m window the geodesic intersection uses
	// for its first-iteration behind detection, and the route expander
	// uses to decide whether a final turn-arc point is far enough from
	// the exact turn end to warrant emitting both. The endpoint
	// tie-break for the behind/between/ahead classification itself is
	// the coordinate systems' own 5 cm window.
	DistanceThreshold = 1.0

	g0   = 9.80665 // standard gravity, m/s^2
	rAir = 287.05287 // specific gas constant for air, J/(kg K)
)

// G0 is standard gravity in m/s^2 (Doc.29 Volume 2 Appendix B uses it in
// the bank-angle and threshold-thrust formulas).
func G0() float64 { return g0 }

// RAir is the specific gas constant for air used by the speed-of-sound
// formula.
func RAir() float64 { return rAir }

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeHeading maps any heading to [0, 360).
func NormalizeHeading(hdg float64) float64 {
	h := math.Mod(hdg, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HeadingDifference returns the positive difference in [0, 180] between
// two headings.
func HeadingDifference(h1, h2 float64) float64 {
	diff := math.Mod(h1-h2+3600, 360)
	if diff <= 180 {
		return diff
	}
	return 360 - diff
}

// TurnDirection returns 1 for a right turn from current to next heading,
// -1 for a left turn.
func TurnDirection(current, next float64) int {
	diff := next - current
	switch {
	case diff > 180:
		return -1
	case diff > 0:
		return 1
	case diff >= -180:
		return -1
	default:
		return 1
	}
}

// Lerp returns a + t*(b-a).
func Lerp(a, b, t float64) float64 { return a + t*(b-a) }

// TimeInterpolation performs Doc.29's "square root of the linear
// interpolation of the squares" used when interpolating speed/thrust
// over a time-weighted fraction.
func TimeInterpolation(a, b, t float64) float64 {
	return math.Sqrt(Lerp(a*a, b*b, t))
}

// Clamp restricts x to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Close reports whether a and b are within eps of each other; the
// stand-in for doctest::Approx(...).epsilon(...) used throughout the
// original test suite.
func Close(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// GroundDistance returns the horizontal distance to change altitude from
// start to end while flying at the given flight-path angle (degrees);
// +Inf when angle is 0.
func GroundDistance(startAlt, endAlt, angleDeg float64) float64 {
	return (endAlt - startAlt) / math.Tan(Radians(angleDeg))
}

// CalibratedAirspeed converts true airspeed to calibrated airspeed given
// a density ratio (Doc.29 Volume 2 Appendix B formula B-6).
func CalibratedAirspeed(tas, densityRatio float64) float64 {
	return tas * math.Sqrt(densityRatio)
}

// TrueAirspeed converts calibrated airspeed to true airspeed given a
// density ratio (Doc.29 Volume 2 Appendix B formula B-6).
func TrueAirspeed(cas, densityRatio float64) float64 {
	return cas / math.Sqrt(densityRatio)
}

// Groundspeed returns the speed over ground given true airspeed, flight
// path angle (degrees) and headwind component.
func Groundspeed(tas, angleDeg, headwind float64) float64 {
	return tas*math.Cos(Radians(angleDeg)) - headwind
}

// SoundSpeed returns the speed of sound for an ideal gas at the given
// temperature (Kelvin).
func SoundSpeed(temperature float64) float64 {
	return math.Sqrt(1.4 * rAir * temperature)
}

// MachNumber returns true airspeed divided by the speed of sound at the
// given temperature.
func MachNumber(tas, temperature float64) float64 {
	return tas / SoundSpeed(temperature)
}

// BankAngle returns the bank angle (degrees) corresponding to a
// coordinated turn at the given groundspeed and turn radius (Doc.29
// Volume 2 Appendix B formula B-8).
func BankAngle(groundspeed, turnRadius float64) float64 {
	if math.IsInf(turnRadius, 1) || turnRadius == 0 {
		return 0
	}
	return Degrees(math.Atan2(groundspeed*groundspeed, turnRadius*g0))
}
