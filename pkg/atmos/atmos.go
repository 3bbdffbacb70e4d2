// pkg/atmos/atmos.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package atmos implements the atmosphere model: ISA temperature and
// pressure, independently offset from standard, plus a constant wind
// vector whose headwind component can be projected
// onto any track heading. Ratios (temperature/pressure/density) are
// always relative to the standard ISA sea level reference, matching the
// Doc.29 thrust and profile equations, which are defined in terms of
// those standard ratios (sigma, delta, theta) regardless of how far the
// day's actual conditions have been shifted from ISA.
package atmos

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

const (
	// Standard ISA sea level reference values.
	isaT0   = 288.15   // K
	isaP0   = 101325.0 // Pa
	isaRho0 = 1.225    // kg/m^3
	// Tropospheric lapse rate, K/m, valid to the 11 km tropopause. GRAPE
	// operations are all within a few km AFE so a single-layer model is
	// sufficient.
	lapseRate = 0.0065
)

// Atmosphere holds the reference offsets from ISA and the constant wind
// used by one operation or one run.
type Atmosphere struct {
	TemperatureOffset float64 // K, additive offset from ISA sea-level temperature
	PressureOffset    float64 // Pa, additive offset from ISA sea-level pressure
	WindSpeed         float64 // m/s
	WindHeading       float64 // degrees [0,360), direction wind is blowing FROM
}

// New constructs an Atmosphere, validating that the offsets keep
// temperature > 0 K and pressure > 0 Pa at sea level.
func New(temperatureOffset, pressureOffset, windSpeed, windHeading float64) (*Atmosphere, error) {
	a := &Atmosphere{
		TemperatureOffset: temperatureOffset,
		PressureOffset:    pressureOffset,
		WindSpeed:         windSpeed,
		WindHeading:       gmath.NormalizeHeading(windHeading),
	}
	if isaT0+temperatureOffset <= 0 {
		return nil, grerr.NewValidation("TemperatureOffset", temperatureOffset, "sea-level temperature must be > 0 K")
	}
	if isaP0+pressureOffset <= 0 {
		return nil, grerr.NewValidation("PressureOffset", pressureOffset, "sea-level pressure must be > 0 Pa")
	}
	return a, nil
}

// Standard is the unmodified ISA atmosphere with no wind.
func Standard() *Atmosphere {
	a, _ := New(0, 0, 0, 0)
	return a
}

// SeaLevelTemperature returns the atmosphere's (possibly offset) sea
// level temperature in Kelvin.
func (a *Atmosphere) SeaLevelTemperature() float64 { return isaT0 + a.TemperatureOffset }

// SeaLevelPressure returns the atmosphere's (possibly offset) sea level
// pressure in Pascals.
func (a *Atmosphere) SeaLevelPressure() float64 { return isaP0 + a.PressureOffset }

// Temperature returns the temperature in Kelvin at the given MSL
// altitude (meters), using the standard lapse rate shifted by the
// atmosphere's temperature offset.
func (a *Atmosphere) Temperature(altMSL float64) float64 {
	return a.SeaLevelTemperature() - lapseRate*altMSL
}

// Pressure returns the pressure in Pascals at the given MSL altitude,
// using the standard barometric formula shifted by the atmosphere's
// pressure offset.
func (a *Atmosphere) Pressure(altMSL float64) float64 {
	base := 1 - lapseRate*altMSL/a.SeaLevelTemperature()
	exp := gmath.G0() / (lapseRate * gmath.RAir())
	return a.SeaLevelPressure() * math.Pow(base, exp)
}

// TemperatureRatio returns temperature at altMSL divided by the standard
// ISA sea-level temperature (theta).
func (a *Atmosphere) TemperatureRatio(altMSL float64) float64 {
	return a.Temperature(altMSL) / isaT0
}

// PressureRatio returns pressure at altMSL divided by the standard ISA
// sea-level pressure (delta).
func (a *Atmosphere) PressureRatio(altMSL float64) float64 {
	return a.Pressure(altMSL) / isaP0
}

// DensityRatio returns density at altMSL divided by the standard ISA
// sea-level density (sigma), derived from the ideal gas law rather than
// stored.
func (a *Atmosphere) DensityRatio(altMSL float64) float64 {
	density := a.Pressure(altMSL) / (gmath.RAir() * a.Temperature(altMSL))
	return density / isaRho0
}

// Headwind returns the headwind component (m/s, positive = opposing the
// aircraft) on the given track heading.
func (a *Atmosphere) Headwind(trackHeading float64) float64 {
	return a.WindSpeed * math.Cos(gmath.Radians(a.WindHeading-trackHeading))
}
