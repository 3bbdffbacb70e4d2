// pkg/noise/absorption.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package noise

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

// AbsorptionType tags how an AtmosphericAbsorption was obtained.
type AbsorptionType int

const (
	// AbsorptionNone leaves the NPD tables at the Doc29 standard
	// atmosphere; no deltas are computed.
	AbsorptionNone AbsorptionType = iota
	// AbsorptionSAEARP5534 computes pure-tone attenuation rates from
	// temperature, pressure and relative humidity (SAE ARP 5534, the
	// ISO 9613-1 formulation).
	AbsorptionSAEARP5534
	// AbsorptionRates carries caller-supplied attenuation rates.
	AbsorptionRates
)

// AtmosphericAbsorption is a per-band atmospheric attenuation rate set
// (dB/m at the 24 one-third-octave band centers) used to remap NPD
// tables away from the Doc29 standard atmosphere.
type AtmosphericAbsorption struct {
	Type  AbsorptionType
	Rates [OneThirdOctaveBandsSize]float64
}

// NoAbsorption returns the "keep the standard atmosphere" marker.
func NoAbsorption() AtmosphericAbsorption {
	return AtmosphericAbsorption{Type: AbsorptionNone}
}

// AbsorptionFromRates wraps caller-supplied attenuation rates (dB/m).
func AbsorptionFromRates(rates [OneThirdOctaveBandsSize]float64) AtmosphericAbsorption {
	return AtmosphericAbsorption{Type: AbsorptionRates, Rates: rates}
}

// NewSAEARP5534 computes the attenuation rates for the given conditions
// per SAE ARP 5534 (the ISO 9613-1 pure-tone formulation): temperature
// in Kelvin, static pressure in Pascals, relative humidity in [0, 1].
func NewSAEARP5534(temperature, pressure, relativeHumidity float64) (AtmosphericAbsorption, error) {
	if temperature <= 0 {
		return AtmosphericAbsorption{}, grerr.NewValidation("Temperature", temperature, "must be > 0 K")
	}
	if pressure <= 0 {
		return AtmosphericAbsorption{}, grerr.NewValidation("Pressure", pressure, "must be > 0 Pa")
	}
	if relativeHumidity < 0 || relativeHumidity > 1 {
		return AtmosphericAbsorption{}, grerr.NewValidation("RelativeHumidity", relativeHumidity, "must be in [0, 1]")
	}

	const (
		t0  = 293.15 // reference air temperature, K
		t01 = 273.16 // triple point isotherm temperature, K
		p0  = 101325.0
	)

	pRel := pressure / p0
	tRel := temperature / t0

	// Molar concentration of water vapour, percent.
	cSat := -6.8346*math.Pow(t01/temperature, 1.261) + 4.6151
	h := relativeHumidity * 100.0 * math.Pow(10, cSat) / pRel

	// Oxygen and nitrogen relaxation frequencies, Hz.
	frO := pRel * (24 + 4.04e4*h*(0.02+h)/(0.391+h))
	frN := pRel / math.Sqrt(tRel) * (9 + 280*h*math.Exp(-4.170*(math.Pow(tRel, -1.0/3.0)-1)))

	a := AtmosphericAbsorption{Type: AbsorptionSAEARP5534}
	for i, f := range OneThirdOctaveCenterFrequencies {
		f2 := f * f
		a.Rates[i] = 8.686 * f2 * (1.84e-11/pRel*math.Sqrt(tRel) +
			math.Pow(tRel, -2.5)*(0.01275*math.Exp(-2239.1/temperature)/(frO+f2/frO)+
				0.1068*math.Exp(-3352.0/temperature)/(frN+f2/frN)))
	}
	return a, nil
}
