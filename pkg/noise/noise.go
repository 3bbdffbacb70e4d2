// pkg/noise/noise.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package noise

// LateralDirectivity selects the engine-installation correction form.
type LateralDirectivity int

const (
	Wing LateralDirectivity = iota
	Fuselage
	Propeller
)

func (l LateralDirectivity) String() string {
	switch l {
	case Wing:
		return "wing-mounted"
	case Fuselage:
		return "fuselage-mounted"
	default:
		return "propeller"
	}
}

// SORCorrection selects the start-of-roll directivity polynomial
// applied to departures behind the takeoff roll.
type SORCorrection int

const (
	SORNone SORCorrection = iota
	SORJet
	SORTurboprop
)

func (s SORCorrection) String() string {
	switch s {
	case SORJet:
		return "jet"
	case SORTurboprop:
		return "turboprop"
	default:
		return "none"
	}
}

// Doc29Noise is the noise-aircraft entity: four NPD tables,
// two reference spectra, the lateral directivity and the start-of-roll
// correction mode. It is read-only during a run; generators copy the
// tables they mutate.
type Doc29Noise struct {
	Name string

	LateralDir LateralDirectivity
	SOR        SORCorrection

	ArrivalSel     NpdData
	ArrivalLamax   NpdData
	DepartureSel   NpdData
	DepartureLamax NpdData

	ArrivalSpectrum   Spectrum
	DepartureSpectrum Spectrum
}

// Receptor is a noise receiver location: WGS84 position and
// MSL elevation.
type Receptor struct {
	Name      string
	Longitude float64
	Latitude  float64
	Elevation float64
}
