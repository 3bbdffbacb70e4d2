// pkg/doc29/profile.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import "github.com/goncaloroque30/grape-core/pkg/grerr"

// ArrivalProfile and DepartureProfile are sum types over the two Doc29
// profile representations, matching
// Doc29Profile's Type enum via closed interfaces with unexported marker
// methods, the same pattern pkg/airport uses for the route variants.
type ArrivalProfile interface {
	profileName() string
	isArrivalProfile()
}

type DepartureProfile interface {
	profileName() string
	isDepartureProfile()
}

// ArrivalPoint is a single (altitude, speed, thrust) sample of an
// ArrivalPointsProfile (Doc29ProfileArrivalPoints::Point).
type ArrivalPoint struct {
	CumulativeGroundDistance float64
	AltitudeAfe              float64
	TrueAirspeed             float64
	CorrNetThrustPerEng      float64
}

// ArrivalPointsProfile is an arrival profile defined directly by a
// sequence of points, bypassing the procedural step program.
type ArrivalPointsProfile struct {
	Name   string
	Points []ArrivalPoint // ordered by CumulativeGroundDistance
}

func (p ArrivalPointsProfile) profileName() string { return p.Name }
func (ArrivalPointsProfile) isArrivalProfile()      {}

// DeparturePoint mirrors ArrivalPoint for departures
// (Doc29ProfileDeparturePoints::Point).
type DeparturePoint struct {
	CumulativeGroundDistance float64
	AltitudeAfe              float64
	TrueAirspeed             float64
	CorrNetThrustPerEng      float64
}

type DeparturePointsProfile struct {
	Name   string
	Points []DeparturePoint // ordered by CumulativeGroundDistance
}

func (p DeparturePointsProfile) profileName() string { return p.Name }
func (DeparturePointsProfile) isDepartureProfile()    {}

// Arrival procedural step alphabet.

type DescendDecelerate struct {
	AeroCoefficients    *AeroCoefficients
	StartAltitudeAfe    float64
	DescentAngle        float64 // strictly negative
	StartCalibratedAirspeed float64
}

type DescendIdle struct {
	StartAltitudeAfe        float64
	DescentAngle            float64
	StartCalibratedAirspeed float64
}

type Level struct {
	AeroCoefficients *AeroCoefficients
	GroundDistance   float64
}

type LevelDecelerate struct {
	AeroCoefficients        *AeroCoefficients
	GroundDistance          float64
	StartCalibratedAirspeed float64
}

type LevelIdle struct {
	GroundDistance          float64
	StartCalibratedAirspeed float64
}

// DescendLand is the mandatory, exactly-one landing step of an arrival
// procedural profile.
type DescendLand struct {
	AeroCoefficients           *AeroCoefficients // must be of type Land
	DescentAngle               float64
	ThresholdCrossingAltitudeAfe float64
	TouchdownRoll               float64
}

type GroundDecelerate struct {
	GroundDistance          float64
	StartCalibratedAirspeed float64
	StartThrustPercentage   float64 // reverse-thrust fraction [0,1]
}

// ArrivalStep is the closed sum type over the arrival procedural
// alphabet (std::variant<...> in the original).
type ArrivalStep interface{ isArrivalStep() }

func (DescendDecelerate) isArrivalStep() {}
func (DescendIdle) isArrivalStep()       {}
func (Level) isArrivalStep()             {}
func (LevelDecelerate) isArrivalStep()   {}
func (LevelIdle) isArrivalStep()         {}
func (DescendLand) isArrivalStep()       {}
func (GroundDecelerate) isArrivalStep()  {}

// ArrivalProceduralProfile lists air steps (in flight order), a
// mandatory DescendLand anchoring both, and ground steps. The calculator
// walks the air steps in reverse, upstream from the threshold.
type ArrivalProceduralProfile struct {
	Name        string
	AirSteps    []ArrivalStep // DescendDecelerate/DescendIdle/Level/LevelDecelerate/LevelIdle, in flight order
	Land        DescendLand
	GroundSteps []GroundDecelerate
}

func (p *ArrivalProceduralProfile) profileName() string { return p.Name }
func (*ArrivalProceduralProfile) isArrivalProfile()      {}

// Validate checks that a procedural arrival
// requires a land-type coefficient set on its DescendLand step, and
// that step-local ranges hold.
func (p *ArrivalProceduralProfile) Validate() error {
	var h grerr.Hierarchy
	h.Push("ArrivalProceduralProfile " + p.Name)
	if p.Land.AeroCoefficients == nil || p.Land.AeroCoefficients.Type != Land {
		h.Addf("DescendLand step must reference a Land aerodynamic coefficient set")
	}
	if p.Land.DescentAngle >= 0 {
		h.Addf("DescendLand descent angle must be < 0, got %v", p.Land.DescentAngle)
	}
	if p.Land.TouchdownRoll <= 0 {
		h.Addf("DescendLand touchdown roll must be > 0, got %v", p.Land.TouchdownRoll)
	}
	h.Pop()
	if h.HasEntries() {
		return grerr.NewValidation("ArrivalProceduralProfile", p.Name, h.String())
	}
	return nil
}

// Departure procedural step alphabet.

type Takeoff struct {
	AeroCoefficients *AeroCoefficients // must be of type Takeoff
	InitialCalibratedAirspeed float64
}

type Climb struct {
	AeroCoefficients *AeroCoefficients
	EndAltitudeAfe   float64
}

type ClimbAccelerate struct {
	AeroCoefficients  *AeroCoefficients
	EndCalibratedAirspeed float64
	ClimbRate         float64 // >= 0
}

type ClimbAcceleratePercentage struct {
	AeroCoefficients      *AeroCoefficients
	EndCalibratedAirspeed float64
	AccelerationFraction  float64 // (0, 1]
}

// DepartureStep is the closed sum type over the departure procedural
// alphabet.
type DepartureStep interface{ isDepartureStep() }

func (Takeoff) isDepartureStep()                   {}
func (Climb) isDepartureStep()                     {}
func (ClimbAccelerate) isDepartureStep()            {}
func (ClimbAcceleratePercentage) isDepartureStep()  {}

// DepartureProceduralProfile always begins with a Takeoff step. The
// thrust-cutback index marks the boundary between max-takeoff and
// max-climb thrust.
type DepartureProceduralProfile struct {
	Name          string
	Steps         []DepartureStep // Steps[0] must be Takeoff
	ThrustCutback int             // index into Steps; segments at/before use max-takeoff
}

func (p *DepartureProceduralProfile) profileName() string { return p.Name }
func (*DepartureProceduralProfile) isDepartureProfile()    {}

// Validate checks the procedural departure invariants: first step is Takeoff,
// its coefficients are of type Takeoff.
func (p *DepartureProceduralProfile) Validate() error {
	var h grerr.Hierarchy
	h.Push("DepartureProceduralProfile " + p.Name)
	if len(p.Steps) == 0 {
		h.Addf("must have at least one step")
	} else if tk, ok := p.Steps[0].(Takeoff); !ok {
		h.Addf("first step must be Takeoff")
	} else if tk.AeroCoefficients == nil || tk.AeroCoefficients.Type != Takeoff {
		h.Addf("Takeoff step must reference a Takeoff aerodynamic coefficient set")
	}
	if p.ThrustCutback < 0 || p.ThrustCutback >= len(p.Steps) {
		h.Addf("thrust cutback index %d out of range [0, %d)", p.ThrustCutback, len(p.Steps))
	}
	h.Pop()
	if h.HasEntries() {
		return grerr.NewValidation("DepartureProceduralProfile", p.Name, h.String())
	}
	return nil
}
