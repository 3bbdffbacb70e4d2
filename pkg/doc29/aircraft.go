// pkg/doc29/aircraft.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package doc29 implements the Doc29 thrust model and profile
// expander: a Doc29Aircraft owning aerodynamic coefficient sets, a
// thrust model, and a set of arrival/departure profiles, plus the procedural step-program executor that
// turns a profile into a cumulative-ground-distance keyed sequence of
// (altitude, airspeed, thrust, bank) points.
package doc29

import (
	"github.com/iancoleman/orderedmap"

	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

// AeroCoefficientType tags a Doc29AerodynamicCoefficients set.
type AeroCoefficientType int

const (
	Takeoff AeroCoefficientType = iota
	Land
	Cruise
)

func (t AeroCoefficientType) String() string {
	switch t {
	case Takeoff:
		return "Takeoff"
	case Land:
		return "Land"
	case Cruise:
		return "Cruise"
	default:
		return "Unknown"
	}
}

// AeroCoefficients holds the R/B/C/D coefficients of Doc29 Volume 2
// Appendix B. Which subset is mandatory depends on CoefficientType:
// Takeoff requires R, B, C; Land requires R, D; Cruise requires only R.
type AeroCoefficients struct {
	Name string
	Type AeroCoefficientType
	R    float64
	B    float64
	C    float64
	D    float64
}

// NewAeroCoefficients validates and constructs a coefficient set.
func NewAeroCoefficients(name string, t AeroCoefficientType, r, b, c, d float64) (*AeroCoefficients, error) {
	if r <= 0 {
		return nil, grerr.NewValidation("R", r, "must be > 0")
	}
	switch t {
	case Takeoff:
		if b <= 0 {
			return nil, grerr.NewValidation("B", b, "must be > 0 for a takeoff coefficient set")
		}
		if c <= 0 {
			return nil, grerr.NewValidation("C", c, "must be > 0 for a takeoff coefficient set")
		}
	case Land:
		if d <= 0 {
			return nil, grerr.NewValidation("D", d, "must be > 0 for a land coefficient set")
		}
	}
	return &AeroCoefficients{Name: name, Type: t, R: r, B: b, C: c, D: d}, nil
}

// ReferenceLedger is a multiset of (referenced entity -> set of
// referencing entities), used to block deletion of an aerodynamic
// coefficient set while a profile step still references it. An
// external ledger rather than a pointer held inside the referenced
// entity: the reference is a lifecycle concern of the profile, not of
// the coefficient set.
type ReferenceLedger[K comparable, V comparable] struct {
	refs map[K]map[V]struct{}
}

func NewReferenceLedger[K comparable, V comparable]() *ReferenceLedger[K, V] {
	return &ReferenceLedger[K, V]{refs: make(map[K]map[V]struct{})}
}

// Add records that referrer references key.
func (l *ReferenceLedger[K, V]) Add(key K, referrer V) {
	set, ok := l.refs[key]
	if !ok {
		set = make(map[V]struct{})
		l.refs[key] = set
	}
	set[referrer] = struct{}{}
}

// Remove un-records referrer's reference to key.
func (l *ReferenceLedger[K, V]) Remove(key K, referrer V) {
	set, ok := l.refs[key]
	if !ok {
		return
	}
	delete(set, referrer)
	if len(set) == 0 {
		delete(l.refs, key)
	}
}

// Blocked reports whether key has at least one referrer and so cannot
// be deleted.
func (l *ReferenceLedger[K, V]) Blocked(key K) bool {
	return len(l.refs[key]) > 0
}

// Thrust rating identifiers.
type Rating int

const (
	MaximumTakeoff Rating = iota
	MaximumClimb
	Idle
	MaximumTakeoffHighTemperature
	MaximumClimbHighTemperature
	IdleHighTemperature
)

// Aircraft owns aerodynamic coefficient sets, a thrust model, and
// arrival/departure profiles.
type Aircraft struct {
	Name                        string
	EngineCount                 int
	MaximumSeaLevelStaticThrust float64
	EngineBreakpointTemperature float64

	Thrust Thrust

	coefficients       *orderedmap.OrderedMap // name -> *AeroCoefficients
	coefficientUse     *ReferenceLedger[string, string]
	arrivalProfiles    *orderedmap.OrderedMap // name -> ArrivalProfile
	departureProfiles  *orderedmap.OrderedMap // name -> DepartureProfile
}

// NewAircraft constructs an Aircraft, validating engine count (1-4),
// max sea level static thrust (>0) and engine breakpoint temperature
// (>=0).
func NewAircraft(name string, engineCount int, maxSLST, breakpointTemp float64) (*Aircraft, error) {
	if engineCount < 1 || engineCount > 4 {
		return nil, grerr.NewValidation("EngineCount", engineCount, "must be in [1, 4]")
	}
	if maxSLST <= 0 {
		return nil, grerr.NewValidation("MaximumSeaLevelStaticThrust", maxSLST, "must be > 0")
	}
	if breakpointTemp < 0 {
		return nil, grerr.NewValidation("EngineBreakpointTemperature", breakpointTemp, "must be >= 0")
	}
	return &Aircraft{
		Name:                        name,
		EngineCount:                 engineCount,
		MaximumSeaLevelStaticThrust: maxSLST,
		EngineBreakpointTemperature: breakpointTemp,
		Thrust:                      NoThrust{},
		coefficients:                orderedmap.New(),
		coefficientUse:              NewReferenceLedger[string, string](),
		arrivalProfiles:             orderedmap.New(),
		departureProfiles:           orderedmap.New(),
	}, nil
}

// AddAeroCoefficients registers a coefficient set keyed by name.
func (a *Aircraft) AddAeroCoefficients(c *AeroCoefficients) {
	a.coefficients.Set(c.Name, c)
}

// AeroCoefficients looks up a coefficient set by name.
func (a *Aircraft) AeroCoefficients(name string) (*AeroCoefficients, bool) {
	v, ok := a.coefficients.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*AeroCoefficients), true
}

// ContainsAeroCoefficientsWithType reports whether any owned
// coefficient set is of type t.
func (a *Aircraft) ContainsAeroCoefficientsWithType(t AeroCoefficientType) bool {
	for _, name := range a.coefficients.Keys() {
		v, _ := a.coefficients.Get(name)
		if v.(*AeroCoefficients).Type == t {
			return true
		}
	}
	return false
}

// DeleteAeroCoefficients removes a coefficient set by name, refusing if
// a profile step still references it.
func (a *Aircraft) DeleteAeroCoefficients(name string) error {
	if a.coefficientUse.Blocked(name) {
		return grerr.NewValidation("AeroCoefficients", name, "still referenced by a profile step")
	}
	a.coefficients.Delete(name)
	return nil
}

// referenceCoefficients is called by profile step constructors to
// register a reference, blocking later deletion.
func (a *Aircraft) referenceCoefficients(coeffName, referrer string) {
	a.coefficientUse.Add(coeffName, referrer)
}

// ArrivalProfileProceduralAllowed mirrors
// Doc29Aircraft::arrivalProfileProceduralAllowed.
func (a *Aircraft) ArrivalProfileProceduralAllowed() bool {
	return a.ContainsAeroCoefficientsWithType(Land)
}

// DepartureProfileProceduralAllowed mirrors
// Doc29Aircraft::departureProfileProceduralAllowed.
func (a *Aircraft) DepartureProfileProceduralAllowed() bool {
	return a.Thrust.IsRatingSet(MaximumTakeoff) && a.Thrust.IsRatingSet(MaximumClimb) && a.ContainsAeroCoefficientsWithType(Takeoff)
}

// AddArrivalProfile registers an arrival profile keyed by name and
// references every aerodynamic coefficient set its steps use, blocking
// their deletion while the profile exists.
func (a *Aircraft) AddArrivalProfile(p ArrivalProfile) {
	a.arrivalProfiles.Set(p.profileName(), p)
	if proc, ok := p.(*ArrivalProceduralProfile); ok {
		for _, step := range proc.AirSteps {
			if c := arrivalStepCoefficients(step); c != nil {
				a.referenceCoefficients(c.Name, proc.Name)
			}
		}
		if proc.Land.AeroCoefficients != nil {
			a.referenceCoefficients(proc.Land.AeroCoefficients.Name, proc.Name)
		}
	}
}

// AddDepartureProfile registers a departure profile keyed by name and
// references every aerodynamic coefficient set its steps use.
func (a *Aircraft) AddDepartureProfile(p DepartureProfile) {
	a.departureProfiles.Set(p.profileName(), p)
	if proc, ok := p.(*DepartureProceduralProfile); ok {
		for _, step := range proc.Steps {
			if c := departureStepCoefficients(step); c != nil {
				a.referenceCoefficients(c.Name, proc.Name)
			}
		}
	}
}

// arrivalStepCoefficients extracts the aerodynamic coefficient set
// referenced by an arrival step, or nil if the step has none (e.g.
// DescendIdle, LevelIdle, GroundDecelerate derive thrust from the idle
// thrust model instead).
func arrivalStepCoefficients(step ArrivalStep) *AeroCoefficients {
	switch s := step.(type) {
	case DescendDecelerate:
		return s.AeroCoefficients
	case Level:
		return s.AeroCoefficients
	case LevelDecelerate:
		return s.AeroCoefficients
	case DescendLand:
		return s.AeroCoefficients
	default:
		return nil
	}
}

// departureStepCoefficients extracts the aerodynamic coefficient set
// referenced by a departure step.
func departureStepCoefficients(step DepartureStep) *AeroCoefficients {
	switch s := step.(type) {
	case Takeoff:
		return s.AeroCoefficients
	case Climb:
		return s.AeroCoefficients
	case ClimbAccelerate:
		return s.AeroCoefficients
	case ClimbAcceleratePercentage:
		return s.AeroCoefficients
	default:
		return nil
	}
}

func (a *Aircraft) ArrivalProfile(name string) (ArrivalProfile, bool) {
	v, ok := a.arrivalProfiles.Get(name)
	if !ok {
		return nil, false
	}
	return v.(ArrivalProfile), true
}

func (a *Aircraft) DepartureProfile(name string) (DepartureProfile, bool) {
	v, ok := a.departureProfiles.Get(name)
	if !ok {
		return nil, false
	}
	return v.(DepartureProfile), true
}
