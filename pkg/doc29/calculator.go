// pkg/doc29/calculator.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import (
	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
	"github.com/goncaloroque30/grape-core/pkg/log"
	"github.com/goncaloroque30/grape-core/pkg/routeexp"
)

// Calculator executes a Doc29 profile (points or procedural) against an
// atmosphere, aircraft, runway and route polyline, producing a
// ProfileOutput. One Calculator instance
// computes a single operation's profile; it carries no state across
// calls (Doc29ProfileArrivalCalculator/Doc29ProfileDepartureCalculator).
type Calculator struct {
	Atm     *atmos.Atmosphere
	Acft    *Aircraft
	Rwy     *airport.Runway
	Route   *routeexp.Polyline
	Weight  float64
	log     *log.Logger
}

// NewCalculator constructs a Calculator. logger may be nil.
func NewCalculator(atm *atmos.Atmosphere, acft *Aircraft, rwy *airport.Runway, route *routeexp.Polyline, weight float64, logger *log.Logger) *Calculator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Calculator{Atm: atm, Acft: acft, Rwy: rwy, Route: route, Weight: weight, log: logger}
}

// CalculateArrival dispatches on the profile's concrete type (points or
// procedural), mirroring Doc29ProfileArrivalCalculator::calculate.
func (c *Calculator) CalculateArrival(profile ArrivalProfile) (*ProfileOutput, error) {
	out := &ProfileOutput{}
	switch p := profile.(type) {
	case ArrivalPointsProfile:
		c.calculateArrivalPoints(out, p)
	case *ArrivalProceduralProfile:
		c.calculateArrivalProcedural(out, p)
	}
	if out.Empty() {
		return nil, grerr.NewInfeasibility("Doc29Profile.CalculateArrival", "profile produced no points")
	}
	return out, nil
}

// CalculateDeparture dispatches on the profile's concrete type.
// thrustPctTakeoff/thrustPctClimb are the operation's derate scalars.
func (c *Calculator) CalculateDeparture(profile DepartureProfile, thrustPctTakeoff, thrustPctClimb float64) (*ProfileOutput, error) {
	out := &ProfileOutput{}
	switch p := profile.(type) {
	case DeparturePointsProfile:
		c.calculateDeparturePoints(out, p, thrustPctTakeoff, thrustPctClimb)
	case *DepartureProceduralProfile:
		ok := c.calculateDepartureProcedural(out, p, thrustPctTakeoff, thrustPctClimb)
		if !ok {
			out.Clear()
		}
	}
	if out.Empty() {
		return nil, grerr.NewInfeasibility("Doc29Profile.CalculateDeparture", "profile produced no points")
	}
	return out, nil
}
