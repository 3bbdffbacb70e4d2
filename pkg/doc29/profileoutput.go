// pkg/doc29/profileoutput.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import (
	"math"
	"sort"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
	"github.com/goncaloroque30/grape-core/pkg/routeexp"
)

// FlightPhase tags a profile or performance point by the part of the
// procedure it belongs to.
type FlightPhase int

const (
	Approach FlightPhase = iota
	LandingRoll
	TakeoffRoll
	InitialClimb
	ClimbPhase
)

// ProfilePoint is a single cumulative-ground-distance keyed sample
// produced by the profile expander (ProfileOutput::Point).
type ProfilePoint struct {
	CumulativeGroundDistance float64
	AltitudeMsl              float64
	TrueAirspeed             float64
	Groundspeed              float64
	Thrust                   float64
	BankAngle                float64
	FlPhase                  FlightPhase
}

// ProfileOutput is the cumulative-ground-distance keyed sequence the
// profile expander produces, the input the performance assembler (F)
// fuses with the route polyline. A sorted slice stands in for the
// original's std::map<double, Point>, the same translation pkg/routeexp
// uses for its Polyline.
type ProfileOutput struct {
	points []ProfilePoint
}

// AddPoint inserts a point keyed by cumulative ground distance,
// skip-if-exists (ProfileOutput::addPoint's try_emplace semantics).
func (p *ProfileOutput) AddPoint(cumDist, altMsl, tas, gs, thrust, bankAngle float64, phase FlightPhase) {
	i := sort.Search(len(p.points), func(i int) bool { return p.points[i].CumulativeGroundDistance >= cumDist })
	if i < len(p.points) && gmath.Close(p.points[i].CumulativeGroundDistance, cumDist, gmath.Precision) {
		return
	}
	pt := ProfilePoint{cumDist, altMsl, tas, gs, thrust, bankAngle, phase}
	p.points = append(p.points, ProfilePoint{})
	copy(p.points[i+1:], p.points[i:])
	p.points[i] = pt
}

func (p *ProfileOutput) Empty() bool { return len(p.points) == 0 }
func (p *ProfileOutput) Len() int    { return len(p.points) }
func (p *ProfileOutput) Points() []ProfilePoint { return p.points }
func (p *ProfileOutput) First() ProfilePoint { return p.points[0] }
func (p *ProfileOutput) Last() ProfilePoint  { return p.points[len(p.points)-1] }
func (p *ProfileOutput) Clear()              { p.points = nil }

// RecalculateBankAngle rewrites every point's bank angle from its
// groundspeed and the route's turn radius at that distance
// (ProfileOutput::recalculateBankAngle), used after an arrival
// procedural expansion since bank angle depends on the route, not the
// profile alone.
func (p *ProfileOutput) RecalculateBankAngle(route *routeexp.Polyline) {
	for i := range p.points {
		p.points[i].BankAngle = gmath.BankAngle(p.points[i].Groundspeed, route.TurnRadius(p.points[i].CumulativeGroundDistance))
	}
}

// Interpolate returns the profile's value at an arbitrary cumulative
// ground distance, extrapolating altitude linearly past either end and
// holding every other field constant, or interpolating between two
// bracketing points using distance-weighted altitude/bank and
// time-weighted speed/thrust (ProfileOutput::interpolate).
func (p *ProfileOutput) Interpolate(cumDist float64) ProfilePoint {
	n := len(p.points)
	i := sort.Search(n, func(i int) bool { return p.points[i].CumulativeGroundDistance >= cumDist })

	if i == n {
		if n == 1 {
			return p.points[0]
		}
		p1, p2 := p.points[n-2], p.points[n-1]
		iFactor := (cumDist - p1.CumulativeGroundDistance) / (p2.CumulativeGroundDistance - p1.CumulativeGroundDistance)
		alt := gmath.Lerp(p1.AltitudeMsl, p2.AltitudeMsl, iFactor)
		return ProfilePoint{cumDist, alt, p2.TrueAirspeed, p2.Groundspeed, p2.Thrust, p2.BankAngle, p2.FlPhase}
	}

	next := p.points[i]
	if math.Abs(next.CumulativeGroundDistance-cumDist) < gmath.Precision {
		return next
	}

	if i == 0 {
		if n == 1 {
			return p.points[0]
		}
		p1, p2 := p.points[0], p.points[1]
		iFactor := (cumDist - p1.CumulativeGroundDistance) / (p2.CumulativeGroundDistance - p1.CumulativeGroundDistance)
		alt := gmath.Lerp(p1.AltitudeMsl, p2.AltitudeMsl, iFactor)
		return ProfilePoint{cumDist, alt, p1.TrueAirspeed, p1.Groundspeed, p1.Thrust, p1.BankAngle, p1.FlPhase}
	}

	prev := p.points[i-1]
	iFactor := (cumDist - prev.CumulativeGroundDistance) / (next.CumulativeGroundDistance - prev.CumulativeGroundDistance)
	alt := gmath.Lerp(prev.AltitudeMsl, next.AltitudeMsl, iFactor)
	tas := gmath.TimeInterpolation(prev.TrueAirspeed, next.TrueAirspeed, iFactor)
	gs := gmath.TimeInterpolation(prev.Groundspeed, next.Groundspeed, iFactor)
	thrust := gmath.TimeInterpolation(prev.Thrust, next.Thrust, iFactor)
	bank := gmath.Lerp(prev.BankAngle, next.BankAngle, iFactor)
	return ProfilePoint{cumDist, alt, tas, gs, thrust, bank, prev.FlPhase}
}
