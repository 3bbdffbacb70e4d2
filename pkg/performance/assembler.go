// pkg/performance/assembler.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Assembler fuses a route polyline (pkg/routeexp) with a Doc29 profile
// output (pkg/doc29) into a performance output. It follows the C++
// PerformanceCalculatorDoc29.cpp line for line,
// the one notable deviation being its Doc29 initial-climb loop, whose
// C++ termination condition (`it != profOutput.begin()` after starting
// past begin()) never becomes false and would run off the end of the
// container; here the loop walks the profile forward and relies solely
// on the same `end` flag the final-approach pass already uses to stop.
package performance

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
	"github.com/goncaloroque30/grape-core/pkg/log"
	"github.com/goncaloroque30/grape-core/pkg/operation"
	"github.com/goncaloroque30/grape-core/pkg/routeexp"
)

// doc29DefaultHeights are the AFE heights, meters, the default-height
// segmentation passes inject points at.
var doc29DefaultHeights = [...]float64{18.9, 41.5, 68.3, 102.1, 147.5, 214.9, 334.9, 609.6, 1289.6}

// Assembler is a reusable, stateless fuser: one instance can assemble
// any number of operations, each call independent of the others.
type Assembler struct {
	Cs       geo.CoordinateSystem
	Cfg      Config
	FuelFlow FuelFlowHook
	log      *log.Logger
}

// NewAssembler constructs an Assembler. fuelFlow defaults to NoFuelFlow
// if nil; logger defaults to a discard sink if nil.
func NewAssembler(cs geo.CoordinateSystem, cfg Config, fuelFlow FuelFlowHook, logger *log.Logger) *Assembler {
	if fuelFlow == nil {
		fuelFlow = NoFuelFlow{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Assembler{Cs: cs, Cfg: cfg, FuelFlow: fuelFlow, log: logger}
}

// AssembleArrival fuses route and profile into a performance output for
// an arrival flight, applying final-approach default-height
// segmentation, the fuel-flow hook, speed segmentation, ground-distance
// filtering and time recomputation in that order.
func (a *Assembler) AssembleArrival(flight *operation.FlightArrival, route *routeexp.Polyline, profile *doc29.ProfileOutput, atm *atmos.Atmosphere) (*Output, error) {
	out := &Output{}
	a.addRoutePoints(out, route, profile)
	a.addProfilePoints(out, route, profile)

	if a.Cfg.FlightsDoc29Segmentation {
		elev := flight.Route.Runway().Elevation
		pts := profile.Points()
		for i := len(pts) - 2; i >= 0; i-- {
			end := a.insertDefaultHeightPoints(out, route, profile, elev, pts[i+1], pts[i], FinalApproachSegmentation, false, false)
			if end {
				break
			}
		}
	}

	a.FuelFlow.Calculate(flight.Acft, atm, out)
	deleted := a.segmentAndFilter(out, flight.Time)

	if out.Len() < 2 {
		a.log.Error("assembling performance output", "flight", flight.OpName, "direction", "arrival", "reason", "fewer than 2 points after segmenting and filtering")
		return nil, grerr.NewInfeasibility(flight.OpName, "performance output has fewer than 2 points after segmenting and filtering")
	}
	if deleted > 0 {
		a.log.Info("assembling performance output", "flight", flight.OpName, "deleted", deleted)
	}
	return out, nil
}

// AssembleDeparture fuses route and profile into a performance output
// for a departure flight, applying takeoff-roll and initial-climb
// default-height segmentation, the fuel-flow hook, speed segmentation,
// ground-distance filtering and time recomputation in that order.
func (a *Assembler) AssembleDeparture(flight *operation.FlightDeparture, route *routeexp.Polyline, profile *doc29.ProfileOutput, atm *atmos.Atmosphere) (*Output, error) {
	out := &Output{}
	a.addRoutePoints(out, route, profile)
	a.addProfilePoints(out, route, profile)

	if a.Cfg.FlightsDoc29Segmentation {
		elev := flight.Route.Runway().Elevation
		a.takeoffRollSegmentation(out, route)

		pts := profile.Points()
		for i := 1; i < len(pts); i++ {
			end := a.insertDefaultHeightPoints(out, route, profile, elev, pts[i-1], pts[i], InitialClimbSegmentation, true, true)
			if end {
				break
			}
		}
	}

	a.FuelFlow.Calculate(flight.Acft, atm, out)
	deleted := a.segmentAndFilter(out, flight.Time)

	if out.Len() < 2 {
		a.log.Error("assembling performance output", "flight", flight.OpName, "direction", "departure", "reason", "fewer than 2 points after segmenting and filtering")
		return nil, grerr.NewInfeasibility(flight.OpName, "performance output has fewer than 2 points after segmenting and filtering")
	}
	if deleted > 0 {
		a.log.Info("assembling performance output", "flight", flight.OpName, "deleted", deleted)
	}
	return out, nil
}

// addRoutePoints adds one performance point per route polyline vertex,
// interpolating the profile for altitude/speed/thrust/phase and
// recalculating bank angle from the route's exact turn radius rather
// than the profile's interpolated bank angle (PerformanceCalculatorDoc29
// "route output provides exact turn radius, better than interpolated
// bank angle").
func (a *Assembler) addRoutePoints(out *Output, route *routeexp.Polyline, profile *doc29.ProfileOutput) {
	for _, rtePt := range route.Points() {
		if !a.Cfg.pointInDistanceLimits(rtePt.Distance) {
			continue
		}
		profPt := profile.Interpolate(rtePt.Distance)
		if !a.Cfg.pointInAltitudeLimits(profPt.AltitudeMsl) {
			continue
		}

		bankAngl := gmath.BankAngle(profPt.Groundspeed, rtePt.Radius)
		if rtePt.Dir == routeexp.RightTurn {
			bankAngl = -bankAngl
		}

		out.addPoint(Point{
			CumulativeGroundDistance: rtePt.Distance,
			FlPhase:                  profPt.FlPhase,
			Longitude:                rtePt.Position.Lon,
			Latitude:                 rtePt.Position.Lat,
			AltitudeMsl:              profPt.AltitudeMsl,
			TrueAirspeed:             profPt.TrueAirspeed,
			Groundspeed:              profPt.Groundspeed,
			CorrNetThrustPerEng:      profPt.Thrust,
			BankAngle:                bankAngl,
			PtOrigin:                 FromRoute,
		})
	}
}

// addProfilePoints adds one performance point per profile point,
// interpolating the route polyline for position. A point already added
// by addRoutePoints at (within precision) the same distance is retagged
// FromBoth rather than duplicated.
func (a *Assembler) addProfilePoints(out *Output, route *routeexp.Polyline, profile *doc29.ProfileOutput) {
	for _, profPt := range profile.Points() {
		if !a.Cfg.pointInDistanceLimits(profPt.CumulativeGroundDistance) || !a.Cfg.pointInAltitudeLimits(profPt.AltitudeMsl) {
			continue
		}

		rtePt := route.Interpolate(a.Cs, profPt.CumulativeGroundDistance)
		bankAngl := profPt.BankAngle
		if rtePt.Dir == routeexp.RightTurn {
			bankAngl = -bankAngl
		}

		idx, added := out.addPoint(Point{
			CumulativeGroundDistance: profPt.CumulativeGroundDistance,
			FlPhase:                  profPt.FlPhase,
			Longitude:                rtePt.Position.Lon,
			Latitude:                 rtePt.Position.Lat,
			AltitudeMsl:              profPt.AltitudeMsl,
			TrueAirspeed:             profPt.TrueAirspeed,
			Groundspeed:              profPt.Groundspeed,
			CorrNetThrustPerEng:      profPt.Thrust,
			BankAngle:                bankAngl,
			PtOrigin:                 FromProfile,
		})
		if !added {
			out.points[idx].PtOrigin = FromBoth
		}
	}
}

// closestDefaultHeight locates the default height closest to afe and
// reports the exclusive end of the "heights below this one" subrange,
// whether this is the terminal step of the ladder, and afe clamped to
// the ladder's top when it overshoots (PerformanceCalculatorDoc29's
// repeated closest-height-and-end-flag block).
func closestDefaultHeight(afe float64) (normalizingAltitude float64, subrangeEnd int, end bool, clampedAfe float64) {
	idx := len(doc29DefaultHeights)
	for i, h := range doc29DefaultHeights {
		if afe <= h {
			idx = i
			break
		}
	}
	if idx == len(doc29DefaultHeights) || (idx != 0 && math.Abs(afe-doc29DefaultHeights[idx]) > math.Abs(afe-doc29DefaultHeights[idx-1])) {
		idx--
	}

	normalizingAltitude = doc29DefaultHeights[idx]
	clampedAfe = afe
	last := doc29DefaultHeights[len(doc29DefaultHeights)-1]
	switch {
	case math.Abs(afe-last) < gmath.Precision:
		end = true
	case afe > last:
		end = true
		clampedAfe = last
		idx++
	}
	return normalizingAltitude, idx, end, clampedAfe
}

// insertDefaultHeightPoints inserts a performance point at every default
// height strictly between p1 and p2's altitudes, scaled so p2's AFE
// height maps onto the closest rung of the ladder
// (PerformanceCalculatorDoc29's Doc29 Segmentation block, shared by
// final-approach and initial-climb). recalcBank recomputes bank angle
// from the route's turn radius instead of using the profile's
// interpolated bank angle (initial climb only; final approach keeps the
// profile's own bank angle, matching the original even though it computes
// and discards a recalculated value there). fixTakeoffPhase relabels a
// TakeoffRoll phase tag as InitialClimb for profiles with no airborne
// point before the first interpolation height.
func (a *Assembler) insertDefaultHeightPoints(out *Output, route *routeexp.Polyline, profile *doc29.ProfileOutput, elev float64, p1, p2 doc29.ProfilePoint, origin PointOrigin, recalcBank, fixTakeoffPhase bool) bool {
	p2Afe := p2.AltitudeMsl - elev
	normalizingAltitude, subrangeEnd, end, clampedAfe := closestDefaultHeight(p2Afe)

	slope := (p2.AltitudeMsl - p1.AltitudeMsl) / (p2.CumulativeGroundDistance - p1.CumulativeGroundDistance)
	b := p2.AltitudeMsl - slope*p2.CumulativeGroundDistance

	for _, height := range doc29DefaultHeights[:subrangeEnd] {
		newAltMsl := clampedAfe*height/normalizingAltitude + elev
		if newAltMsl <= p1.AltitudeMsl {
			continue
		}
		newCumDist := (newAltMsl - b) / slope
		if !a.Cfg.pointInDistanceLimits(newCumDist) {
			continue
		}
		rtePt := route.Interpolate(a.Cs, newCumDist)
		profPt := profile.Interpolate(newCumDist)
		if !a.Cfg.pointInAltitudeLimits(profPt.AltitudeMsl) {
			continue
		}

		bankAngl := profPt.BankAngle
		if recalcBank {
			bankAngl = gmath.BankAngle(profPt.Groundspeed, rtePt.Radius)
			if rtePt.Dir == routeexp.RightTurn {
				bankAngl = -bankAngl
			}
		}

		flPhase := profPt.FlPhase
		if fixTakeoffPhase && flPhase == doc29.TakeoffRoll {
			flPhase = doc29.InitialClimb
		}

		out.addPoint(Point{
			CumulativeGroundDistance: newCumDist,
			FlPhase:                  flPhase,
			Longitude:                rtePt.Position.Lon,
			Latitude:                 rtePt.Position.Lat,
			AltitudeMsl:              profPt.AltitudeMsl,
			TrueAirspeed:             profPt.TrueAirspeed,
			Groundspeed:              profPt.Groundspeed,
			CorrNetThrustPerEng:      profPt.Thrust,
			BankAngle:                bankAngl,
			PtOrigin:                 origin,
		})
	}
	return end
}

// takeoffRollSegmentation partitions the ground roll into at most
// 1+floor(|Δgroundspeed|/10) equal-time segments, linearly interpolating
// altitude/speed/thrust (not the time-weighted interpolation speed
// segmentation uses elsewhere) and forcing bank angle to 0
// (PerformanceCalculatorDoc29's Takeoff Roll block). 10 m/s is
// hardcoded in the original, independent of Config.SpeedDeltaMinimum.
func (a *Assembler) takeoffRollSegmentation(out *Output, route *routeexp.Polyline) {
	pts := out.Points()
	if len(pts) < 2 {
		return
	}
	p1 := pts[0]

	var p2 Point
	found := false
	for i := 0; i < len(pts)-1; i++ {
		if pts[i+1].FlPhase != doc29.TakeoffRoll {
			if i != 0 {
				p2 = pts[i]
			} else {
				p2 = pts[i+1]
			}
			found = true
			break
		}
	}
	if !found {
		return
	}

	distanceDelta := p2.CumulativeGroundDistance - p1.CumulativeGroundDistance
	speedDelta := p2.Groundspeed - p1.Groundspeed
	speedDeltaAbs := math.Abs(speedDelta)
	segCount := 1 + int(speedDeltaAbs/10.0)
	speedIncrement := speedDelta / float64(segCount)
	thrustIncrement := (p2.CorrNetThrustPerEng - p1.CorrNetThrustPerEng) / float64(segCount)
	segTime := distanceDelta / ((p1.Groundspeed + p2.Groundspeed) / 2) / float64(segCount)

	cumFromP1 := 0.0
	for s := 1; s <= segCount-1; s++ {
		segLength := (p1.Groundspeed + speedIncrement*(float64(s)-0.5)) * segTime
		cumFromP1 += segLength
		newCumDist := p1.CumulativeGroundDistance + cumFromP1
		if !a.Cfg.pointInDistanceLimits(newCumDist) {
			continue
		}
		iFactor := cumFromP1 / distanceDelta
		newAltMsl := gmath.Lerp(p1.AltitudeMsl, p2.AltitudeMsl, iFactor)
		if !a.Cfg.pointInAltitudeLimits(newAltMsl) {
			continue
		}
		newSpeed := p1.Groundspeed + float64(s)*speedIncrement
		newThrust := p1.CorrNetThrustPerEng + float64(s)*thrustIncrement
		rtePt := route.Interpolate(a.Cs, newCumDist)

		out.addPoint(Point{
			CumulativeGroundDistance: newCumDist,
			FlPhase:                  p1.FlPhase,
			Longitude:                rtePt.Position.Lon,
			Latitude:                 rtePt.Position.Lat,
			AltitudeMsl:              newAltMsl,
			TrueAirspeed:             newSpeed,
			Groundspeed:              newSpeed,
			CorrNetThrustPerEng:      newThrust,
			BankAngle:                0,
			PtOrigin:                 TakeoffRollSegmentation,
		})
	}
}

// segmentAndFilter runs speed segmentation and the ground-distance
// filter, then replays absolute time from startTime (the operation's
// scheduled time), returning the number of points the filter deleted
// (PerformanceCalculator::segmentAndFilter).
func (a *Assembler) segmentAndFilter(out *Output, startTime int64) int {
	out.speedSegmentation(a.Cs, a.Cfg.SpeedDeltaMinimum)
	deleted := out.groundDistanceFilter(a.Cfg.GroundDistanceMinimum)
	out.recalculateTime(startTime)
	return deleted
}
