// pkg/performance/output.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package performance implements the performance assembler and
// fuel-flow hook: it fuses a route polyline (pkg/routeexp) with a Doc29
// profile output (pkg/doc29) onto a shared cumulative-ground-distance
// axis, applies Doc29 default-height and speed segmentation, filters
// points that are too close together, and recomputes absolute time
// from an anchor, staying close to the C++
// PerformanceCalculatorDoc29.cpp and PerformanceOutput.cpp.
package performance

import (
	"math"
	"sort"

	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// PointOrigin tags where a performance point came from.
type PointOrigin int

const (
	FromRoute PointOrigin = iota
	FromProfile
	FromBoth
	SpeedSegmentation
	TakeoffRollSegmentation
	InitialClimbSegmentation
	FinalApproachSegmentation
)

func (o PointOrigin) String() string {
	switch o {
	case FromRoute:
		return "from-route"
	case FromProfile:
		return "from-profile"
	case FromBoth:
		return "from-both"
	case SpeedSegmentation:
		return "speed-segmentation"
	case TakeoffRollSegmentation:
		return "takeoff-roll-segmentation"
	case InitialClimbSegmentation:
		return "initial-climb-segmentation"
	case FinalApproachSegmentation:
		return "final-approach-segmentation"
	default:
		return "unknown"
	}
}

// Point is a single cumulative-ground-distance keyed sample of the fused
// performance output.
type Point struct {
	CumulativeGroundDistance float64
	Time                     int64 // TAI seconds
	FlPhase                  doc29.FlightPhase
	Longitude                float64
	Latitude                 float64
	AltitudeMsl              float64
	TrueAirspeed             float64
	Groundspeed              float64
	CorrNetThrustPerEng      float64
	BankAngle                float64
	FuelFlowPerEng           float64
	PtOrigin                 PointOrigin
}

// Output is the cumulative-ground-distance ordered sequence the
// assembler produces; a sorted slice stands in for the
// original's std::map<double, Point>, the same pattern pkg/routeexp's
// Polyline and pkg/doc29's ProfileOutput already use.
type Output struct {
	points []Point
}

// addPoint inserts or returns the existing point at cumDist
// (try_emplace semantics); ok reports whether a new point was inserted.
func (o *Output) addPoint(pt Point) (idx int, ok bool) {
	i := sort.Search(len(o.points), func(i int) bool { return o.points[i].CumulativeGroundDistance >= pt.CumulativeGroundDistance })
	if i < len(o.points) && gmath.Close(o.points[i].CumulativeGroundDistance, pt.CumulativeGroundDistance, gmath.Precision) {
		return i, false
	}
	o.points = append(o.points, Point{})
	copy(o.points[i+1:], o.points[i:])
	o.points[i] = pt
	return i, true
}

func (o *Output) Empty() bool    { return len(o.points) == 0 }
func (o *Output) Len() int       { return len(o.points) }
func (o *Output) Points() []Point { return o.points }
func (o *Output) First() Point   { return o.points[0] }
func (o *Output) Last() Point    { return o.points[len(o.points)-1] }
func (o *Output) Clear()         { o.points = nil }

// recalculateTime replays from an anchor time: the first point is pinned
// to startTime, and every subsequent point's time is the previous point's
// time plus ground-distance-over-midpoint-groundspeed, accumulated in
// whole seconds (PerformanceOutput::recalculateTime).
func (o *Output) recalculateTime(startTime int64) {
	if o.Empty() {
		return
	}
	o.points[0].Time = startTime
	for i := 1; i < len(o.points); i++ {
		prev, cur := o.points[i-1], o.points[i]
		groundDist := cur.CumulativeGroundDistance - prev.CumulativeGroundDistance
		speed := (prev.Groundspeed + cur.Groundspeed) / 2
		o.points[i].Time = prev.Time + int64(groundDist/speed)
	}
}

// speedSegmentation inserts equal-speed-delta points wherever two
// adjacent points' groundspeed differs by more than deltaMinimum
// (PerformanceOutput::speedSegmentation). cs supplies the heading
// between the two adjacent points; every inserted point is placed at
// the corresponding cumulative distance along that constant heading
// from p1, the same way routeexp.Polyline.Interpolate walks forward
// off its last point.
func (o *Output) speedSegmentation(cs geo.CoordinateSystem, deltaMinimum float64) {
	for i := 0; i < len(o.points)-1; {
		p1, p2 := o.points[i], o.points[i+1]
		speedDelta := p2.Groundspeed - p1.Groundspeed
		speedDeltaAbs := math.Abs(speedDelta)
		if speedDeltaAbs <= deltaMinimum {
			i++
			continue
		}

		distanceDelta := math.Abs(p2.CumulativeGroundDistance - p1.CumulativeGroundDistance)
		timeDelta := p2.Time - p1.Time

		flPhase := p1.FlPhase
		if p1.FlPhase == doc29.TakeoffRoll && p2.FlPhase == doc29.InitialClimb {
			flPhase = doc29.InitialClimb
		}

		segCount := 1 + int(speedDeltaAbs/deltaMinimum)
		speedIncrement := speedDelta / float64(segCount)
		segTime := float64(timeDelta) / float64(segCount)
		hdg := cs.HeadingStart(geo.Point{Lon: p1.Longitude, Lat: p1.Latitude}, geo.Point{Lon: p2.Longitude, Lat: p2.Latitude})

		cumFromP1 := 0.0
		inserted := 0
		for s := 1; s <= segCount-1; s++ {
			newTime := p1.Time + int64(segTime*float64(s))
			segLength := (p1.Groundspeed + speedIncrement*(float64(s)-0.5)) * segTime
			cumFromP1 += segLength
			iFactor := cumFromP1 / distanceDelta
			newAlt := gmath.Lerp(p1.AltitudeMsl, p2.AltitudeMsl, iFactor)
			newTas := gmath.TimeInterpolation(p1.TrueAirspeed, p2.TrueAirspeed, iFactor)
			newGs := gmath.TimeInterpolation(p1.Groundspeed, p2.Groundspeed, iFactor)
			newThrust := gmath.TimeInterpolation(p1.CorrNetThrustPerEng, p2.CorrNetThrustPerEng, iFactor)
			newBank := gmath.Lerp(p1.BankAngle, p2.BankAngle, iFactor)
			newFuel := gmath.TimeInterpolation(p1.FuelFlowPerEng, p2.FuelFlowPerEng, iFactor)
			newPos := cs.Point(geo.Point{Lon: p1.Longitude, Lat: p1.Latitude}, cumFromP1, hdg)

			o.addPoint(Point{
				CumulativeGroundDistance: p1.CumulativeGroundDistance + cumFromP1,
				Time:                     newTime,
				FlPhase:                  flPhase,
				Longitude:                newPos.Lon,
				Latitude:                 newPos.Lat,
				AltitudeMsl:              newAlt,
				TrueAirspeed:             newTas,
				Groundspeed:              newGs,
				CorrNetThrustPerEng:      newThrust,
				BankAngle:                newBank,
				FuelFlowPerEng:           newFuel,
				PtOrigin:                 SpeedSegmentation,
			})
			inserted++
		}
		i += 1 + inserted
	}
}

// groundDistanceFilter deletes the downstream member of any adjacent pair
// closer than minimum, returning the number deleted
// (PerformanceOutput::groundDistanceFilter). Matches the original's
// iterator walk exactly: after deleting a too-close neighbor, the cursor
// still advances past it rather than re-testing the surviving point
// against its new neighbor, so three or more mutually close points in a
// row are not fully collapsed in one pass.
func (o *Output) groundDistanceFilter(minimum float64) int {
	deleted := 0
	for i := 0; i < len(o.points)-1; i++ {
		if math.Abs(o.points[i+1].CumulativeGroundDistance-o.points[i].CumulativeGroundDistance) < minimum {
			o.points = append(o.points[:i+1], o.points[i+2:]...)
			deleted++
		}
	}
	return deleted
}
