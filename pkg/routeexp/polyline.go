// pkg/routeexp/polyline.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package routeexp implements the route expander: it walks an
// airport.Route's lateral-path variant and produces a Polyline keyed by
// cumulative ground distance, the shape the performance assembler
// (pkg/performance) segments against. The expansion rules
// (reverse-iteration for arrivals, center-stepping for turns, the
// final-arc-point distance and angle thresholds) follow the C++
// RouteCalculator.cpp and RouteOutput.cpp closely.
package routeexp

import (
	"math"
	"sort"

	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// Direction tags a polyline point as being in a turn or flying
// straight (RouteOutput::Direction in the original).
type Direction int

const (
	Straight Direction = iota
	LeftTurn
	RightTurn
)

func (d Direction) String() string {
	switch d {
	case LeftTurn:
		return "left-turn"
	case RightTurn:
		return "right-turn"
	default:
		return "straight"
	}
}

// Point is one vertex of an expanded route, keyed by cumulative ground
// distance. Radius is +Inf outside of turns.
type Point struct {
	Distance float64
	Position geo.Point
	Heading  float64
	Radius   float64
	Dir      Direction
}

// Polyline is a route's expanded lateral path, ordered by strictly
// increasing cumulative ground distance. For departures, distance 0 is
// the runway threshold and values increase downstream; for arrivals,
// distance 0 is again the threshold but values are negative upstream.
type Polyline struct {
	points []Point
}

// newPolylineAtThreshold seeds the polyline with the runway threshold
// at distance 0 (RouteOutput's constructor).
func newPolylineAtThreshold(threshold geo.Point, heading float64) *Polyline {
	pl := &Polyline{}
	pl.addPoint(0, threshold, heading, math.Inf(1), Straight)
	return pl
}

// addPoint inserts a point keyed by distance, keeping the slice sorted.
// A point already present at that distance (within gmath.Precision) is
// left untouched, mirroring std::map::try_emplace.
func (pl *Polyline) addPoint(distance float64, pos geo.Point, heading, radius float64, dir Direction) {
	i := sort.Search(len(pl.points), func(i int) bool { return pl.points[i].Distance >= distance })
	if i < len(pl.points) && gmath.Close(pl.points[i].Distance, distance, gmath.Precision) {
		return
	}
	pl.points = append(pl.points, Point{})
	copy(pl.points[i+1:], pl.points[i:])
	pl.points[i] = Point{Distance: distance, Position: pos, Heading: heading, Radius: radius, Dir: dir}
}

// First is the lowest cumulative distance point: the threshold for
// departures, the furthest upstream point for arrivals.
func (pl *Polyline) First() Point { return pl.points[0] }

// Last is the highest cumulative distance point: the furthest
// downstream point for departures, the threshold for arrivals.
func (pl *Polyline) Last() Point { return pl.points[len(pl.points)-1] }

// Points returns the full ordered point list.
func (pl *Polyline) Points() []Point { return pl.points }

// Len returns the number of points.
func (pl *Polyline) Len() int { return len(pl.points) }

// recalculateHeadings rewrites each point's heading to the ground-track
// start-heading of its outgoing segment, with the last point copying
// the previous one's heading (RouteOutput::recalculateHeadings). Only
// departure expansion calls this.
func (pl *Polyline) recalculateHeadings(cs geo.CoordinateSystem) {
	for i := 0; i < len(pl.points)-1; i++ {
		pl.points[i].Heading = cs.HeadingStart(pl.points[i].Position, pl.points[i+1].Position)
	}
	if len(pl.points) >= 2 {
		pl.points[len(pl.points)-1].Heading = pl.points[len(pl.points)-2].Heading
	}
}

// previousIndex returns the index of the last point with Distance <=
// target, clamped to 0 (RouteOutput::previousPoint).
func (pl *Polyline) previousIndex(distance float64) int {
	i := sort.Search(len(pl.points), func(i int) bool { return pl.points[i].Distance > distance })
	if i == 0 {
		return 0
	}
	return i - 1
}

// TurnRadius returns the turn radius in effect at distance, determined
// by the point immediately before it.
func (pl *Polyline) TurnRadius(distance float64) float64 {
	return pl.points[pl.previousIndex(distance)].Radius
}

// Heading returns the heading in effect at distance, determined by the
// point immediately before it.
func (pl *Polyline) Heading(distance float64) float64 {
	return pl.points[pl.previousIndex(distance)].Heading
}

// TurnRadiusChange reports the first cumulative distance strictly after
// start at which the turn radius differs from the radius at start, or
// NaN if the radius is constant over [start, end] (RouteOutput's
// TurnRadiusChange, used by the performance assembler's default-height
// segmentation to avoid splitting a segment mid-turn).
func (pl *Polyline) TurnRadiusChange(start, end float64) float64 {
	si := pl.previousIndex(start)
	ei := pl.previousIndex(end)
	if si == ei {
		return math.NaN()
	}
	startRadius := pl.points[si].Radius
	for i := si + 1; i < ei; i++ {
		if math.Abs(pl.points[i].Radius-startRadius) > gmath.Precision {
			return pl.points[i].Distance
		}
	}
	return math.NaN()
}

// Interpolate returns the point at the given cumulative distance,
// extrapolating past either end along that end's heading.
func (pl *Polyline) Interpolate(cs geo.CoordinateSystem, distance float64) Point {
	n := len(pl.points)
	i := sort.Search(n, func(i int) bool { return pl.points[i].Distance >= distance })

	if i == n {
		last := pl.points[n-1]
		pos := cs.Point(last.Position, math.Abs(distance-last.Distance), last.Heading)
		return Point{Distance: distance, Position: pos, Heading: last.Heading, Radius: math.Inf(1), Dir: last.Dir}
	}
	if i == 0 {
		first := pl.points[0]
		pos := cs.Point(first.Position, math.Abs(distance-first.Distance), gmath.NormalizeHeading(first.Heading+180))
		return Point{Distance: distance, Position: pos, Heading: first.Heading, Radius: math.Inf(1), Dir: first.Dir}
	}

	next := pl.points[i]
	if gmath.Close(next.Distance, distance, gmath.Precision) {
		return next
	}
	prev := pl.points[i-1]
	if gmath.Close(prev.Distance, distance, gmath.Precision) {
		return prev
	}

	pos := cs.Point(prev.Position, math.Abs(distance-prev.Distance), prev.Heading)
	return Point{Distance: distance, Position: pos, Heading: prev.Heading, Radius: prev.Radius, Dir: prev.Dir}
}
