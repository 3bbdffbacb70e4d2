// pkg/routeexp/simple.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routeexp

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// expandArrivalSimple walks route.Points in reverse (opposite to flight
// direction, since the points are given in flight direction from the
// threshold outward) and assigns negative cumulative distances.
// Headings are the end-heading of each step, flipped 180 degrees back
// into flight direction. No final heading rewrite (RouteCalculator::
// visitArrivalSimple).
func (e *Expander) expandArrivalSimple(pl *Polyline, route *airport.Route, seq airport.PointSequence) {
	for i := len(seq.Points) - 1; i >= 0; i-- {
		pos := seq.Points[i]
		first := pl.First()
		groundDist, hdg := e.cs.DistanceHeading(pos, first.Position)

		hdgChange := gmath.HeadingDifference(hdg, first.Heading)
		e.warnHeadingChange(route, pos, hdgChange)

		pl.addPoint(first.Distance-groundDist, pos, hdg, math.Inf(1), Straight)
	}
}

// expandDepartureSimple walks route.Points forward, accumulating
// positive cumulative distance, then lets Expand's caller rewrite
// headings (RouteCalculator::visitDepartureSimple).
func (e *Expander) expandDepartureSimple(pl *Polyline, route *airport.Route, seq airport.PointSequence) {
	for _, pos := range seq.Points {
		last := pl.Last()
		groundDist, hdg := e.cs.DistanceHeadingEnd(last.Position, pos)

		hdgChange := gmath.HeadingDifference(hdg, last.Heading)
		e.warnHeadingChange(route, pos, hdgChange)

		pl.addPoint(last.Distance+groundDist, pos, hdg, math.Inf(1), Straight)
	}
}
