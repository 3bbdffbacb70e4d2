// pkg/routeexp/rnp.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routeexp

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// expandArrivalRNP walks route.Steps in reverse (opposite to flight
// direction), extending the polyline's first point backwards
// (RouteCalculator::visitArrivalRnp). A track-to-fix behaves like a
// straight leg; a radius-to-fix turns on an arc whose radius is the
// distance from its center to its own fix.
func (e *Expander) expandArrivalRNP(pl *Polyline, route *airport.Route, seq airport.RNPSequence) {
	for i := len(seq.Steps) - 1; i >= 0; i-- {
		first := pl.First()

		switch step := seq.Steps[i].(type) {
		case airport.TrackToFix:
			groundDist, hdg := e.cs.DistanceHeading(step.Point, first.Position)
			e.warnHeadingChange(route, step.Point, gmath.HeadingDifference(hdg, first.Heading))
			pl.addPoint(first.Distance-groundDist, step.Point, hdg, math.Inf(1), Straight)

		case airport.RadiusToFix:
			prevPoint := stepPoint(seq.Steps[i-1])

			radius1, centerFirstHdg := e.cs.DistanceHeading(step.Center, step.Point)
			radius2, centerSecondHdg := e.cs.DistanceHeading(step.Center, prevPoint)
			e.warnRadiusDifference(route, step.Point, math.Abs(radius1-radius2))

			// Start point of the arc calculation (against flight direction).
			dist, hdgEnd := e.cs.DistanceHeadingEnd(first.Position, step.Point)
			hdgFlight := gmath.NormalizeHeading(hdgEnd + 180)
			e.warnHeadingChange(route, step.Point, gmath.HeadingDifference(hdgFlight, first.Heading))
			pl.addPoint(first.Distance-dist, step.Point, hdgFlight, math.Inf(1), Straight)

			// Turn direction is inverted since the arc is stepped in
			// reverse of flight direction.
			turnDir := gmath.TurnDirection(centerFirstHdg, centerSecondHdg)
			dir := LeftTurn
			if turnDir == -1 {
				dir = RightTurn
			}

			hdgDiff := gmath.HeadingDifference(centerFirstHdg, centerSecondHdg)
			ptCount := int(hdgDiff / e.cfg.ArcInterval)

			for i := 1; i < ptCount; i++ {
				l := pl.First()
				hdgDelta := float64(turnDir) * e.cfg.ArcInterval * float64(i)
				pos := e.cs.Point(step.Center, radius1, gmath.NormalizeHeading(centerFirstHdg+hdgDelta))
				dist, hdgEndArc := e.cs.DistanceHeadingEnd(l.Position, pos)
				hdgFlightArc := gmath.NormalizeHeading(hdgEndArc + 180)
				e.warnHeadingChange(route, pos, gmath.HeadingDifference(hdgFlightArc, l.Heading))
				pl.addPoint(l.Distance-dist, pos, hdgFlightArc, radius1, dir)
			}

			if hdgDiff-e.cfg.ArcInterval*float64(ptCount) > gmath.AngleThreshold {
				l := pl.First()
				testPos := e.cs.Point(step.Center, radius1, gmath.NormalizeHeading(centerFirstHdg+float64(turnDir)*e.cfg.ArcInterval*float64(ptCount)))
				testDist := e.cs.Distance(testPos, prevPoint)
				if testDist > gmath.DistanceThreshold {
					dist, hdgEndArc := e.cs.DistanceHeadingEnd(l.Position, testPos)
					hdgFlightArc := gmath.NormalizeHeading(hdgEndArc + 180)
					e.warnHeadingChange(route, testPos, gmath.HeadingDifference(hdgFlightArc, l.Heading))
					pl.addPoint(l.Distance-dist, testPos, hdgFlightArc, radius1, dir)
				}
			}
		}
	}
}

// expandDepartureRNP walks route.Steps forward, extending the
// polyline's last point with positive cumulative distances
// (RouteCalculator::visitDepartureRnp).
func (e *Expander) expandDepartureRNP(pl *Polyline, route *airport.Route, seq airport.RNPSequence) {
	for _, step := range seq.Steps {
		last := pl.Last()

		switch s := step.(type) {
		case airport.TrackToFix:
			groundDist, hdg := e.cs.DistanceHeadingEnd(last.Position, s.Point)
			e.warnHeadingChange(route, s.Point, gmath.HeadingDifference(last.Heading, hdg))
			pl.addPoint(last.Distance+groundDist, s.Point, hdg, math.Inf(1), Straight)

		case airport.RadiusToFix:
			radius, centerFirstHdg := e.cs.DistanceHeading(s.Center, last.Position)
			radius2, centerSecondHdg := e.cs.DistanceHeading(s.Center, s.Point)
			e.warnRadiusDifference(route, s.Point, math.Abs(radius-radius2))

			turnDir := gmath.TurnDirection(centerFirstHdg, centerSecondHdg)
			dir := turnRenderDirection(turnDir)

			hdgDiff := gmath.HeadingDifference(centerFirstHdg, centerSecondHdg)
			ptCount := int(hdgDiff / e.cfg.ArcInterval)

			for i := 1; i < ptCount; i++ {
				l := pl.Last()
				hdgDelta := float64(turnDir) * e.cfg.ArcInterval * float64(i)
				pos := e.cs.Point(s.Center, radius, gmath.NormalizeHeading(centerFirstHdg+hdgDelta))
				dist, hdgEnd := e.cs.DistanceHeadingEnd(l.Position, pos)
				e.warnHeadingChange(route, pos, gmath.HeadingDifference(hdgEnd, l.Heading))
				pl.addPoint(l.Distance+dist, pos, hdgEnd, radius, dir)
			}

			addedFinal := false
			if hdgDiff-e.cfg.ArcInterval*float64(ptCount) > gmath.AngleThreshold {
				l := pl.Last()
				testPos := e.cs.Point(s.Center, radius, gmath.NormalizeHeading(centerFirstHdg+float64(turnDir)*e.cfg.ArcInterval*float64(ptCount)))
				testDist, testHdgEnd := e.cs.DistanceHeadingEnd(testPos, s.Point)
				if testDist > gmath.DistanceThreshold {
					dist, hdgEnd := e.cs.DistanceHeadingEnd(l.Position, testPos)
					e.warnHeadingChange(route, testPos, gmath.HeadingDifference(hdgEnd, l.Heading))
					pl.addPoint(l.Distance+dist, testPos, hdgEnd, radius, dir)

					e.warnHeadingChange(route, s.Point, gmath.HeadingDifference(testHdgEnd, hdgEnd))
					pl.addPoint(l.Distance+dist+testDist, s.Point, testHdgEnd, math.Inf(1), Straight)
					addedFinal = true
				}
			}
			if !addedFinal {
				l := pl.Last()
				dist, hdgEnd := e.cs.DistanceHeadingEnd(l.Position, s.Point)
				e.warnHeadingChange(route, s.Point, gmath.HeadingDifference(hdgEnd, l.Heading))
				pl.addPoint(l.Distance+dist, s.Point, hdgEnd, math.Inf(1), Straight)
			}
		}
	}
}
