// pkg/routeexp/vectors.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routeexp

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// turnRenderDirection maps the turn-stepping sign (+1 right, -1 left as
// seen from the turn center towards the turn start) to the output
// Direction tag. Used identically for arrivals and departures
// (RouteCalculator uses the same ternary in both visitors, despite
// arrivals stepping the arc in the opposite geometric sense).
func turnRenderDirection(turnDir int) Direction {
	if turnDir == 1 {
		return RightTurn
	}
	return LeftTurn
}

// expandArrivalVectors walks route.Vectors in reverse, extending the
// polyline's first point backwards with negative cumulative distances
// (RouteCalculator::visitArrivalVectors).
func (e *Expander) expandArrivalVectors(pl *Polyline, route *airport.Route, seq airport.VectorSequence) {
	for i := len(seq.Vectors) - 1; i >= 0; i-- {
		first := pl.First()

		switch vec := seq.Vectors[i].(type) {
		case airport.Straight:
			pos, hdgEnd := e.cs.PointHeadingEnd(first.Position, vec.Distance, gmath.NormalizeHeading(first.Heading+180))
			pl.addPoint(first.Distance-vec.Distance, pos, gmath.NormalizeHeading(hdgEnd+180), math.Inf(1), Straight)

		case airport.Turn:
			turnDir := -1
			if vec.Direction == airport.TurnRight {
				turnDir = 1
			}
			dir := turnRenderDirection(turnDir)

			hdgToCenter := gmath.NormalizeHeading(first.Heading + float64(turnDir)*90)
			center := e.cs.Point(first.Position, vec.Radius, hdgToCenter)

			hdgCenter1 := gmath.NormalizeHeading(e.cs.HeadingEnd(first.Position, center) + 180)
			hdgCenter2 := gmath.NormalizeHeading(hdgCenter1 - float64(turnDir)*vec.HeadingChange)
			target := e.cs.Point(center, vec.Radius, hdgCenter2)

			ptCount := int(vec.HeadingChange / e.cfg.ArcInterval)
			for i := 1; i < ptCount; i++ {
				l := pl.First()
				hdgDelta := -float64(turnDir) * e.cfg.ArcInterval * float64(i)
				pos := e.cs.Point(center, vec.Radius, gmath.NormalizeHeading(hdgCenter1+hdgDelta))
				testDist, testHdgEnd := e.cs.DistanceHeadingEnd(l.Position, pos)
				pl.addPoint(l.Distance-testDist, pos, gmath.NormalizeHeading(testHdgEnd+180), vec.Radius, dir)
			}

			addedFinal := false
			if vec.HeadingChange-e.cfg.ArcInterval*float64(ptCount) > gmath.AngleThreshold {
				cur := pl.First()
				testPos := e.cs.Point(center, vec.Radius, gmath.NormalizeHeading(hdgCenter1-float64(turnDir)*e.cfg.ArcInterval*float64(ptCount)))
				testDist := e.cs.Distance(testPos, target)
				if testDist > gmath.DistanceThreshold {
					dist, hdgEnd := e.cs.DistanceHeadingEnd(cur.Position, testPos)
					pl.addPoint(cur.Distance-dist, testPos, gmath.NormalizeHeading(hdgEnd+180), vec.Radius, dir)

					targetHdg := gmath.NormalizeHeading(e.cs.HeadingEnd(center, target) + float64(turnDir)*90)
					pl.addPoint(cur.Distance-dist-testDist, target, targetHdg, math.Inf(1), Straight)
					addedFinal = true
				}
			}
			if !addedFinal {
				cur := pl.First()
				dist := e.cs.Distance(cur.Position, target)
				targetHdg := gmath.NormalizeHeading(e.cs.HeadingEnd(center, target) + float64(turnDir)*90)
				pl.addPoint(cur.Distance-dist, target, targetHdg, math.Inf(1), Straight)
			}
		}
	}
}

// expandDepartureVectors walks route.Vectors forward, extending the
// polyline's last point with positive cumulative distances
// (RouteCalculator::visitDepartureVectors).
func (e *Expander) expandDepartureVectors(pl *Polyline, route *airport.Route, seq airport.VectorSequence) {
	for _, vec := range seq.Vectors {
		last := pl.Last()

		switch v := vec.(type) {
		case airport.Straight:
			pos, hdgEnd := e.cs.PointHeadingEnd(last.Position, v.Distance, last.Heading)
			pl.addPoint(last.Distance+v.Distance, pos, hdgEnd, math.Inf(1), Straight)

		case airport.Turn:
			turnDir := -1
			if v.Direction == airport.TurnRight {
				turnDir = 1
			}
			dir := turnRenderDirection(turnDir)

			center, centerHeadingEnd := e.cs.PointHeadingEnd(last.Position, v.Radius, gmath.NormalizeHeading(last.Heading+float64(turnDir)*90))
			centerHeadingStart := gmath.NormalizeHeading(centerHeadingEnd + 180)

			ptCount := int(v.HeadingChange / e.cfg.ArcInterval)
			for i := 1; i < ptCount; i++ {
				l := pl.Last()
				hdgDelta := float64(turnDir) * e.cfg.ArcInterval * float64(i)
				pos := e.cs.Point(center, v.Radius, gmath.NormalizeHeading(centerHeadingStart+hdgDelta))
				dist, hdgEnd := e.cs.DistanceHeadingEnd(l.Position, pos)
				pl.addPoint(l.Distance+dist, pos, hdgEnd, v.Radius, dir)
			}

			addedFinal := false
			if v.HeadingChange-e.cfg.ArcInterval*float64(ptCount) > gmath.AngleThreshold {
				cur := pl.Last()
				testPos := e.cs.Point(center, v.Radius, gmath.NormalizeHeading(centerHeadingStart+float64(turnDir)*e.cfg.ArcInterval*float64(ptCount)))
				testDist := e.cs.Distance(testPos, cur.Position)
				if testDist > gmath.DistanceThreshold {
					dist, hdgEnd := e.cs.DistanceHeadingEnd(cur.Position, testPos)
					pl.addPoint(cur.Distance+dist, testPos, hdgEnd, v.Radius, dir)

					targetPos := e.cs.Point(center, v.Radius, gmath.NormalizeHeading(centerHeadingStart+float64(turnDir)*v.HeadingChange))
					distEnd, _ := e.cs.DistanceHeadingEnd(testPos, targetPos)
					targetHdg := gmath.NormalizeHeading(e.cs.HeadingEnd(center, targetPos) + 90*float64(turnDir))
					pl.addPoint(cur.Distance+dist+distEnd, targetPos, targetHdg, math.Inf(1), Straight)
					addedFinal = true
				}
			}
			if !addedFinal {
				cur := pl.Last()
				targetPos := e.cs.Point(center, v.Radius, gmath.NormalizeHeading(centerHeadingStart+float64(turnDir)*v.HeadingChange))
				targetHdg := gmath.NormalizeHeading(e.cs.HeadingEnd(center, targetPos) + 90*float64(turnDir))
				dist, _ := e.cs.DistanceHeadingEnd(cur.Position, targetPos)
				pl.addPoint(cur.Distance+dist, targetPos, targetHdg, math.Inf(1), Straight)
			}
		}
	}
}
