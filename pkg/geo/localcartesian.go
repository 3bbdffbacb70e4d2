// pkg/geo/localcartesian.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// LocalCartesian projects WGS84 coordinates onto a Cartesian plane
// tangent to the ellipsoid at a configurable anchor point, trading
// curvature accuracy away from the anchor for much cheaper arithmetic,
// while still answering the segment intersection and turn-direction
// queries of the CoordinateSystem interface exactly within the projected
// plane.
type LocalCartesian struct {
	anchor           Point
	metersPerDegLon  float64
	metersPerDegLat  float64
}

// NewLocalCartesian constructs a tangent-plane coordinate system
// centered at anchor. Distances are only accurate near the anchor; the
// caller is responsible for choosing an anchor appropriate to the
// geographic extent of the operation (e.g. the runway threshold).
func NewLocalCartesian(anchor Point) *LocalCartesian {
	latRad := gmath.Radians(anchor.Lat)
	a := gmath.WGS84SemiMajorAxis
	f := gmath.WGS84Flattening
	e2 := f * (2 - f)

	// Meridional and prime-vertical radii of curvature at the anchor
	// latitude give a locally-accurate meters-per-degree scale.
	sinLat := math.Sin(latRad)
	meridionalRadius := a * (1 - e2) / math.Pow(1-e2*sinLat*sinLat, 1.5)
	primeVerticalRadius := a / math.Sqrt(1-e2*sinLat*sinLat)

	return &LocalCartesian{
		anchor:          anchor,
		metersPerDegLat: meridionalRadius * math.Pi / 180,
		metersPerDegLon: primeVerticalRadius * math.Cos(latRad) * math.Pi / 180,
	}
}

// xy returns the Cartesian (east, north) offset of p from the anchor, in
// meters.
func (c *LocalCartesian) xy(p Point) (east, north float64) {
	return (p.Lon - c.anchor.Lon) * c.metersPerDegLon, (p.Lat - c.anchor.Lat) * c.metersPerDegLat
}

func (c *LocalCartesian) fromXY(east, north float64) Point {
	return Point{
		Lon: c.anchor.Lon + east/c.metersPerDegLon,
		Lat: c.anchor.Lat + north/c.metersPerDegLat,
	}
}

func (c *LocalCartesian) Distance(p1, p2 Point) float64 {
	e1, n1 := c.xy(p1)
	e2, n2 := c.xy(p2)
	return math.Hypot(e2-e1, n2-n1)
}

func (c *LocalCartesian) headingBetween(p1, p2 Point) float64 {
	e1, n1 := c.xy(p1)
	e2, n2 := c.xy(p2)
	h := gmath.Degrees(math.Atan2(e2-e1, n2-n1))
	return gmath.NormalizeHeading(h)
}

func (c *LocalCartesian) HeadingStart(p1, p2 Point) float64 { return c.headingBetween(p1, p2) }

// HeadingEnd is the same as HeadingStart on a flat plane (no great-circle
// convergence of meridians to account for).
func (c *LocalCartesian) HeadingEnd(p1, p2 Point) float64 { return c.headingBetween(p1, p2) }

func (c *LocalCartesian) DistanceHeading(p1, p2 Point) (float64, float64) {
	return c.Distance(p1, p2), c.HeadingStart(p1, p2)
}

func (c *LocalCartesian) DistanceHeadingEnd(p1, p2 Point) (float64, float64) {
	return c.Distance(p1, p2), c.HeadingEnd(p1, p2)
}

func (c *LocalCartesian) Point(p1 Point, dist, heading float64) Point {
	e1, n1 := c.xy(p1)
	h := gmath.Radians(heading)
	return c.fromXY(e1+dist*math.Sin(h), n1+dist*math.Cos(h))
}

func (c *LocalCartesian) PointHeadingEnd(p1 Point, dist, heading float64) (Point, float64) {
	return c.Point(p1, dist, heading), gmath.NormalizeHeading(heading)
}

// Intersection solves the planar foot-of-perpendicular exactly (no
// iteration needed on a flat plane). The 5 cm endpoint tie-break is
// applied in parametric form, normalized by the segment length, on
// both the behind and the ahead side.
func (c *LocalCartesian) Intersection(p1, p2, p3 Point) (Point, Intersection) {
	e1, n1 := c.xy(p1)
	e2, n2 := c.xy(p2)
	e3, n3 := c.xy(p3)

	dx, dy := e2-e1, n2-n1
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return p1, Between
	}

	t := ((e3-e1)*dx + (n3-n1)*dy) / segLenSq
	footE := e1 + t*dx
	footN := n1 + t*dy

	prec5Cm := intersectionTieBreak / math.Sqrt(segLenSq)

	class := Behind
	if t > -prec5Cm {
		if t < 1+prec5Cm {
			class = Between
		} else {
			class = Ahead
		}
	}
	return c.fromXY(footE, footN), class
}

func (c *LocalCartesian) TurnDirection(p1, p2, p3 Point) int {
	return genericTurnDirection(c, p1, p2, p3)
}
