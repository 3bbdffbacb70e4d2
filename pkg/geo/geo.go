// pkg/geo/geo.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package geo implements the coordinate-system capability set: the
// direct and inverse geodesic problems, plus the foot-of-perpendicular
// intersection used by the noise generator, behind
// one interface with two implementations — a WGS84 ellipsoidal geodesic
// and a local tangent-plane approximation.
//
// The C++ implementation leans on GeographicLib's Karney algorithm;
// with no established Go port of it, WGS84Geodesic below implements
// Vincenty's direct and inverse formulae (T. Vincenty, 1975) — the
// same ellipsoidal geodesic problem, converging to millimeter accuracy
// for all but near-antipodal point pairs, which airport-scale terminal
// routes never produce.
package geo


// intersectionTieBreak is the 5 cm neighborhood around the segment
// endpoints used when classifying a perpendicular foot as behind,
// between or ahead.
const intersectionTieBreak = 0.05

// Point is a WGS84 (longitude, latitude) pair in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// Intersection classifies where the foot of perpendicular from a third
// point falls relative to segment P1->P2.
type Intersection int

const (
	Behind Intersection = iota
	Between
	Ahead
)

func (i Intersection) String() string {
	switch i {
	case Behind:
		return "behind"
	case Ahead:
		return "ahead"
	default:
		return "between"
	}
}

// CoordinateSystem is the capability set every implementation provides:
// distance, heading-start, heading-end, distance-and-heading, the direct
// problem (point / point-and-end-heading), perpendicular intersection,
// and turn-direction classification.
type CoordinateSystem interface {
	// Distance returns the distance in meters between p1 and p2 (inverse problem).
	Distance(p1, p2 Point) float64
	// HeadingStart returns the heading at p1 in [0,360) when going to p2.
	HeadingStart(p1, p2 Point) float64
	// HeadingEnd returns the heading at p2 in [0,360) when arriving from p1.
	HeadingEnd(p1, p2 Point) float64
	// DistanceHeading returns distance and start heading together.
	DistanceHeading(p1, p2 Point) (dist, heading float64)
	// DistanceHeadingEnd returns distance and end heading together.
	DistanceHeadingEnd(p1, p2 Point) (dist, heading float64)
	// Point returns the point at distance d and heading h from p1 (direct problem).
	Point(p1 Point, dist, heading float64) Point
	// PointHeadingEnd returns the direct-problem point along with the
	// heading at that point (end heading of the traveled geodesic).
	PointHeadingEnd(p1 Point, dist, heading float64) (p Point, headingEnd float64)
	// Intersection returns the foot of perpendicular from p3 onto the
	// line through p1,p2 (extended), and its classification.
	Intersection(p1, p2, p3 Point) (foot Point, class Intersection)
	// TurnDirection returns 1 for a right turn, -1 for a left turn, 0 if
	// p3 is on the line through p1,p2.
	TurnDirection(p1, p2, p3 Point) int
}
