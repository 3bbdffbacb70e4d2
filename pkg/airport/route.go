// pkg/airport/route.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airport

import (
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

// Direction tags a Route as serving arrivals or departures.
type Direction int

const (
	Arrival Direction = iota
	Departure
)

func (d Direction) String() string {
	if d == Arrival {
		return "arrival"
	}
	return "departure"
}

// Route is a sum type over three lateral-path variants:
// PointSequence, VectorSequence, RNPSequence. Variant is a closed
// interface and the route expander
// (pkg/routeexp) type-switches over it instead of using double dispatch.
type Route struct {
	Name      string
	Direction Direction
	Variant   RouteVariant

	runway *Runway
}

// NewRoute constructs a Route; call Runway.AddRoute to validate and
// attach it to its owning runway.
func NewRoute(name string, direction Direction, variant RouteVariant) *Route {
	return &Route{Name: name, Direction: direction, Variant: variant}
}

// Runway returns the owning runway, or nil if not yet attached.
func (r *Route) Runway() *Runway { return r.runway }

// Validate runs the variant's own invariant checks.
func (r *Route) Validate() error {
	return r.Variant.validate()
}

// RouteVariant is the closed set of lateral-route representations.
type RouteVariant interface {
	validate() error
	isRouteVariant()
}

///////////////////////////////////////////////////////////////////////////
// Point sequence

// PointSequence is an ordered list of (longitude, latitude) waypoints.
type PointSequence struct {
	Points []geo.Point
}

func (p PointSequence) isRouteVariant() {}

func (p PointSequence) validate() error {
	for i, pt := range p.Points {
		if pt.Lon < -180 || pt.Lon > 180 {
			return grerr.NewValidation("Points[].Lon", pt.Lon, "must be in [-180, 180]")
		}
		_ = i
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Vector sequence

// TurnDirection of a turn vector.
type TurnDirection int

const (
	TurnLeft TurnDirection = iota
	TurnRight
)

// Vector is one element of a VectorSequence: either a straight leg or a
// turn.
type Vector interface {
	isVector()
}

// Straight advances by Distance (> 0) along the current heading.
type Straight struct {
	Distance float64
}

func (Straight) isVector() {}

// Turn advances along an arc of the given Radius (> 0), turning by
// HeadingChange (>= 0) degrees in Direction.
type Turn struct {
	Radius        float64
	HeadingChange float64
	Direction     TurnDirection
}

func (Turn) isVector() {}

// VectorSequence is an ordered list of straight/turn vectors.
type VectorSequence struct {
	Vectors []Vector
}

func (v VectorSequence) isRouteVariant() {}

func (v VectorSequence) validate() error {
	for _, vec := range v.Vectors {
		switch t := vec.(type) {
		case Straight:
			if t.Distance <= 0 {
				return grerr.NewValidation("Straight.Distance", t.Distance, "must be > 0")
			}
		case Turn:
			if t.Radius <= 0 {
				return grerr.NewValidation("Turn.Radius", t.Radius, "must be > 0")
			}
			if t.HeadingChange < 0 {
				return grerr.NewValidation("Turn.HeadingChange", t.HeadingChange, "must be >= 0")
			}
		}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// RNP (track-to-fix / radius-to-fix) sequence

// RNPStep is one element of an RNPSequence.
type RNPStep interface {
	isRNPStep()
}

// TrackToFix flies a great-circle/geodesic track to Point.
type TrackToFix struct {
	Point geo.Point
}

func (TrackToFix) isRNPStep() {}

// RadiusToFix flies an arc to Point, centered at Center.
type RadiusToFix struct {
	Point  geo.Point
	Center geo.Point
}

func (RadiusToFix) isRNPStep() {}

// RNPSequence is an ordered list of RNP steps; the first step cannot be
// a RadiusToFix.
type RNPSequence struct {
	Steps []RNPStep
}

func (r RNPSequence) isRouteVariant() {}

func (r RNPSequence) validate() error {
	if len(r.Steps) == 0 {
		return grerr.NewValidation("Steps", 0, "must have at least one step")
	}
	if _, ok := r.Steps[0].(RadiusToFix); ok {
		return grerr.NewValidation("Steps[0]", r.Steps[0], "first RNP step cannot be radius-to-fix")
	}
	return nil
}
