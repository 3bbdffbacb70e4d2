// pkg/airport/airport.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package airport implements the Airport/Runway/Route data model: an
// airport owns a registry of runways, each runway owns arrival and
// departure route registries. Registries use
// github.com/iancoleman/orderedmap so iteration order matches insertion
// order, useful for reproducible logging and deterministic test
// fixtures.
package airport

import (
	"github.com/iancoleman/orderedmap"

	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

// Airport is the root of the route/runway ownership tree.
type Airport struct {
	Name                       string
	Reference                  geo.Point
	ReferenceElevation         float64
	ReferenceTemperatureOffset float64
	ReferencePressureOffset    float64

	runways *orderedmap.OrderedMap
}

// New constructs an Airport with an empty runway registry.
func New(name string, reference geo.Point, referenceElevation float64) *Airport {
	return &Airport{
		Name:               name,
		Reference:          reference,
		ReferenceElevation: referenceElevation,
		runways:            orderedmap.New(),
	}
}

// AddRunway validates and registers a runway, keyed by name.
func (a *Airport) AddRunway(rwy *Runway) error {
	if rwy.Heading < 0 || rwy.Heading >= 360 {
		return grerr.NewValidation("Heading", rwy.Heading, "must be in [0, 360)")
	}
	if rwy.Length <= 0 {
		return grerr.NewValidation("Length", rwy.Length, "must be > 0")
	}
	if rwy.Gradient < -1 || rwy.Gradient > 1 {
		return grerr.NewValidation("Gradient", rwy.Gradient, "must be in [-1, 1]")
	}
	rwy.airport = a
	a.runways.Set(rwy.Name, rwy)
	return nil
}

// Runway looks up a runway by name.
func (a *Airport) Runway(name string) (*Runway, bool) {
	v, ok := a.runways.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Runway), true
}

// RunwayNames returns runway names in registration order.
func (a *Airport) RunwayNames() []string { return a.runways.Keys() }

// Runway belongs to exactly one Airport (back-reference, lifetime <=
// airport), and owns arrival and departure route registries keyed by
// name.
type Runway struct {
	Name      string
	Threshold geo.Point
	Elevation float64
	Length    float64
	Heading   float64
	Gradient  float64

	airport *Airport

	arrivals   *orderedmap.OrderedMap
	departures *orderedmap.OrderedMap
}

// NewRunway constructs a Runway not yet attached to an airport; call
// Airport.AddRunway to validate and attach it.
func NewRunway(name string, threshold geo.Point, elevation, length, heading, gradient float64) *Runway {
	return &Runway{
		Name:       name,
		Threshold:  threshold,
		Elevation:  elevation,
		Length:     length,
		Heading:    heading,
		Gradient:   gradient,
		arrivals:   orderedmap.New(),
		departures: orderedmap.New(),
	}
}

// Airport returns the owning airport, or nil if not yet attached.
func (r *Runway) Airport() *Airport { return r.airport }

// ElevationAt returns elevation + distance*gradient.
func (r *Runway) ElevationAt(distance float64) float64 {
	return r.Elevation + distance*r.Gradient
}

// AddRoute registers route under this runway, keyed by name, in the
// registry matching its direction.
func (r *Runway) AddRoute(route *Route) error {
	if err := route.Validate(); err != nil {
		return err
	}
	route.runway = r
	switch route.Direction {
	case Arrival:
		r.arrivals.Set(route.Name, route)
	case Departure:
		r.departures.Set(route.Name, route)
	}
	return nil
}

func (r *Runway) ArrivalRoute(name string) (*Route, bool) {
	v, ok := r.arrivals.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Route), true
}

func (r *Runway) DepartureRoute(name string) (*Route, bool) {
	v, ok := r.departures.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Route), true
}

func (r *Runway) ArrivalRouteNames() []string { return r.arrivals.Keys() }

func (r *Runway) DepartureRouteNames() []string { return r.departures.Keys() }
