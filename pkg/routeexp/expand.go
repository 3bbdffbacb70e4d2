// pkg/routeexp/expand.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routeexp

import (
	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
	"github.com/goncaloroque30/grape-core/pkg/log"
)

// Config holds the expander's tunable thresholds (RouteCalculator's
// static s_* fields in the original).
type Config struct {
	// ArcInterval is the heading-change step (degrees) used to
	// discretize turns and RNP radius-to-fix arcs. Default 10.
	ArcInterval float64
	// WarnHeadingChange is the per-point heading change (degrees)
	// above which the expander logs a warning. Default 90.
	WarnHeadingChange float64
	// WarnRnpRadiusDifference is the radius mismatch (meters) between
	// an RNP radius-to-fix turn's two endpoints above which the
	// expander logs a warning. Default 10.
	WarnRnpRadiusDifference float64
}

// DefaultConfig matches RouteCalculator's default static thresholds.
func DefaultConfig() Config {
	return Config{ArcInterval: 10, WarnHeadingChange: 90, WarnRnpRadiusDifference: 10}
}

// Expander walks airport.Route variants into Polylines, grounded on
// RouteCalculator.cpp's visitor dispatch.
type Expander struct {
	cs  geo.CoordinateSystem
	cfg Config
	log *log.Logger
}

// New constructs an Expander. logger may be nil, in which case warnings
// are discarded.
func New(cs geo.CoordinateSystem, cfg Config, logger *log.Logger) *Expander {
	if logger == nil {
		logger = log.Discard()
	}
	return &Expander{cs: cs, cfg: cfg, log: logger}
}

// Expand produces the Polyline for route, dispatching on its direction
// and lateral-path variant (the six RouteCalculator visitor methods).
func (e *Expander) Expand(route *airport.Route) (*Polyline, error) {
	rwy := route.Runway()
	if rwy == nil {
		return nil, grerr.NewValidation("Route.Runway", nil, "route must be attached to a runway before expansion")
	}

	pl := newPolylineAtThreshold(rwy.Threshold, rwy.Heading)

	switch variant := route.Variant.(type) {
	case airport.PointSequence:
		if route.Direction == airport.Arrival {
			e.expandArrivalSimple(pl, route, variant)
		} else {
			e.expandDepartureSimple(pl, route, variant)
			pl.recalculateHeadings(e.cs)
		}
	case airport.VectorSequence:
		if route.Direction == airport.Arrival {
			e.expandArrivalVectors(pl, route, variant)
		} else {
			e.expandDepartureVectors(pl, route, variant)
			pl.recalculateHeadings(e.cs)
		}
	case airport.RNPSequence:
		if route.Direction == airport.Arrival {
			e.expandArrivalRNP(pl, route, variant)
		} else {
			e.expandDepartureRNP(pl, route, variant)
			pl.recalculateHeadings(e.cs)
		}
	}

	return pl, nil
}

// warnHeadingChange logs when a point changes aircraft heading by more
// than cfg.WarnHeadingChange, mirroring RouteCalculator's per-step
// s_WarnHeadingChange checks.
func (e *Expander) warnHeadingChange(route *airport.Route, pos geo.Point, hdgChange float64) {
	if hdgChange <= e.cfg.WarnHeadingChange {
		return
	}
	e.log.Warnf("route %q runway %q airport %q: point at lon %.6f lat %.6f changes aircraft heading by %.0f (more than %.0f degrees)",
		route.Name, route.Runway().Name, route.Runway().Airport().Name, pos.Lon, pos.Lat, hdgChange, e.cfg.WarnHeadingChange)
}

// warnRadiusDifference logs when an RNP radius-to-fix turn's two radii
// differ by more than cfg.WarnRnpRadiusDifference.
func (e *Expander) warnRadiusDifference(route *airport.Route, pos geo.Point, diff float64) {
	if diff <= e.cfg.WarnRnpRadiusDifference {
		return
	}
	e.log.Warnf("route %q runway %q airport %q: radius-to-fix turn ending at lon %.6f lat %.6f changes turn radius by %.0f (more than %.0f meters)",
		route.Name, route.Runway().Name, route.Runway().Airport().Name, pos.Lon, pos.Lat, diff, e.cfg.WarnRnpRadiusDifference)
}

// stepPoint extracts the (lon,lat) of an RNP step regardless of its
// concrete type.
func stepPoint(step airport.RNPStep) geo.Point {
	switch s := step.(type) {
	case airport.TrackToFix:
		return s.Point
	case airport.RadiusToFix:
		return s.Point
	default:
		return geo.Point{}
	}
}
