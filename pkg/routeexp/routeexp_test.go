// pkg/routeexp/routeexp_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routeexp

import (
	"math"
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

var inf = math.Inf(1)

func isNaN(f float64) bool { return math.IsNaN(f) }

func newTestRunway(lon, lat, heading float64) *airport.Runway {
	a := airport.New("TEST", geo.Point{Lon: lon, Lat: lat}, 0)
	rwy := airport.NewRunway("09", geo.Point{Lon: lon, Lat: lat}, 0, 3000, heading, 0)
	if err := a.AddRunway(rwy); err != nil {
		panic(err)
	}
	return rwy
}

// Scenario 1: simple departure route.
func TestExpandSimpleDeparture(t *testing.T) {
	rwy := newTestRunway(7.147559, 50.86735, 134.578)
	route := airport.NewRoute("SIDA", airport.Departure, airport.PointSequence{
		Points: []geo.Point{
			{Lon: 7.300, Lat: 50.772},
			{Lon: 7.339, Lat: 50.699},
			{Lon: 7.308, Lat: 50.633},
		},
	})
	if err := rwy.AddRoute(route); err != nil {
		t.Fatal(err)
	}

	e := New(geo.NewWGS84Geodesic(), DefaultConfig(), nil)
	pl, err := e.Expand(route)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 15096.760, 23671.549, 31333.666}
	if pl.Len() != len(want) {
		t.Fatalf("got %d points, want %d", pl.Len(), len(want))
	}
	for i, p := range pl.Points() {
		if !gmath.Close(p.Distance, want[i], 1) {
			t.Errorf("point %d distance = %v, want %v", i, p.Distance, want[i])
		}
	}
	last := pl.Last()
	if !gmath.Close(last.Heading, 196.633, 0.5) {
		t.Errorf("last heading = %v, want ~196.633", last.Heading)
	}
}

// Scenario 2: vector departure around the equator.
func TestExpandVectorDeparture(t *testing.T) {
	rwy := newTestRunway(-179.937028, -0.074171, 350.970)
	route := airport.NewRoute("SIDB", airport.Departure, airport.VectorSequence{
		Vectors: []airport.Vector{
			airport.Straight{Distance: 9200},
			airport.Turn{Radius: 5635.830, HeadingChange: 130.970, Direction: airport.TurnLeft},
		},
	})
	if err := rwy.AddRoute(route); err != nil {
		t.Fatal(err)
	}

	e := New(geo.NewWGS84Geodesic(), DefaultConfig(), nil)
	pl, err := e.Expand(route)
	if err != nil {
		t.Fatal(err)
	}

	pts := pl.Points()
	if len(pts) < 3 {
		t.Fatalf("got %d points, want at least 3", len(pts))
	}
	wantFirstThree := []float64{9200, 12117.320, 15034.640}
	for i, want := range wantFirstThree {
		if !gmath.Close(pts[i].Distance, want, 1) {
			t.Errorf("point %d distance = %v, want %v", i, pts[i].Distance, want)
		}
	}

	last := pl.Last()
	if !gmath.Close(last.Distance, 22029.659, 1) {
		t.Errorf("last distance = %v, want ~22029.659", last.Distance)
	}
	if !gmath.Close(last.Heading, 225.485, 0.5) {
		t.Errorf("last heading = %v, want ~225.485", last.Heading)
	}
}

// Scenario 3: RNP arrival at the north pole.
func TestExpandRNPArrival(t *testing.T) {
	rwy := newTestRunway(12.647, 89.956, 140)
	route := airport.NewRoute("STARA", airport.Arrival, airport.RNPSequence{
		Steps: []airport.RNPStep{
			airport.TrackToFix{Point: geo.Point{Lon: -155.503296, Lat: 89.938687}},
			airport.RadiusToFix{
				Point:  geo.Point{Lon: -58.709728, Lat: 89.969632},
				Center: geo.Point{Lon: 176.507259, Lat: 89.980151},
			},
		},
	})
	if err := rwy.AddRoute(route); err != nil {
		t.Fatal(err)
	}

	e := New(geo.NewWGS84Geodesic(), DefaultConfig(), nil)
	pl, err := e.Expand(route)
	if err != nil {
		t.Fatal(err)
	}

	if pl.Len() != 6 {
		t.Fatalf("got %d points, want 6", pl.Len())
	}
	last := pl.Last()
	if !gmath.Close(last.Position.Lon, rwy.Threshold.Lon, 1e-6) || !gmath.Close(last.Position.Lat, rwy.Threshold.Lat, 1e-6) {
		t.Errorf("last point should be the runway threshold, got %+v", last.Position)
	}
	secondToLast := pl.Points()[pl.Len()-2]
	if !gmath.Close(secondToLast.Heading, 68.643, 0.5) {
		t.Errorf("last arc point heading = %v, want ~68.643", secondToLast.Heading)
	}
}

func TestTurnRadiusChange(t *testing.T) {
	pl := &Polyline{}
	pl.addPoint(0, geo.Point{}, 0, inf, Straight)
	pl.addPoint(2000, geo.Point{}, 0, inf, Straight)
	pl.addPoint(3000, geo.Point{}, 0, 2000, RightTurn)
	pl.addPoint(3500, geo.Point{}, 0, 3000, RightTurn)
	pl.addPoint(4000, geo.Point{}, 0, inf, Straight)

	if r := pl.TurnRadius(-500); r != inf {
		t.Errorf("TurnRadius(-500) = %v, want +Inf", r)
	}
	if r := pl.TurnRadius(3000); r != 2000 {
		t.Errorf("TurnRadius(3000) = %v, want 2000", r)
	}
	if r := pl.TurnRadius(4500); r != inf {
		t.Errorf("TurnRadius(4500) = %v, want +Inf", r)
	}

	if c := pl.TurnRadiusChange(2500, 3500); !gmath.Close(c, 3000, 1e-9) {
		t.Errorf("TurnRadiusChange(2500,3500) = %v, want 3000", c)
	}
	if c := pl.TurnRadiusChange(-500, 1000); !isNaN(c) {
		t.Errorf("TurnRadiusChange(-500,1000) = %v, want NaN", c)
	}
	if c := pl.TurnRadiusChange(3000, 3500); !isNaN(c) {
		t.Errorf("TurnRadiusChange(3000,3500) = %v, want NaN", c)
	}
}
