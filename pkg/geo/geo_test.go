// pkg/geo/geo_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

func TestWGS84RoundTrip(t *testing.T) {
	g := NewWGS84Geodesic()
	p1 := Point{Lon: -9.1393, Lat: 38.7813}
	p2 := Point{Lon: -8.6109, Lat: 41.2481}

	dist, hdg := g.DistanceHeading(p1, p2)
	got := g.Point(p1, dist, hdg)

	if !gmath.Close(got.Lon, p2.Lon, 1e-6) || !gmath.Close(got.Lat, p2.Lat, 1e-6) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p2)
	}
}

func TestWGS84NorthPole(t *testing.T) {
	g := NewWGS84Geodesic()
	p1 := Point{Lon: 0, Lat: 89.999}
	p2 := Point{Lon: 180, Lat: 89.999}

	dist := g.Distance(p1, p2)
	if !gmath.Close(dist, 223.388, 0.01) {
		t.Errorf("distance = %v, want ~223.388", dist)
	}

	hdgStart := g.HeadingStart(p1, p2)
	if !gmath.Close(hdgStart, 0, 0.1) {
		t.Errorf("start heading = %v, want ~0", hdgStart)
	}

	hdgEnd := g.HeadingEnd(p1, p2)
	if !gmath.Close(hdgEnd, 180, 0.1) {
		t.Errorf("end heading = %v, want ~180", hdgEnd)
	}
}

func TestWGS84Antimeridian(t *testing.T) {
	g := NewWGS84Geodesic()
	p1 := Point{Lon: 179.999, Lat: 0}
	p2 := Point{Lon: -179.999, Lat: 0}

	dist, hdg := g.DistanceHeading(p1, p2)
	if !gmath.Close(dist, 222.639, 0.01) {
		t.Errorf("distance = %v, want ~222.639", dist)
	}
	if !gmath.Close(hdg, 90, 0.1) {
		t.Errorf("heading = %v, want 90", hdg)
	}
}

func TestIntersectionEndpoints(t *testing.T) {
	for _, cs := range []CoordinateSystem{NewWGS84Geodesic(), NewLocalCartesian(Point{Lon: 10, Lat: 50})} {
		p1 := Point{Lon: 10, Lat: 50}
		p2 := Point{Lon: 10.001, Lat: 50.001}

		foot, class := cs.Intersection(p1, p2, p1)
		if class != Between {
			t.Errorf("p3=p1: class = %v, want between", class)
		}
		if !gmath.Close(foot.Lon, p1.Lon, 1e-6) || !gmath.Close(foot.Lat, p1.Lat, 1e-6) {
			t.Errorf("p3=p1: foot = %+v, want %+v", foot, p1)
		}

		foot, class = cs.Intersection(p1, p2, p2)
		if class != Between {
			t.Errorf("p3=p2: class = %v, want between", class)
		}
		if !gmath.Close(foot.Lon, p2.Lon, 1e-6) || !gmath.Close(foot.Lat, p2.Lat, 1e-6) {
			t.Errorf("p3=p2: foot = %+v, want %+v", foot, p2)
		}
	}
}

func TestIntersectionCategories(t *testing.T) {
	g := NewWGS84Geodesic()
	p1 := Point{Lon: 10.0, Lat: 50.0}
	p2 := Point{Lon: 10.001, Lat: 50.001}

	// Between.
	_, class := g.Intersection(p1, p2, Point{Lon: 10.000512, Lat: 50.000588})
	if class != Between {
		t.Errorf("expected between, got %v", class)
	}

	// Ahead.
	_, class = g.Intersection(p1, p2, Point{Lon: 10.001288, Lat: 50.001215})
	if class != Ahead {
		t.Errorf("expected ahead, got %v", class)
	}

	// Behind.
	_, class = g.Intersection(p1, p2, Point{Lon: 9.999771, Lat: 49.999820})
	if class != Behind {
		t.Errorf("expected behind, got %v", class)
	}
}

func TestTurnDirection(t *testing.T) {
	g := NewWGS84Geodesic()
	p1 := Point{Lon: 0, Lat: 0}
	p2 := Point{Lon: 0, Lat: 1}
	right := Point{Lon: 1, Lat: 1}
	left := Point{Lon: -1, Lat: 1}

	if d := g.TurnDirection(p1, p2, right); d != 1 {
		t.Errorf("right turn: got %d, want 1", d)
	}
	if d := g.TurnDirection(p1, p2, left); d != -1 {
		t.Errorf("left turn: got %d, want -1", d)
	}
}
