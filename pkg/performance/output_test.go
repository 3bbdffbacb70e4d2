// pkg/performance/output_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package performance

import (
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

func buildOutput() *Output {
	var out Output
	out.addPoint(Point{CumulativeGroundDistance: 0, Time: 0, Groundspeed: 70, AltitudeMsl: 0, TrueAirspeed: 70, CorrNetThrustPerEng: 200000, BankAngle: 0})
	out.addPoint(Point{CumulativeGroundDistance: 1000, Time: 13, Groundspeed: 90, AltitudeMsl: 100, TrueAirspeed: 92, CorrNetThrustPerEng: 180000, BankAngle: 5})
	return &out
}

func TestOutputAddPointSkipsDuplicate(t *testing.T) {
	out := buildOutput()
	n := out.Len()
	out.addPoint(Point{CumulativeGroundDistance: 1000, Groundspeed: 999})
	if out.Len() != n {
		t.Errorf("duplicate distance should not add a point, len = %d want %d", out.Len(), n)
	}
}

func TestOutputRecalculateTime(t *testing.T) {
	out := buildOutput()
	out.recalculateTime(1000)
	if out.First().Time != 1000 {
		t.Errorf("first point time = %v, want 1000 (anchor)", out.First().Time)
	}
	wantDelta := int64(1000 / ((70.0 + 90.0) / 2))
	if out.Last().Time != 1000+wantDelta {
		t.Errorf("second point time = %v, want %v", out.Last().Time, 1000+wantDelta)
	}
}

func TestOutputSpeedSegmentationInsertsPoints(t *testing.T) {
	out := buildOutput()
	cs := geo.NewWGS84Geodesic()
	out.speedSegmentation(cs, 5)

	if out.Len() <= 2 {
		t.Fatalf("expected inserted points for a 20 m/s delta over a 5 m/s minimum, got %d points", out.Len())
	}
	for i := 1; i < out.Len(); i++ {
		if out.points[i].CumulativeGroundDistance <= out.points[i-1].CumulativeGroundDistance {
			t.Fatalf("points must stay strictly increasing in cumulative ground distance, got %v then %v", out.points[i-1].CumulativeGroundDistance, out.points[i].CumulativeGroundDistance)
		}
	}
	for i := 1; i < out.Len()-1; i++ {
		if out.points[i].Groundspeed <= out.points[i-1].Groundspeed || out.points[i].Groundspeed >= out.points[i+1].Groundspeed {
			t.Errorf("inserted point %d groundspeed = %v, want strictly between neighbors", i, out.points[i].Groundspeed)
		}
	}
}

func TestOutputSpeedSegmentationNoOpBelowMinimum(t *testing.T) {
	out := buildOutput()
	cs := geo.NewWGS84Geodesic()
	out.speedSegmentation(cs, 50)
	if out.Len() != 2 {
		t.Errorf("a 20 m/s delta under a 50 m/s minimum should not segment, got %d points", out.Len())
	}
}

func TestOutputGroundDistanceFilter(t *testing.T) {
	var out Output
	out.addPoint(Point{CumulativeGroundDistance: 0})
	out.addPoint(Point{CumulativeGroundDistance: 5})
	out.addPoint(Point{CumulativeGroundDistance: 1000})

	deleted := out.groundDistanceFilter(10)
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if out.Len() != 2 {
		t.Fatalf("len = %d, want 2", out.Len())
	}
	if !gmath.Close(out.points[1].CumulativeGroundDistance, 1000, gmath.Precision) {
		t.Errorf("surviving point distance = %v, want 1000", out.points[1].CumulativeGroundDistance)
	}
}
