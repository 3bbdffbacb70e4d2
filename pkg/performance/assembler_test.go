// pkg/performance/assembler_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package performance

import (
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/operation"
	"github.com/goncaloroque30/grape-core/pkg/routeexp"
)

func straightRoute(t *testing.T, direction airport.Direction) (*airport.Route, *routeexp.Polyline) {
	t.Helper()
	rwy := airport.NewRunway("09", geo.Point{Lon: 0, Lat: 0}, 100, 3000, 90, 0)
	route := airport.NewRoute("straight", direction, airport.VectorSequence{
		Vectors: []airport.Vector{airport.Straight{Distance: 50000}},
	})
	if err := rwy.AddRoute(route); err != nil {
		t.Fatal(err)
	}

	exp := routeexp.New(geo.NewWGS84Geodesic(), routeexp.DefaultConfig(), nil)
	pl, err := exp.Expand(route)
	if err != nil {
		t.Fatal(err)
	}
	return route, pl
}

func assemblerTestAircraft(t *testing.T) *doc29.Aircraft {
	t.Helper()
	acft, err := doc29.NewAircraft("A320", 2, 120000, 15)
	if err != nil {
		t.Fatal(err)
	}
	land, err := doc29.NewAeroCoefficients("land", doc29.Land, 0.1, 0, 0, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	acft.AddAeroCoefficients(land)

	takeoff, err := doc29.NewAeroCoefficients("takeoff", doc29.Takeoff, 0.12, 0.01, 0.001, 0)
	if err != nil {
		t.Fatal(err)
	}
	acft.AddAeroCoefficients(takeoff)

	th := doc29.NewRatingThrust()
	th.SetCoefficients(doc29.MaximumTakeoff, doc29.RatingCoefficients{E: 250000, F: -40, Ga: -5, Gb: 0, H: -300})
	th.SetCoefficients(doc29.MaximumClimb, doc29.RatingCoefficients{E: 180000, F: -30, Ga: -4, Gb: 0, H: -200})
	th.SetCoefficients(doc29.Idle, doc29.RatingCoefficients{E: 15000, F: -2, Ga: -0.5, Gb: 0, H: -20})
	acft.Thrust = th

	return acft
}

func TestAssembleArrival(t *testing.T) {
	route, pl := straightRoute(t, airport.Arrival)
	acft := assemblerTestAircraft(t)
	land, _ := acft.AeroCoefficients("land")

	profile := &doc29.ArrivalProceduralProfile{
		Name: "default",
		AirSteps: []doc29.ArrivalStep{
			doc29.DescendIdle{StartAltitudeAfe: 3000, DescentAngle: -3, StartCalibratedAirspeed: 110},
			doc29.LevelIdle{GroundDistance: 4000, StartCalibratedAirspeed: 80},
		},
		Land: doc29.DescendLand{
			AeroCoefficients:             land,
			DescentAngle:                 -3,
			ThresholdCrossingAltitudeAfe: 15,
			TouchdownRoll:                500,
		},
		GroundSteps: []doc29.GroundDecelerate{
			{GroundDistance: 1500, StartCalibratedAirspeed: 60, StartThrustPercentage: 0.1},
		},
	}
	if err := profile.Validate(); err != nil {
		t.Fatal(err)
	}
	acft.AddArrivalProfile(profile)

	calc := doc29.NewCalculator(atmos.Standard(), acft, route.Runway(), pl, 60000, nil)
	profOut, err := calc.CalculateArrival(profile)
	if err != nil {
		t.Fatal(err)
	}

	flight := &operation.FlightArrival{
		OpName: "TEST1", Route: route, Acft: acft, Prof: profile,
		Weight: 60000, Time: 36000, Count: 1,
	}

	asm := NewAssembler(geo.NewWGS84Geodesic(), DefaultConfig(), nil, nil)
	out, err := asm.AssembleArrival(flight, pl, profOut, atmos.Standard())
	if err != nil {
		t.Fatalf("unexpected infeasibility: %v", err)
	}
	if out.Len() < 2 {
		t.Fatal("expected at least 2 points")
	}
	if out.First().Time != flight.Time {
		t.Errorf("first point time = %v, want anchor %v", out.First().Time, flight.Time)
	}
	for i := 1; i < out.Len(); i++ {
		if out.points[i].CumulativeGroundDistance <= out.points[i-1].CumulativeGroundDistance {
			t.Fatalf("cumulative ground distance must be strictly increasing, got %v then %v",
				out.points[i-1].CumulativeGroundDistance, out.points[i].CumulativeGroundDistance)
		}
		if out.points[i].Time < out.points[i-1].Time {
			t.Errorf("time must be non-decreasing, got %v then %v", out.points[i-1].Time, out.points[i].Time)
		}
	}

	sawFinalApproach := false
	for _, p := range out.Points() {
		if p.PtOrigin == FinalApproachSegmentation {
			sawFinalApproach = true
			break
		}
	}
	if !sawFinalApproach {
		t.Error("expected at least one final-approach default-height segmentation point")
	}
}

func TestAssembleDeparture(t *testing.T) {
	route, pl := straightRoute(t, airport.Departure)
	acft := assemblerTestAircraft(t)
	takeoff, _ := acft.AeroCoefficients("takeoff")

	profile := &doc29.DepartureProceduralProfile{
		Name: "default",
		Steps: []doc29.DepartureStep{
			doc29.Takeoff{AeroCoefficients: takeoff, InitialCalibratedAirspeed: 75},
			doc29.Climb{AeroCoefficients: takeoff, EndAltitudeAfe: 1000},
			doc29.ClimbAcceleratePercentage{AeroCoefficients: takeoff, EndCalibratedAirspeed: 160, AccelerationFraction: 0.3},
		},
		ThrustCutback: 2,
	}
	if err := profile.Validate(); err != nil {
		t.Fatal(err)
	}
	acft.AddDepartureProfile(profile)

	calc := doc29.NewCalculator(atmos.Standard(), acft, route.Runway(), pl, 60000, nil)
	profOut, err := calc.CalculateDeparture(profile, 1.0, 0.9)
	if err != nil {
		t.Fatal(err)
	}

	flight := &operation.FlightDeparture{
		OpName: "TEST2", Route: route, Acft: acft, Prof: profile,
		Weight: 60000, Time: 36000, Count: 1,
		ThrustPercentTakeoff: 1.0, ThrustPercentClimb: 0.9,
	}

	asm := NewAssembler(geo.NewWGS84Geodesic(), DefaultConfig(), nil, nil)
	out, err := asm.AssembleDeparture(flight, pl, profOut, atmos.Standard())
	if err != nil {
		t.Fatalf("unexpected infeasibility: %v", err)
	}
	if out.Len() < 2 {
		t.Fatal("expected at least 2 points")
	}

	first, last := out.First(), out.Last()
	if last.AltitudeMsl <= first.AltitudeMsl {
		t.Error("departure performance output should climb")
	}
	if last.CumulativeGroundDistance <= first.CumulativeGroundDistance {
		t.Error("departure performance output should advance downrange")
	}

	sawTakeoffRollSeg, sawInitialClimbSeg := false, false
	for _, p := range out.Points() {
		switch p.PtOrigin {
		case TakeoffRollSegmentation:
			sawTakeoffRollSeg = true
		case InitialClimbSegmentation:
			sawInitialClimbSeg = true
		}
	}
	if !sawTakeoffRollSeg {
		t.Error("expected at least one takeoff-roll segmentation point")
	}
	if !sawInitialClimbSeg {
		t.Error("expected at least one initial-climb segmentation point")
	}
}
