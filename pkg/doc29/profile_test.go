// pkg/doc29/profile_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import "testing"

func TestArrivalProceduralProfileValidate(t *testing.T) {
	land, err := NewAeroCoefficients("land", Land, 0.1, 0, 0, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	cruise, err := NewAeroCoefficients("cruise", Cruise, 0.1, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	valid := &ArrivalProceduralProfile{
		Name: "ok",
		Land: DescendLand{AeroCoefficients: land, DescentAngle: -3, ThresholdCrossingAltitudeAfe: 15, TouchdownRoll: 300},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid profile, got %v", err)
	}

	wrongType := &ArrivalProceduralProfile{
		Name: "wrong-type",
		Land: DescendLand{AeroCoefficients: cruise, DescentAngle: -3, ThresholdCrossingAltitudeAfe: 15, TouchdownRoll: 300},
	}
	if err := wrongType.Validate(); err == nil {
		t.Error("expected error for a land step referencing a non-Land coefficient set")
	}

	positiveAngle := &ArrivalProceduralProfile{
		Name: "positive-angle",
		Land: DescendLand{AeroCoefficients: land, DescentAngle: 3, ThresholdCrossingAltitudeAfe: 15, TouchdownRoll: 300},
	}
	if err := positiveAngle.Validate(); err == nil {
		t.Error("expected error for a non-negative descent angle")
	}

	zeroRoll := &ArrivalProceduralProfile{
		Name: "zero-roll",
		Land: DescendLand{AeroCoefficients: land, DescentAngle: -3, ThresholdCrossingAltitudeAfe: 15, TouchdownRoll: 0},
	}
	if err := zeroRoll.Validate(); err == nil {
		t.Error("expected error for a non-positive touchdown roll")
	}
}

func TestDepartureProceduralProfileValidate(t *testing.T) {
	takeoff, err := NewAeroCoefficients("takeoff", Takeoff, 0.1, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	cruise, err := NewAeroCoefficients("cruise", Cruise, 0.1, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	empty := &DepartureProceduralProfile{Name: "empty"}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for a profile with no steps")
	}

	wrongFirst := &DepartureProceduralProfile{
		Name:  "wrong-first",
		Steps: []DepartureStep{Climb{AeroCoefficients: takeoff, EndAltitudeAfe: 1000}},
	}
	if err := wrongFirst.Validate(); err == nil {
		t.Error("expected error when the first step is not Takeoff")
	}

	wrongCoeffType := &DepartureProceduralProfile{
		Name:  "wrong-coeff-type",
		Steps: []DepartureStep{Takeoff{AeroCoefficients: cruise, InitialCalibratedAirspeed: 75}},
	}
	if err := wrongCoeffType.Validate(); err == nil {
		t.Error("expected error for a Takeoff step referencing a non-Takeoff coefficient set")
	}

	cutbackOutOfRange := &DepartureProceduralProfile{
		Name:          "bad-cutback",
		Steps:         []DepartureStep{Takeoff{AeroCoefficients: takeoff, InitialCalibratedAirspeed: 75}},
		ThrustCutback: 5,
	}
	if err := cutbackOutOfRange.Validate(); err == nil {
		t.Error("expected error for an out-of-range thrust cutback index")
	}

	valid := &DepartureProceduralProfile{
		Name:          "ok",
		Steps:         []DepartureStep{Takeoff{AeroCoefficients: takeoff, InitialCalibratedAirspeed: 75}},
		ThrustCutback: 0,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid profile, got %v", err)
	}
}
