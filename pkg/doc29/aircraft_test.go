// pkg/doc29/aircraft_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import "testing"

func TestNewAeroCoefficientsValidation(t *testing.T) {
	if _, err := NewAeroCoefficients("bad-r", Cruise, 0, 0, 0, 0); err == nil {
		t.Error("expected error for R <= 0")
	}
	if _, err := NewAeroCoefficients("bad-takeoff", Takeoff, 1, 0, 1, 0); err == nil {
		t.Error("expected error for takeoff set missing B")
	}
	if _, err := NewAeroCoefficients("bad-land", Land, 1, 0, 0, 0); err == nil {
		t.Error("expected error for land set missing D")
	}
	if _, err := NewAeroCoefficients("ok-cruise", Cruise, 1, 0, 0, 0); err != nil {
		t.Errorf("unexpected error for valid cruise set: %v", err)
	}
}

func TestReferenceLedger(t *testing.T) {
	l := NewReferenceLedger[string, string]()
	if l.Blocked("A") {
		t.Fatal("unreferenced key should not be blocked")
	}
	l.Add("A", "profile-1")
	if !l.Blocked("A") {
		t.Error("referenced key should be blocked")
	}
	l.Add("A", "profile-2")
	l.Remove("A", "profile-1")
	if !l.Blocked("A") {
		t.Error("key should still be blocked by the remaining referrer")
	}
	l.Remove("A", "profile-2")
	if l.Blocked("A") {
		t.Error("key with no remaining referrers should not be blocked")
	}
}

func TestDeleteAeroCoefficientsBlockedByProfile(t *testing.T) {
	acft, err := NewAircraft("A320", 2, 120000, 15)
	if err != nil {
		t.Fatal(err)
	}
	land, err := NewAeroCoefficients("land", Land, 0.1, 0, 0, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	acft.AddAeroCoefficients(land)

	profile := &ArrivalProceduralProfile{
		Name: "default",
		Land: DescendLand{
			AeroCoefficients:             land,
			DescentAngle:                 -3,
			ThresholdCrossingAltitudeAfe: 15,
			TouchdownRoll:                300,
		},
	}
	acft.AddArrivalProfile(profile)

	if err := acft.DeleteAeroCoefficients("land"); err == nil {
		t.Error("expected delete to be blocked by the profile's reference")
	}
}

func TestArrivalProfileProceduralAllowed(t *testing.T) {
	acft, err := NewAircraft("A320", 2, 120000, 15)
	if err != nil {
		t.Fatal(err)
	}
	if acft.ArrivalProfileProceduralAllowed() {
		t.Error("should not allow procedural arrival without a Land coefficient set")
	}
	land, err := NewAeroCoefficients("land", Land, 0.1, 0, 0, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	acft.AddAeroCoefficients(land)
	if !acft.ArrivalProfileProceduralAllowed() {
		t.Error("should allow procedural arrival once a Land coefficient set exists")
	}
}

func TestDepartureProfileProceduralAllowed(t *testing.T) {
	acft, err := NewAircraft("A320", 2, 120000, 15)
	if err != nil {
		t.Fatal(err)
	}
	if acft.DepartureProfileProceduralAllowed() {
		t.Error("should not allow procedural departure without thrust ratings and a Takeoff coefficient set")
	}
	takeoff, err := NewAeroCoefficients("takeoff", Takeoff, 0.1, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	acft.AddAeroCoefficients(takeoff)

	th := NewRatingThrust()
	th.SetCoefficients(MaximumTakeoff, RatingCoefficients{E: 1, F: 1, Ga: 1, Gb: 1, H: 1})
	acft.Thrust = th
	if acft.DepartureProfileProceduralAllowed() {
		t.Error("should still not allow procedural departure missing MaximumClimb rating")
	}
	th.SetCoefficients(MaximumClimb, RatingCoefficients{E: 1, F: 1, Ga: 1, Gb: 1, H: 1})
	if !acft.DepartureProfileProceduralAllowed() {
		t.Error("should allow procedural departure once all prerequisites are present")
	}
}
