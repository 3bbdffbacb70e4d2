// pkg/doc29/thrust_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import (
	"math"
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

func TestRatingThrustBelowBreakpoint(t *testing.T) {
	th := NewRatingThrust()
	th.SetCoefficients(MaximumTakeoff, RatingCoefficients{E: 140000, F: -10, Ga: -2, Gb: 0, H: -400})
	atm := atmos.Standard()

	if !th.IsRatingSet(MaximumTakeoff) {
		t.Fatal("expected MaximumTakeoff to be set")
	}
	if th.IsRatingSet(MaximumClimb) {
		t.Fatal("expected MaximumClimb to be unset")
	}

	got := th.Calculate(MaximumTakeoff, 80, 0, 303.15, atm)
	want := 140000 + (-10)*80 + (-2)*0 + 0*0*0 + (-400)*toCelsius(atm.Temperature(0))
	if !gmath.Close(got, want, 1e-6) {
		t.Errorf("thrust = %v, want %v", got, want)
	}
}

func TestRatingThrustHighTemperatureBlend(t *testing.T) {
	th := NewRatingThrust()
	th.SetCoefficients(MaximumTakeoff, RatingCoefficients{E: 140000, F: -10, Ga: -2, Gb: 0, H: -400})
	atm, err := atmos.New(20, 0, 0, 0) // push sea-level temp above a low breakpoint
	if err != nil {
		t.Fatal(err)
	}

	breakpoint := 293.15 // K (20 degrees C)
	got := th.Calculate(MaximumTakeoff, 80, 0, breakpoint, atm)

	tc := toCelsius(atm.Temperature(0))
	tcBreak := toCelsius(breakpoint)
	want := (-10.0)*80 + (140000+(-400)*tc)*(1-0.006*tc)/(1-0.006*tcBreak)
	if !gmath.Close(got, want, 1e-6) {
		t.Errorf("blended thrust = %v, want %v", got, want)
	}
}

func TestRatingThrustDedicatedHighTemperaturePreferred(t *testing.T) {
	th := NewRatingThrust()
	th.SetCoefficients(MaximumTakeoff, RatingCoefficients{E: 140000, F: -10, Ga: -2, Gb: 0, H: -400})
	th.SetCoefficients(MaximumTakeoffHighTemperature, RatingCoefficients{E: 100000, F: -5, Ga: -1, Gb: 0, H: -100})
	atm, err := atmos.New(20, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	breakpoint := 20.0
	got := th.Calculate(MaximumTakeoff, 80, 0, breakpoint, atm)
	want := th.thrust(MaximumTakeoffHighTemperature, 80, 0, atm.Temperature(0))
	if !gmath.Close(got, want, 1e-6) {
		t.Errorf("expected dedicated high-temperature coefficients to be used, got %v want %v", got, want)
	}
}

func TestNoThrust(t *testing.T) {
	var th NoThrust
	if th.IsRatingSet(MaximumTakeoff) {
		t.Error("NoThrust must never report a rating as set")
	}
	if !math.IsNaN(th.Calculate(MaximumTakeoff, 80, 0, 0, atmos.Standard())) {
		t.Error("NoThrust.Calculate must return NaN")
	}
}

func TestPropellerThrust(t *testing.T) {
	th := NewPropellerThrust()
	c, err := NewPropellerCoefficients(0.8, 1_500_000)
	if err != nil {
		t.Fatal(err)
	}
	if err := th.SetCoefficients(MaximumTakeoff, c); err != nil {
		t.Fatal(err)
	}
	if err := th.SetCoefficients(Idle, c); err == nil {
		t.Error("expected error setting propeller coefficients for an unsupported rating")
	}

	atm := atmos.Standard()
	cas := 60.0
	got := th.Calculate(MaximumTakeoff, cas, 0, 0, atm)
	want := c.Efficiency * c.Power / (cas / math.Sqrt(atm.DensityRatio(0))) / atm.PressureRatio(0)
	if !gmath.Close(got, want, 1e-6) {
		t.Errorf("propeller thrust = %v, want %v", got, want)
	}
}

func TestNewPropellerCoefficientsValidation(t *testing.T) {
	if _, err := NewPropellerCoefficients(0, 1000); err == nil {
		t.Error("expected error for zero efficiency")
	}
	if _, err := NewPropellerCoefficients(1.5, 1000); err == nil {
		t.Error("expected error for efficiency > 1")
	}
	if _, err := NewPropellerCoefficients(0.8, 0); err == nil {
		t.Error("expected error for non-positive power")
	}
}
