// pkg/doc29/profileoutput_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import (
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

func buildOutput() *ProfileOutput {
	var out ProfileOutput
	out.AddPoint(0, 0, 70, 70, 200000, 0, TakeoffRoll)
	out.AddPoint(1000, 100, 80, 78, 180000, 5, InitialClimb)
	out.AddPoint(3000, 500, 90, 86, 170000, 0, ClimbPhase)
	return &out
}

func TestProfileOutputAddPointSkipsDuplicate(t *testing.T) {
	out := buildOutput()
	n := out.Len()
	out.AddPoint(1000, 999, 999, 999, 999, 999, ClimbPhase)
	if out.Len() != n {
		t.Errorf("duplicate distance should not add a point, len = %d want %d", out.Len(), n)
	}
}

func TestProfileOutputInterpolateExactMatch(t *testing.T) {
	out := buildOutput()
	pt := out.Interpolate(1000)
	if !gmath.Close(pt.AltitudeMsl, 100, gmath.Precision) {
		t.Errorf("altitude = %v, want 100", pt.AltitudeMsl)
	}
}

func TestProfileOutputInterpolateBetween(t *testing.T) {
	out := buildOutput()
	pt := out.Interpolate(2000)
	wantAlt := gmath.Lerp(100, 500, 0.5)
	if !gmath.Close(pt.AltitudeMsl, wantAlt, 1e-6) {
		t.Errorf("altitude = %v, want %v", pt.AltitudeMsl, wantAlt)
	}
	if pt.FlPhase != InitialClimb {
		t.Errorf("flight phase should carry from the previous point, got %v", pt.FlPhase)
	}
}

func TestProfileOutputInterpolateExtrapolateBeforeStart(t *testing.T) {
	out := buildOutput()
	pt := out.Interpolate(-1000)
	wantAlt := gmath.Lerp(0, 100, -1)
	if !gmath.Close(pt.AltitudeMsl, wantAlt, 1e-6) {
		t.Errorf("extrapolated altitude = %v, want %v", pt.AltitudeMsl, wantAlt)
	}
	if !gmath.Close(pt.TrueAirspeed, 70, gmath.Precision) {
		t.Errorf("extrapolated TAS should hold the first point's value, got %v", pt.TrueAirspeed)
	}
}

func TestProfileOutputInterpolateExtrapolatePastEnd(t *testing.T) {
	out := buildOutput()
	pt := out.Interpolate(4000)
	iFactor := (4000.0 - 1000) / (3000 - 1000)
	wantAlt := gmath.Lerp(100, 500, iFactor)
	if !gmath.Close(pt.AltitudeMsl, wantAlt, 1e-6) {
		t.Errorf("extrapolated altitude = %v, want %v", pt.AltitudeMsl, wantAlt)
	}
	if !gmath.Close(pt.TrueAirspeed, 90, gmath.Precision) {
		t.Errorf("extrapolated TAS should hold the last point's value, got %v", pt.TrueAirspeed)
	}
}
