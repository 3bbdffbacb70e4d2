// pkg/atmos/atmos_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package atmos

import (
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

func TestStandardAtSeaLevel(t *testing.T) {
	a := Standard()
	if !gmath.Close(a.Temperature(0), 288.15, 1e-9) {
		t.Errorf("T(0) = %v, want 288.15", a.Temperature(0))
	}
	if !gmath.Close(a.Pressure(0), 101325, 1e-6) {
		t.Errorf("P(0) = %v, want 101325", a.Pressure(0))
	}
	if !gmath.Close(a.DensityRatio(0), 1, 1e-3) {
		t.Errorf("sigma(0) = %v, want ~1", a.DensityRatio(0))
	}
}

func TestOffsetInvariant(t *testing.T) {
	if _, err := New(-400, 0, 0, 0); err == nil {
		t.Error("expected validation error for temperature offset driving sea level T <= 0")
	}
	if _, err := New(0, -200000, 0, 0); err == nil {
		t.Error("expected validation error for pressure offset driving sea level P <= 0")
	}
}

func TestHeadwind(t *testing.T) {
	a, err := New(0, 0, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Wind from 0 deg (north), track heading 0 (flying north into it): full headwind.
	if hw := a.Headwind(0); !gmath.Close(hw, 10, 1e-9) {
		t.Errorf("headwind = %v, want 10", hw)
	}
	// Track heading 180 (flying south, with the wind at its back): full tailwind.
	if hw := a.Headwind(180); !gmath.Close(hw, -10, 1e-9) {
		t.Errorf("headwind = %v, want -10", hw)
	}
	// Crosswind: no headwind component.
	if hw := a.Headwind(90); !gmath.Close(hw, 0, 1e-9) {
		t.Errorf("headwind = %v, want 0", hw)
	}
}

func TestDensityDecreasesWithAltitude(t *testing.T) {
	a := Standard()
	if a.DensityRatio(10000) >= a.DensityRatio(0) {
		t.Error("density ratio should decrease with altitude")
	}
}
