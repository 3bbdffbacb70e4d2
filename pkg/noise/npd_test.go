// pkg/noise/npd_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package noise

import (
	"math"
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// testNpdData builds a table whose levels are a simple affine function
// of thrust row and distance column, making expected interpolations
// easy to state by hand.
func testNpdData(t *testing.T) NpdData {
	t.Helper()
	var thrust [NpdThrustCount]float64
	var levels [NpdThrustCount][NpdStandardDistancesSize]float64
	for i := range thrust {
		thrust[i] = 10000 + float64(i)*10000
		for j := range levels[i] {
			levels[i][j] = 100 + float64(i)*2 - float64(j)*5
		}
	}
	tbl, err := NewNpdData(thrust, levels)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestNpdDataValidation(t *testing.T) {
	var thrust [NpdThrustCount]float64
	var levels [NpdThrustCount][NpdStandardDistancesSize]float64
	for i := range thrust {
		thrust[i] = 50000 // not strictly increasing
	}
	if _, err := NewNpdData(thrust, levels); err == nil {
		t.Error("expected a validation error for a non-increasing thrust axis")
	}
}

func TestNpdInterpolateGridPoints(t *testing.T) {
	tbl := testNpdData(t)
	for i := 0; i < NpdThrustCount; i++ {
		for j := 0; j < NpdStandardDistancesSize; j++ {
			want := 100 + float64(i)*2 - float64(j)*5
			got := tbl.Interpolate(10000+float64(i)*10000, NpdStandardDistances[j])
			if !gmath.Close(got, want, 1e-9) {
				t.Errorf("Interpolate at grid (%d, %d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestNpdInterpolateThrustAxis(t *testing.T) {
	tbl := testNpdData(t)

	// Midway between rows 0 and 1 at the first standardized distance.
	got := tbl.Interpolate(15000, NpdStandardDistances[0])
	if want := 101.0; !gmath.Close(got, want, 1e-9) {
		t.Errorf("thrust midpoint = %v, want %v", got, want)
	}

	// Below the table: clamp to the first row.
	got = tbl.Interpolate(1000, NpdStandardDistances[0])
	if want := 100.0; !gmath.Close(got, want, 1e-9) {
		t.Errorf("thrust below table = %v, want clamp to %v", got, want)
	}

	// Above the table: linear extrapolation along the last two rows
	// (2 dB per 10000 N).
	got = tbl.Interpolate(110000, NpdStandardDistances[0])
	if want := 120.0; !gmath.Close(got, want, 1e-9) {
		t.Errorf("thrust above table = %v, want extrapolation to %v", got, want)
	}
}

func TestNpdInterpolateDistanceAxis(t *testing.T) {
	tbl := testNpdData(t)

	// Logarithmic midpoint of the first distance pair: levels drop 5 dB
	// per column, and sqrt(61*122) is the log midpoint.
	logMid := math.Sqrt(NpdStandardDistances[0] * NpdStandardDistances[1])
	got := tbl.Interpolate(10000, logMid)
	if want := 97.5; !gmath.Close(got, want, 1e-9) {
		t.Errorf("distance log-midpoint = %v, want %v", got, want)
	}

	// Below the smallest distance: linear extrapolation in log-distance
	// using the first two columns. Half the log step below 61 m adds
	// half a column's level difference.
	below := NpdStandardDistances[0] * math.Sqrt(NpdStandardDistances[0]/NpdStandardDistances[1])
	got = tbl.Interpolate(10000, below)
	if want := 102.5; !gmath.Close(got, want, 1e-9) {
		t.Errorf("distance below ladder = %v, want %v", got, want)
	}

	// Above the largest: extrapolate with the last two columns.
	lastStep := math.Log10(NpdStandardDistances[9] / NpdStandardDistances[8])
	above := NpdStandardDistances[9] * math.Pow(10, lastStep)
	got = tbl.Interpolate(10000, above)
	if want := 50.0; !gmath.Close(got, want, 1e-9) {
		t.Errorf("distance above ladder = %v, want %v", got, want)
	}
}

func TestNpdApplyDelta(t *testing.T) {
	tbl := testNpdData(t)
	var deltas DeltaArray
	for j := range deltas {
		deltas[j] = float64(j) * 0.1
	}
	tbl.ApplyDelta(deltas)
	for j := 0; j < NpdStandardDistancesSize; j++ {
		want := 100 - float64(j)*5 + float64(j)*0.1
		got := tbl.Interpolate(10000, NpdStandardDistances[j])
		if !gmath.Close(got, want, 1e-9) {
			t.Errorf("delta at column %d: got %v, want %v", j, got, want)
		}
	}
}
