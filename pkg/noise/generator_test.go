// pkg/noise/generator_test.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package noise

import (
	"math"
	"testing"

	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
	"github.com/goncaloroque30/grape-core/pkg/performance"
)

func testDoc29Noise(t *testing.T) *Doc29Noise {
	t.Helper()
	var spectrum Spectrum
	for i := range spectrum {
		spectrum[i] = 70 - float64(i)*0.5
	}
	return &Doc29Noise{
		Name:              "test",
		LateralDir:        Wing,
		SOR:               SORJet,
		ArrivalSel:        testNpdData(t),
		ArrivalLamax:      testNpdData(t),
		DepartureSel:      testNpdData(t),
		DepartureLamax:    testNpdData(t),
		ArrivalSpectrum:   spectrum,
		DepartureSpectrum: spectrum,
	}
}

func TestAtmosphericAbsorptionRoundTrip(t *testing.T) {
	ns := testDoc29Noise(t)
	gen := NewArrivalGenerator(ns)

	absorption, err := NewSAEARP5534(283.15, 101325, 0.8)
	if err != nil {
		t.Fatal(err)
	}

	gen.ApplyAtmosphericAbsorption(absorption)

	shifted := false
	for _, d := range gen.Deltas() {
		if math.Abs(d) > 1e-9 {
			shifted = true
		}
	}
	if !shifted {
		t.Fatal("expected non-zero deltas after applying SAE ARP 5534 absorption")
	}

	gen.ResetAtmosphericAbsorption()
	for i := 0; i < NpdThrustCount; i++ {
		for j := 0; j < NpdStandardDistancesSize; j++ {
			got := gen.Sel().Level(i, j)
			want := ns.ArrivalSel.Level(i, j)
			if !gmath.Close(got, want, 1e-5) {
				t.Fatalf("SEL table not restored at (%d, %d): got %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestAtmosphericAbsorptionReplacement(t *testing.T) {
	ns := testDoc29Noise(t)

	absorptionA, err := NewSAEARP5534(283.15, 101325, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	absorptionB, err := NewSAEARP5534(303.15, 95000, 0.2)
	if err != nil {
		t.Fatal(err)
	}

	// Applying A then B must equal applying B alone: deltas are
	// replacements, not stacked.
	genAB := NewArrivalGenerator(ns)
	genAB.ApplyAtmosphericAbsorption(absorptionA)
	genAB.ApplyAtmosphericAbsorption(absorptionB)

	genB := NewArrivalGenerator(ns)
	genB.ApplyAtmosphericAbsorption(absorptionB)

	for i := 0; i < NpdThrustCount; i++ {
		for j := 0; j < NpdStandardDistancesSize; j++ {
			if !gmath.Close(genAB.Sel().Level(i, j), genB.Sel().Level(i, j), 1e-9) {
				t.Fatalf("delta stacking at (%d, %d): A-then-B %v != B-alone %v",
					i, j, genAB.Sel().Level(i, j), genB.Sel().Level(i, j))
			}
		}
	}
}

func TestSAEARP5534Rates(t *testing.T) {
	absorption, err := NewSAEARP5534(283.15, 101325, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	prev := 0.0
	for i, rate := range absorption.Rates {
		if rate <= 0 {
			t.Errorf("band %d: rate %v not positive", i, rate)
		}
		if rate < prev {
			t.Errorf("band %d: rate %v decreases from %v; absorption should grow with frequency", i, rate, prev)
		}
		prev = rate
	}
	// High-frequency absorption must dwarf low frequency by orders of
	// magnitude.
	if absorption.Rates[23] < 100*absorption.Rates[0] {
		t.Errorf("10 kHz rate %v not >> 50 Hz rate %v", absorption.Rates[23], absorption.Rates[0])
	}
}

func TestLateralAttenuation(t *testing.T) {
	// Directly overhead: elevation >= 50 degrees gives no attenuation.
	if got := lateralAttenuation(500, gmath.Radians(90)); got != 0 {
		t.Errorf("overhead attenuation = %v, want 0", got)
	}
	// Grazing incidence at a large lateral offset: the distance factor
	// saturates at 1 and only the angle term remains.
	got := lateralAttenuation(2000, 0)
	want := 1.137 + 9.72
	if !gmath.Close(got, want, 1e-9) {
		t.Errorf("grazing attenuation = %v, want %v", got, want)
	}
	// Negative elevation uses the fixed 10.857 coefficient.
	got = lateralAttenuation(2000, gmath.Radians(-5))
	if !gmath.Close(got, 10.857, 1e-9) {
		t.Errorf("below-horizon attenuation = %v, want 10.857", got)
	}
}

func TestEngineInstallationCorrectionOverhead(t *testing.T) {
	// At 90 degrees depression both wing and fuselage forms reduce to
	// 10*log10(1/1) = 0.
	for _, c := range [][3]float64{{0.0039, 0.062, 0.8786}, {0.1225, 0.329, 1.0}} {
		if got := engineInstallationCorrection(c[0], c[1], c[2], math.Pi/2); !gmath.Close(got, 0, 1e-9) {
			t.Errorf("overhead engine installation correction = %v, want 0", got)
		}
	}
}

// TestLevelSegmentOverheadReceptor exercises the degenerate geometry
// where every correction but the finite-segment one vanishes: a level
// 1000 m departure segment at 500 m above a receptor under its
// midpoint, flown at exactly 160 kn. Duration, lateral
// attenuation and engine installation all vanish, leaving SEL equal to
// the NPD exposure level plus the finite segment correction.
func TestLevelSegmentOverheadReceptor(t *testing.T) {
	ns := testDoc29Noise(t)
	gen := NewDepartureGenerator(ns)
	cs := geo.NewWGS84Geodesic()

	tas := fromKnots(160)
	start := geo.Point{Lon: 0, Lat: 0}
	mid := cs.Point(start, 500, 90)
	end := cs.Point(start, 1000, 90)

	thrust := 50000.0
	p1 := performance.Point{
		CumulativeGroundDistance: 0,
		FlPhase:                  doc29.ClimbPhase,
		Longitude:                start.Lon, Latitude: start.Lat,
		AltitudeMsl:  500,
		TrueAirspeed: tas, Groundspeed: tas,
		CorrNetThrustPerEng: thrust,
	}
	p2 := p1
	p2.CumulativeGroundDistance = 1000
	p2.Longitude, p2.Latitude = end.Lon, end.Lat

	recept := Receptor{Name: "mid", Longitude: mid.Lon, Latitude: mid.Lat, Elevation: 0}

	lamax, sel, ok := gen.Calculate(p1, p2, recept, cs)
	if !ok {
		t.Fatal("segment unexpectedly skipped as too far")
	}

	selInterp := gen.Sel().Interpolate(thrust, 500)
	lamaxInterp := gen.Lamax().Interpolate(thrust, 500)

	if !gmath.Close(lamax, lamaxInterp, 1e-6) {
		t.Errorf("LAMAX = %v, want bare NPD level %v (all corrections vanish overhead)", lamax, lamaxInterp)
	}

	// Finite segment correction for the symmetric geometry: Q = 500,
	// length = 1000, scaled distance from the SEL/LAMAX gap at P.
	distScaled := 2 / math.Pi * fromKnots(160) * math.Pow(10, (selInterp-lamaxInterp)/10)
	alpha1 := -500.0 / distScaled
	alpha2 := 500.0 / distScaled
	finite := 10 * math.Log10(1/math.Pi*(alpha2/(1+alpha2*alpha2)+math.Atan(alpha2)-alpha1/(1+alpha1*alpha1)-math.Atan(alpha1)))

	if want := selInterp + finite; !gmath.Close(sel, want, 1e-6) {
		t.Errorf("SEL = %v, want NPD + finite segment = %v", sel, want)
	}
	if sel >= selInterp {
		t.Error("finite segment correction must reduce SEL below the infinite-flyover level")
	}
}

// TestSegmentTooFar checks the receptor cutoff skips distant segments.
func TestSegmentTooFar(t *testing.T) {
	ns := testDoc29Noise(t)
	gen := NewArrivalGenerator(ns)
	cs := geo.NewWGS84Geodesic()

	p1 := performance.Point{CumulativeGroundDistance: 0, FlPhase: doc29.Approach, AltitudeMsl: 500, TrueAirspeed: 80, Groundspeed: 80, CorrNetThrustPerEng: 30000}
	p2 := p1
	p2.CumulativeGroundDistance = 1000
	far := cs.Point(geo.Point{Lon: 0, Lat: 0}, 30000, 0)
	recept := Receptor{Longitude: far.Lon, Latitude: far.Lat}

	if _, _, ok := gen.Calculate(p1, p2, recept, cs); ok {
		t.Error("expected segment beyond the 25 km cutoff to be skipped")
	}
}

// TestStartOfRollCorrection verifies the jet polynomial changes LAMAX
// and SEL for a receptor behind the takeoff roll.
func TestStartOfRollCorrection(t *testing.T) {
	ns := testDoc29Noise(t)
	cs := geo.NewWGS84Geodesic()

	start := geo.Point{Lon: 0, Lat: 0}
	end := cs.Point(start, 1000, 90)
	behind := cs.Point(start, 200, 270) // behind the start of roll

	mkPoint := func(dist float64, pos geo.Point) performance.Point {
		return performance.Point{
			CumulativeGroundDistance: dist,
			FlPhase:                  doc29.TakeoffRoll,
			Longitude:                pos.Lon, Latitude: pos.Lat,
			AltitudeMsl:  0,
			TrueAirspeed: 40, Groundspeed: 40,
			CorrNetThrustPerEng: 90000,
		}
	}
	p1, p2 := mkPoint(0, start), mkPoint(1000, end)
	recept := Receptor{Longitude: behind.Lon, Latitude: behind.Lat, Elevation: 0}

	genJet := NewDepartureGenerator(ns)
	nsNone := *ns
	nsNone.SOR = SORNone
	genNone := NewDepartureGenerator(&nsNone)

	lamaxJet, selJet, ok := genJet.Calculate(p1, p2, recept, cs)
	if !ok {
		t.Fatal("segment unexpectedly skipped")
	}
	lamaxNone, selNone, ok := genNone.Calculate(p1, p2, recept, cs)
	if !ok {
		t.Fatal("segment unexpectedly skipped")
	}

	if gmath.Close(lamaxJet, lamaxNone, 1e-9) {
		t.Error("jet start-of-roll correction did not change LAMAX behind the takeoff roll")
	}
	if gmath.Close(selJet, selNone, 1e-9) {
		t.Error("jet start-of-roll correction did not change SEL behind the takeoff roll")
	}
}
