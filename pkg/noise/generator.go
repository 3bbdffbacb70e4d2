// pkg/noise/generator.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package noise

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/gmath"
	"github.com/goncaloroque30/grape-core/pkg/performance"
)

func fromKnots(kn float64) float64 { return kn * 0.514444444444 }

// DefaultMaximumDistance is the receptor cutoff: a segment with both
// endpoints farther than this from the receptor is skipped.
const DefaultMaximumDistance = 25000.0

// segmentReceptorData is the geometric reduction of one segment and one
// receptor: slant distances and elevation angles at
// the perpendicular foot (P), the closest point of approach (S) and the
// effective energy source (E), plus the interpolated segment state at
// the governing point.
type segmentReceptorData struct {
	q float64

	groundDistanceP float64
	distanceP       float64
	elevationAngleP float64

	groundDistanceS  float64
	distanceS        float64
	elevationAngleS  float64
	depressionAngleS float64

	groundDistanceE  float64
	distanceE        float64
	elevationAngleE  float64
	depressionAngleE float64

	trueAirspeed float64
	thrust       float64
	bankAngle    float64

	behindTakeoffRollOrAheadOfLandingRoll bool
	segmentTooFar                         bool
}

// newSegmentReceptorData reduces segment P1->P2 (slant length, flight
// path angle in radians) against a receptor, translated from
// Doc29NoiseGenerator.cpp's segmentReceptorData.
func newSegmentReceptorData(length, angle float64, p1, p2 performance.Point, recept Receptor, cs geo.CoordinateSystem, maxDistance float64) segmentReceptorData {
	var d segmentReceptorData

	receptPos := geo.Point{Lon: recept.Longitude, Lat: recept.Latitude}
	pos1 := geo.Point{Lon: p1.Longitude, Lat: p1.Latitude}
	pos2 := geo.Point{Lon: p2.Longitude, Lat: p2.Latitude}

	distance1 := cs.Distance(receptPos, pos1)
	distance2 := cs.Distance(receptPos, pos2)
	if math.Min(distance1, distance2) > maxDistance {
		d.segmentTooFar = true
		return d
	}

	foot, intersectTyp := cs.Intersection(pos1, pos2, receptPos)
	d.groundDistanceP = cs.Distance(receptPos, foot)

	groundLengthQ := cs.Distance(pos1, foot)

	switch intersectTyp {
	case geo.Behind:
		d.q = -groundLengthQ / math.Cos(angle)

		altMslP := p1.AltitudeMsl - groundLengthQ*math.Tan(angle)
		altDiffP := altMslP - recept.Elevation
		altDiff1 := p1.AltitudeMsl - recept.Elevation

		d.groundDistanceS = distance1
		d.distanceP = math.Hypot(d.groundDistanceP, altDiffP)
		d.distanceS = math.Hypot(d.groundDistanceS, altDiff1)

		if altDiffP < gmath.Precision {
			d.elevationAngleP = 0
		} else {
			d.elevationAngleP = math.Atan(altDiffP / d.groundDistanceP)
		}

		if altDiff1 < gmath.Precision {
			d.elevationAngleS = 0
			d.elevationAngleE = 0
		} else {
			d.elevationAngleS = math.Atan(altDiff1 / d.groundDistanceS)
			d.elevationAngleE = math.Atan(altDiff1 / math.Cos(angle) / d.groundDistanceP)
		}

		if p2.FlPhase == doc29.TakeoffRoll {
			d.distanceP = d.distanceS // finite segment correction behind takeoff roll
			d.groundDistanceE = d.groundDistanceS
			d.distanceE = d.distanceS
			d.elevationAngleE = d.elevationAngleS
			d.behindTakeoffRollOrAheadOfLandingRoll = true
		} else {
			d.groundDistanceE = d.groundDistanceP
			d.distanceE = d.distanceP
		}

		if p2.FlPhase == doc29.TakeoffRoll || p1.FlPhase == doc29.LandingRoll {
			d.trueAirspeed = (p1.TrueAirspeed + p2.TrueAirspeed) / 2
		} else {
			d.trueAirspeed = p1.TrueAirspeed
		}
		d.thrust = p1.CorrNetThrustPerEng
		d.bankAngle = p1.BankAngle
	case geo.Between:
		d.q = groundLengthQ / math.Cos(angle)

		altMslP := p1.AltitudeMsl + groundLengthQ*math.Tan(angle)
		altDiffP := altMslP - recept.Elevation

		d.groundDistanceS = d.groundDistanceP
		d.distanceP = math.Hypot(d.groundDistanceP, altDiffP)
		d.distanceS = d.distanceP

		if altDiffP < gmath.Precision {
			d.elevationAngleP = 0
			d.elevationAngleS = 0
		} else {
			d.elevationAngleP = math.Atan(altDiffP / d.groundDistanceP)
			d.elevationAngleS = math.Atan(altDiffP / d.groundDistanceS)
		}

		d.groundDistanceE = d.groundDistanceS
		d.distanceE = d.distanceP
		d.elevationAngleE = d.elevationAngleP

		iFactor := d.q / length

		if p2.FlPhase == doc29.TakeoffRoll || p1.FlPhase == doc29.LandingRoll {
			d.trueAirspeed = (p1.TrueAirspeed + p2.TrueAirspeed) / 2
		} else {
			d.trueAirspeed = gmath.TimeInterpolation(p1.TrueAirspeed, p2.TrueAirspeed, iFactor)
		}
		d.thrust = gmath.TimeInterpolation(p1.CorrNetThrustPerEng, p2.CorrNetThrustPerEng, iFactor)
		d.bankAngle = gmath.Lerp(p1.BankAngle, p2.BankAngle, iFactor)
	case geo.Ahead:
		d.q = groundLengthQ / math.Cos(angle)

		altMslP := p1.AltitudeMsl + groundLengthQ*math.Tan(angle)
		altDiffP := altMslP - recept.Elevation
		altDiff2 := p2.AltitudeMsl - recept.Elevation

		d.groundDistanceS = distance2
		d.distanceP = math.Hypot(d.groundDistanceP, altDiffP)
		d.distanceS = math.Hypot(d.groundDistanceS, altDiff2)

		if altDiffP < gmath.Precision {
			d.elevationAngleP = 0
		} else {
			d.elevationAngleP = math.Atan(altDiffP / d.groundDistanceP)
		}

		if altDiff2 < gmath.Precision {
			d.elevationAngleS = 0
			d.elevationAngleE = 0
		} else {
			d.elevationAngleS = math.Atan(altDiff2 / d.groundDistanceS)
			d.elevationAngleE = math.Atan(altDiff2 / math.Cos(angle) / d.groundDistanceP)
		}

		if p1.FlPhase == doc29.LandingRoll {
			d.distanceP = d.distanceS // finite segment correction ahead of landing roll
			d.groundDistanceE = d.groundDistanceS
			d.distanceE = d.distanceS
			d.elevationAngleE = d.elevationAngleS
			d.behindTakeoffRollOrAheadOfLandingRoll = true
		} else {
			d.groundDistanceE = d.groundDistanceP
			d.distanceE = d.distanceP
		}

		if p2.FlPhase == doc29.TakeoffRoll || p1.FlPhase == doc29.LandingRoll {
			d.trueAirspeed = (p1.TrueAirspeed + p2.TrueAirspeed) / 2
		} else {
			d.trueAirspeed = p2.TrueAirspeed
		}
		d.thrust = p2.CorrNetThrustPerEng
		d.bankAngle = p2.BankAngle
	}

	// Receptor on the inside of the turn subtracts bank, outside adds.
	bankAngleMultiplier := float64(cs.TurnDirection(pos1, pos2, receptPos)) * -1.0
	bankRad := gmath.Radians(d.bankAngle)
	d.depressionAngleE = d.elevationAngleE + bankAngleMultiplier*bankRad
	d.depressionAngleS = d.elevationAngleS + bankAngleMultiplier*bankRad

	return d
}

func engineInstallationCorrection(a, b, c, depressionAngle float64) float64 {
	return 10 * math.Log10(
		math.Pow(a*math.Pow(math.Cos(depressionAngle), 2)+math.Pow(math.Sin(depressionAngle), 2), b)/
			(c*math.Pow(math.Sin(2*depressionAngle), 2)+math.Pow(math.Cos(2*depressionAngle), 2)))
}

func lateralAttenuationDistanceFactor(lateralDisplacement float64) float64 {
	if lateralDisplacement > 914 {
		return 1
	}
	return 1.089 * (1 - math.Exp(-0.00274*lateralDisplacement))
}

func lateralAttenuation(lateralDisplacement, elevationAngle float64) float64 {
	if gmath.Degrees(elevationAngle) >= 50 {
		return 0
	}
	if elevationAngle >= 0 {
		eps := gmath.Degrees(elevationAngle)
		return (1.137 - 0.0229*eps + 9.72*math.Exp(-0.142*eps)) * lateralAttenuationDistanceFactor(lateralDisplacement)
	}
	return 10.857 * lateralAttenuationDistanceFactor(lateralDisplacement)
}

// sorCorrectionJet and sorCorrectionTurboprop are the Doc29 Volume 2
// Appendix B start-of-roll directivity polynomials, azimuth in degrees.
func sorCorrectionJet(azimuth float64) float64 {
	azimuthRad := gmath.Radians(azimuth)
	return 2329.44 - 8.0573*azimuth +
		11.51*math.Exp(azimuthRad) - 3.4601*azimuth/math.Log(azimuthRad) -
		17403383.3*math.Log(azimuthRad)/math.Pow(azimuth, 2)
}

func sorCorrectionTurboprop(azimuth float64) float64 {
	return -34643.898 + 30722161.987/azimuth -
		11491573930.510/math.Pow(azimuth, 2) + 2349285669062.0/math.Pow(azimuth, 3) -
		283584441904272.0/math.Pow(azimuth, 4) + 20227150391251300.0/math.Pow(azimuth, 5) -
		790084471305203000.0/math.Pow(azimuth, 6) + 13050687178273800000.0/math.Pow(azimuth, 7)
}

type commonCorrectionFactors struct {
	duration                        float64
	engineInstallationMaximumLevel  float64
	engineInstallationExposure      float64
	lateralAttenuationMaximumLevel  float64
	lateralAttenuationExposure      float64
}

func newCommonCorrectionFactors(d segmentReceptorData, lateralDir LateralDirectivity) commonCorrectionFactors {
	var c commonCorrectionFactors

	if d.trueAirspeed < gmath.Precision {
		c.duration = 0
	} else {
		c.duration = 10 * math.Log10(fromKnots(160)/d.trueAirspeed)
	}

	switch lateralDir {
	case Wing:
		c.engineInstallationMaximumLevel = engineInstallationCorrection(0.0039, 0.062, 0.8786, d.depressionAngleS)
		c.engineInstallationExposure = engineInstallationCorrection(0.0039, 0.062, 0.8786, d.depressionAngleE)
	case Fuselage:
		c.engineInstallationMaximumLevel = engineInstallationCorrection(0.1225, 0.329, 1.0, d.depressionAngleS)
		c.engineInstallationExposure = engineInstallationCorrection(0.1225, 0.329, 1.0, d.depressionAngleE)
	case Propeller:
		c.engineInstallationMaximumLevel = 0
		c.engineInstallationExposure = 0
	}

	c.lateralAttenuationMaximumLevel = lateralAttenuation(d.groundDistanceS, d.elevationAngleS)
	c.lateralAttenuationExposure = lateralAttenuation(d.groundDistanceE, d.elevationAngleE)

	return c
}

// Generator evaluates one operation's segments against receptors. It
// owns mutable copies of the SEL and LAMAX tables so the atmospheric
// absorption delta state is never shared across workers; the
// noise-run driver copies a per-aircraft template Generator per
// operation.
type Generator struct {
	sel        NpdData
	lamax      NpdData
	spectrum   Spectrum
	lateralDir LateralDirectivity

	deltas DeltaArray

	// MaxDistance is the receptor cutoff.
	MaxDistance float64
}

func newGenerator(sel, lamax NpdData, spectrum Spectrum, lateralDir LateralDirectivity) Generator {
	return Generator{sel: sel, lamax: lamax, spectrum: spectrum, lateralDir: lateralDir, MaxDistance: DefaultMaximumDistance}
}

// Deltas returns the delta vector currently applied to the tables.
func (g *Generator) Deltas() DeltaArray { return g.deltas }

// Sel and Lamax expose the generator's (possibly delta-shifted) tables.
func (g *Generator) Sel() *NpdData   { return &g.sel }
func (g *Generator) Lamax() *NpdData { return &g.lamax }

// ApplyAtmosphericAbsorption remaps both NPD tables from the Doc29
// standard atmosphere to the given one. The previous
// delta is cancelled first, so applying delta D then D' equals applying
// D' alone.
func (g *Generator) ApplyAtmosphericAbsorption(absorption AtmosphericAbsorption) {
	g.ResetAtmosphericAbsorption()
	if absorption.Type == AbsorptionNone {
		return
	}
	g.calculateAtmosphericAbsorptionDeltas(absorption)
	g.sel.ApplyDelta(g.deltas)
	g.lamax.ApplyDelta(g.deltas)
}

// ResetAtmosphericAbsorption cancels the currently applied delta,
// restoring the tables to their Doc29 standard-atmosphere levels.
func (g *Generator) ResetAtmosphericAbsorption() {
	for i := range g.deltas {
		g.deltas[i] = -g.deltas[i]
	}
	g.sel.ApplyDelta(g.deltas)
	g.lamax.ApplyDelta(g.deltas)
	g.deltas = DeltaArray{}
}

// calculateAtmosphericAbsorptionDeltas derives one delta per
// standardized distance: the
// reference spectrum is backed out to the source (adding the standard
// attenuation over the 305 m reference), projected to each standardized
// distance under both atmospheres (spherical spreading plus
// attenuation), A-weighted, energy-summed per distance, and differenced.
func (g *Generator) calculateAtmosphericAbsorptionDeltas(absorption AtmosphericAbsorption) {
	var correctedLevels [OneThirdOctaveBandsSize]float64
	for i := range correctedLevels {
		correctedLevels[i] = g.spectrum[i] + NpdStandardAverageAttenuationRates[i]*305.0
	}

	energySum := func(levels [OneThirdOctaveBandsSize]float64) float64 {
		sum := 0.0
		for _, l := range levels {
			sum += math.Pow(10, l/10)
		}
		return 10 * math.Log10(sum)
	}

	for i, dist := range NpdStandardDistances {
		spreading := 20 * math.Log10(dist/305.0)

		var standardAtm, specifiedAtm [OneThirdOctaveBandsSize]float64
		for j := range correctedLevels {
			standardAtm[j] = correctedLevels[j] - spreading - NpdStandardAverageAttenuationRates[j]*dist + OneThirdOctaveAWeight[j]
			specifiedAtm[j] = correctedLevels[j] - spreading - absorption.Rates[j]*dist + OneThirdOctaveAWeight[j]
		}

		g.deltas[i] = energySum(specifiedAtm) - energySum(standardAtm)
	}
}

// segmentGeometry derives the slant length and flight-path angle of
// segment P1->P2 from the performance output's own fields.
func segmentGeometry(p1, p2 performance.Point) (length, angle float64) {
	groundLength := p2.CumulativeGroundDistance - p1.CumulativeGroundDistance
	altDiff := p2.AltitudeMsl - p1.AltitudeMsl
	return math.Hypot(groundLength, altDiff), math.Atan2(altDiff, groundLength)
}

// ArrivalGenerator evaluates arrival segments.
type ArrivalGenerator struct {
	Generator
}

// NewArrivalGenerator builds an arrival generator from the noise
// aircraft's arrival tables.
func NewArrivalGenerator(ns *Doc29Noise) *ArrivalGenerator {
	return &ArrivalGenerator{Generator: newGenerator(ns.ArrivalSel, ns.ArrivalLamax, ns.ArrivalSpectrum, ns.LateralDir)}
}

// Calculate returns the segment's (LAMAX, SEL) contribution at the
// receptor; ok is false when the segment is beyond the receptor cutoff
// and contributes nothing.
func (g *ArrivalGenerator) Calculate(p1, p2 performance.Point, recept Receptor, cs geo.CoordinateSystem) (lamax, sel float64, ok bool) {
	length, angle := segmentGeometry(p1, p2)
	d := newSegmentReceptorData(length, angle, p1, p2, recept, cs, g.MaxDistance)
	if d.segmentTooFar {
		return 0, 0, false
	}

	sel = g.sel.Interpolate(d.thrust, d.distanceE)
	lamax = g.lamax.Interpolate(d.thrust, d.distanceS)
	lamaxP := g.lamax.Interpolate(d.thrust, d.distanceP)

	corr := newCommonCorrectionFactors(d, g.lateralDir)

	distScaled := 2 / math.Pi * fromKnots(160) * math.Pow(10, (sel-lamaxP)/10)
	var corrFiniteSegment float64
	if d.behindTakeoffRollOrAheadOfLandingRoll {
		alpha1 := -length / distScaled
		corrFiniteSegment = 10 * math.Log10(1/math.Pi*(-alpha1/(1+alpha1*alpha1)-math.Atan(alpha1)))
	} else {
		alpha1 := -d.q / distScaled
		alpha2 := -(d.q - length) / distScaled
		corrFiniteSegment = 10 * math.Log10(1/math.Pi*(alpha2/(1+alpha2*alpha2)+math.Atan(alpha2)-alpha1/(1+alpha1*alpha1)-math.Atan(alpha1)))
	}
	corrFiniteSegment = math.Max(-150, corrFiniteSegment)

	lamax = lamax + corr.engineInstallationMaximumLevel - corr.lateralAttenuationMaximumLevel
	sel = sel + corr.duration + corr.engineInstallationExposure - corr.lateralAttenuationExposure + corrFiniteSegment

	return lamax, sel, true
}

// DepartureGenerator evaluates departure segments, adding start-of-roll
// directivity.
type DepartureGenerator struct {
	Generator
	sor SORCorrection
}

// NewDepartureGenerator builds a departure generator from the noise
// aircraft's departure tables.
func NewDepartureGenerator(ns *Doc29Noise) *DepartureGenerator {
	return &DepartureGenerator{Generator: newGenerator(ns.DepartureSel, ns.DepartureLamax, ns.DepartureSpectrum, ns.LateralDir), sor: ns.SOR}
}

// Calculate returns the segment's (LAMAX, SEL) contribution at the
// receptor; ok is false when the segment is beyond the receptor cutoff.
func (g *DepartureGenerator) Calculate(p1, p2 performance.Point, recept Receptor, cs geo.CoordinateSystem) (lamax, sel float64, ok bool) {
	length, angle := segmentGeometry(p1, p2)
	d := newSegmentReceptorData(length, angle, p1, p2, recept, cs, g.MaxDistance)
	if d.segmentTooFar {
		return 0, 0, false
	}

	sel = g.sel.Interpolate(d.thrust, d.distanceE)
	lamax = g.lamax.Interpolate(d.thrust, d.distanceS)
	lamaxP := g.lamax.Interpolate(d.thrust, d.distanceP)

	corr := newCommonCorrectionFactors(d, g.lateralDir)

	distScaled := 2 / math.Pi * fromKnots(160) * math.Pow(10, (sel-lamaxP)/10)
	var corrFiniteSegment float64
	if d.behindTakeoffRollOrAheadOfLandingRoll {
		alpha2 := length / distScaled
		corrFiniteSegment = 10 * math.Log10(1 / math.Pi * (alpha2/(1+alpha2*alpha2) + math.Atan(alpha2)))
	} else {
		alpha1 := -d.q / distScaled
		alpha2 := -(d.q - length) / distScaled
		corrFiniteSegment = 10 * math.Log10(1/math.Pi*(alpha2/(1+alpha2*alpha2)+math.Atan(alpha2)-alpha1/(1+alpha1*alpha1)-math.Atan(alpha1)))
	}
	corrFiniteSegment = math.Max(-150, corrFiniteSegment)

	corrSor := 0.0
	if d.behindTakeoffRollOrAheadOfLandingRoll {
		ratio := d.q / d.distanceS
		var azimuth float64
		if math.IsNaN(ratio) || ratio+1 < gmath.Precision {
			azimuth = 180
		} else {
			azimuth = gmath.Degrees(math.Acos(ratio))
		}
		switch g.sor {
		case SORNone:
		case SORJet:
			corrSor = sorCorrectionJet(azimuth)
		case SORTurboprop:
			corrSor = sorCorrectionTurboprop(azimuth)
		}
		if d.distanceS > 762 {
			corrSor = corrSor * 762 / d.distanceS
		}
	}

	lamax = lamax + corr.engineInstallationMaximumLevel - corr.lateralAttenuationMaximumLevel + corrSor
	sel = sel + corr.duration + corr.engineInstallationExposure - corr.lateralAttenuationExposure + corrFiniteSegment + corrSor

	return lamax, sel, true
}
