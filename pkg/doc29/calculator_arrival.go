// pkg/doc29/calculator_arrival.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// calculateArrivalPoints mirrors
// Doc29ProfileArrivalCalculator::visitDoc29ProfileArrivalPoints: each
// user-defined point is turned into a profile point directly, deriving
// groundspeed from true airspeed minus headwind and bank angle from the
// route's turn radius at that distance.
func (c *Calculator) calculateArrivalPoints(out *ProfileOutput, profile ArrivalPointsProfile) {
	for _, pt := range profile.Points {
		flPhase := Approach
		if pt.CumulativeGroundDistance > 0 && pt.AltitudeAfe <= c.Rwy.ElevationAt(pt.CumulativeGroundDistance)+gmath.Precision {
			flPhase = LandingRoll
		}
		hdg := c.Route.Heading(pt.CumulativeGroundDistance)
		gs := pt.TrueAirspeed - c.Atm.Headwind(hdg)
		bank := gmath.BankAngle(gs, c.Route.TurnRadius(pt.CumulativeGroundDistance))
		out.AddPoint(pt.CumulativeGroundDistance, pt.AltitudeAfe+c.Rwy.Elevation, pt.TrueAirspeed, gs, pt.CorrNetThrustPerEng, bank, flPhase)
	}
}

// calculateArrivalProcedural mirrors
// Doc29ProfileArrivalCalculator::visitDoc29ProfileArrivalProcedural: add
// the landing/touchdown anchor points, then the ground-roll steps
// forward from touchdown, then the air steps backward from the
// threshold (the landing step anchors both altitude and airspeed for
// the upstream air steps), finally recompute bank angle from the route.
func (c *Calculator) calculateArrivalProcedural(out *ProfileOutput, profile *ArrivalProceduralProfile) {
	c.addLandingStep(out, profile)
	c.addGroundSteps(out, profile)
	c.addAirSteps(out, profile)
	out.RecalculateBankAngle(c.Route)
}

// addLandingStep mirrors Doc29ProfileArrivalCalculator::addLandingStep:
// computes the threshold-crossing point (distance 0) and the touchdown
// point using Doc29's dedicated landing-thrust formula.
func (c *Calculator) addLandingStep(out *ProfileOutput, profile *ArrivalProceduralProfile) {
	land := profile.Land
	thrAltMsl := land.ThresholdCrossingAltitudeAfe + c.Rwy.Elevation
	thrCas := land.AeroCoefficients.D * math.Sqrt(c.Weight*gmath.G0())
	thrTas := gmath.TrueAirspeed(thrCas, c.Atm.DensityRatio(thrAltMsl))
	thrGs := gmath.Groundspeed(thrTas, land.DescentAngle, c.Atm.Headwind(c.Route.Heading(0)))

	thrThrust := c.landingThrust(thrAltMsl, land, thrCas, c.Atm.Headwind(c.Route.Heading(0)))
	out.AddPoint(0, thrAltMsl, thrTas, thrGs, thrThrust, math.NaN(), Approach)

	tdDist := gmath.GroundDistance(thrAltMsl, c.Rwy.Elevation, land.DescentAngle)
	tdAltMsl := c.Rwy.Elevation + c.Rwy.Gradient*tdDist
	tdTas := gmath.TrueAirspeed(thrCas, c.Atm.DensityRatio(tdAltMsl))
	tdGs := gmath.Groundspeed(tdTas, land.DescentAngle, c.Atm.Headwind(c.Route.Heading(tdDist)))
	tdThrust := c.landingThrust(tdAltMsl, land, thrCas, c.Atm.Headwind(c.Route.Heading(tdDist)))
	out.AddPoint(tdDist, tdAltMsl, tdTas, tdGs, tdThrust, math.NaN(), LandingRoll)
}

// landingThrust is Doc29's dedicated landing-configuration thrust
// formula: force-balance thrust plus a wind-correction term
// scaled by the headwind minus 8 knots, evaluated at thrCas (the
// threshold calibrated airspeed, held constant along the approach).
func (c *Calculator) landingThrust(altMsl float64, land DescendLand, thrCas, headwind float64) float64 {
	base := c.Weight * gmath.G0() / (float64(c.Acft.EngineCount) * c.Atm.PressureRatio(altMsl)) *
		(land.AeroCoefficients.R + math.Sin(gmath.Radians(land.DescentAngle))/1.03)
	windCorr := 1.03 * (c.Weight * gmath.G0() / c.Atm.PressureRatio(altMsl)) *
		(math.Sin(gmath.Radians(land.DescentAngle)) * (headwind - fromKnots(8))) / (float64(c.Acft.EngineCount) * thrCas)
	return base + windCorr
}

// addGroundSteps mirrors Doc29ProfileArrivalCalculator::addGroundSteps:
// walks the ground-decelerate steps forward from touchdown, each
// holding a constant calibrated airspeed (= true airspeed on the
// ground) and a reverse-thrust fraction of max static thrust.
func (c *Calculator) addGroundSteps(out *ProfileOutput, profile *ArrivalProceduralProfile) {
	currCumDist := profile.Land.TouchdownRoll
	currAltMsl := out.Last().AltitudeMsl

	for _, step := range profile.GroundSteps {
		tas := gmath.TrueAirspeed(step.StartCalibratedAirspeed, c.Atm.DensityRatio(currAltMsl))
		gs := tas
		thrust := step.StartThrustPercentage * c.Acft.MaximumSeaLevelStaticThrust
		out.AddPoint(currCumDist, currAltMsl, tas, gs, thrust, math.NaN(), LandingRoll)

		currAltMsl += step.GroundDistance * c.Rwy.Gradient
		currCumDist += step.GroundDistance
	}
}

// addAirSteps mirrors Doc29ProfileArrivalCalculator::addAirSteps: steps
// are executed in reverse (upstream from the threshold), since the
// landing step is what fixes altitude and airspeed at distance 0 and
// each preceding air step only knows its own start state relative to
// the one that (in flight order) follows it.
func (c *Calculator) addAirSteps(out *ProfileOutput, profile *ArrivalProceduralProfile) {
	thrPt := out.First()

	currCumDist := 0.0
	currAltMsl := thrPt.AltitudeMsl
	currTas := thrPt.TrueAirspeed
	currGs := thrPt.Groundspeed

	for i := len(profile.AirSteps) - 1; i >= 0; i-- {
		switch step := profile.AirSteps[i].(type) {
		case DescendDecelerate:
			if step.StartAltitudeAfe <= currAltMsl-c.Rwy.Elevation {
				c.log.Warnf("arrival profile %q: descend-decelerate step starting at AFE %.0f m ignored, already reached by a previous step", profile.Name, step.StartAltitudeAfe)
				continue
			}
			groundDist := gmath.GroundDistance(currAltMsl, step.StartAltitudeAfe+c.Rwy.Elevation, step.DescentAngle)
			currCumDist += groundDist

			altMsl := step.StartAltitudeAfe + c.Rwy.Elevation
			tas := gmath.TrueAirspeed(step.StartCalibratedAirspeed, c.Atm.DensityRatio(altMsl))
			gs := gmath.Groundspeed(tas, step.DescentAngle, c.Atm.Headwind(c.Route.Heading(currCumDist)))

			accel := acceleration(gs, currGs, step.DescentAngle, groundDist)
			thrust := c.forceBalanceThrust(currAltMsl, step.AeroCoefficients.R, step.DescentAngle, accel)
			out.AddPoint(currCumDist, altMsl, tas, gs, thrust, math.NaN(), Approach)

			currAltMsl, currTas, currGs = altMsl, tas, gs

		case DescendIdle:
			altMsl := step.StartAltitudeAfe + c.Rwy.Elevation
			groundDist := gmath.GroundDistance(currAltMsl, altMsl, step.DescentAngle)
			currCumDist += groundDist

			tas := gmath.TrueAirspeed(step.StartCalibratedAirspeed, c.Atm.DensityRatio(altMsl))
			gs := gmath.Groundspeed(tas, step.DescentAngle, c.Atm.Headwind(c.Route.Heading(currCumDist)))
			midAltMsl := (currAltMsl + altMsl) / 2
			thrust := c.Acft.Thrust.Calculate(Idle, step.StartCalibratedAirspeed, midAltMsl, c.Acft.EngineBreakpointTemperature, c.Atm)
			out.AddPoint(currCumDist, altMsl, tas, gs, thrust, math.NaN(), Approach)

			currAltMsl, currTas, currGs = altMsl, tas, gs

		case Level:
			currCumDist -= step.GroundDistance
			thrust := c.Weight * gmath.G0() * step.AeroCoefficients.R / (float64(c.Acft.EngineCount) * c.Atm.PressureRatio(currAltMsl))
			out.AddPoint(currCumDist, currAltMsl, currTas, currGs, thrust, math.NaN(), Approach)

		case LevelDecelerate:
			currCumDist -= step.GroundDistance
			tas := gmath.TrueAirspeed(step.StartCalibratedAirspeed, c.Atm.DensityRatio(currAltMsl))
			gs := gmath.Groundspeed(tas, 0, c.Atm.Headwind(c.Route.Heading(currCumDist)))
			accel := acceleration(gs, currGs, 0, step.GroundDistance)
			thrust := c.forceBalanceThrust(currAltMsl, step.AeroCoefficients.R, 0, accel)
			out.AddPoint(currCumDist, currAltMsl, tas, gs, thrust, math.NaN(), Approach)
			currTas, currGs = tas, gs

		case LevelIdle:
			currCumDist -= step.GroundDistance
			tas := gmath.TrueAirspeed(step.StartCalibratedAirspeed, c.Atm.DensityRatio(currAltMsl))
			gs := gmath.Groundspeed(tas, 0, c.Atm.Headwind(c.Route.Heading(currCumDist)))
			thrust := c.Acft.Thrust.Calculate(Idle, step.StartCalibratedAirspeed, currAltMsl, c.Acft.EngineBreakpointTemperature, c.Atm)
			out.AddPoint(currCumDist, currAltMsl, tas, gs, thrust, math.NaN(), Approach)
			currTas, currGs = tas, gs
		}
	}
}

// forceBalanceThrust is Doc29ProfileArrivalCalculator::forceBalanceThrust:
// thrust required to hold the given acceleration at a flight path angle
// with aerodynamic drag coefficient R.
func (c *Calculator) forceBalanceThrust(altMsl, r, angleDeg, accel float64) float64 {
	return c.Weight * gmath.G0() / (float64(c.Acft.EngineCount) * c.Atm.PressureRatio(altMsl)) *
		(r*math.Cos(gmath.Radians(angleDeg)) + math.Sin(gmath.Radians(angleDeg)) + accel/gmath.G0())
}

// acceleration is Doc29ProfileArrivalCalculator::acceleration: constant
// acceleration implied by a speed change over a ground distance at a
// flight path angle.
func acceleration(v1, v2, angleDeg, groundDist float64) float64 {
	cos := math.Cos(gmath.Radians(angleDeg))
	return (math.Pow(v2/cos, 2) - math.Pow(v1/cos, 2)) / (2 * groundDist / cos)
}

func fromKnots(kn float64) float64 { return kn * 0.514444444444 }

func fromFeet(ft float64) float64 { return ft * 0.3048 }
