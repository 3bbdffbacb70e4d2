// pkg/doc29/calculator_departure.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package doc29

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// calculateDeparturePoints mirrors
// Doc29ProfileDepartureCalculator::visitDoc29ProfileDeparturePoints: each
// user-defined point is turned into a profile point directly. The flight
// phase is derived from altitude AFE (ground vs initial climb vs climb)
// and the thrust-cutback boundary is inferred by scanning for the first
// point between 500ft and 5000ft AFE where the thrust drops relative to
// the previous point (Doc29's heuristic for locating the procedural
// thrust cutback in a points profile).
func (c *Calculator) calculateDeparturePoints(out *ProfileOutput, profile DeparturePointsProfile, thrustPctTakeoff, thrustPctClimb float64) {
	cutbackThrust := math.NaN()
	for i, pt := range profile.Points {
		if i > 0 && pt.AltitudeAfe >= fromFeet(500) && pt.AltitudeAfe <= fromFeet(5000) {
			if pt.CorrNetThrustPerEng < profile.Points[i-1].CorrNetThrustPerEng-gmath.Precision {
				cutbackThrust = pt.CorrNetThrustPerEng
				break
			}
		}
	}

	for _, pt := range profile.Points {
		flPhase := InitialClimb
		switch {
		case pt.CumulativeGroundDistance <= 0:
			flPhase = TakeoffRoll
		case !math.IsNaN(cutbackThrust) && pt.CorrNetThrustPerEng <= cutbackThrust+gmath.Precision:
			flPhase = ClimbPhase
		}

		hdg := c.Route.Heading(pt.CumulativeGroundDistance)
		gs := pt.TrueAirspeed - c.Atm.Headwind(hdg)
		bank := gmath.BankAngle(gs, c.Route.TurnRadius(pt.CumulativeGroundDistance))
		thrustPct := thrustPctTakeoff
		if flPhase == ClimbPhase {
			thrustPct = thrustPctClimb
		}
		out.AddPoint(pt.CumulativeGroundDistance, pt.AltitudeAfe+c.Rwy.Elevation, pt.TrueAirspeed, gs, pt.CorrNetThrustPerEng*thrustPct, bank, flPhase)
	}
}

// departureState is the running state threaded through
// calculateDepartureProcedural, mirroring the local variables of
// Doc29ProfileDepartureCalculator::visitDoc29ProfileDepartureProcedural
// (currCumGroundDist, currAltMsl, currCas, currTas, currGs, currThrust,
// currBankAngle).
type departureState struct {
	cumGroundDist float64
	altMsl        float64
	cas           float64
	tas           float64
	gs            float64
	thrust        float64
	bankAngle     float64

	rating         Rating
	thrustPct      float64
	phase          FlightPhase
	cutbackDone    bool
	pendingCutback bool
}

// calculateDepartureProcedural mirrors
// Doc29ProfileDepartureCalculator::visitDoc29ProfileDepartureProcedural:
// the Takeoff step seeds the state, then each Climb/ClimbAccelerate/
// ClimbAcceleratePercentage step advances it, switching from
// max-takeoff to max-climb thrust/rating/phase exactly once, at the
// first step after the ThrustCutback index. Returns false (mirroring the original's early
// "return" after ProfOutput.clear()) if a climb-accelerate step's target
// speed is unreachable.
func (c *Calculator) calculateDepartureProcedural(out *ProfileOutput, profile *DepartureProceduralProfile, thrustPctTakeoff, thrustPctClimb float64) bool {
	takeoff := profile.Steps[0].(Takeoff)
	st := &departureState{
		altMsl:    c.Rwy.Elevation,
		cas:       takeoff.InitialCalibratedAirspeed,
		rating:    MaximumTakeoff,
		thrustPct: thrustPctTakeoff,
		phase:     TakeoffRoll,
	}
	st.tas = gmath.TrueAirspeed(st.cas, c.Atm.DensityRatio(st.altMsl))
	st.gs = gmath.Groundspeed(st.tas, 0, c.Atm.Headwind(c.Route.Heading(0)))
	st.thrust = c.Acft.Thrust.Calculate(st.rating, st.cas, st.altMsl, c.Acft.EngineBreakpointTemperature, c.Atm) * st.thrustPct

	rollDist := c.takeoffRollDistance(takeoff, st)
	out.AddPoint(0, st.altMsl, st.tas, st.gs, st.thrust, 0, TakeoffRoll)

	st.cumGroundDist = rollDist
	st.altMsl = c.Rwy.ElevationAt(rollDist)
	st.phase = InitialClimb
	out.AddPoint(st.cumGroundDist, st.altMsl, st.tas, st.gs, st.thrust, 0, TakeoffRoll)

	for i := 1; i < len(profile.Steps); i++ {
		if i == profile.ThrustCutback+1 && !st.cutbackDone {
			st.rating = MaximumClimb
			st.thrustPct = thrustPctClimb
			st.phase = ClimbPhase
			st.cutbackDone = true
			st.pendingCutback = true
		}

		var ok bool
		switch step := profile.Steps[i].(type) {
		case Climb:
			ok = c.climbStep(out, st, step)
		case ClimbAccelerate:
			ok = c.climbAccelerateStep(out, st, step, step.ClimbRate, false)
		case ClimbAcceleratePercentage:
			ok = c.climbAccelerateStep(out, st, step, step.AccelerationFraction, true)
		}
		if !ok {
			return false
		}
	}
	return true
}

// takeoffRollDistance is Doc29ProfileDepartureCalculator's takeoff
// ground-roll formula: B*theta(alt)*(W*g/delta)^2/(N*thrust), corrected
// for headwind and for the runway gradient's effect on acceleration.
func (c *Calculator) takeoffRollDistance(step Takeoff, st *departureState) float64 {
	b := step.AeroCoefficients.B
	theta := c.Atm.TemperatureRatio(st.altMsl)
	delta := c.Atm.PressureRatio(st.altMsl)
	wg := c.Weight * gmath.G0()

	dist := b * theta * math.Pow(wg/delta, 2) / (float64(c.Acft.EngineCount) * st.thrust)

	headwind := c.Atm.Headwind(c.Route.Heading(0))
	windCorr := math.Pow((st.cas-headwind)/(st.cas-fromKnots(8)), 2)
	dist *= windCorr

	accel := st.tas * st.tas / (2 * dist)
	if accel-gmath.G0()*c.Rwy.Gradient > 0 {
		dist *= accel / (accel - gmath.G0()*c.Rwy.Gradient)
	}
	return dist
}

// climbStep mirrors the Climb branch of
// visitDoc29ProfileDepartureProcedural: holds calibrated airspeed
// constant, solves the climb angle from the thrust/drag force balance
// (formula B-8's bank-angle-corrected form), and advances to the step's
// end altitude, inserting intermediate points at every route
// turn-radius-change within the segment.
func (c *Calculator) climbStep(out *ProfileOutput, st *departureState, step Climb) bool {
	endAltMsl := step.EndAltitudeAfe + c.Rwy.Elevation
	if endAltMsl < st.altMsl {
		return true // altitude already reached by a previous step
	}
	endThrust := c.Acft.Thrust.Calculate(st.rating, st.cas, endAltMsl, c.Acft.EngineBreakpointTemperature, c.Atm) * st.thrustPct

	midAltMsl := (st.altMsl + endAltMsl) / 2
	midThrust := (st.thrust + endThrust) / 2
	midWeightForce := c.Weight * gmath.G0() / c.Atm.PressureRatio(midAltMsl)

	k := 1.01
	if st.cas > fromKnots(200) {
		k = 0.95
	}
	// Headwind correction taken for headwind at the beginning of the climb.
	headwind := c.Atm.Headwind(c.Route.Heading(st.cumGroundDist))
	windCorr := (st.cas - fromKnots(8)) / (st.cas - headwind)
	climbAngle := windCorr * gmath.Degrees(math.Asin(k*(float64(c.Acft.EngineCount)*midThrust/midWeightForce-step.AeroCoefficients.R/math.Cos(gmath.Radians(st.bankAngle)))))

	groundDist := gmath.GroundDistance(st.altMsl, endAltMsl, climbAngle)
	seg := turnSegment{
		endCumGroundDist: st.cumGroundDist + groundDist,
		endAltMsl:        endAltMsl,
		endCas:           st.cas,
		endThrust:        endThrust,
		climbAngle:       climbAngle,
	}
	c.walkTurnRadiusChanges(out, st, seg)

	st.cumGroundDist = seg.endCumGroundDist
	st.altMsl = endAltMsl
	st.tas = gmath.TrueAirspeed(st.cas, c.Atm.DensityRatio(endAltMsl))
	st.gs = gmath.Groundspeed(st.tas, climbAngle, c.Atm.Headwind(c.Route.Heading(st.cumGroundDist)))
	st.thrust = endThrust
	st.bankAngle = gmath.BankAngle(st.gs, c.Route.TurnRadius(st.cumGroundDist))
	out.AddPoint(st.cumGroundDist, st.altMsl, st.tas, st.gs, st.thrust, st.bankAngle, st.phase)
	return true
}

// climbAccelerateStep mirrors the ClimbAccelerate/ClimbAcceleratePercentage
// branches: the end altitude is not known up front, only the end
// calibrated airspeed and a climb-rate (rate or fraction-of-excess-thrust
// form). The true end altitude is found by fixed-point iteration on the
// mid-segment thrust/weight, converging to within 1 ft, failing with
// "CAS unreachable" if the requested climb gradient leaves no excess
// acceleration.
func (c *Calculator) climbAccelerateStep(out *ProfileOutput, st *departureState, step any, climbParam float64, percentage bool) bool {
	var coeffs *AeroCoefficients
	var endCas float64
	switch s := step.(type) {
	case ClimbAccelerate:
		coeffs, endCas = s.AeroCoefficients, s.EndCalibratedAirspeed
	case ClimbAcceleratePercentage:
		coeffs, endCas = s.AeroCoefficients, s.EndCalibratedAirspeed
	}
	if endCas < st.cas {
		return true // speed already reached by a previous step
	}

	var groundDist, climbGrad, endThrust float64
	endAltMsl := st.altMsl + fromFeet(250)
	estEndAltMsl := endAltMsl

	// Headwind held constant for the end altitude estimation.
	headwind := c.Atm.Headwind(c.Route.Heading(st.cumGroundDist))

	converged := false
	for iter := 0; iter < 1000; iter++ {
		endAltMsl = estEndAltMsl
		endTas := gmath.TrueAirspeed(endCas, c.Atm.DensityRatio(endAltMsl))
		endThrust = c.Acft.Thrust.Calculate(st.rating, endCas, endAltMsl, c.Acft.EngineBreakpointTemperature, c.Atm) * st.thrustPct

		midAltMsl := (st.altMsl + endAltMsl) / 2
		midTas := (st.tas + endTas) / 2
		midThrust := (st.thrust + endThrust) / 2
		midWeightForce := c.Weight * gmath.G0() / c.Atm.PressureRatio(midAltMsl)

		accelFact := float64(c.Acft.EngineCount)*midThrust/midWeightForce - coeffs.R*math.Cos(gmath.Radians(st.bankAngle))

		if percentage {
			climbGrad = accelFact * (1 - climbParam) // climb parameter is percentage of thrust
		} else {
			climbGrad = climbParam / midTas // climb parameter is climb rate
		}

		if accelFact-climbGrad <= 0.01 {
			c.log.Warnf("departure profile: climb-accelerate step to CAS %.2f m/s unreachable, accelFact=%.4f climbGrad=%.4f", endCas, accelFact, climbGrad)
			return false
		}
		if accelFact-climbGrad <= 0.02 {
			climbGrad = accelFact - 0.02
		}

		windCorr := (endTas - headwind) / (endTas - fromKnots(8))
		groundDist = windCorr * 0.95 * (endTas*endTas - st.tas*st.tas) / (2 * gmath.G0() * (accelFact - climbGrad))

		estEndAltMsl = st.altMsl + groundDist*climbGrad/0.95
		if math.Abs(estEndAltMsl-endAltMsl) <= fromFeet(1) {
			converged = true
			break
		}
	}
	if !converged {
		c.log.Warnf("departure profile: climb-accelerate step to CAS %.2f m/s did not converge on an end altitude", endCas)
		return false
	}

	climbAngle := gmath.Degrees(math.Atan(climbGrad))
	seg := turnSegment{
		endCumGroundDist: st.cumGroundDist + groundDist,
		endAltMsl:        endAltMsl,
		endCas:           endCas,
		endThrust:        endThrust,
		climbAngle:       climbAngle,
	}
	c.walkTurnRadiusChanges(out, st, seg)

	st.cumGroundDist = seg.endCumGroundDist
	st.altMsl = endAltMsl
	st.cas = endCas
	st.tas = gmath.TrueAirspeed(endCas, c.Atm.DensityRatio(endAltMsl))
	st.gs = gmath.Groundspeed(st.tas, climbAngle, c.Atm.Headwind(c.Route.Heading(st.cumGroundDist)))
	st.thrust = endThrust
	st.bankAngle = gmath.BankAngle(st.gs, c.Route.TurnRadius(st.cumGroundDist))
	out.AddPoint(st.cumGroundDist, st.altMsl, st.tas, st.gs, st.thrust, st.bankAngle, st.phase)
	return true
}

// turnSegment is the end state of the climbing segment currently being
// walked: intermediate points inserted at route turn-radius changes
// interpolate toward it. endCas equals the start CAS for constant-CAS
// climbs, collapsing the CAS interpolation to a constant.
type turnSegment struct {
	endCumGroundDist float64
	endAltMsl        float64
	endCas           float64
	endThrust        float64
	climbAngle       float64 // degrees
}

// walkTurnRadiusChanges advances st through every route
// turn-radius-change point within the segment, inserting a profile
// point there with altitude interpolated by distance, CAS and thrust
// interpolated by time toward the segment end state, and airspeed,
// groundspeed and bank angle recomputed at the interpolated altitude,
// mirroring the insertion loop shared by the Climb and
// ClimbAccelerate/ClimbAcceleratePercentage branches. A pending
// thrust-cutback point lands in the first stretch the walk covers, or
// after the last turn-radius change when none remain. The +1.0 offset
// on each successive search start avoids re-finding the same change
// point forever.
func (c *Calculator) walkTurnRadiusChanges(out *ProfileOutput, st *departureState, seg turnSegment) {
	groundDist := seg.endCumGroundDist - st.cumGroundDist
	next := c.Route.TurnRadiusChange(st.cumGroundDist, seg.endCumGroundDist)
	for !math.IsNaN(next) && next < seg.endCumGroundDist {
		turnRadChangeGroundDist := next - st.cumGroundDist
		iFactor := (next - st.cumGroundDist) / groundDist
		st.cumGroundDist = next
		st.altMsl = gmath.Lerp(st.altMsl, seg.endAltMsl, iFactor)
		st.cas = gmath.TimeInterpolation(st.cas, seg.endCas, iFactor)
		st.tas = gmath.TrueAirspeed(st.cas, c.Atm.DensityRatio(st.altMsl))
		st.gs = gmath.Groundspeed(st.tas, seg.climbAngle, c.Atm.Headwind(c.Route.Heading(st.cumGroundDist)))
		st.thrust = gmath.TimeInterpolation(st.thrust, seg.endThrust, iFactor)
		st.bankAngle = gmath.BankAngle(st.gs, c.Route.TurnRadius(st.cumGroundDist))

		if st.pendingCutback {
			st.pendingCutback = false
			c.addCutbackPoint(out, st, seg, turnRadChangeGroundDist)
		}

		out.AddPoint(st.cumGroundDist, st.altMsl, st.tas, st.gs, st.thrust, st.bankAngle, st.phase)
		groundDist = gmath.GroundDistance(st.altMsl, seg.endAltMsl, seg.climbAngle)
		next = c.Route.TurnRadiusChange(st.cumGroundDist+1.0, seg.endCumGroundDist)
	}

	if st.pendingCutback {
		st.pendingCutback = false
		c.addCutbackPoint(out, st, seg, seg.endCumGroundDist-st.cumGroundDist)
	}
}

// addCutbackPoint inserts the thrust-cutback point within the first
// climb or climb-accelerate segment after the declared cutback step: at
// 1000 ft into the segment, or half of it when the segment is shorter
// than 2000 ft. The point interpolates CAS toward the segment end and
// climbs along the segment's flight-path angle from the current state.
func (c *Calculator) addCutbackPoint(out *ProfileOutput, st *departureState, seg turnSegment, segmentGroundDist float64) {
	cutbackGroundDist := fromFeet(1000)
	if segmentGroundDist < fromFeet(2000) {
		cutbackGroundDist = segmentGroundDist / 2
	}
	cutbackCumGroundDist := st.cumGroundDist + cutbackGroundDist
	cutbackAltMsl := st.altMsl + cutbackGroundDist*math.Tan(gmath.Radians(seg.climbAngle))
	cutbackCas := gmath.TimeInterpolation(st.cas, seg.endCas, cutbackGroundDist/(seg.endCumGroundDist-st.cumGroundDist))
	cutbackTas := gmath.TrueAirspeed(cutbackCas, c.Atm.DensityRatio(cutbackAltMsl))
	cutbackGs := gmath.Groundspeed(cutbackTas, seg.climbAngle, c.Atm.Headwind(c.Route.Heading(cutbackCumGroundDist)))
	cutbackThrust := c.Acft.Thrust.Calculate(st.rating, st.cas, cutbackAltMsl, c.Acft.EngineBreakpointTemperature, c.Atm) * st.thrustPct
	cutbackBank := gmath.BankAngle(cutbackGs, c.Route.TurnRadius(cutbackCumGroundDist))
	out.AddPoint(cutbackCumGroundDist, cutbackAltMsl, cutbackTas, cutbackGs, cutbackThrust, cutbackBank, st.phase)
}
