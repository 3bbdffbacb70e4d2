// cmd/graperun/main.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// graperun wires the whole pipeline over a small embedded scenario: one
// departure flight on a vector route, expanded, assembled and run
// through the noise model over a receptor line under the climb-out. It
// exists to exercise the library end to end from the command line; real
// callers (the study manager, the job scheduler) import the packages
// directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/log"
	"github.com/goncaloroque30/grape-core/pkg/noise"
	"github.com/goncaloroque30/grape-core/pkg/operation"
	"github.com/goncaloroque30/grape-core/pkg/performance"
	"github.com/goncaloroque30/grape-core/pkg/routeexp"
	"github.com/goncaloroque30/grape-core/pkg/run"
)

var (
	logLevel = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "logging directory (default: OS temp dir)")
	threads  = flag.Int("threads", 4, "worker count for the run drivers")
	local    = flag.Bool("localcs", false, "use the local tangent-plane coordinate system instead of WGS84 geodesics")
)

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	var cs geo.CoordinateSystem = geo.NewWGS84Geodesic()
	apt := airport.New("EXMP", geo.Point{Lon: 7.147559, Lat: 50.86735}, 100)
	if *local {
		cs = geo.NewLocalCartesian(apt.Reference)
	}

	rwy := airport.NewRunway("14L", apt.Reference, apt.ReferenceElevation, 3500, 134.578, 0)
	if err := apt.AddRunway(rwy); err != nil {
		fatal("adding runway: %v", err)
	}

	route := airport.NewRoute("VEC-1", airport.Departure, airport.VectorSequence{
		Vectors: []airport.Vector{
			airport.Straight{Distance: 9200},
			airport.Turn{Radius: 5635.83, HeadingChange: 60, Direction: airport.TurnLeft},
			airport.Straight{Distance: 20000},
		},
	})
	if err := rwy.AddRoute(route); err != nil {
		fatal("adding route: %v", err)
	}

	acft := buildAircraft()
	prof := buildDepartureProfile(acft)
	acft.AddDepartureProfile(prof)

	dep := &operation.FlightDeparture{
		OpName:               "DEP-0001",
		Route:                route,
		Acft:                 acft,
		Prof:                 prof,
		Weight:               68000,
		Time:                 0,
		Count:                1,
		ThrustPercentTakeoff: 1,
		ThrustPercentClimb:   1,
	}
	if err := dep.Validate(); err != nil {
		fatal("validating operation: %v", err)
	}

	scenario := &run.Scenario{Name: "embedded", FlightDepartures: []*operation.FlightDeparture{dep}}

	perfRun := run.NewPerformanceRun(scenario, run.PerformanceRunSpec{
		Cs:                cs,
		Atm:               atmos.Standard(),
		RouteConfig:       routeexp.DefaultConfig(),
		PerformanceConfig: performance.DefaultConfig(),
		ThreadCount:       *threads,
	}, lg)
	if !perfRun.Queue() {
		fatal("performance run not queueable")
	}
	if err := perfRun.Run(context.Background()); err != nil {
		fatal("performance run: %v", err)
	}

	perfOut, ok := perfRun.Outputs().Output(dep)
	if !ok {
		fatal("no performance output for %s; see log at %s", dep.OpName, lg.LogFile)
	}

	fmt.Printf("performance output for %s: %d points, status %s\n", dep.OpName, perfOut.Len(), perfRun.Status())
	for _, pt := range perfOut.Points() {
		fmt.Printf("  s=%9.1f m  t=%5d s  alt=%7.1f m  tas=%6.1f m/s  gs=%6.1f m/s  thrust=%9.0f N  bank=%5.1f deg  %s\n",
			pt.CumulativeGroundDistance, pt.Time, pt.AltitudeMsl, pt.TrueAirspeed, pt.Groundspeed,
			pt.CorrNetThrustPerEng, pt.BankAngle, pt.PtOrigin)
	}

	ns := buildNoiseAircraft()
	receptors := buildReceptors(cs, rwy)

	noiseRun := run.NewNoiseRun(perfRun, run.NoiseRunSpec{
		Cs:            cs,
		Receptors:     receptors,
		NoiseAircraft: map[*doc29.Aircraft]*noise.Doc29Noise{acft: ns},
		ThreadCount:   *threads,
	}, lg)
	if err := noiseRun.Run(context.Background()); err != nil {
		fatal("noise run: %v", err)
	}

	metrics, ok := noiseRun.Outputs().Metrics(dep)
	if !ok {
		fatal("no noise output for %s", dep.OpName)
	}
	fmt.Printf("noise output for %s:\n", dep.OpName)
	for i, m := range metrics {
		fmt.Printf("  %-12s LAMAX=%6.1f dB  SEL=%6.1f dB\n", receptors[i].Name, m.Lamax, m.Sel)
	}
}

func fatal(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

// buildAircraft assembles a generic twin-jet with Doc29 rating thrust
// and takeoff/climb-out coefficient sets.
func buildAircraft() *doc29.Aircraft {
	acft, err := doc29.NewAircraft("TWIN-JET", 2, 120000, 303.15)
	if err != nil {
		fatal("building aircraft: %v", err)
	}

	thrust := doc29.NewRatingThrust()
	thrust.SetCoefficients(doc29.MaximumTakeoff, doc29.RatingCoefficients{E: 132000, F: -120, Ga: -2.2, Gb: 0, H: -120})
	thrust.SetCoefficients(doc29.MaximumClimb, doc29.RatingCoefficients{E: 112000, F: -105, Ga: -1.9, Gb: 0, H: -100})
	thrust.SetCoefficients(doc29.Idle, doc29.RatingCoefficients{E: 11000, F: -15, Ga: -0.2, Gb: 0, H: -10})
	acft.Thrust = thrust

	takeoff, err := doc29.NewAeroCoefficients("T-05", doc29.Takeoff, 0.072, 0.0096, 0.4225, 0)
	if err != nil {
		fatal("building takeoff coefficients: %v", err)
	}
	climb, err := doc29.NewAeroCoefficients("C-00", doc29.Cruise, 0.062, 0, 0, 0)
	if err != nil {
		fatal("building climb coefficients: %v", err)
	}
	acft.AddAeroCoefficients(takeoff)
	acft.AddAeroCoefficients(climb)
	return acft
}

// buildDepartureProfile is a standard four-step departure: takeoff,
// initial climb to 457 m AFE, accelerating climb, and a final climb,
// with thrust cutback after the initial climb.
func buildDepartureProfile(acft *doc29.Aircraft) *doc29.DepartureProceduralProfile {
	takeoff, _ := acft.AeroCoefficients("T-05")
	climb, _ := acft.AeroCoefficients("C-00")

	prof := &doc29.DepartureProceduralProfile{
		Name: "STANDARD",
		Steps: []doc29.DepartureStep{
			doc29.Takeoff{AeroCoefficients: takeoff, InitialCalibratedAirspeed: 0},
			doc29.Climb{AeroCoefficients: takeoff, EndAltitudeAfe: 457.2},
			doc29.ClimbAccelerate{AeroCoefficients: climb, EndCalibratedAirspeed: 128.6, ClimbRate: 5.08},
			doc29.Climb{AeroCoefficients: climb, EndAltitudeAfe: 3048},
		},
		ThrustCutback: 1,
	}
	if err := prof.Validate(); err != nil {
		fatal("validating profile: %v", err)
	}
	return prof
}

// buildNoiseAircraft assembles an NPD set with levels falling off both
// in distance and towards lower thrust, wing-mounted directivity and
// jet start-of-roll correction.
func buildNoiseAircraft() *noise.Doc29Noise {
	var thrustAxis [noise.NpdThrustCount]float64
	for i := range thrustAxis {
		thrustAxis[i] = 20000 + float64(i)*10000
	}

	makeTable := func(base float64) noise.NpdData {
		var levels [noise.NpdThrustCount][noise.NpdStandardDistancesSize]float64
		for i := range levels {
			for j := range levels[i] {
				levels[i][j] = base + float64(i)*1.5 - float64(j)*7.5
			}
		}
		tbl, err := noise.NewNpdData(thrustAxis, levels)
		if err != nil {
			fatal("building NPD table: %v", err)
		}
		return tbl
	}

	var spectrum noise.Spectrum
	for i := range spectrum {
		spectrum[i] = 70 - float64(i)
	}

	return &noise.Doc29Noise{
		Name:              "TWIN-JET",
		LateralDir:        noise.Wing,
		SOR:               noise.SORJet,
		ArrivalSel:        makeTable(100),
		ArrivalLamax:      makeTable(95),
		DepartureSel:      makeTable(102),
		DepartureLamax:    makeTable(97),
		ArrivalSpectrum:   spectrum,
		DepartureSpectrum: spectrum,
	}
}

// buildReceptors places three receptors under the initial climb-out.
func buildReceptors(cs geo.CoordinateSystem, rwy *airport.Runway) []noise.Receptor {
	var receptors []noise.Receptor
	for i, dist := range []float64{3000, 6000, 9000} {
		pos := cs.Point(rwy.Threshold, dist, rwy.Heading)
		receptors = append(receptors, noise.Receptor{
			Name:      fmt.Sprintf("R-%d", i+1),
			Longitude: pos.Lon,
			Latitude:  pos.Lat,
			Elevation: rwy.Elevation,
		})
	}
	return receptors
}
