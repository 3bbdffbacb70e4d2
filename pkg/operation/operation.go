// pkg/operation/operation.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package operation implements the Operation data model: a sum
// type over Flight and Track4D, each tagged arrival or departure. A
// Flight references an aircraft, a route and a Doc29 profile and is
// expanded by the performance assembler (pkg/performance); a Track4D
// skips profile expansion and supplies its own timestamped points
// directly.
//
// The C++ implementation's Flight.h models FlightArrival and
// FlightDeparture as two independent derived structs (sharing Flight's
// Weight field through virtual inheritance), each holding raw observer
// pointers to a route and a Doc29 profile. This package folds that
// shape into two exported field-pointer structs reachable through the
// closed Operation interface below, the same unexported-marker-method
// sum-type pattern pkg/airport and pkg/doc29 already use in place of
// std::variant + std::visit double dispatch.
package operation

import (
	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

// Direction mirrors airport.Direction; kept as a distinct type alias so
// callers working only with operations don't need to import pkg/airport.
type Direction = airport.Direction

const (
	Arrival   = airport.Arrival
	Departure = airport.Departure
)

// Operation is the closed sum type the performance-run driver
// (pkg/run) iterates over: either a Flight (profile-expanded) or a
// Track4D (points supplied directly), each arrival or departure.
type Operation interface {
	Name() string
	Direction() Direction
	Aircraft() *doc29.Aircraft
	isOperation()
}

// Point4D is a single timestamped point of a Track4D operation.
type Point4D struct {
	Time                     int64 // TAI seconds
	Longitude                float64
	Latitude                 float64
	AltitudeMsl              float64
	TrueAirspeed             float64
	Groundspeed              float64
	CorrectedNetThrustPerEng float64
	BankAngle                float64
	FuelFlowPerEng           float64
}

// FlightArrival is an arrival operation expanded through a Doc29 arrival
// profile against an arrival route.
type FlightArrival struct {
	OpName string
	Route  *airport.Route
	Acft   *doc29.Aircraft
	Prof   doc29.ArrivalProfile
	Weight float64 // kg, > 0
	Time   int64   // TAI seconds, scheduled time
	Count  float64 // number of operations represented, > 0
}

func (f *FlightArrival) isOperation()             {}
func (f *FlightArrival) Name() string             { return f.OpName }
func (f *FlightArrival) Direction() Direction     { return Arrival }
func (f *FlightArrival) Aircraft() *doc29.Aircraft { return f.Acft }

// Validate checks the Flight invariants (weight and
// count strictly positive); route/profile wiring is validated by the
// owning packages at construction time.
func (f *FlightArrival) Validate() error {
	if f.Weight <= 0 {
		return grerr.NewValidation("Weight", f.Weight, "must be > 0")
	}
	if f.Count <= 0 {
		return grerr.NewValidation("Count", f.Count, "must be > 0")
	}
	return nil
}

// FlightDeparture is a departure operation; it additionally carries the
// two derate scalars the Doc29 departure profile calculator consumes.
type FlightDeparture struct {
	OpName                 string
	Route                  *airport.Route
	Acft                   *doc29.Aircraft
	Prof                   doc29.DepartureProfile
	Weight                 float64
	Time                   int64
	Count                  float64
	ThrustPercentTakeoff   float64 // [0.5, 1]
	ThrustPercentClimb     float64 // [0.5, 1]
}

func (f *FlightDeparture) isOperation()             {}
func (f *FlightDeparture) Name() string             { return f.OpName }
func (f *FlightDeparture) Direction() Direction     { return Departure }
func (f *FlightDeparture) Aircraft() *doc29.Aircraft { return f.Acft }

func (f *FlightDeparture) Validate() error {
	if f.Weight <= 0 {
		return grerr.NewValidation("Weight", f.Weight, "must be > 0")
	}
	if f.Count <= 0 {
		return grerr.NewValidation("Count", f.Count, "must be > 0")
	}
	if f.ThrustPercentTakeoff < 0.5 || f.ThrustPercentTakeoff > 1 {
		return grerr.NewValidation("ThrustPercentTakeoff", f.ThrustPercentTakeoff, "must be in [0.5, 1]")
	}
	if f.ThrustPercentClimb < 0.5 || f.ThrustPercentClimb > 1 {
		return grerr.NewValidation("ThrustPercentClimb", f.ThrustPercentClimb, "must be in [0.5, 1]")
	}
	return nil
}

// Track4DArrival/Track4DDeparture skip profile expansion entirely: the
// performance assembler (pkg/performance) ingests Points as-is instead of
// fusing a route polyline with a Doc29 profile output.
type Track4DArrival struct {
	OpName string
	Acft   *doc29.Aircraft
	Count  float64
	Points []Point4D
}

func (t *Track4DArrival) isOperation()             {}
func (t *Track4DArrival) Name() string             { return t.OpName }
func (t *Track4DArrival) Direction() Direction     { return Arrival }
func (t *Track4DArrival) Aircraft() *doc29.Aircraft { return t.Acft }

type Track4DDeparture struct {
	OpName string
	Acft   *doc29.Aircraft
	Count  float64
	Points []Point4D
}

func (t *Track4DDeparture) isOperation()             {}
func (t *Track4DDeparture) Name() string             { return t.OpName }
func (t *Track4DDeparture) Direction() Direction     { return Departure }
func (t *Track4DDeparture) Aircraft() *doc29.Aircraft { return t.Acft }
