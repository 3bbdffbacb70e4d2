// pkg/run/perfrun.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package run implements the two run drivers: the performance-run
// driver orchestrating route expansion, profile expansion, assembly and
// the fuel-flow hook across all operations of a scenario, and the
// noise-run driver iterating the noise generator over all (segment,
// receptor) pairs.
//
// The shape follows the C++ PerformanceRunJob.cpp (memoized
// RouteOutputGenerator, per-operation tasks drained by a fixed worker
// set, atomic progress counter, status state machine), with the hand
// rolled JobThread/MtQueue replaced by an errgroup with a concurrency
// limit; the workers check the caller-facing cancellation flag, along
// with the context, at operation boundaries.
package run

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/goncaloroque30/grape-core/pkg/airport"
	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
	"github.com/goncaloroque30/grape-core/pkg/log"
	"github.com/goncaloroque30/grape-core/pkg/operation"
	"github.com/goncaloroque30/grape-core/pkg/performance"
	"github.com/goncaloroque30/grape-core/pkg/routeexp"
)

// Status is the run state machine callers poll.
type Status int32

const (
	Ready Status = iota
	Waiting
	Running
	Finished
	Stopped
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Stopped:
		return "stopped"
	default:
		return "ready"
	}
}

// Scenario is the ordered set of operations a run processes.
type Scenario struct {
	Name string

	FlightArrivals    []*operation.FlightArrival
	FlightDepartures  []*operation.FlightDeparture
	Track4DArrivals   []*operation.Track4DArrival
	Track4DDepartures []*operation.Track4DDeparture
}

// Size returns the total operation count.
func (s *Scenario) Size() int {
	return len(s.FlightArrivals) + len(s.FlightDepartures) + len(s.Track4DArrivals) + len(s.Track4DDepartures)
}

// Operations returns every operation in scenario order.
func (s *Scenario) Operations() []operation.Operation {
	ops := make([]operation.Operation, 0, s.Size())
	for _, op := range s.FlightArrivals {
		ops = append(ops, op)
	}
	for _, op := range s.FlightDepartures {
		ops = append(ops, op)
	}
	for _, op := range s.Track4DArrivals {
		ops = append(ops, op)
	}
	for _, op := range s.Track4DDepartures {
		ops = append(ops, op)
	}
	return ops
}

// RouteOutputGenerator memoizes route expansions keyed by the identity
// of the symbolic route. The memo is an LRU cache so long-running studies with
// thousands of distinct routes stay bounded; the mutex-protected
// check-then-insert matches the original (the expansion itself runs
// outside the lock, so two workers may race to expand the same route
// once, and the first insert wins).
type RouteOutputGenerator struct {
	expander *routeexp.Expander
	outputs  *lru.Cache[*airport.Route, *routeexp.Polyline]

	mu LoggingMutex
	lg *log.Logger
}

// DefaultRouteCacheSize bounds the route-expansion memo.
const DefaultRouteCacheSize = 1024

// NewRouteOutputGenerator builds the memo around an expander.
func NewRouteOutputGenerator(cs geo.CoordinateSystem, cfg routeexp.Config, cacheSize int, lg *log.Logger) *RouteOutputGenerator {
	if cacheSize <= 0 {
		cacheSize = DefaultRouteCacheSize
	}
	cache, _ := lru.New[*airport.Route, *routeexp.Polyline](cacheSize)
	return &RouteOutputGenerator{
		expander: routeexp.New(cs, cfg, lg),
		outputs:  cache,
		lg:       lg,
	}
}

// RouteOutput returns the memoized polyline for rte, expanding it on
// first use.
func (g *RouteOutputGenerator) RouteOutput(rte *airport.Route) (*routeexp.Polyline, error) {
	g.mu.Lock(g.lg)
	if pl, ok := g.outputs.Get(rte); ok {
		g.mu.Unlock(g.lg)
		return pl, nil
	}
	g.mu.Unlock(g.lg)

	pl, err := g.expander.Expand(rte)
	if err != nil {
		return nil, err
	}

	g.mu.Lock(g.lg)
	defer g.mu.Unlock(g.lg)
	if existing, ok := g.outputs.Get(rte); ok {
		return existing, nil
	}
	g.outputs.Add(rte, pl)
	return pl, nil
}

// PerformanceRunSpec carries everything a performance run needs beyond
// the scenario itself (PerformanceRun::PerfRunSpec in the original).
type PerformanceRunSpec struct {
	Cs  geo.CoordinateSystem
	Atm *atmos.Atmosphere

	RouteConfig       routeexp.Config
	PerformanceConfig performance.Config
	FuelFlow          performance.FuelFlowHook

	// ThreadCount bounds worker concurrency; <= 0 lets the errgroup run
	// unbounded, matching "callers own threads".
	ThreadCount int

	// RouteCacheSize bounds the route-expansion memo; <= 0 uses
	// DefaultRouteCacheSize.
	RouteCacheSize int
}

// PerformanceOutputStore is the run's output store: per-operation
// performance outputs published under the store's lock.
type PerformanceOutputStore struct {
	mu      LoggingMutex
	lg      *log.Logger
	outputs map[operation.Operation]*performance.Output
}

func newPerformanceOutputStore(lg *log.Logger) *PerformanceOutputStore {
	return &PerformanceOutputStore{lg: lg, outputs: make(map[operation.Operation]*performance.Output)}
}

func (s *PerformanceOutputStore) add(op operation.Operation, out *performance.Output) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	s.outputs[op] = out
}

// Output returns the performance output of op, if the run produced one.
func (s *PerformanceOutputStore) Output(op operation.Operation) (*performance.Output, bool) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	out, ok := s.outputs[op]
	return out, ok
}

// Len returns the number of operations with output.
func (s *PerformanceOutputStore) Len() int {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	return len(s.outputs)
}

func (s *PerformanceOutputStore) clear() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	s.outputs = make(map[operation.Operation]*performance.Output)
}

// PerformanceRun drives route expansion, profile expansion, assembly
// and the fuel-flow hook across all operations of a scenario.
type PerformanceRun struct {
	Scenario *Scenario
	Spec     PerformanceRunSpec

	lg *log.Logger

	status       atomic.Int32
	totalCount   int
	calculated   atomic.Int64
	stop         AtomicBool
	routeOutputs *RouteOutputGenerator
	outputs      *PerformanceOutputStore
}

// NewPerformanceRun builds a run in the Ready state. lg may be nil.
func NewPerformanceRun(scenario *Scenario, spec PerformanceRunSpec, lg *log.Logger) *PerformanceRun {
	if lg == nil {
		lg = log.Discard()
	}
	r := &PerformanceRun{
		Scenario: scenario,
		Spec:     spec,
		lg:       lg,
		outputs:  newPerformanceOutputStore(lg),
	}
	r.status.Store(int32(Ready))
	return r
}

// Status returns the run's current state.
func (r *PerformanceRun) Status() Status { return Status(r.status.Load()) }

// Progress returns done_operations / total_operations.
func (r *PerformanceRun) Progress() float64 {
	if r.totalCount == 0 {
		return 0
	}
	return float64(r.calculated.Load()) / float64(r.totalCount)
}

// Stop requests cancellation; workers observe it at operation
// boundaries, and operations completed before cancellation remain valid.
func (r *PerformanceRun) Stop() { r.stop.Store(true) }

// Outputs exposes the run's output store.
func (r *PerformanceRun) Outputs() *PerformanceOutputStore { return r.outputs }

// Queue transitions Ready -> Waiting (PerformanceRunJob::queue).
func (r *PerformanceRun) Queue() bool {
	if r.Scenario == nil || r.Scenario.Size() == 0 {
		return false
	}
	r.status.Store(int32(Waiting))
	return true
}

// Reset returns a non-running run to Ready, discarding outputs and the
// route memo (PerformanceRunJob::reset).
func (r *PerformanceRun) Reset() {
	if r.Status() == Running {
		return
	}
	r.outputs.clear()
	r.routeOutputs = nil
	r.totalCount = 0
	r.calculated.Store(0)
	r.stop.Store(false)
	r.status.Store(int32(Ready))
}

// Run executes the scenario; it blocks until every operation has been
// processed or cancellation empties the queue. Per-operation failures
// (infeasibilities) are logged and skipped; Run itself only returns an
// error for run-level misconfiguration.
func (r *PerformanceRun) Run(ctx context.Context) error {
	if r.Spec.Cs == nil {
		return grerr.NewValidation("Spec.Cs", nil, "performance run requires a coordinate system")
	}
	if r.Spec.Atm == nil {
		r.Spec.Atm = atmos.Standard()
	}

	start := time.Now()
	r.lg.Info("started performance run", "scenario", r.Scenario.Name)
	r.status.Store(int32(Running))

	r.totalCount = r.Scenario.Size()
	r.calculated.Store(0)
	r.routeOutputs = NewRouteOutputGenerator(r.Spec.Cs, r.Spec.RouteConfig, r.Spec.RouteCacheSize, r.lg)

	assembler := performance.NewAssembler(r.Spec.Cs, r.Spec.PerformanceConfig, r.Spec.FuelFlow, r.lg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	if r.Spec.ThreadCount > 0 {
		eg.SetLimit(r.Spec.ThreadCount)
	}

	for _, op := range r.Scenario.Operations() {
		op := op
		eg.Go(func() error {
			// Cancellation is observed at operation boundaries only; a
			// started operation always finishes.
			if r.stop.Load() || ctx.Err() != nil {
				return nil
			}
			if out := r.calculateOperation(assembler, op); out != nil {
				r.outputs.add(op, out)
			}
			r.calculated.Add(1)
			return nil
		})
	}
	_ = eg.Wait()

	if r.stop.Load() {
		r.status.Store(int32(Stopped))
		r.lg.Info("stopped performance run", "scenario", r.Scenario.Name, "completed", r.outputs.Len())
		return nil
	}

	r.status.Store(int32(Finished))
	r.lg.Info("finished performance run", "scenario", r.Scenario.Name,
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// calculateOperation runs one operation through route expansion,
// profile expansion and assembly, capturing per-operation errors
// locally.
func (r *PerformanceRun) calculateOperation(assembler *performance.Assembler, op operation.Operation) *performance.Output {
	switch o := op.(type) {
	case *operation.FlightArrival:
		rteOut, err := r.routeOutputs.RouteOutput(o.Route)
		if err != nil {
			r.lg.Error("expanding route", "operation", o.OpName, "error", err.Error())
			return nil
		}
		calc := doc29.NewCalculator(r.Spec.Atm, o.Acft, o.Route.Runway(), rteOut, o.Weight, r.lg)
		profOut, err := calc.CalculateArrival(o.Prof)
		if err != nil {
			r.lg.Error("expanding arrival profile", "operation", o.OpName, "error", err.Error())
			return nil
		}
		out, err := assembler.AssembleArrival(o, rteOut, profOut, r.Spec.Atm)
		if err != nil {
			return nil
		}
		return out
	case *operation.FlightDeparture:
		rteOut, err := r.routeOutputs.RouteOutput(o.Route)
		if err != nil {
			r.lg.Error("expanding route", "operation", o.OpName, "error", err.Error())
			return nil
		}
		calc := doc29.NewCalculator(r.Spec.Atm, o.Acft, o.Route.Runway(), rteOut, o.Weight, r.lg)
		profOut, err := calc.CalculateDeparture(o.Prof, o.ThrustPercentTakeoff, o.ThrustPercentClimb)
		if err != nil {
			r.lg.Error("expanding departure profile", "operation", o.OpName, "error", err.Error())
			return nil
		}
		out, err := assembler.AssembleDeparture(o, rteOut, profOut, r.Spec.Atm)
		if err != nil {
			return nil
		}
		return out
	case *operation.Track4DArrival:
		out, err := assembler.AssembleTrack4D(o.OpName, operation.Arrival, o.Acft, o.Points, r.Spec.Atm)
		if err != nil {
			return nil
		}
		return out
	case *operation.Track4DDeparture:
		out, err := assembler.AssembleTrack4D(o.OpName, operation.Departure, o.Acft, o.Points, r.Spec.Atm)
		if err != nil {
			return nil
		}
		return out
	}
	return nil
}
