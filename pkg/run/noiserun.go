// pkg/run/noiserun.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package run

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/brunoga/deep"
	"golang.org/x/sync/errgroup"

	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
	"github.com/goncaloroque30/grape-core/pkg/log"
	"github.com/goncaloroque30/grape-core/pkg/noise"
	"github.com/goncaloroque30/grape-core/pkg/operation"
	"github.com/goncaloroque30/grape-core/pkg/performance"
)

// ReceptorMetrics is one (operation, receptor) result.
type ReceptorMetrics struct {
	Lamax float64
	Sel   float64
}

// NoiseRunSpec carries the noise run's inputs beyond the performance
// run it consumes.
type NoiseRunSpec struct {
	Cs        geo.CoordinateSystem
	Receptors []noise.Receptor

	// NoiseAircraft maps each performance aircraft to its noise entity.
	// Operations whose aircraft has no entry are skipped with a warning.
	NoiseAircraft map[*doc29.Aircraft]*noise.Doc29Noise

	// AtmosphericAbsorption remaps the NPD tables away from the Doc29
	// standard atmosphere for every operation of the run; the
	// precomputation happens once per operation and the deltas are
	// carried across all receptors of that operation.
	AtmosphericAbsorption noise.AtmosphericAbsorption

	// AbsorptionFor overrides AtmosphericAbsorption per operation when
	// non-nil (operations may carry their own atmosphere).
	AbsorptionFor func(op operation.Operation) noise.AtmosphericAbsorption

	// MaximumDistance is the receptor cutoff; <= 0 uses
	// noise.DefaultMaximumDistance.
	MaximumDistance float64

	// ThreadCount bounds worker concurrency; <= 0 is unbounded.
	ThreadCount int
}

// NoiseOutputStore holds per-(operation, receptor) metrics published
// under the store's lock.
type NoiseOutputStore struct {
	mu      LoggingMutex
	lg      *log.Logger
	metrics map[operation.Operation][]ReceptorMetrics
}

func newNoiseOutputStore(lg *log.Logger) *NoiseOutputStore {
	return &NoiseOutputStore{lg: lg, metrics: make(map[operation.Operation][]ReceptorMetrics)}
}

func (s *NoiseOutputStore) add(op operation.Operation, m []ReceptorMetrics) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	s.metrics[op] = m
}

// Metrics returns the per-receptor metrics of op, indexed like the
// run spec's Receptors slice.
func (s *NoiseOutputStore) Metrics(op operation.Operation) ([]ReceptorMetrics, bool) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	m, ok := s.metrics[op]
	return m, ok
}

// Len returns the number of operations with noise output.
func (s *NoiseOutputStore) Len() int {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	return len(s.metrics)
}

// NoiseRun drives the noise generator over all (segment, receptor)
// pairs of every operation with performance output.
type NoiseRun struct {
	PerfRun *PerformanceRun
	Spec    NoiseRunSpec

	lg *log.Logger

	status     atomic.Int32
	totalCount int
	calculated atomic.Int64
	stop       AtomicBool
	outputs    *NoiseOutputStore

	arrivalTemplates   map[*noise.Doc29Noise]*noise.ArrivalGenerator
	departureTemplates map[*noise.Doc29Noise]*noise.DepartureGenerator
}

// NewNoiseRun builds a noise run over a finished (or partially
// finished) performance run. lg may be nil.
func NewNoiseRun(perfRun *PerformanceRun, spec NoiseRunSpec, lg *log.Logger) *NoiseRun {
	if lg == nil {
		lg = log.Discard()
	}
	r := &NoiseRun{
		PerfRun: perfRun,
		Spec:    spec,
		lg:      lg,
		outputs: newNoiseOutputStore(lg),
	}
	r.status.Store(int32(Ready))
	return r
}

// Status returns the run's current state.
func (r *NoiseRun) Status() Status { return Status(r.status.Load()) }

// Progress returns done_operations / total_operations.
func (r *NoiseRun) Progress() float64 {
	if r.totalCount == 0 {
		return 0
	}
	return float64(r.calculated.Load()) / float64(r.totalCount)
}

// Stop requests cancellation at operation boundaries.
func (r *NoiseRun) Stop() { r.stop.Store(true) }

// Outputs exposes the run's output store.
func (r *NoiseRun) Outputs() *NoiseOutputStore { return r.outputs }

// Run iterates all operations of the performance run. Each worker owns
// its own generator instance per operation, deep-copied from a
// per-aircraft template, so the mutable NPD delta state is never shared
// across goroutines.
func (r *NoiseRun) Run(ctx context.Context) error {
	if r.Spec.Cs == nil {
		return grerr.NewValidation("Spec.Cs", nil, "noise run requires a coordinate system")
	}
	if r.PerfRun == nil {
		return grerr.NewValidation("PerfRun", nil, "noise run requires a performance run")
	}
	if len(r.Spec.Receptors) == 0 {
		return grerr.NewValidation("Spec.Receptors", 0, "noise run requires at least one receptor")
	}

	r.lg.Info("started noise run", "scenario", r.PerfRun.Scenario.Name, "receptors", len(r.Spec.Receptors))
	r.status.Store(int32(Running))

	// Template generators, one per noise aircraft; workers copy these
	// per operation instead of rebuilding the tables from scratch.
	r.arrivalTemplates = make(map[*noise.Doc29Noise]*noise.ArrivalGenerator)
	r.departureTemplates = make(map[*noise.Doc29Noise]*noise.DepartureGenerator)
	for _, ns := range r.Spec.NoiseAircraft {
		arr := noise.NewArrivalGenerator(ns)
		dep := noise.NewDepartureGenerator(ns)
		if r.Spec.MaximumDistance > 0 {
			arr.MaxDistance = r.Spec.MaximumDistance
			dep.MaxDistance = r.Spec.MaximumDistance
		}
		r.arrivalTemplates[ns] = arr
		r.departureTemplates[ns] = dep
	}

	ops := r.PerfRun.Scenario.Operations()
	r.totalCount = len(ops)
	r.calculated.Store(0)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	if r.Spec.ThreadCount > 0 {
		eg.SetLimit(r.Spec.ThreadCount)
	}

	for _, op := range ops {
		op := op
		eg.Go(func() error {
			if r.stop.Load() || ctx.Err() != nil {
				return nil
			}
			if m := r.calculateOperation(op); m != nil {
				r.outputs.add(op, m)
			}
			r.calculated.Add(1)
			return nil
		})
	}
	_ = eg.Wait()

	if r.stop.Load() {
		r.status.Store(int32(Stopped))
		r.lg.Info("stopped noise run", "scenario", r.PerfRun.Scenario.Name, "completed", r.outputs.Len())
		return nil
	}

	r.status.Store(int32(Finished))
	r.lg.Info("finished noise run", "scenario", r.PerfRun.Scenario.Name)
	return nil
}

func (r *NoiseRun) absorptionFor(op operation.Operation) noise.AtmosphericAbsorption {
	if r.Spec.AbsorptionFor != nil {
		return r.Spec.AbsorptionFor(op)
	}
	return r.Spec.AtmosphericAbsorption
}

// calculateOperation accumulates LAMAX (decibel maximum) and SEL
// (energy sum) across the operation's segments for every receptor.
func (r *NoiseRun) calculateOperation(op operation.Operation) []ReceptorMetrics {
	perfOut, ok := r.PerfRun.Outputs().Output(op)
	if !ok {
		return nil
	}
	ns, ok := r.Spec.NoiseAircraft[op.Aircraft()]
	if !ok {
		r.lg.Warn("no noise aircraft for operation", "operation", op.Name(), "aircraft", op.Aircraft().Name)
		return nil
	}

	pts := perfOut.Points()
	metrics := make([]ReceptorMetrics, len(r.Spec.Receptors))
	selEnergy := make([]float64, len(r.Spec.Receptors))
	contributed := make([]bool, len(r.Spec.Receptors))

	calculate := func(calc func(p1, p2 performance.Point, recept noise.Receptor) (float64, float64, bool)) {
		for i := 0; i < len(pts)-1; i++ {
			for ri, recept := range r.Spec.Receptors {
				lamaxSeg, selSeg, ok := calc(pts[i], pts[i+1], recept)
				if !ok {
					continue
				}
				if !contributed[ri] || lamaxSeg > metrics[ri].Lamax {
					metrics[ri].Lamax = lamaxSeg
				}
				selEnergy[ri] += math.Pow(10, selSeg/10)
				contributed[ri] = true
			}
		}
	}

	switch op.Direction() {
	case operation.Arrival:
		gen := deep.MustCopy(*r.arrivalTemplates[ns])
		gen.ApplyAtmosphericAbsorption(r.absorptionFor(op))
		calculate(func(p1, p2 performance.Point, recept noise.Receptor) (float64, float64, bool) {
			return gen.Calculate(p1, p2, recept, r.Spec.Cs)
		})
	case operation.Departure:
		gen := deep.MustCopy(*r.departureTemplates[ns])
		gen.ApplyAtmosphericAbsorption(r.absorptionFor(op))
		calculate(func(p1, p2 performance.Point, recept noise.Receptor) (float64, float64, bool) {
			return gen.Calculate(p1, p2, recept, r.Spec.Cs)
		})
	}

	anyContribution := false
	for ri := range metrics {
		if contributed[ri] {
			metrics[ri].Sel = 10 * math.Log10(selEnergy[ri])
			anyContribution = true
		}
	}
	if !anyContribution {
		r.lg.Warn("operation beyond maximum distance from all receptors", "operation", op.Name())
	}
	return metrics
}
