// pkg/performance/config.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package performance

import "math"

// Config holds the assembler's tunables. Zero value is not
// useful; construct with DefaultConfig and override individual fields.
type Config struct {
	// FlightsDoc29Segmentation enables the takeoff-roll / initial-climb /
	// final-approach default-height segmentation pass for Flight
	// operations. Track4D operations never go through it, they skip
	// profile expansion entirely.
	FlightsDoc29Segmentation bool

	// SpeedDeltaMinimum is the maximum groundspeed delta, m/s, tolerated
	// between adjacent points before speed segmentation inserts
	// intermediate points.
	SpeedDeltaMinimum float64

	// GroundDistanceMinimum is the minimum distance, m, between adjacent
	// points; closer pairs are collapsed by deleting the downstream
	// member.
	GroundDistanceMinimum float64

	// DistanceMin/DistanceMax bound cumulative ground distance; points
	// outside are dropped before they ever reach the output
	// (PerformanceCalculator::pointInDistanceLimits). Defaults to
	// unbounded.
	DistanceMin float64
	DistanceMax float64

	// AltitudeMin/AltitudeMax bound MSL altitude the same way
	// (PerformanceCalculator::pointInAltitudeLimits). Defaults to
	// unbounded.
	AltitudeMin float64
	AltitudeMax float64
}

// DefaultConfig returns the assembler defaults: 10 m/s speed delta,
// 10 m minimum ground distance, Doc29 segmentation on, no
// distance/altitude limits.
func DefaultConfig() Config {
	return Config{
		FlightsDoc29Segmentation: true,
		SpeedDeltaMinimum:        10,
		GroundDistanceMinimum:    10,
		DistanceMin:              math.Inf(-1),
		DistanceMax:              math.Inf(1),
		AltitudeMin:              math.Inf(-1),
		AltitudeMax:              math.Inf(1),
	}
}

func (c Config) pointInDistanceLimits(d float64) bool {
	return d >= c.DistanceMin && d <= c.DistanceMax
}

func (c Config) pointInAltitudeLimits(a float64) bool {
	return a >= c.AltitudeMin && a <= c.AltitudeMax
}
