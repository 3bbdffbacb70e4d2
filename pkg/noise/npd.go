// pkg/noise/npd.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package noise implements the Doc29 noise model: noise-power-distance
// tables with the mutable atmospheric-absorption delta hook, the
// reference spectra, and the per-segment noise generator with its
// correction stack. The NPD interpolation rules and the standardized
// distance ladder come from Doc29 Volume 2 Appendix D; the correction
// formulas follow the C++ Doc29NoiseGenerator.cpp line for line.
package noise

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
)

// NpdStandardDistancesSize is the number of standardized distances of
// every NPD table row.
const NpdStandardDistancesSize = 10

// NpdThrustCount is the number of tabulated thrust settings of every
// NPD table.
const NpdThrustCount = 10

// NpdStandardDistances is the Doc29 Volume 2 Appendix D standardized
// distance ladder, meters.
var NpdStandardDistances = [NpdStandardDistancesSize]float64{
	61, 122, 244, 488, 1024, 2048, 4096, 8192, 16384, 25000,
}

// DeltaArray is one additive level correction per standardized distance
// (the atmospheric-absorption delta hook).
type DeltaArray [NpdStandardDistancesSize]float64

// NpdData is a 10x10 noise-power-distance grid: levels in dB by thrust
// setting (rows, strictly increasing corrected net thrust per engine)
// and standardized distance (columns). Value semantics: an NpdData can
// be copied by assignment, which is how each noise generator gets its
// own mutable table.
type NpdData struct {
	thrust [NpdThrustCount]float64
	levels [NpdThrustCount][NpdStandardDistancesSize]float64
}

// NewNpdData validates and builds an NPD table. Thrust values must be
// strictly increasing.
func NewNpdData(thrust [NpdThrustCount]float64, levels [NpdThrustCount][NpdStandardDistancesSize]float64) (NpdData, error) {
	for i := 1; i < NpdThrustCount; i++ {
		if thrust[i] <= thrust[i-1] {
			return NpdData{}, grerr.NewValidation("Thrust", thrust[i], "thrust values must be strictly increasing")
		}
	}
	return NpdData{thrust: thrust, levels: levels}, nil
}

// Thrust returns the tabulated thrust axis.
func (n *NpdData) Thrust() [NpdThrustCount]float64 { return n.thrust }

// Level returns the tabulated level at thrust row i and distance column j.
func (n *NpdData) Level(i, j int) float64 { return n.levels[i][j] }

// ApplyDelta adds deltas[j] to every tabulated level at distance column
// j. Callers wanting replacement semantics cancel the
// previous delta first; the generator does that in
// ApplyAtmosphericAbsorption.
func (n *NpdData) ApplyDelta(deltas DeltaArray) {
	for i := range n.levels {
		for j := range n.levels[i] {
			n.levels[i][j] += deltas[j]
		}
	}
}

// interpolateThrust returns the level at each standardized distance for
// the given thrust: clamped below the first row, linearly extrapolated
// above the last one using the last two rows, linearly interpolated in
// between.
func (n *NpdData) interpolateThrust(thrust float64) [NpdStandardDistancesSize]float64 {
	if thrust <= n.thrust[0] {
		return n.levels[0]
	}

	i := NpdThrustCount - 2
	for k := 1; k < NpdThrustCount; k++ {
		if thrust <= n.thrust[k] {
			i = k - 1
			break
		}
	}

	iFactor := (thrust - n.thrust[i]) / (n.thrust[i+1] - n.thrust[i])
	var out [NpdStandardDistancesSize]float64
	for j := range out {
		out[j] = gmath.Lerp(n.levels[i][j], n.levels[i+1][j], iFactor)
	}
	return out
}

// Interpolate returns the level at the given thrust and slant distance.
// The distance axis is interpolated logarithmically within the
// standardized ladder and extrapolated linearly in log-distance outside
// it.
func (n *NpdData) Interpolate(thrust, distance float64) float64 {
	row := n.interpolateThrust(thrust)

	// Guard against a degenerate distance; the ladder starts at 61 m and
	// log interpolation needs a positive abscissa.
	distance = math.Max(distance, gmath.Precision)
	logDist := math.Log10(distance)

	j := NpdStandardDistancesSize - 2
	for k := 1; k < NpdStandardDistancesSize; k++ {
		if distance <= NpdStandardDistances[k] {
			j = k - 1
			break
		}
	}
	if distance <= NpdStandardDistances[0] {
		j = 0
	}

	logLo := math.Log10(NpdStandardDistances[j])
	logHi := math.Log10(NpdStandardDistances[j+1])
	iFactor := (logDist - logLo) / (logHi - logLo)
	return gmath.Lerp(row[j], row[j+1], iFactor)
}
