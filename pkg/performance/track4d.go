// pkg/performance/track4d.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package performance

import (
	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/doc29"
	"github.com/goncaloroque30/grape-core/pkg/geo"
	"github.com/goncaloroque30/grape-core/pkg/grerr"
	"github.com/goncaloroque30/grape-core/pkg/operation"
)

// AssembleTrack4D ingests a Track4D operation's points directly: no
// route expansion, no profile expansion, no Doc29 segmentation.
// Cumulative ground distance is rebuilt from successive positions; for arrivals it is shifted so the final point
// sits at 0, matching the arrival threshold-anchor convention. Times
// are taken from the points as supplied. The fuel-flow hook runs only
// when at least one point's fuel flow was left at zero, and then it
// fills every point, replacing the supplied values.
func (a *Assembler) AssembleTrack4D(name string, direction operation.Direction, acft *doc29.Aircraft, points []operation.Point4D, atm *atmos.Atmosphere) (*Output, error) {
	if len(points) < 2 {
		a.log.Error("assembling performance output", "track4d", name, "reason", "fewer than 2 points")
		return nil, grerr.NewInfeasibility(name, "track4d has fewer than 2 points")
	}

	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		prev := geo.Point{Lon: points[i-1].Longitude, Lat: points[i-1].Latitude}
		curr := geo.Point{Lon: points[i].Longitude, Lat: points[i].Latitude}
		cum[i] = cum[i-1] + a.Cs.Distance(prev, curr)
	}
	offset := 0.0
	if direction == operation.Arrival {
		offset = -cum[len(cum)-1]
	}

	out := &Output{}
	for i, pt := range points {
		flPhase := doc29.ClimbPhase
		if direction == operation.Arrival {
			flPhase = doc29.Approach
		}
		out.addPoint(Point{
			CumulativeGroundDistance: cum[i] + offset,
			Time:                     pt.Time,
			FlPhase:                  flPhase,
			Longitude:                pt.Longitude,
			Latitude:                 pt.Latitude,
			AltitudeMsl:              pt.AltitudeMsl,
			TrueAirspeed:             pt.TrueAirspeed,
			Groundspeed:              pt.Groundspeed,
			CorrNetThrustPerEng:      pt.CorrectedNetThrustPerEng,
			BankAngle:                pt.BankAngle,
			FuelFlowPerEng:           pt.FuelFlowPerEng,
			PtOrigin:                 FromProfile,
		})
	}

	needsFuel := false
	for _, pt := range out.Points() {
		if pt.FuelFlowPerEng == 0 {
			needsFuel = true
			break
		}
	}
	if needsFuel {
		a.FuelFlow.Calculate(acft, atm, out)
	}

	if out.Len() < 2 {
		a.log.Error("assembling performance output", "track4d", name, "reason", "fewer than 2 points after ingestion")
		return nil, grerr.NewInfeasibility(name, "performance output has fewer than 2 points")
	}
	return out, nil
}
