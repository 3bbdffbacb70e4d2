// pkg/performance/fuelflow.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package performance

import (
	"github.com/goncaloroque30/grape-core/pkg/atmos"
	"github.com/goncaloroque30/grape-core/pkg/doc29"
)

// FuelFlowHook fills the FuelFlowPerEng field of every point in out,
// in place, from acft and atm. LTO,
// LTO-Doc9889 and SFI implementations plug in here; this core only
// defines the contract. The assembler calls Calculate exactly once per
// operation, after Doc29 default-height segmentation and before speed
// segmentation and filtering (which interpolate the fuel flow it set).
type FuelFlowHook interface {
	Calculate(acft *doc29.Aircraft, atm *atmos.Atmosphere, out *Output)
}

// NoFuelFlow leaves FuelFlowPerEng at its zero value; the default hook
// for callers that have not wired a fuel-flow model.
type NoFuelFlow struct{}

func (NoFuelFlow) Calculate(*doc29.Aircraft, *atmos.Atmosphere, *Output) {}
