// Package component contains the per-technology simulators. Each one owns its
// own output series and mutates the shared ledger through the two phase
// contract: AllCalcs (bulk, full target every timestep) and StepCalc
// (one timestep against a budget).
package component

import "site-energy-sim/internal/ledger"

// Bulk is implemented by every component that can run over the whole horizon at once.
type Bulk interface {
	AllCalcs(l *ledger.Ledger)
}

// Flexible components can be throttled within a timestep during balancing.
//
// budget is the level the electricity balance may reach at timestep t once
// this component's load is added: the import and discharge headroom left for
// the site. A component never takes less than its floor, even if that pushes
// the balance above budget.
type Flexible interface {
	Bulk
	StepCalc(l *ledger.Ledger, budget float64, t int)
	TargetLoad(t int) float64
	IsFlexible() bool
}

// Reporter copies a component's series into the shared report.
type Reporter interface {
	Report(r *Report)
}

// Report collects every component's output series. Series for absent
// components are left nil.
type Report struct {
	BuildingELoad []float64 `json:"building_eload,omitempty"`
	BuildingHLoad []float64 `json:"building_hload,omitempty"`
	DHWDemand     []float64 `json:"dhw_demand,omitempty"`

	PVGeneration []float64 `json:"pv_generation,omitempty"`

	EVTargetLoad []float64 `json:"ev_target_load,omitempty"`
	EVActualLoad []float64 `json:"ev_actual_load,omitempty"`

	ESSCharge    []float64 `json:"ess_charge,omitempty"`
	ESSDischarge []float64 `json:"ess_discharge,omitempty"`
	ESSStored    []float64 `json:"ess_stored,omitempty"`

	DCTargetLoad []float64 `json:"dc_target_load,omitempty"`
	DCActualLoad []float64 `json:"dc_actual_load,omitempty"`
	DCWasteHeat  []float64 `json:"dc_waste_heat,omitempty"`

	HPElecLoad  []float64 `json:"hp_elec_load,omitempty"`
	HPHeatDHW   []float64 `json:"hp_heat_dhw,omitempty"`
	HPHeatCH    []float64 `json:"hp_heat_ch,omitempty"`
	HPWasteUsed []float64 `json:"hp_waste_used,omitempty"`

	DHWStored        []float64 `json:"dhw_stored,omitempty"`
	DHWSurplusCharge []float64 `json:"dhw_surplus_charge,omitempty"`
	DHWHeatCharge    []float64 `json:"dhw_heat_charge,omitempty"`
	DHWStandbyLoss   []float64 `json:"dhw_standby_loss,omitempty"`
	DHWElecTopUp     []float64 `json:"dhw_elec_top_up,omitempty"`

	GridImport []float64 `json:"grid_import,omitempty"`
	GridExport []float64 `json:"grid_export,omitempty"`

	GasHeat []float64 `json:"gas_heat,omitempty"`
	GasFuel []float64 `json:"gas_fuel,omitempty"`

	MopLoad []float64 `json:"mop_load,omitempty"`
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// clamp bounds v to [lo, hi]; when lo > hi the floor wins.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
