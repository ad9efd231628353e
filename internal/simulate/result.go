package simulate

import (
	"site-energy-sim/internal/component"
	"site-energy-sim/internal/ledger"
)

// ReportData is the full per-timestep output of a run: every component's
// series plus the ledger residuals.
type ReportData struct {
	component.Report
	ledger.Checksums
}

// Timesteps is the length of the run the report was taken from.
func (r ReportData) Timesteps() int { return len(r.ImportShortfall) }

type Result struct {
	Report     ReportData
	Precedence Precedence
	Phases     []Phase
}

// CostVectors are the per-timestep series the cost and carbon model reads.
// Series for absent components are zero filled.
type CostVectors struct {
	EVLoad         []float64 `json:"ev_load"`
	DataCentreLoad []float64 `json:"data_centre_load"`
	BuildingLoad   []float64 `json:"building_load"`
	HeatLoad       []float64 `json:"heat_load"`
	HeatShortfall  []float64 `json:"heat_shortfall"`
	GridImport     []float64 `json:"grid_import"`
	GridExport     []float64 `json:"grid_export"`
	MopLoad        []float64 `json:"mop_load"`
	GasFuel        []float64 `json:"gas_fuel"`
}

func (r *Result) CostVectors() CostVectors {
	n := r.Report.Timesteps()
	rep := r.Report
	return CostVectors{
		EVLoad:         orZeros(rep.EVActualLoad, n),
		DataCentreLoad: orZeros(rep.DCActualLoad, n),
		BuildingLoad:   orZeros(rep.BuildingELoad, n),
		HeatLoad:       orZeros(rep.BuildingHLoad, n),
		HeatShortfall:  orZeros(rep.HeatShortfall, n),
		GridImport:     orZeros(rep.GridImport, n),
		GridExport:     orZeros(rep.GridExport, n),
		MopLoad:        orZeros(rep.MopLoad, n),
		GasFuel:        orZeros(rep.GasFuel, n),
	}
}

func orZeros(v []float64, n int) []float64 {
	if len(v) == n {
		return v
	}
	return make([]float64, n)
}
