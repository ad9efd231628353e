package cost

import (
	"gonum.org/v1/gonum/floats"

	"site-energy-sim/internal/model"
	"site-energy-sim/internal/simulate"
)

const hoursPerYear = 8760

// Opex is the operating cost over the simulated horizon.
type Opex struct {
	Import float64 `json:"import"`
	Export float64 `json:"export"`
	Gas    float64 `json:"gas"`
	Total  float64 `json:"total"`
}

func CalculateOpex(site *model.SiteData, task *model.TaskData, cv simulate.CostVectors, p Prices) Opex {
	var o Opex
	tariffIdx, exportTariff := 0, 0.0
	if g := task.Grid; g != nil {
		tariffIdx, exportTariff = g.TariffIndex, g.ExportTariff
	}
	if tariffIdx >= 0 && tariffIdx < len(site.ImportTariffs) {
		o.Import = floats.Dot(cv.GridImport, site.ImportTariffs[tariffIdx])
	}
	o.Export = floats.Sum(cv.GridExport) * exportTariff
	o.Gas = floats.Sum(cv.GasFuel) * p.GasPrice
	o.Total = o.Import - o.Export + o.Gas
	return o
}

// Carbon is kg CO2e emitted over the simulated horizon.
type Carbon struct {
	Grid  float64 `json:"grid"`
	Gas   float64 `json:"gas"`
	Total float64 `json:"total"`
}

func CalculateCarbon(site *model.SiteData, cv simulate.CostVectors, p Prices) Carbon {
	c := Carbon{
		Grid: floats.Dot(cv.GridImport, site.GridCO2),
		Gas:  floats.Sum(cv.GasFuel) * p.GasCarbon,
	}
	c.Total = c.Grid + c.Gas
	return c
}

// AnnualScale converts horizon totals to per year figures.
func AnnualScale(site *model.SiteData) float64 {
	hours := site.TimestepHours() * float64(site.Timesteps())
	if hours <= 0 {
		return 0
	}
	return hoursPerYear / hours
}
