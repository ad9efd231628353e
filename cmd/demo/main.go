package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"site-energy-sim/internal/model"
	"site-energy-sim/internal/scenario"
	"site-energy-sim/internal/simulate"
)

// Demo:
// - Build a synthetic site with daily load, solar and tariff shapes
// - Compare a battery and solar retrofit against a gas-heated baseline
// - Print the first hours of the energy balance to show how components fit together
func main() {
	hours := flag.Int("hours", 48, "Number of hourly timesteps to simulate")
	outCSV := flag.String("out", "", "Optional path to write the report CSV (e.g. results/demo.csv)")
	flag.Parse()

	site, err := syntheticSite(*hours)
	if err != nil {
		panic(err)
	}

	baseline := &model.TaskData{
		Building:  &model.Building{Installation: model.Installation{Incumbent: true}, ScalarElectricalLoad: 1, ScalarHeatLoad: 1},
		Grid:      &model.Grid{Installation: model.Installation{Incumbent: true}, GridImport: 20, GridExport: 10, MinPowerFactor: 0.95},
		GasHeater: &model.GasHeater{Installation: model.Installation{Incumbent: true}, MaximumOutput: 30, BoilerEfficiency: 0.9},
	}
	retrofit := &model.TaskData{
		Building:  baseline.Building,
		Grid:      baseline.Grid,
		GasHeater: baseline.GasHeater,
		SolarPanels: []model.SolarPanel{
			{YieldScalar: 8, YieldIndex: 0},
		},
		EnergyStorageSystem: &model.EnergyStorageSystem{
			Capacity:       10,
			ChargePower:    5,
			DischargePower: 5,
			BatteryMode:    model.BatteryModeConsumePlus,
		},
		HeatPump:         &model.HeatPump{HeatPower: 6, SendTemp: 45},
		DomesticHotWater: &model.DomesticHotWater{CylinderVolume: 200},
		Config:           model.TaskConfig{UseBoilerUpgradeScheme: true},
	}

	sim, err := scenario.New(site, baseline, scenario.DefaultOptions())
	if err != nil {
		panic(err)
	}
	res, err := sim.SimulateFull(retrofit)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Synthetic site: %d hourly timesteps from %s\n", site.Timesteps(), site.StartTS.Format(time.RFC3339))
	fmt.Printf("Retrofit: 8 kWp solar, 10 kWh battery (%s), 6 kW heat pump, 200 l cylinder\n\n", model.BatteryModeConsumePlus)

	r := res.Report
	for i := 0; i < min(12, r.Timesteps()); i++ {
		fmt.Printf(
			"%s tariff=%5.3f  load=%5.2f  pv=%5.2f  hp=%5.2f  ess=%+6.2f stored=%5.2f  import=%5.2f  export=%5.2f  gas=%5.2f\n",
			site.StartTS.Add(time.Duration(i)*time.Hour).Format("2006-01-02 15:04"),
			site.ImportTariffs[0][i],
			r.BuildingELoad[i],
			r.PVGeneration[i],
			r.HPElecLoad[i],
			r.ESSCharge[i]-r.ESSDischarge[i],
			r.ESSStored[i],
			r.GridImport[i],
			r.GridExport[i],
			r.GasHeat[i],
		)
	}

	if *outCSV != "" {
		if err := simulate.WriteReportCSV(*outCSV, r, site.StartTS, time.Hour); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	out := res.Result
	fmt.Printf("\nDone. CAPEX=%.2f  cost balance=%.2f/yr  carbon balance=%.1f kg/yr  payback=%.1f yr  NPV=%.2f\n",
		out.CAPEX, out.CostBalance, out.CarbonBalance, out.PaybackHorizon, out.NPVBalance)
}

// syntheticSite builds an hourly site with a morning and evening load peak,
// a midday solar bell, an evening tariff peak and a daily temperature swing.
func syntheticSite(hours int) (*model.SiteData, error) {
	if hours < 1 {
		return nil, fmt.Errorf("hours must be >= 1")
	}
	series := func(f func(h float64) float64) []float64 {
		out := make([]float64, hours)
		for i := range out {
			out[i] = f(float64(i % 24))
		}
		return out
	}
	bell := func(h, centre, width float64) float64 {
		return math.Exp(-(h - centre) * (h - centre) / (2 * width * width))
	}

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return model.NewSiteData(model.SiteData{
		StartTS:        start,
		EndTS:          start.Add(time.Duration(hours) * time.Hour),
		BuildingELoad:  series(func(h float64) float64 { return 1 + 2*bell(h, 8, 1.5) + 3*bell(h, 19, 2) }),
		BuildingHLoad:  series(func(h float64) float64 { return 2 + 4*bell(h, 7, 2) + 3*bell(h, 18, 2) }),
		DHWDemand:      series(func(h float64) float64 { return 0.5 + 2*bell(h, 7, 1) + 1.5*bell(h, 20, 1) }),
		AirTemperature: series(func(h float64) float64 { return 4 + 5*bell(h, 14, 4) }),
		EVELoad:        series(func(h float64) float64 { return 0 }),
		GridCO2:        series(func(h float64) float64 { return 0.18 + 0.08*bell(h, 18, 2) }),
		ImportTariffs: [][]float64{
			series(func(h float64) float64 {
				switch {
				case h >= 16 && h < 19:
					return 0.42
				case h < 6:
					return 0.12
				default:
					return 0.26
				}
			}),
		},
		SolarYields: [][]float64{
			series(func(h float64) float64 { return 0.6 * bell(h, 12.5, 2.5) }),
		},
		ASHPInputTable: [][]float64{
			{0, 35, 45, 55},
			{-10, 0.45, 0.55, 0.7},
			{0, 0.4, 0.5, 0.62},
			{10, 0.33, 0.42, 0.52},
			{20, 0.28, 0.36, 0.45},
		},
		ASHPOutputTable: [][]float64{
			{0, 35, 45, 55},
			{-10, 0.8, 0.8, 0.8},
			{0, 1, 1, 1},
			{10, 1, 1, 1},
			{20, 1, 1, 1},
		},
	})
}
