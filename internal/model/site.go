package model

import (
	"fmt"
	"time"
)

// FabricIntervention is one building fabric upgrade option (insulation, glazing, ...).
// Choosing it replaces the baseline heat load with ReducedHLoad.
type FabricIntervention struct {
	Cost         float64   `json:"cost"`
	ReducedHLoad []float64 `json:"reduced_hload"`
}

// SiteData holds the fixed-horizon inputs for one site. It is read-only once
// constructed and may be shared between concurrent simulations.
//
// Units:
// - loads and yields: kWh per timestep
// - temperatures: degC
// - tariffs: currency per kWh
// - GridCO2: kg CO2e per kWh
// - ASHP tables: row 0 holds send temperatures, column 0 holds air temperatures,
//   cell values are kW for a unit of ASHPReferencePowerKW.
type SiteData struct {
	StartTS time.Time `json:"start_ts"`
	EndTS   time.Time `json:"end_ts"`

	BuildingELoad  []float64 `json:"building_eload"`
	BuildingHLoad  []float64 `json:"building_hload"`
	DHWDemand      []float64 `json:"dhw_demand"`
	PoolHeatDemand []float64 `json:"pool_heat_demand,omitempty"`
	AirTemperature []float64 `json:"air_temperature"`
	EVELoad        []float64 `json:"ev_eload"`
	GridCO2        []float64 `json:"grid_co2"`

	ImportTariffs       [][]float64          `json:"import_tariffs"`
	SolarYields         [][]float64          `json:"solar_yields"`
	FabricInterventions []FabricIntervention `json:"fabric_interventions"`

	ASHPInputTable       [][]float64 `json:"ashp_input_table"`
	ASHPOutputTable      [][]float64 `json:"ashp_output_table"`
	ASHPReferencePowerKW float64     `json:"ashp_reference_power_kw,omitempty"`
}

// NewSiteData validates s and returns a copy ready for simulation.
func NewSiteData(s SiteData) (*SiteData, error) {
	if s.ASHPReferencePowerKW == 0 {
		s.ASHPReferencePowerKW = 1
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(s.PoolHeatDemand) == 0 {
		s.PoolHeatDemand = make([]float64, s.Timesteps())
	}
	return &s, nil
}

// Timesteps is the simulation horizon length, taken from the reference demand curve.
func (s *SiteData) Timesteps() int { return len(s.BuildingELoad) }

// TimestepHours is the duration of one timestep.
func (s *SiteData) TimestepHours() float64 {
	n := s.Timesteps()
	if n == 0 {
		return 0
	}
	return s.EndTS.Sub(s.StartTS).Hours() / float64(n)
}

func (s *SiteData) Validate() error {
	n := s.Timesteps()
	if n == 0 {
		return invalid("building_eload", "must not be empty")
	}
	if !s.StartTS.Before(s.EndTS) {
		return invalid("start_ts", "must be before end_ts (%s >= %s)", s.StartTS.Format(time.RFC3339), s.EndTS.Format(time.RFC3339))
	}

	required := []struct {
		name string
		v    []float64
	}{
		{"building_hload", s.BuildingHLoad},
		{"dhw_demand", s.DHWDemand},
		{"air_temperature", s.AirTemperature},
		{"ev_eload", s.EVELoad},
		{"grid_co2", s.GridCO2},
	}
	for _, r := range required {
		if len(r.v) != n {
			return invalid(r.name, "has %d entries, want %d", len(r.v), n)
		}
	}
	if len(s.PoolHeatDemand) != 0 && len(s.PoolHeatDemand) != n {
		return invalid("pool_heat_demand", "has %d entries, want 0 or %d", len(s.PoolHeatDemand), n)
	}

	if len(s.ImportTariffs) == 0 {
		return invalid("import_tariffs", "at least one tariff is required")
	}
	for i, t := range s.ImportTariffs {
		if len(t) != n {
			return invalid(fmt.Sprintf("import_tariffs[%d]", i), "has %d entries, want %d", len(t), n)
		}
	}
	for i, y := range s.SolarYields {
		if len(y) != n {
			return invalid(fmt.Sprintf("solar_yields[%d]", i), "has %d entries, want %d", len(y), n)
		}
	}
	for i, f := range s.FabricInterventions {
		if len(f.ReducedHLoad) != n {
			return invalid(fmt.Sprintf("fabric_interventions[%d].reduced_hload", i), "has %d entries, want %d", len(f.ReducedHLoad), n)
		}
		if f.Cost < 0 {
			return invalid(fmt.Sprintf("fabric_interventions[%d].cost", i), "must be >= 0")
		}
	}

	if s.ASHPReferencePowerKW <= 0 {
		return invalid("ashp_reference_power_kw", "must be > 0")
	}
	return ValidateLookupTables(s.ASHPInputTable, s.ASHPOutputTable)
}

// ValidateLookupTables checks that two heat pump tables share dimensions, are at
// least 2x2 and carry strictly ascending axis labels.
func ValidateLookupTables(input, output [][]float64) error {
	if len(input) < 2 || len(input[0]) < 2 {
		return invalid("ashp_input_table", "must be at least 2x2")
	}
	if len(output) != len(input) {
		return invalid("ashp_output_table", "has %d rows, input table has %d", len(output), len(input))
	}
	cols := len(input[0])
	for r := range input {
		if len(input[r]) != cols {
			return invalid("ashp_input_table", "row %d has %d columns, want %d", r, len(input[r]), cols)
		}
		if len(output[r]) != cols {
			return invalid("ashp_output_table", "row %d has %d columns, want %d", r, len(output[r]), cols)
		}
	}
	for r := 2; r < len(input); r++ {
		if input[r][0] <= input[r-1][0] || output[r][0] <= output[r-1][0] {
			return invalid("ashp_input_table", "air temperature labels must be strictly ascending (row %d)", r)
		}
	}
	for c := 2; c < cols; c++ {
		if input[0][c] <= input[0][c-1] || output[0][c] <= output[0][c-1] {
			return invalid("ashp_input_table", "send temperature labels must be strictly ascending (column %d)", c)
		}
	}
	return nil
}
