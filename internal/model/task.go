package model

import "fmt"

// Heat sources understood by the heat pump.
const (
	HeatSourceAmbientAir = "ambient_air"
	HeatSourceHotroom    = "hotroom"
)

// Battery dispatch modes.
const (
	BatteryModeConsume     = "consume"
	BatteryModeConsumePlus = "consume_plus"
)

// Installation is carried by every installable component and is used for
// cost amortisation. Incumbent components are already on site and cost nothing to install.
type Installation struct {
	Incumbent bool    `json:"incumbent"`
	Age       float64 `json:"age"`
	Lifetime  float64 `json:"lifetime"`
}

type Building struct {
	Installation
	ScalarHeatLoad          float64 `json:"scalar_heat_load"`
	ScalarElectricalLoad    float64 `json:"scalar_electrical_load"`
	FabricInterventionIndex int     `json:"fabric_intervention_index"`
}

// DataCentre is a flexible electrical load that rejects heat into a hot room.
// Loads are kW.
type DataCentre struct {
	Installation
	MaximumLoad       float64 `json:"maximum_load"`
	FlexibleLoadRatio float64 `json:"flexible_load_ratio"`
	HotroomTemp       float64 `json:"hotroom_temp"`
	HeatRecoveryRatio float64 `json:"heat_recovery_ratio"`
}

// DomesticHotWater is a hot water cylinder; CylinderVolume is litres.
type DomesticHotWater struct {
	Installation
	CylinderVolume float64 `json:"cylinder_volume"`
}

type ElectricVehicles struct {
	Installation
	FlexibleLoadRatio    float64 `json:"flexible_load_ratio"`
	ScalarElectricalLoad float64 `json:"scalar_electrical_load"`
	SmallChargers        int     `json:"small_chargers"`
	FastChargers         int     `json:"fast_chargers"`
	RapidChargers        int     `json:"rapid_chargers"`
	UltraChargers        int     `json:"ultra_chargers"`
}

// EnergyStorageSystem capacities are kWh, powers are kW.
type EnergyStorageSystem struct {
	Installation
	Capacity       float64 `json:"capacity"`
	ChargePower    float64 `json:"charge_power"`
	DischargePower float64 `json:"discharge_power"`
	BatteryMode    string  `json:"battery_mode"`
	InitialCharge  float64 `json:"initial_charge"`
}

type GasHeater struct {
	Installation
	MaximumOutput    float64 `json:"maximum_output"`
	BoilerEfficiency float64 `json:"boiler_efficiency"`
}

// Grid connection limits are kW (kVA scaled by MinPowerFactor).
type Grid struct {
	Installation
	GridExport     float64 `json:"grid_export"`
	GridImport     float64 `json:"grid_import"`
	ImportHeadroom float64 `json:"import_headroom"`
	ExportHeadroom float64 `json:"export_headroom"`
	MinPowerFactor float64 `json:"min_power_factor"`
	TariffIndex    int     `json:"tariff_index"`
	ExportTariff   float64 `json:"export_tariff"`
}

type HeatPump struct {
	Installation
	HeatPower  float64 `json:"heat_power"`
	HeatSource string  `json:"heat_source"`
	SendTemp   float64 `json:"send_temp"`
}

// Mop is a low priority sink for surplus generation.
type Mop struct {
	Installation
	MaximumLoad float64 `json:"maximum_load"`
}

type SolarPanel struct {
	Installation
	YieldScalar float64 `json:"yield_scalar"`
	YieldIndex  int     `json:"yield_index"`
}

// TaskConfig holds scenario level settings used by the cost model.
type TaskConfig struct {
	CapexLimit             float64 `json:"capex_limit"`
	UseBoilerUpgradeScheme bool    `json:"use_boiler_upgrade_scheme"`
	GeneralGrantFunding    float64 `json:"general_grant_funding"`
	NPVHorizonYears        int     `json:"npv_horizon_years"`
	NPVDiscountRate        float64 `json:"npv_discount_rate"`
}

// TaskData describes one scenario. A nil component is not installed and takes
// no part in the energy balance.
type TaskData struct {
	Building            *Building            `json:"building,omitempty"`
	DataCentre          *DataCentre          `json:"data_centre,omitempty"`
	DomesticHotWater    *DomesticHotWater    `json:"domestic_hot_water,omitempty"`
	ElectricVehicles    *ElectricVehicles    `json:"electric_vehicles,omitempty"`
	EnergyStorageSystem *EnergyStorageSystem `json:"energy_storage_system,omitempty"`
	GasHeater           *GasHeater           `json:"gas_heater,omitempty"`
	Grid                *Grid                `json:"grid,omitempty"`
	HeatPump            *HeatPump            `json:"heat_pump,omitempty"`
	Mop                 *Mop                 `json:"mop,omitempty"`
	SolarPanels         []SolarPanel         `json:"solar_panels,omitempty"`
	Config              TaskConfig           `json:"config"`
}

// HeatLoad returns the heat load curve selected by the building's fabric
// intervention index: 0 is the baseline, k selects FabricInterventions[k-1].
func (s *SiteData) HeatLoad(fabricIndex int) []float64 {
	if fabricIndex <= 0 || fabricIndex > len(s.FabricInterventions) {
		return s.BuildingHLoad
	}
	return s.FabricInterventions[fabricIndex-1].ReducedHLoad
}

// ValidateScenario checks task against site before any simulation work is done.
func ValidateScenario(site *SiteData, task *TaskData) error {
	if site == nil {
		return invalid("site", "is nil")
	}
	if task == nil {
		return invalid("task", "is nil")
	}

	if b := task.Building; b != nil {
		if b.FabricInterventionIndex < 0 || b.FabricInterventionIndex > len(site.FabricInterventions) {
			return &RangeError{Field: "building.fabric_intervention_index", Index: b.FabricInterventionIndex, Len: len(site.FabricInterventions) + 1}
		}
		if b.ScalarHeatLoad < 0 || b.ScalarElectricalLoad < 0 {
			return invalid("building", "load scalars must be >= 0")
		}
	}
	if g := task.Grid; g != nil {
		if g.TariffIndex < 0 || g.TariffIndex >= len(site.ImportTariffs) {
			return &RangeError{Field: "grid.tariff_index", Index: g.TariffIndex, Len: len(site.ImportTariffs)}
		}
		if g.GridImport < 0 || g.GridExport < 0 {
			return invalid("grid", "import/export limits must be >= 0")
		}
		if err := fraction("grid.import_headroom", g.ImportHeadroom); err != nil {
			return err
		}
		if err := fraction("grid.export_headroom", g.ExportHeadroom); err != nil {
			return err
		}
		if err := fraction("grid.min_power_factor", g.MinPowerFactor); err != nil {
			return err
		}
	}
	for i, p := range task.SolarPanels {
		if p.YieldIndex < 0 || p.YieldIndex >= len(site.SolarYields) {
			return &RangeError{Field: fmt.Sprintf("solar_panels[%d].yield_index", i), Index: p.YieldIndex, Len: len(site.SolarYields)}
		}
		if p.YieldScalar < 0 {
			return invalid(fmt.Sprintf("solar_panels[%d].yield_scalar", i), "must be >= 0")
		}
	}
	if e := task.ElectricVehicles; e != nil {
		if err := fraction("electric_vehicles.flexible_load_ratio", e.FlexibleLoadRatio); err != nil {
			return err
		}
		if e.ScalarElectricalLoad < 0 {
			return invalid("electric_vehicles.scalar_electrical_load", "must be >= 0")
		}
		if e.SmallChargers < 0 || e.FastChargers < 0 || e.RapidChargers < 0 || e.UltraChargers < 0 {
			return invalid("electric_vehicles", "charger counts must be >= 0")
		}
	}
	if d := task.DataCentre; d != nil {
		if d.MaximumLoad < 0 {
			return invalid("data_centre.maximum_load", "must be >= 0")
		}
		if err := fraction("data_centre.flexible_load_ratio", d.FlexibleLoadRatio); err != nil {
			return err
		}
		if err := fraction("data_centre.heat_recovery_ratio", d.HeatRecoveryRatio); err != nil {
			return err
		}
	}
	if e := task.EnergyStorageSystem; e != nil {
		if e.Capacity < 0 || e.ChargePower < 0 || e.DischargePower < 0 {
			return invalid("energy_storage_system", "capacity and powers must be >= 0")
		}
		if e.InitialCharge < 0 || e.InitialCharge > e.Capacity {
			return invalid("energy_storage_system.initial_charge", "must be within [0, capacity]")
		}
		switch e.BatteryMode {
		case BatteryModeConsume, BatteryModeConsumePlus:
		default:
			return invalid("energy_storage_system.battery_mode", "unknown mode %q", e.BatteryMode)
		}
	}
	if h := task.HeatPump; h != nil {
		if h.HeatPower < 0 {
			return invalid("heat_pump.heat_power", "must be >= 0")
		}
		switch h.HeatSource {
		case "", HeatSourceAmbientAir:
		case HeatSourceHotroom:
			if task.DataCentre == nil {
				return invalid("heat_pump.heat_source", "hotroom source requires a data centre")
			}
		default:
			return invalid("heat_pump.heat_source", "unknown source %q", h.HeatSource)
		}
	}
	if g := task.GasHeater; g != nil {
		if g.MaximumOutput < 0 {
			return invalid("gas_heater.maximum_output", "must be >= 0")
		}
		if g.BoilerEfficiency <= 0 || g.BoilerEfficiency > 1 {
			return invalid("gas_heater.boiler_efficiency", "must be in (0, 1]")
		}
	}
	if d := task.DomesticHotWater; d != nil && d.CylinderVolume < 0 {
		return invalid("domestic_hot_water.cylinder_volume", "must be >= 0")
	}
	if m := task.Mop; m != nil && m.MaximumLoad < 0 {
		return invalid("mop.maximum_load", "must be >= 0")
	}

	c := task.Config
	if c.CapexLimit < 0 {
		return invalid("config.capex_limit", "must be >= 0")
	}
	if err := fraction("config.general_grant_funding", c.GeneralGrantFunding); err != nil {
		return err
	}
	if c.NPVHorizonYears < 0 {
		return invalid("config.npv_horizon_years", "must be >= 0")
	}
	return nil
}

func fraction(field string, v float64) error {
	if v < 0 || v > 1 {
		return invalid(field, "must be within [0, 1], got %g", v)
	}
	return nil
}
