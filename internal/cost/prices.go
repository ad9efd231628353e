package cost

// Prices is the cost model. Monetary values are GBP, energy kWh, carbon kg.
//
// Tier units: ESSEnclosure per kWh capacity, ESSPCS per kW of the larger
// power rating, SolarPV per kWp, HeatPump per kW heat, DHWCylinder per
// litre, GridUpgrade per kW import, DataCentre per kW, GasHeater per kW output.
type Prices struct {
	ESSEnclosure ThreeTier `json:"ess_enclosure" yaml:"ess_enclosure"`
	ESSPCS       ThreeTier `json:"ess_pcs" yaml:"ess_pcs"`
	SolarPV      ThreeTier `json:"solar_pv" yaml:"solar_pv"`
	HeatPump     ThreeTier `json:"heat_pump" yaml:"heat_pump"`
	DHWCylinder  ThreeTier `json:"dhw_cylinder" yaml:"dhw_cylinder"`
	GridUpgrade  ThreeTier `json:"grid_upgrade" yaml:"grid_upgrade"`
	DataCentre   ThreeTier `json:"data_centre" yaml:"data_centre"`
	GasHeater    ThreeTier `json:"gas_heater" yaml:"gas_heater"`

	SmallCharger float64 `json:"small_charger" yaml:"small_charger"`
	FastCharger  float64 `json:"fast_charger" yaml:"fast_charger"`
	RapidCharger float64 `json:"rapid_charger" yaml:"rapid_charger"`
	UltraCharger float64 `json:"ultra_charger" yaml:"ultra_charger"`
	MopFixed     float64 `json:"mop_fixed" yaml:"mop_fixed"`

	// GasPrice is per kWh of fuel burned, GasCarbon kg per kWh of fuel.
	GasPrice  float64 `json:"gas_price" yaml:"gas_price"`
	GasCarbon float64 `json:"gas_carbon" yaml:"gas_carbon"`

	BoilerUpgradeGrant float64 `json:"boiler_upgrade_grant" yaml:"boiler_upgrade_grant"`

	// DefaultLifetime is used for components that do not declare one.
	DefaultLifetime float64 `json:"default_lifetime" yaml:"default_lifetime"`
}

// DefaultPrices is the built in cost model used when none is configured.
func DefaultPrices() Prices {
	return Prices{
		ESSEnclosure: ThreeTier{SmallThreshold: 20, MidThreshold: 1000, SmallRate: 480, MidRate: 360, LargeRate: 300},
		ESSPCS:       ThreeTier{SmallThreshold: 50, MidThreshold: 1000, SmallRate: 250, MidRate: 125, LargeRate: 75},
		SolarPV:      ThreeTier{SmallThreshold: 50, MidThreshold: 1000, SmallRate: 1500, MidRate: 1100, LargeRate: 850},
		HeatPump:     ThreeTier{Fixed: 4000, SmallThreshold: 15, MidThreshold: 100, SmallRate: 800, MidRate: 2500, LargeRate: 1500},
		DHWCylinder:  ThreeTier{Fixed: 1000, SmallThreshold: 300, MidThreshold: 800, SmallRate: 6.5, MidRate: 5, LargeRate: 3},
		GridUpgrade:  ThreeTier{SmallThreshold: 50, MidThreshold: 1000, SmallRate: 240, MidRate: 160, LargeRate: 120},
		DataCentre:   ThreeTier{SmallThreshold: 50, MidThreshold: 100, SmallRate: 10000, MidRate: 7500, LargeRate: 5000},
		GasHeater:    ThreeTier{Fixed: 1500, SmallThreshold: 50, MidThreshold: 300, SmallRate: 60, MidRate: 45, LargeRate: 30},

		SmallCharger: 1200,
		FastCharger:  2500,
		RapidCharger: 20000,
		UltraCharger: 60000,
		MopFixed:     500,

		GasPrice:  0.068,
		GasCarbon: 0.201,

		BoilerUpgradeGrant: 7500,
		DefaultLifetime:    15,
	}
}
