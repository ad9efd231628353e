package cost

import (
	"math"

	"site-energy-sim/internal/model"
)

// Item is one component's installation cost.
type Item struct {
	Component string  `json:"component"`
	Cost      float64 `json:"cost"`
	Lifetime  float64 `json:"lifetime"`
}

type Capex struct {
	Items []Item  `json:"items"`
	Gross float64 `json:"gross"`

	BoilerUpgradeDiscount float64 `json:"boiler_upgrade_discount"`
	GrantDiscount         float64 `json:"grant_discount"`

	Total float64 `json:"total"`
}

// Annualised spreads each item over its lifetime. Discounts reduce every item
// in proportion.
func (c Capex) Annualised() float64 {
	if c.Gross <= 0 {
		return 0
	}
	scale := c.Total / c.Gross
	sum := 0.0
	for _, it := range c.Items {
		sum += it.Cost * scale / it.Lifetime
	}
	return sum
}

// CalculateCapex prices every installed, non-incumbent component of task.
func CalculateCapex(site *model.SiteData, task *model.TaskData, p Prices) Capex {
	var c Capex
	add := func(name string, inst model.Installation, cost float64) {
		if inst.Incumbent || cost <= 0 {
			return
		}
		life := inst.Lifetime
		if life <= 0 {
			life = p.DefaultLifetime
		}
		c.Items = append(c.Items, Item{Component: name, Cost: cost, Lifetime: life})
		c.Gross += cost
	}

	if b := task.Building; b != nil {
		if idx := b.FabricInterventionIndex; idx > 0 && idx <= len(site.FabricInterventions) {
			add("building", b.Installation, site.FabricInterventions[idx-1].Cost)
		}
	}
	if d := task.DataCentre; d != nil {
		add("data_centre", d.Installation, ThreeTierCost(d.MaximumLoad, p.DataCentre))
	}
	if d := task.DomesticHotWater; d != nil {
		add("domestic_hot_water", d.Installation, ThreeTierCost(d.CylinderVolume, p.DHWCylinder))
	}
	if ev := task.ElectricVehicles; ev != nil {
		cost := float64(ev.SmallChargers)*p.SmallCharger +
			float64(ev.FastChargers)*p.FastCharger +
			float64(ev.RapidChargers)*p.RapidCharger +
			float64(ev.UltraChargers)*p.UltraCharger
		add("electric_vehicles", ev.Installation, cost)
	}
	if e := task.EnergyStorageSystem; e != nil {
		cost := ThreeTierCost(e.Capacity, p.ESSEnclosure) + ThreeTierCost(math.Max(e.ChargePower, e.DischargePower), p.ESSPCS)
		add("energy_storage_system", e.Installation, cost)
	}
	if g := task.GasHeater; g != nil {
		add("gas_heater", g.Installation, ThreeTierCost(g.MaximumOutput, p.GasHeater))
	}
	if g := task.Grid; g != nil {
		add("grid", g.Installation, ThreeTierCost(g.GridImport, p.GridUpgrade))
	}
	if h := task.HeatPump; h != nil {
		add("heat_pump", h.Installation, ThreeTierCost(h.HeatPower, p.HeatPump))
	}
	if m := task.Mop; m != nil {
		add("mop", m.Installation, p.MopFixed)
	}
	for _, s := range task.SolarPanels {
		add("solar_panel", s.Installation, ThreeTierCost(s.YieldScalar, p.SolarPV))
	}

	c.Total = c.Gross
	return c
}

// CalculateCapexWithDiscounts applies the boiler upgrade grant to the heat
// pump and then the general grant fraction to what remains.
func CalculateCapexWithDiscounts(site *model.SiteData, task *model.TaskData, p Prices) Capex {
	c := CalculateCapex(site, task, p)
	cfg := task.Config

	if cfg.UseBoilerUpgradeScheme {
		for _, it := range c.Items {
			if it.Component == "heat_pump" {
				c.BoilerUpgradeDiscount = math.Min(it.Cost, p.BoilerUpgradeGrant)
			}
		}
	}
	net := c.Gross - c.BoilerUpgradeDiscount
	if f := cfg.GeneralGrantFunding; f > 0 {
		c.GrantDiscount = net * math.Min(f, 1)
	}
	c.Total = net - c.GrantDiscount
	return c
}
