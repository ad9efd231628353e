package cost

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-energy-sim/internal/model"
	"site-energy-sim/internal/simulate"
)

func TestThreeTierCost_StrictlyIncreasingAcrossThresholds(t *testing.T) {
	tiers := ThreeTier{Fixed: 100, SmallThreshold: 50, MidThreshold: 100, SmallRate: 10, MidRate: 8, LargeRate: 5}

	assert.Zero(t, ThreeTierCost(0, tiers))
	assert.Zero(t, ThreeTierCost(-3, tiers))
	assert.InDelta(t, 100+49*10, ThreeTierCost(49, tiers), 1e-9)
	assert.InDelta(t, 100+50*10, ThreeTierCost(50, tiers), 1e-9)
	assert.InDelta(t, 100+50*10+8, ThreeTierCost(51, tiers), 1e-9)
	assert.InDelta(t, 100+500+400+5, ThreeTierCost(101, tiers), 1e-9)

	prev := 0.0
	for _, u := range []float64{1, 49, 50, 51, 99, 100, 101, 500} {
		c := ThreeTierCost(u, tiers)
		assert.Greater(t, c, prev, "cost at %g", u)
		prev = c
	}
}

func TestDefaultPrices_TiersIncrease(t *testing.T) {
	p := DefaultPrices()
	for name, tier := range map[string]ThreeTier{
		"ess":  p.ESSEnclosure,
		"pv":   p.SolarPV,
		"hp":   p.HeatPump,
		"dhw":  p.DHWCylinder,
		"grid": p.GridUpgrade,
	} {
		s, m := tier.SmallThreshold, tier.MidThreshold
		assert.Less(t, ThreeTierCost(s-1, tier), ThreeTierCost(s, tier), name)
		assert.Less(t, ThreeTierCost(s, tier), ThreeTierCost(s+1, tier), name)
		assert.Less(t, ThreeTierCost(m-1, tier), ThreeTierCost(m+1, tier), name)
	}
}

func testSite(n int) *model.SiteData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v := make([]float64, n)
	for i := range v {
		v[i] = 0.5
	}
	return &model.SiteData{
		StartTS:       start,
		EndTS:         start.Add(time.Duration(n) * time.Hour),
		BuildingELoad: v,
		GridCO2:       v,
		ImportTariffs: [][]float64{v},
		FabricInterventions: []model.FabricIntervention{
			{Cost: 3000},
		},
	}
}

func TestCalculateCapex_IncumbentIsFree(t *testing.T) {
	site := testSite(4)
	p := DefaultPrices()
	task := &model.TaskData{
		Building:  &model.Building{FabricInterventionIndex: 1},
		HeatPump:  &model.HeatPump{HeatPower: 10},
		GasHeater: &model.GasHeater{Installation: model.Installation{Incumbent: true}, MaximumOutput: 30},
	}
	c := CalculateCapex(site, task, p)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "building", c.Items[0].Component)
	assert.InDelta(t, 3000, c.Items[0].Cost, 1e-9)
	assert.InDelta(t, ThreeTierCost(10, p.HeatPump), c.Items[1].Cost, 1e-9)
	assert.InDelta(t, p.DefaultLifetime, c.Items[1].Lifetime, 1e-9)
	assert.InDelta(t, c.Gross, c.Total, 1e-9)
}

func TestCalculateCapexWithDiscounts(t *testing.T) {
	site := testSite(4)
	p := DefaultPrices()
	task := &model.TaskData{
		HeatPump: &model.HeatPump{HeatPower: 10},
		Mop:      &model.Mop{},
		Config:   model.TaskConfig{UseBoilerUpgradeScheme: true, GeneralGrantFunding: 0.5},
	}
	c := CalculateCapexWithDiscounts(site, task, p)

	gross := ThreeTierCost(10, p.HeatPump) + p.MopFixed
	assert.InDelta(t, gross, c.Gross, 1e-9)
	assert.InDelta(t, 7500, c.BoilerUpgradeDiscount, 1e-9)
	assert.InDelta(t, (gross-7500)/2, c.GrantDiscount, 1e-9)
	assert.InDelta(t, (gross-7500)/2, c.Total, 1e-9)
	assert.InDelta(t, c.Total/p.DefaultLifetime, c.Annualised(), 1e-9)
}

func TestCalculateOpexAndCarbon(t *testing.T) {
	site := testSite(4)
	p := DefaultPrices()
	cv := simulate.CostVectors{
		GridImport: []float64{2, 2, 0, 0},
		GridExport: []float64{0, 0, 1, 1},
		GasFuel:    []float64{1, 1, 1, 1},
	}
	task := &model.TaskData{Grid: &model.Grid{ExportTariff: 0.1}}

	o := CalculateOpex(site, task, cv, p)
	assert.InDelta(t, 2, o.Import, 1e-12)
	assert.InDelta(t, 0.2, o.Export, 1e-12)
	assert.InDelta(t, 4*p.GasPrice, o.Gas, 1e-12)
	assert.InDelta(t, 2-0.2+4*p.GasPrice, o.Total, 1e-12)

	c := CalculateCarbon(site, cv, p)
	assert.InDelta(t, 2, c.Grid, 1e-12)
	assert.InDelta(t, 4*p.GasCarbon, c.Gas, 1e-12)

	assert.InDelta(t, 8760.0/4, AnnualScale(site), 1e-9)
}

func TestNPVAndPayback(t *testing.T) {
	assert.InDelta(t, -100+50/1.1+50/1.21, NPV(100, 50, 2, 0.1), 1e-9)
	assert.InDelta(t, 0, NPV(0, 0, 10, 0.05), 1e-12)
	assert.InDelta(t, 4, Payback(100, 25), 1e-12)
	assert.Zero(t, Payback(0, 25))
	assert.Equal(t, math.MaxFloat64, Payback(100, 0))
}
