package cost

import (
	"math"

	"site-energy-sim/internal/model"
	"site-energy-sim/internal/simulate"
)

// Summary is the priced outcome of one simulated task.
type Summary struct {
	Capex  Capex  `json:"capex"`
	Opex   Opex   `json:"opex"`
	Carbon Carbon `json:"carbon"`

	// Annual figures are horizon totals scaled to one year.
	AnnualOpex   float64 `json:"annual_opex"`
	AnnualCarbon float64 `json:"annual_carbon"`
	// AnnualisedCost is annual opex plus capex spread over component lifetimes.
	AnnualisedCost float64 `json:"annualised_cost"`
}

func Summarise(site *model.SiteData, task *model.TaskData, cv simulate.CostVectors, p Prices) Summary {
	s := Summary{
		Capex:  CalculateCapexWithDiscounts(site, task, p),
		Opex:   CalculateOpex(site, task, cv, p),
		Carbon: CalculateCarbon(site, cv, p),
	}
	scale := AnnualScale(site)
	s.AnnualOpex = s.Opex.Total * scale
	s.AnnualCarbon = s.Carbon.Total * scale
	s.AnnualisedCost = s.AnnualOpex + s.Capex.Annualised()
	return s
}

// NPV is the net present value of paying upfront now and receiving annual
// at the end of each of years years.
func NPV(upfront, annual float64, years int, rate float64) float64 {
	v := -upfront
	for y := 1; y <= years; y++ {
		v += annual / math.Pow(1+rate, float64(y))
	}
	return v
}

// Payback is the simple payback in years, or math.MaxFloat64 if the saving
// never pays the capex back.
func Payback(capex, annualSaving float64) float64 {
	if capex <= 0 {
		return 0
	}
	if annualSaving <= 0 {
		return math.MaxFloat64
	}
	return capex / annualSaving
}
