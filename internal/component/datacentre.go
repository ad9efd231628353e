package component

import (
	"math"

	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
)

// DataCentreUnit is the capability set the balancing loop needs from a data
// centre. NullDataCentre satisfies it for sites without one.
type DataCentreUnit interface {
	Flexible
	Reporter
}

// DataCentre is a constant target load with an optional hot-room heat pump
// running off its waste heat.
type DataCentre struct {
	target   float64
	ratio    float64
	recovery float64
	hp       *HeatPump

	actual []float64
	waste  []float64
}

// NewDataCentre pairs dc with hp, which may be nil. A non-nil hp must be the
// hot-room variant.
func NewDataCentre(site *model.SiteData, dc model.DataCentre, hp *HeatPump) *DataCentre {
	n := site.Timesteps()
	return &DataCentre{
		target:   dc.MaximumLoad * site.TimestepHours(),
		ratio:    dc.FlexibleLoadRatio,
		recovery: dc.HeatRecoveryRatio,
		hp:       hp,
		actual:   make([]float64, n),
		waste:    make([]float64, n),
	}
}

func (d *DataCentre) IsFlexible() bool { return d.ratio < 1 }

func (d *DataCentre) TargetLoad(int) float64 { return d.target }

func (d *DataCentre) AllCalcs(l *ledger.Ledger) {
	for t := range d.actual {
		d.StepCalc(l, math.Inf(1), t)
	}
}

// StepCalc takes its load under budget, then hands the remaining headroom
// and the recovered heat to the hot-room heat pump.
func (d *DataCentre) StepCalc(l *ledger.Ledger, budget float64, t int) {
	load := 0.0
	if d.target > 0 {
		load = clamp(budget-l.Elec[t], d.ratio*d.target, d.target)
	}
	l.Elec[t] += load
	d.actual[t] = load

	waste := load * d.recovery
	d.waste[t] = waste
	if d.hp == nil {
		l.Waste[t] += waste
		return
	}
	d.hp.Serve(l, t, waste, math.Max(0, budget-l.Elec[t]))
}

func (d *DataCentre) Report(r *Report) {
	target := make([]float64, len(d.actual))
	for i := range target {
		target[i] = d.target
	}
	r.DCTargetLoad = target
	r.DCActualLoad = clone(d.actual)
	r.DCWasteHeat = clone(d.waste)
	if d.hp != nil {
		d.hp.Report(r)
	}
}

// NullDataCentre stands in when no data centre is installed.
type NullDataCentre struct{}

func (NullDataCentre) IsFlexible() bool                      { return false }
func (NullDataCentre) TargetLoad(int) float64                { return 0 }
func (NullDataCentre) AllCalcs(*ledger.Ledger)               {}
func (NullDataCentre) StepCalc(*ledger.Ledger, float64, int) {}
func (NullDataCentre) Report(*Report)                        {}
