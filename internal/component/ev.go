package component

import (
	"gonum.org/v1/gonum/floats"

	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
)

// EV is the electric vehicle charging load. When flexible it may be throttled
// down to FlexibleLoadRatio of its target.
type EV struct {
	ratio  float64
	target []float64
	actual []float64
}

func NewEV(site *model.SiteData, ev model.ElectricVehicles) *EV {
	n := site.Timesteps()
	e := &EV{
		ratio:  ev.FlexibleLoadRatio,
		target: make([]float64, n),
		actual: make([]float64, n),
	}
	floats.ScaleTo(e.target, ev.ScalarElectricalLoad, site.EVELoad)
	return e
}

func (e *EV) IsFlexible() bool { return e.ratio < 1 }

func (e *EV) TargetLoad(t int) float64 { return e.target[t] }

func (e *EV) AllCalcs(l *ledger.Ledger) {
	copy(e.actual, e.target)
	floats.Add(l.Elec, e.actual)
}

// StepCalc takes as much of the headroom under budget as it can, between the
// flexible floor and the full target.
func (e *EV) StepCalc(l *ledger.Ledger, budget float64, t int) {
	target := e.target[t]
	if target <= 0 {
		e.actual[t] = 0
		return
	}
	load := clamp(budget-l.Elec[t], e.ratio*target, target)
	e.actual[t] = load
	l.Elec[t] += load
}

func (e *EV) Report(r *Report) {
	r.EVTargetLoad = clone(e.target)
	r.EVActualLoad = clone(e.actual)
}
