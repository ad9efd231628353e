// Package simulate runs one scenario's components against a shared ledger in
// three phases: fixed loads, per-timestep balancing of flexible loads and
// storage, then the grid and the other fallbacks.
package simulate

import (
	"fmt"

	"site-energy-sim/internal/component"
	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/tariff"
)

// Phase names a stage of a run, recorded on the result in execution order.
type Phase string

const (
	PhaseNonBalancing Phase = "non_balancing"
	PhaseBalancing    Phase = "balancing"
	PhaseFallback     Phase = "fallback"
	PhaseReport       Phase = "report"
)

type Options struct {
	// RoundTripLoss is the battery's charge side loss fraction.
	RoundTripLoss float64
	// TariffPercentile selects the daily low-price threshold used for
	// opportunistic charging.
	TariffPercentile float64
}

func DefaultOptions() Options {
	return Options{
		RoundTripLoss:    component.DefaultRoundTripLoss,
		TariffPercentile: tariff.DefaultPercentile,
	}
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine { return &Engine{opts: opts} }

// Run simulates task on site. The site is only read, so one site can be
// shared across concurrent runs. Callers are expected to have validated the
// scenario; Run only guards the indices it dereferences.
func (e *Engine) Run(site *model.SiteData, task *model.TaskData) (*Result, error) {
	if site == nil {
		return nil, fmt.Errorf("site is nil")
	}
	if task == nil {
		return nil, fmt.Errorf("task is nil")
	}
	n := site.Timesteps()
	if n == 0 {
		return nil, fmt.Errorf("no timesteps")
	}

	c, err := e.assemble(site, task)
	if err != nil {
		return nil, err
	}

	l := ledger.New(n)
	res := &Result{Precedence: PrecedenceFor(c.ev != nil && c.ev.IsFlexible(), c.dc.IsFlexible())}

	c.nonBalancing(l)
	res.Phases = append(res.Phases, PhaseNonBalancing)

	c.balancing(l, res.Precedence)
	res.Phases = append(res.Phases, PhaseBalancing)

	c.fallback(l)
	res.Phases = append(res.Phases, PhaseFallback)

	res.Report = c.report(l)
	res.Phases = append(res.Phases, PhaseReport)
	return res, nil
}

// components is one run's instantiated simulators. Absent optional
// components are nil, except ESS and data centre which use null variants.
type components struct {
	hotel *component.Hotel
	pv    *component.PV
	ev    *component.EV
	dhw   *component.HotWaterCylinder
	hp    *component.HeatPump // ambient air only; the hot-room unit lives inside dc
	dc    component.DataCentreUnit
	ess   component.Storage
	mop   *component.Mop
	grid  *component.Grid
	gas   *component.GasHeater
}

func (e *Engine) assemble(site *model.SiteData, task *model.TaskData) (*components, error) {
	n := site.Timesteps()
	dt := site.TimestepHours()

	tariffIdx := 0
	if task.Grid != nil {
		tariffIdx = task.Grid.TariffIndex
	}
	if tariffIdx < 0 || tariffIdx >= len(site.ImportTariffs) {
		return nil, &model.RangeError{Field: "grid.tariff_index", Index: tariffIdx, Len: len(site.ImportTariffs)}
	}
	stats := tariff.NewDailyStats(site.ImportTariffs[tariffIdx], dt, e.opts.TariffPercentile)

	c := &components{
		dc:   component.NullDataCentre{},
		ess:  component.NullBattery{},
		grid: component.NewGrid(task.Grid, n, dt),
	}

	if b := task.Building; b != nil {
		c.hotel = component.NewHotel(site, *b)
	}
	if len(task.SolarPanels) > 0 {
		c.pv = component.NewPV(site, task.SolarPanels)
	}
	if ev := task.ElectricVehicles; ev != nil {
		c.ev = component.NewEV(site, *ev)
	}
	if d := task.DomesticHotWater; d != nil {
		c.dhw = component.NewHotWaterCylinder(site, *d, task.HeatPump != nil, stats)
	}

	var hotroom *component.HeatPump
	if hp := task.HeatPump; hp != nil {
		hotroomTemp := 0.0
		if task.DataCentre != nil {
			hotroomTemp = task.DataCentre.HotroomTemp
		}
		unit, err := component.NewHeatPump(site, *hp, hotroomTemp)
		if err != nil {
			return nil, fmt.Errorf("heat pump: %w", err)
		}
		if unit.IsHotroom() {
			if task.DataCentre == nil {
				return nil, &model.ValidationError{Field: "heat_pump.heat_source", Reason: "hotroom source requires a data centre"}
			}
			hotroom = unit
		} else {
			c.hp = unit
		}
	}
	if dc := task.DataCentre; dc != nil {
		c.dc = component.NewDataCentre(site, *dc, hotroom)
	}

	if ess := task.EnergyStorageSystem; ess != nil {
		b, err := component.NewBattery(*ess, n, dt, e.opts.RoundTripLoss, stats)
		if err != nil {
			return nil, fmt.Errorf("energy storage system: %w", err)
		}
		c.ess = b
	}
	if m := task.Mop; m != nil {
		c.mop = component.NewMop(*m, n, dt)
	}
	if g := task.GasHeater; g != nil {
		c.gas = component.NewGasHeater(*g, n)
	}
	return c, nil
}

func (c *components) nonBalancing(l *ledger.Ledger) {
	if c.hotel != nil {
		c.hotel.AllCalcs(l)
	}
	if c.pv != nil {
		c.pv.AllCalcs(l)
	}
	if c.ev != nil && !c.ev.IsFlexible() {
		c.ev.AllCalcs(l)
	}
	if c.dhw != nil {
		c.dhw.AllCalcs(l)
	}
	if c.hp != nil {
		c.hp.AllCalcs(l)
	}
	if !c.dc.IsFlexible() {
		c.dc.AllCalcs(l)
	}
}

// balancing dispatches the flexible loads and the battery one timestep at a
// time. Headroom is what the grid can import plus what the battery can
// discharge. When EV and data centre both flex, the EV is held back enough
// to leave the data centre its full target.
func (c *components) balancing(l *ledger.Ledger, order Precedence) {
	importMax := c.grid.ImportLimit()
	dual := order.Dual()

	for t := 0; t < l.Timesteps(); t++ {
		headroom := importMax + c.ess.AvailableDischarge()
		for _, step := range order {
			switch step {
			case StepEV:
				budget := headroom
				if dual {
					budget -= c.dc.TargetLoad(t)
				}
				c.ev.StepCalc(l, budget, t)
			case StepDataCentre:
				c.dc.StepCalc(l, headroom, t)
			case StepESS:
				c.ess.StepCalc(l, importMax, t)
			}
		}
	}
}

func (c *components) fallback(l *ledger.Ledger) {
	if c.mop != nil {
		c.mop.AllCalcs(l)
	}
	c.grid.AllCalcs(l)
	if c.gas != nil {
		c.gas.AllCalcs(l)
	}
}

func (c *components) report(l *ledger.Ledger) ReportData {
	var r component.Report
	for _, rep := range c.reporters() {
		rep.Report(&r)
	}
	return ReportData{Report: r, Checksums: l.Report()}
}

func (c *components) reporters() []component.Reporter {
	out := []component.Reporter{c.dc, c.ess, c.grid}
	if c.hotel != nil {
		out = append(out, c.hotel)
	}
	if c.pv != nil {
		out = append(out, c.pv)
	}
	if c.ev != nil {
		out = append(out, c.ev)
	}
	if c.dhw != nil {
		out = append(out, c.dhw)
	}
	if c.hp != nil {
		out = append(out, c.hp)
	}
	if c.mop != nil {
		out = append(out, c.mop)
	}
	if c.gas != nil {
		out = append(out, c.gas)
	}
	return out
}
