package component

import (
	"math"

	"site-energy-sim/internal/hptable"
	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
)

// DHWSendTemp is the flow temperature used when a heat pump charges hot water.
const DHWSendTemp = 60

// HeatPump serves hot water first and central heating from whatever capacity
// is left in the same timestep. The hot-room variant additionally sources heat
// from data centre waste heat.
type HeatPump struct {
	dhw *hptable.Table
	ch  *hptable.Table

	hotroom    bool
	hotroomDHW hptable.Performance
	hotroomCH  hptable.Performance

	airTemp []float64

	elec      []float64
	heatDHW   []float64
	heatCH    []float64
	wasteUsed []float64
}

// NewHeatPump builds the per-degree tables for hp. hotroomTemp is only read for
// the hot-room heat source.
func NewHeatPump(site *model.SiteData, hp model.HeatPump, hotroomTemp float64) (*HeatPump, error) {
	dt := site.TimestepHours()
	dhw, err := hptable.New(site.ASHPInputTable, site.ASHPOutputTable, DHWSendTemp, hp.HeatPower, site.ASHPReferencePowerKW, dt)
	if err != nil {
		return nil, err
	}
	ch, err := hptable.New(site.ASHPInputTable, site.ASHPOutputTable, hp.SendTemp, hp.HeatPower, site.ASHPReferencePowerKW, dt)
	if err != nil {
		return nil, err
	}

	n := site.Timesteps()
	h := &HeatPump{
		dhw:       dhw,
		ch:        ch,
		airTemp:   site.AirTemperature,
		elec:      make([]float64, n),
		heatDHW:   make([]float64, n),
		heatCH:    make([]float64, n),
		wasteUsed: make([]float64, n),
	}
	if hp.HeatSource == model.HeatSourceHotroom {
		h.hotroom = true
		h.hotroomDHW = dhw.Lookup(hotroomTemp)
		h.hotroomCH = ch.Lookup(hotroomTemp)
	}
	return h, nil
}

// IsHotroom reports whether the unit draws on data centre waste heat.
func (h *HeatPump) IsHotroom() bool { return h.hotroom }

func (h *HeatPump) AllCalcs(l *ledger.Ledger) {
	for t := range h.elec {
		h.Serve(l, t, 0, math.Inf(1))
	}
}

// Serve meets as much of the DHW then CH demand at t as the unit can, given
// waste kWh of recoverable heat and allowance kWh of electricity. If the full
// draw exceeds the allowance, heat and electricity scale down together.
// Waste heat the unit does not use is written to the ledger's waste channel.
func (h *HeatPump) Serve(l *ledger.Ledger, t int, waste, allowance float64) {
	air := h.airTemp[t]
	dhwSrc := source{ambient: h.dhw.Lookup(air)}
	chSrc := source{ambient: h.ch.Lookup(air)}
	if h.hotroom {
		dhwSrc.hotroom, dhwSrc.hasHotroom = h.hotroomDHW, true
		chSrc.hotroom, chSrc.hasHotroom = h.hotroomCH, true
	}

	dhwSrc.waste = waste
	dhwMax := dhwSrc.maxHeat()
	dhwOut := math.Min(math.Max(0, l.DHW[t]), dhwMax)
	dhwElec := dhwSrc.elecFor(dhwOut)
	dhwWaste := dhwSrc.wasteFor(dhwOut, dhwElec)

	residual := 0.0
	if dhwMax > 0 {
		residual = 1 - dhwOut/dhwMax
	}

	chSrc.waste = waste - dhwWaste
	chMax := chSrc.maxHeat() * residual
	chOut := math.Min(math.Max(0, l.Heat[t]), chMax)
	chElec := chSrc.elecFor(chOut)
	chWaste := chSrc.wasteFor(chOut, chElec)

	elec := dhwElec + chElec
	if elec > allowance {
		s := 0.0
		if elec > 0 {
			s = math.Max(0, allowance) / elec
		}
		dhwOut *= s
		chOut *= s
		elec *= s
		dhwWaste *= s
		chWaste *= s
	}

	used := dhwWaste + chWaste
	l.DHW[t] -= dhwOut
	l.Heat[t] -= chOut
	l.Elec[t] += elec
	l.Waste[t] += waste - used

	h.heatDHW[t] = dhwOut
	h.heatCH[t] = chOut
	h.elec[t] = elec
	h.wasteUsed[t] = used
}

func (h *HeatPump) Report(r *Report) {
	r.HPElecLoad = clone(h.elec)
	r.HPHeatDHW = clone(h.heatDHW)
	r.HPHeatCH = clone(h.heatCH)
	r.HPWasteUsed = clone(h.wasteUsed)
}

// source is one service's capacity at one timestep. The ambient path draws
// on outside air; the hot-room path lifts from the hot room, which can only
// contribute waste heat that is actually there.
type source struct {
	ambient    hptable.Performance
	hotroom    hptable.Performance
	hasHotroom bool
	waste      float64
}

func (s source) maxHeat() float64 {
	if !s.hasHotroom {
		return math.Max(0, s.ambient.Output)
	}
	return math.Max(0, math.Min(s.ambient.Output+s.waste, s.hotroom.Output))
}

// elecFor is the larger of the two paths' electrical draw for heat kWh.
func (s source) elecFor(heat float64) float64 {
	if heat <= 0 {
		return 0
	}
	ambient := ratio(math.Max(0, heat-s.waste), s.ambient)
	if !s.hasHotroom {
		return ratio(heat, s.ambient)
	}
	return math.Max(ratio(heat, s.hotroom), ambient)
}

// wasteFor is the waste heat absorbed in delivering heat for elec.
func (s source) wasteFor(heat, elec float64) float64 {
	if !s.hasHotroom {
		return 0
	}
	return clamp(heat-elec, 0, s.waste)
}

func ratio(heat float64, p hptable.Performance) float64 {
	if p.Output <= 0 {
		return 0
	}
	return heat * p.Input / p.Output
}
