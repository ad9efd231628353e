package component

import (
	"gonum.org/v1/gonum/floats"

	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
)

// Hotel is the building's fixed (non-flexible) load.
type Hotel struct {
	elec []float64
	heat []float64
	dhw  []float64
	pool []float64
}

func NewHotel(site *model.SiteData, b model.Building) *Hotel {
	n := site.Timesteps()
	h := &Hotel{
		elec: make([]float64, n),
		heat: make([]float64, n),
		dhw:  clone(site.DHWDemand),
		pool: clone(site.PoolHeatDemand),
	}
	if len(h.pool) != n {
		h.pool = make([]float64, n)
	}
	floats.ScaleTo(h.elec, b.ScalarElectricalLoad, site.BuildingELoad)
	floats.ScaleTo(h.heat, b.ScalarHeatLoad, site.HeatLoad(b.FabricInterventionIndex))
	return h
}

func (h *Hotel) AllCalcs(l *ledger.Ledger) {
	floats.Add(l.Elec, h.elec)
	floats.Add(l.Heat, h.heat)
	floats.Add(l.DHW, h.dhw)
	floats.Add(l.Pool, h.pool)
}

func (h *Hotel) Report(r *Report) {
	r.BuildingELoad = clone(h.elec)
	r.BuildingHLoad = clone(h.heat)
	r.DHWDemand = clone(h.dhw)
}

// PV sums every panel's scaled yield channel into one generation series.
type PV struct {
	generation []float64
}

func NewPV(site *model.SiteData, panels []model.SolarPanel) *PV {
	gen := make([]float64, site.Timesteps())
	for _, p := range panels {
		floats.AddScaled(gen, p.YieldScalar, site.SolarYields[p.YieldIndex])
	}
	return &PV{generation: gen}
}

func (p *PV) AllCalcs(l *ledger.Ledger) {
	floats.Sub(l.Elec, p.generation)
}

func (p *PV) Report(r *Report) {
	r.PVGeneration = clone(p.generation)
}
