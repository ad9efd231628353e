package component

import (
	"math"

	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
)

// Grid settles what is left of the electricity balance within the
// connection's import and export limits.
type Grid struct {
	importMax float64
	exportMax float64
	imports   []float64
	exports   []float64
}

// NewGrid converts the connection's kVA limits into kWh per timestep.
// A nil grid gives a site that can neither import nor export.
func NewGrid(g *model.Grid, n int, timestepHours float64) *Grid {
	grid := &Grid{imports: make([]float64, n), exports: make([]float64, n)}
	if g != nil {
		grid.importMax = math.Max(0, g.GridImport*(1-g.ImportHeadroom)*g.MinPowerFactor*timestepHours)
		grid.exportMax = math.Max(0, g.GridExport*(1-g.ExportHeadroom)*g.MinPowerFactor*timestepHours)
	}
	return grid
}

// ImportLimit is the most energy the site can import in one timestep.
func (g *Grid) ImportLimit() float64 { return g.importMax }

func (g *Grid) AllCalcs(l *ledger.Ledger) {
	for t, e := range l.Elec {
		g.imports[t], g.exports[t] = 0, 0
		switch {
		case e > 0:
			imp := math.Min(e, g.importMax)
			l.Elec[t] -= imp
			g.imports[t] = imp
		case e < 0:
			exp := math.Min(-e, g.exportMax)
			l.Elec[t] += exp
			g.exports[t] = exp
		}
	}
}

func (g *Grid) Report(r *Report) {
	r.GridImport = clone(g.imports)
	r.GridExport = clone(g.exports)
}

// GasHeater meets all remaining heat demand. It is the heat sink of last resort
// and is not capacity limited.
type GasHeater struct {
	efficiency float64
	heat       []float64
	fuel       []float64
}

func NewGasHeater(g model.GasHeater, n int) *GasHeater {
	return &GasHeater{efficiency: g.BoilerEfficiency, heat: make([]float64, n), fuel: make([]float64, n)}
}

func (g *GasHeater) AllCalcs(l *ledger.Ledger) {
	for t := range g.heat {
		h := math.Max(0, l.Heat[t]) + math.Max(0, l.DHW[t]) + math.Max(0, l.Pool[t])
		if l.Heat[t] > 0 {
			l.Heat[t] = 0
		}
		if l.DHW[t] > 0 {
			l.DHW[t] = 0
		}
		if l.Pool[t] > 0 {
			l.Pool[t] = 0
		}
		g.heat[t] = h
		g.fuel[t] = 0
		if g.efficiency > 0 {
			g.fuel[t] = h / g.efficiency
		}
	}
}

func (g *GasHeater) Report(r *Report) {
	r.GasHeat = clone(g.heat)
	r.GasFuel = clone(g.fuel)
}

// Mop absorbs surplus generation up to its maximum load.
type Mop struct {
	limit float64
	load  []float64
}

func NewMop(m model.Mop, n int, timestepHours float64) *Mop {
	return &Mop{limit: math.Max(0, m.MaximumLoad*timestepHours), load: make([]float64, n)}
}

func (m *Mop) AllCalcs(l *ledger.Ledger) {
	for t, e := range l.Elec {
		m.load[t] = 0
		if e >= 0 {
			continue
		}
		take := math.Min(-e, m.limit)
		l.Elec[t] += take
		m.load[t] = take
	}
}

func (m *Mop) Report(r *Report) {
	r.MopLoad = clone(m.load)
}
