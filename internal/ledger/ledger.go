// Package ledger holds the running energy balance threaded through every
// component during one scenario simulation.
package ledger

import "gonum.org/v1/gonum/floats"

// Ledger is the shared per-timestep balance. It is created once per scenario,
// mutated in place by each component in order, and never reset mid-run.
//
// Sign convention for Elec: positive is unmet demand (needs import or
// discharge), negative is surplus (available for storage or export).
// Heat, DHW and Pool hold demand still to be served; Waste accumulates heat
// produced but not used.
type Ledger struct {
	Elec  []float64
	Heat  []float64
	DHW   []float64
	Pool  []float64
	Waste []float64
}

// New returns a zeroed ledger of n timesteps.
func New(n int) *Ledger {
	return &Ledger{
		Elec:  make([]float64, n),
		Heat:  make([]float64, n),
		DHW:   make([]float64, n),
		Pool:  make([]float64, n),
		Waste: make([]float64, n),
	}
}

// Timesteps is the horizon length.
func (l *Ledger) Timesteps() int { return len(l.Elec) }

// Checksums are the residuals left after every component has run. A complete
// configuration with unconstrained fallbacks leaves all of them at zero.
type Checksums struct {
	ImportShortfall []float64 `json:"import_shortfall"`
	CurtailedExport []float64 `json:"curtailed_export"`
	HeatShortfall   []float64 `json:"heat_shortfall"`
	HeatSurplus     []float64 `json:"heat_surplus"`
}

// Report derives the checksum series from the current balance.
func (l *Ledger) Report() Checksums {
	n := l.Timesteps()
	c := Checksums{
		ImportShortfall: make([]float64, n),
		CurtailedExport: make([]float64, n),
		HeatShortfall:   make([]float64, n),
		HeatSurplus:     make([]float64, n),
	}
	for t, e := range l.Elec {
		if e > 0 {
			c.ImportShortfall[t] = e
		} else if e < 0 {
			c.CurtailedExport[t] = -e
		}
	}
	floats.AddTo(c.HeatShortfall, l.Heat, l.DHW)
	floats.Add(c.HeatShortfall, l.Pool)
	copy(c.HeatSurplus, l.Waste)
	return c
}

// Totals sums each checksum series over the horizon.
type Totals struct {
	ImportShortfall float64 `json:"import_shortfall"`
	CurtailedExport float64 `json:"curtailed_export"`
	HeatShortfall   float64 `json:"heat_shortfall"`
	HeatSurplus     float64 `json:"heat_surplus"`
}

func (c Checksums) Totals() Totals {
	return Totals{
		ImportShortfall: floats.Sum(c.ImportShortfall),
		CurtailedExport: floats.Sum(c.CurtailedExport),
		HeatShortfall:   floats.Sum(c.HeatShortfall),
		HeatSurplus:     floats.Sum(c.HeatSurplus),
	}
}

// Balanced reports whether every total is within tol of zero.
func (t Totals) Balanced(tol float64) bool {
	return t.ImportShortfall <= tol && t.CurtailedExport <= tol && t.HeatShortfall <= tol && t.HeatSurplus <= tol
}
