// Package strategy holds the battery dispatch modes. A strategy looks at one
// timestep of the balance and decides how much the battery should move.
package strategy

import (
	"fmt"

	"site-energy-sim/internal/model"
	"site-energy-sim/internal/tariff"
)

// Context is everything a strategy may look at for one timestep. Energies are kWh.
type Context struct {
	Timestep int

	// Balance is the ledger electricity balance at Timestep (positive = demand).
	Balance float64
	// ImportBudget is the grid import headroom available this timestep.
	ImportBudget float64

	StoredEnergy       float64
	Capacity           float64
	AvailableCharge    float64 // grid side, already bounded by power and headroom
	AvailableDischarge float64
	ChargeEfficiency   float64 // stored = charged * ChargeEfficiency

	Tariffs *tariff.DailyStats
}

// Dispatch is the requested battery movement.
// Convention: positive Energy = discharge into the site, negative = charge.
type Dispatch struct {
	Energy float64
}

type Strategy interface {
	Name() string
	Decide(ctx Context) Dispatch
}

// New returns the strategy for a battery mode name.
func New(mode string) (Strategy, error) {
	switch mode {
	case model.BatteryModeConsume:
		return Consume{}, nil
	case model.BatteryModeConsumePlus:
		return ConsumePlus{TargetSoC: DefaultConsumePlusTarget}, nil
	default:
		return nil, fmt.Errorf("unsupported battery mode: %q", mode)
	}
}
