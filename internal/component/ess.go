package component

import (
	"fmt"
	"math"

	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/strategy"
	"site-energy-sim/internal/tariff"
)

// DefaultRoundTripLoss is the fraction of charged energy lost, applied on charge only.
const DefaultRoundTripLoss = 0.1

// Storage is the capability set the balancing loop needs from a battery.
// NullBattery satisfies it for sites without one.
type Storage interface {
	AvailableCharge() float64
	AvailableDischarge() float64
	StepCalc(l *ledger.Ledger, importBudget float64, t int)
	Reporter
}

// Battery is an energy storage system tracked in kWh.
type Battery struct {
	capacity       float64
	chargePower    float64
	dischargePower float64
	efficiency     float64
	timestepHours  float64

	stored   float64
	strategy strategy.Strategy
	tariffs  *tariff.DailyStats

	charge    []float64
	discharge []float64
	history   []float64
}

func NewBattery(ess model.EnergyStorageSystem, n int, timestepHours, roundTripLoss float64, tariffs *tariff.DailyStats) (*Battery, error) {
	strat, err := strategy.New(ess.BatteryMode)
	if err != nil {
		return nil, err
	}
	if roundTripLoss < 0 || roundTripLoss >= 1 {
		return nil, fmt.Errorf("round trip loss must be in [0, 1), got %g", roundTripLoss)
	}
	return &Battery{
		capacity:       ess.Capacity,
		chargePower:    ess.ChargePower,
		dischargePower: ess.DischargePower,
		efficiency:     1 - roundTripLoss,
		timestepHours:  timestepHours,
		stored:         math.Min(ess.InitialCharge, ess.Capacity),
		strategy:       strat,
		tariffs:        tariffs,
		charge:         make([]float64, n),
		discharge:      make([]float64, n),
		history:        make([]float64, n),
	}, nil
}

// AvailableCharge is the grid side energy the battery can absorb this timestep.
func (b *Battery) AvailableCharge() float64 {
	if b.capacity <= 0 || b.chargePower <= 0 {
		return 0
	}
	headroom := (b.capacity - b.stored) / b.efficiency
	return math.Max(0, math.Min(b.chargePower*b.timestepHours, headroom))
}

// AvailableDischarge is the energy the battery can deliver this timestep.
func (b *Battery) AvailableDischarge() float64 {
	if b.dischargePower <= 0 {
		return 0
	}
	return math.Max(0, math.Min(b.dischargePower*b.timestepHours, b.stored))
}

// StoredEnergy is the current state of charge in kWh.
func (b *Battery) StoredEnergy() float64 { return b.stored }

func (b *Battery) StepCalc(l *ledger.Ledger, importBudget float64, t int) {
	d := b.strategy.Decide(strategy.Context{
		Timestep:           t,
		Balance:            l.Elec[t],
		ImportBudget:       importBudget,
		StoredEnergy:       b.stored,
		Capacity:           b.capacity,
		AvailableCharge:    b.AvailableCharge(),
		AvailableDischarge: b.AvailableDischarge(),
		ChargeEfficiency:   b.efficiency,
		Tariffs:            b.tariffs,
	})

	b.charge[t], b.discharge[t] = 0, 0
	switch {
	case d.Energy > 0:
		e := math.Min(d.Energy, b.AvailableDischarge())
		b.stored -= e
		b.discharge[t] = e
		l.Elec[t] -= e
	case d.Energy < 0:
		c := math.Min(-d.Energy, b.AvailableCharge())
		b.stored = math.Min(b.capacity, b.stored+c*b.efficiency)
		b.charge[t] = c
		l.Elec[t] += c
	}
	b.history[t] = b.stored
}

func (b *Battery) Report(r *Report) {
	r.ESSCharge = clone(b.charge)
	r.ESSDischarge = clone(b.discharge)
	r.ESSStored = clone(b.history)
}

// NullBattery stands in when no storage is installed.
type NullBattery struct{}

func (NullBattery) AvailableCharge() float64              { return 0 }
func (NullBattery) AvailableDischarge() float64           { return 0 }
func (NullBattery) StepCalc(*ledger.Ledger, float64, int) {}
func (NullBattery) Report(*Report)                        {}
