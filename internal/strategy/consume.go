package strategy

import "math"

// DefaultConsumePlusTarget is the state of charge fraction consume-plus charges toward.
const DefaultConsumePlusTarget = 0.75

// Consume discharges into any positive balance and charges from any surplus,
// each bounded by what the battery can take or give this timestep.
type Consume struct{}

func (Consume) Name() string { return "consume" }

func (Consume) Decide(ctx Context) Dispatch {
	switch {
	case ctx.Balance > 0:
		return Dispatch{Energy: math.Min(ctx.Balance, ctx.AvailableDischarge)}
	case ctx.Balance < 0:
		return Dispatch{Energy: -math.Min(-ctx.Balance, ctx.AvailableCharge)}
	default:
		return Dispatch{}
	}
}

// ConsumePlus behaves like Consume, except that on timesteps whose tariff is
// below both the day's mean and the day's low percentile it charges toward
// TargetSoC from whatever the import budget allows, instead of consuming.
type ConsumePlus struct {
	TargetSoC float64
}

func (ConsumePlus) Name() string { return "consume_plus" }

func (s ConsumePlus) Decide(ctx Context) Dispatch {
	if c := s.opportunisticCharge(ctx); c > 0 {
		return Dispatch{Energy: -c}
	}
	return Consume{}.Decide(ctx)
}

func (s ConsumePlus) opportunisticCharge(ctx Context) float64 {
	if ctx.Tariffs == nil || !ctx.Tariffs.IsCheap(ctx.Timestep) {
		return 0
	}
	target := s.TargetSoC * ctx.Capacity
	if ctx.StoredEnergy >= target || ctx.ChargeEfficiency <= 0 {
		return 0
	}
	want := (target - ctx.StoredEnergy) / ctx.ChargeEfficiency
	budget := ctx.ImportBudget - ctx.Balance
	if budget <= 0 {
		return 0
	}
	return math.Min(math.Min(want, ctx.AvailableCharge), budget)
}
