package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-energy-sim/internal/tariff"
)

func TestNew_KnownModes(t *testing.T) {
	s, err := New("consume")
	require.NoError(t, err)
	assert.Equal(t, "consume", s.Name())

	s, err = New("consume_plus")
	require.NoError(t, err)
	assert.Equal(t, "consume_plus", s.Name())

	_, err = New("arbitrage")
	assert.Error(t, err)
}

func TestConsume_DischargesIntoDemand(t *testing.T) {
	d := Consume{}.Decide(Context{Balance: 3, AvailableDischarge: 2, AvailableCharge: 5})
	assert.InDelta(t, 2, d.Energy, 1e-12)

	d = Consume{}.Decide(Context{Balance: 1, AvailableDischarge: 2})
	assert.InDelta(t, 1, d.Energy, 1e-12)
}

func TestConsume_ChargesFromSurplus(t *testing.T) {
	d := Consume{}.Decide(Context{Balance: -4, AvailableCharge: 2.5})
	assert.InDelta(t, -2.5, d.Energy, 1e-12)

	d = Consume{}.Decide(Context{Balance: 0, AvailableCharge: 2.5, AvailableDischarge: 1})
	assert.Zero(t, d.Energy)
}

func cheapAtZero() *tariff.DailyStats {
	tariffs := make([]float64, 24)
	for i := range tariffs {
		tariffs[i] = 10
	}
	tariffs[0] = 1
	tariffs[1] = 1
	return tariff.NewDailyStats(tariffs, 1, 25)
}

func TestConsumePlus_ChargesTowardTargetWhenCheap(t *testing.T) {
	s := ConsumePlus{TargetSoC: 0.75}
	ctx := Context{
		Timestep:           0,
		Balance:            1,
		ImportBudget:       10,
		StoredEnergy:       2,
		Capacity:           10,
		AvailableCharge:    8,
		AvailableDischarge: 2,
		ChargeEfficiency:   0.5,
		Tariffs:            cheapAtZero(),
	}
	// (7.5 - 2) / 0.5 = 11 wanted, 8 available, 9 budget -> 8
	assert.InDelta(t, -8, s.Decide(ctx).Energy, 1e-12)

	ctx.ImportBudget = 4 // budget 3
	assert.InDelta(t, -3, s.Decide(ctx).Energy, 1e-12)
}

func TestConsumePlus_FallsBackToConsume(t *testing.T) {
	s := ConsumePlus{TargetSoC: 0.75}
	ctx := Context{
		Timestep:           5, // not cheap
		Balance:            1,
		ImportBudget:       10,
		StoredEnergy:       2,
		Capacity:           10,
		AvailableCharge:    8,
		AvailableDischarge: 2,
		ChargeEfficiency:   0.9,
		Tariffs:            cheapAtZero(),
	}
	assert.InDelta(t, 1, s.Decide(ctx).Energy, 1e-12)

	// cheap but already above target
	ctx.Timestep = 0
	ctx.StoredEnergy = 8
	assert.InDelta(t, 1, s.Decide(ctx).Energy, 1e-12)

	// cheap but no import budget left
	ctx.StoredEnergy = 2
	ctx.ImportBudget = 1
	assert.InDelta(t, 1, s.Decide(ctx).Energy, 1e-12)
}
