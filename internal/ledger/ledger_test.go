package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Zeroed(t *testing.T) {
	l := New(3)
	assert.Equal(t, 3, l.Timesteps())
	for _, v := range [][]float64{l.Elec, l.Heat, l.DHW, l.Pool, l.Waste} {
		assert.Equal(t, []float64{0, 0, 0}, v)
	}
	assert.True(t, l.Report().Totals().Balanced(0))
}

func TestReport_SplitsElectricityBySign(t *testing.T) {
	l := New(3)
	l.Elec = []float64{2, -3, 0}

	c := l.Report()
	assert.Equal(t, []float64{2, 0, 0}, c.ImportShortfall)
	assert.Equal(t, []float64{0, 3, 0}, c.CurtailedExport)
}

func TestReport_HeatShortfallSumsAllHeatDomains(t *testing.T) {
	l := New(2)
	l.Heat = []float64{1, 0}
	l.DHW = []float64{0.5, 2}
	l.Pool = []float64{0.25, 0}
	l.Waste = []float64{0, 4}

	c := l.Report()
	assert.InDeltaSlice(t, []float64{1.75, 2}, c.HeatShortfall, 1e-12)
	assert.Equal(t, []float64{0, 4}, c.HeatSurplus)

	tot := c.Totals()
	assert.InDelta(t, 3.75, tot.HeatShortfall, 1e-12)
	assert.InDelta(t, 4, tot.HeatSurplus, 1e-12)
	assert.False(t, tot.Balanced(1e-9))
}

func TestReport_DoesNotAliasLedger(t *testing.T) {
	l := New(1)
	l.Waste[0] = 1
	c := l.Report()
	l.Waste[0] = 5
	assert.Equal(t, 1.0, c.HeatSurplus[0])
}
