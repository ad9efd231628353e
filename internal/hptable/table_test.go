package hptable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Air temperature rows -10, 0, 10; send temperature columns 35, 55.
var (
	inputTable = [][]float64{
		{0, 35, 55},
		{-10, 2, 3},
		{0, 1.5, 2.5},
		{10, 1, 2},
	}
	outputTable = [][]float64{
		{0, 35, 55},
		{-10, 4, 4.5},
		{0, 5, 5.5},
		{10, 6, 6.5},
	}
)

func TestRowIndex_SnapToFloor(t *testing.T) {
	assert.Equal(t, 1, RowIndex(inputTable, -40))
	assert.Equal(t, 1, RowIndex(inputTable, -10))
	assert.Equal(t, 1, RowIndex(inputTable, -0.5))
	assert.Equal(t, 2, RowIndex(inputTable, 0))
	assert.Equal(t, 2, RowIndex(inputTable, 9.99))
	assert.Equal(t, 3, RowIndex(inputTable, 10))
	assert.Equal(t, 3, RowIndex(inputTable, 35))
}

func TestColumnIndex_SnapToFloor(t *testing.T) {
	assert.Equal(t, 1, ColumnIndex(inputTable, 20))
	assert.Equal(t, 1, ColumnIndex(inputTable, 54))
	assert.Equal(t, 2, ColumnIndex(inputTable, 55))
	assert.Equal(t, 2, ColumnIndex(inputTable, 70))
}

func TestLookup_ClampsOutsideRange(t *testing.T) {
	tbl, err := NewInstantaneous(inputTable, outputTable, 35, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, Performance{Input: 2, Output: 4}, tbl.Lookup(-25))
	assert.Equal(t, Performance{Input: 1, Output: 6}, tbl.Lookup(40))
	assert.Equal(t, -10, tbl.MinAirTemp())
	assert.Equal(t, 10, tbl.MaxAirTemp())
}

func TestLookup_FloorsBetweenRows(t *testing.T) {
	tbl, err := NewInstantaneous(inputTable, outputTable, 55, 1, 1)
	require.NoError(t, err)

	// 5 sits between the 0 and 10 rows: the 0 row is returned, not an interpolation.
	assert.Equal(t, Performance{Input: 2.5, Output: 5.5}, tbl.Lookup(5))
	assert.Equal(t, Performance{Input: 2.5, Output: 5.5}, tbl.Lookup(0))
	assert.Equal(t, Performance{Input: 3, Output: 4.5}, tbl.Lookup(-1))
}

func TestLookup_RoundsHalfAwayFromZero(t *testing.T) {
	tbl, err := NewInstantaneous(inputTable, outputTable, 35, 1, 1)
	require.NoError(t, err)

	// 9.5 rounds to 10 -> last row; -0.5 rounds to -1 -> first row.
	assert.Equal(t, Performance{Input: 1, Output: 6}, tbl.Lookup(9.5))
	assert.Equal(t, Performance{Input: 1.5, Output: 5}, tbl.Lookup(9.4))
	assert.Equal(t, Performance{Input: 2, Output: 4}, tbl.Lookup(-0.5))
	assert.Equal(t, Performance{Input: 1.5, Output: 5}, tbl.Lookup(-0.4))
}

func TestNew_ScalesByRatedPowerAndTimestep(t *testing.T) {
	tbl, err := New(inputTable, outputTable, 35, 8, 4, 0.5)
	require.NoError(t, err)

	// scale = 8/4 * 0.5 = 1
	assert.Equal(t, Performance{Input: 1.5, Output: 5}, tbl.Lookup(3))

	tbl, err = New(inputTable, outputTable, 35, 12, 4, 0.5)
	require.NoError(t, err)
	p := tbl.Lookup(3)
	assert.InDelta(t, 2.25, p.Input, 1e-12)
	assert.InDelta(t, 7.5, p.Output, 1e-12)
}

func TestNew_RejectsBadTables(t *testing.T) {
	_, err := New([][]float64{{0}}, [][]float64{{0}}, 35, 1, 1, 1)
	assert.Error(t, err)

	_, err = New(inputTable, outputTable, 35, 1, 0, 1)
	assert.Error(t, err)
}

func TestNew_ZeroRatedPowerGivesZeroPerformance(t *testing.T) {
	tbl, err := New(inputTable, outputTable, 35, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Performance{}, tbl.Lookup(0))
}
