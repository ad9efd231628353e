// Package hptable turns the 2D heat pump reference tables (air temperature x
// send temperature) into per-degree lookups scaled to a specific unit.
package hptable

import (
	"math"

	"site-energy-sim/internal/model"
)

// Performance is what a heat pump draws and delivers at one air temperature.
// Values are kWh per timestep for tables built with New, kW for NewInstantaneous.
type Performance struct {
	Input  float64
	Output float64
}

// Table is an O(1) per-degree lookup built once per scenario.
// It is immutable after construction and safe for concurrent reads.
type Table struct {
	minAirTemp int
	offset     int
	perDegree  []Performance
}

// New builds a table for a heat pump of ratedPowerKW running at columnTemp,
// with values converted to kWh per timestep.
func New(input, output [][]float64, columnTemp, ratedPowerKW, referencePowerKW, timestepHours float64) (*Table, error) {
	return build(input, output, columnTemp, ratedPowerKW, referencePowerKW, timestepHours)
}

// NewInstantaneous builds a table in kW (no timestep scaling).
func NewInstantaneous(input, output [][]float64, columnTemp, ratedPowerKW, referencePowerKW float64) (*Table, error) {
	return build(input, output, columnTemp, ratedPowerKW, referencePowerKW, 1)
}

func build(input, output [][]float64, columnTemp, ratedPowerKW, referencePowerKW, timestepHours float64) (*Table, error) {
	if err := model.ValidateLookupTables(input, output); err != nil {
		return nil, err
	}
	if referencePowerKW <= 0 {
		return nil, &model.ValidationError{Field: "reference_power_kw", Reason: "must be > 0"}
	}

	scale := ratedPowerKW / referencePowerKW * timestepHours
	if scale < 0 {
		scale = 0
	}

	col := ColumnIndex(input, columnTemp)
	lo := int(math.Floor(input[1][0]))
	hi := int(math.Ceil(input[len(input)-1][0]))

	t := &Table{
		minAirTemp: lo,
		offset:     -lo,
		perDegree:  make([]Performance, hi-lo+1),
	}
	for deg := lo; deg <= hi; deg++ {
		row := RowIndex(input, float64(deg))
		t.perDegree[deg-lo] = Performance{
			Input:  input[row][col] * scale,
			Output: output[row][col] * scale,
		}
	}
	return t, nil
}

// RowIndex returns the last row (skipping the header row 0) whose air
// temperature label does not exceed airTemp. Temperatures below the first
// label clamp to row 1, above the last label to the last row.
func RowIndex(table [][]float64, airTemp float64) int {
	if len(table) < 2 {
		return 0
	}
	row := 1
	for r := 1; r < len(table); r++ {
		if table[r][0] > airTemp {
			break
		}
		row = r
	}
	return row
}

// ColumnIndex is RowIndex applied to the send temperature labels in row 0.
func ColumnIndex(table [][]float64, sendTemp float64) int {
	if len(table) == 0 || len(table[0]) < 2 {
		return 0
	}
	header := table[0]
	col := 1
	for c := 1; c < len(header); c++ {
		if header[c] > sendTemp {
			break
		}
		col = c
	}
	return col
}

// Lookup rounds airTemp to the nearest degree (half away from zero) and
// returns the precomputed performance, clamped to the table's range.
func (t *Table) Lookup(airTemp float64) Performance {
	if len(t.perDegree) == 0 {
		return Performance{}
	}
	idx := int(math.Round(airTemp)) + t.offset
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.perDegree) {
		idx = len(t.perDegree) - 1
	}
	return t.perDegree[idx]
}

// MinAirTemp is the lowest precomputed degree.
func (t *Table) MinAirTemp() int { return t.minAirTemp }

// MaxAirTemp is the highest precomputed degree.
func (t *Table) MaxAirTemp() int { return t.minAirTemp + len(t.perDegree) - 1 }
