// Package tariff precomputes per-day import tariff statistics used by storage
// components to decide whether a timestep is cheap relative to its own day.
package tariff

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultPercentile is the low percentile used when none is configured.
const DefaultPercentile = 25.0

// DailyStats partitions the horizon into 24 hour blocks starting at the first
// timestep (not aligned to midnight). The final block may be partial.
type DailyStats struct {
	tariff     []float64
	dayOf      []int
	average    []float64
	percentile []float64
}

// NewDailyStats builds the statistics for tariff. percentile is in [0, 100];
// zero selects DefaultPercentile.
func NewDailyStats(tariff []float64, timestepHours, percentile float64) *DailyStats {
	if percentile <= 0 {
		percentile = DefaultPercentile
	}
	if percentile > 100 {
		percentile = 100
	}

	n := len(tariff)
	d := &DailyStats{
		tariff: tariff,
		dayOf:  make([]int, n),
	}
	if n == 0 {
		return d
	}

	perDay := float64(n)
	if timestepHours > 0 {
		perDay = 24 / timestepHours
	}

	days := 0
	for t := 0; t < n; t++ {
		day := int(math.Floor(float64(t) / perDay))
		d.dayOf[t] = day
		if day+1 > days {
			days = day + 1
		}
	}

	d.average = make([]float64, days)
	d.percentile = make([]float64, days)
	scratch := make([]float64, 0, int(math.Ceil(perDay)))
	start := 0
	for day := 0; day < days; day++ {
		end := start
		for end < n && d.dayOf[end] == day {
			end++
		}
		block := tariff[start:end]
		d.average[day] = stat.Mean(block, nil)

		scratch = append(scratch[:0], block...)
		k := int(math.Floor(percentile / 100 * float64(len(scratch)-1)))
		d.percentile[day] = selectKth(scratch, k)
		start = end
	}
	return d
}

// Days is the number of (possibly partial) days in the horizon.
func (d *DailyStats) Days() int { return len(d.average) }

// DayIndex returns the day block that timestep t belongs to.
func (d *DailyStats) DayIndex(t int) int { return d.dayOf[t] }

// DayAverage is the mean tariff of timestep t's day.
func (d *DailyStats) DayAverage(t int) float64 { return d.average[d.dayOf[t]] }

// DayPercentile is the configured low percentile of timestep t's day.
func (d *DailyStats) DayPercentile(t int) float64 { return d.percentile[d.dayOf[t]] }

// Tariff is the raw tariff at timestep t.
func (d *DailyStats) Tariff(t int) float64 { return d.tariff[t] }

// IsCheap reports whether the tariff at t is strictly below both its day's
// mean and its day's low percentile.
func (d *DailyStats) IsCheap(t int) bool {
	v := d.tariff[t]
	return v < d.DayAverage(t) && v < d.DayPercentile(t)
}

// selectKth partially reorders v so that v[k] holds the k-th smallest value
// and returns it. v is clobbered.
func selectKth(v []float64, k int) float64 {
	lo, hi := 0, len(v)-1
	for lo < hi {
		pivot := v[lo+(hi-lo)/2]
		i, j := lo, hi
		for i <= j {
			for v[i] < pivot {
				i++
			}
			for v[j] > pivot {
				j--
			}
			if i <= j {
				v[i], v[j] = v[j], v[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return v[k]
		}
	}
	return v[k]
}
