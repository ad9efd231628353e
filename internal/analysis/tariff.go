package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"site-energy-sim/internal/tariff"
)

// TariffSummary is a per tariff overview used to compare the import tariffs
// a site could be put on.
type TariffSummary struct {
	Index int `json:"index"`
	Count int `json:"count"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	// CheapShare is the fraction of timesteps a consume-plus battery would
	// treat as cheap.
	CheapShare float64 `json:"cheap_share"`

	// ArbitrageValue is the best saving a canonical 1 kW / 1 kWh lossless
	// battery could make over the horizon by shifting imports. The battery starts
	// half full, rounded to the state of charge grid.
	ArbitrageValue float64 `json:"arbitrage_value"`
}

func SummariseTariff(index int, prices []float64, timestepHours, percentile float64) TariffSummary {
	s := TariffSummary{Index: index, Count: len(prices)}
	if len(prices) == 0 {
		return s
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = stat.Mean(sorted, nil)
	s.P05 = stat.Quantile(0.05, stat.LinInterp, sorted, nil)
	s.P95 = stat.Quantile(0.95, stat.LinInterp, sorted, nil)
	s.SpreadP95P05 = s.P95 - s.P05

	stats := tariff.NewDailyStats(prices, timestepHours, percentile)
	cheap := 0
	for t := range prices {
		if stats.IsCheap(t) {
			cheap++
		}
	}
	s.CheapShare = float64(cheap) / float64(len(prices))
	s.ArbitrageValue = arbitrageValue(prices, timestepHours)
	return s
}

// RankTariffs summarises every tariff and sorts by descending arbitrage value.
func RankTariffs(tariffs [][]float64, timestepHours, percentile float64) []TariffSummary {
	out := make([]TariffSummary, 0, len(tariffs))
	for i, p := range tariffs {
		out = append(out, SummariseTariff(i, p, timestepHours, percentile))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ArbitrageValue > out[j].ArbitrageValue
	})
	return out
}

// arbitrageValue runs a DP over a state of charge grid in steps of dt kWh.
func arbitrageValue(prices []float64, dt float64) float64 {
	if len(prices) == 0 || dt <= 0 {
		return 0
	}
	steps := int(math.Round(1.0 / dt))
	if steps < 1 {
		steps = 1
	}
	negInf := math.Inf(-1)
	dp := make([]float64, steps+1)
	next := make([]float64, steps+1)
	for i := range dp {
		dp[i] = negInf
	}
	dp[int(math.Round(0.5*float64(steps)))] = 0

	for _, price := range prices {
		for i := range next {
			next[i] = negInf
		}
		for soc := 0; soc <= steps; soc++ {
			v := dp[soc]
			if math.IsInf(v, -1) {
				continue
			}
			next[soc] = math.Max(next[soc], v)
			if soc < steps {
				next[soc+1] = math.Max(next[soc+1], v-price*dt)
			}
			if soc > 0 {
				next[soc-1] = math.Max(next[soc-1], v+price*dt)
			}
		}
		dp, next = next, dp
	}

	best := negInf
	for _, v := range dp {
		best = math.Max(best, v)
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}
