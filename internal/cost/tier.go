// Package cost prices a simulated scenario: capital cost of its components,
// operating cost of its energy flows, and the carbon those flows emit.
package cost

// ThreeTier is a marginal price schedule. Units up to SmallThreshold are
// charged at SmallRate, units up to MidThreshold at MidRate, the rest at
// LargeRate. Fixed is charged once for any positive quantity.
type ThreeTier struct {
	Fixed          float64 `json:"fixed" yaml:"fixed"`
	SmallThreshold float64 `json:"small_threshold" yaml:"small_threshold"`
	MidThreshold   float64 `json:"mid_threshold" yaml:"mid_threshold"`
	SmallRate      float64 `json:"small_rate" yaml:"small_rate"`
	MidRate        float64 `json:"mid_rate" yaml:"mid_rate"`
	LargeRate      float64 `json:"large_rate" yaml:"large_rate"`
}

// ThreeTierCost prices units against tiers. Cost is strictly increasing in
// units as long as every rate is positive.
func ThreeTierCost(units float64, tiers ThreeTier) float64 {
	if units <= 0 {
		return 0
	}
	cost := tiers.Fixed
	small := min(units, tiers.SmallThreshold)
	cost += small * tiers.SmallRate
	if units <= tiers.SmallThreshold {
		return cost
	}
	mid := min(units, tiers.MidThreshold) - tiers.SmallThreshold
	if mid > 0 {
		cost += mid * tiers.MidRate
	}
	if units > tiers.MidThreshold {
		cost += (units - max(tiers.MidThreshold, tiers.SmallThreshold)) * tiers.LargeRate
	}
	return cost
}
