package analysis

import (
	"sort"
	"sync"

	"site-energy-sim/internal/scenario"
)

// Objective is one axis the league table ranks on.
type Objective string

const (
	ObjectiveCapex          Objective = "capex"
	ObjectiveAnnualisedCost Objective = "annualised_cost"
	ObjectivePayback        Objective = "payback_horizon"
	ObjectiveCostBalance    Objective = "cost_balance"
	ObjectiveCarbonBalance  Objective = "carbon_balance"
	ObjectiveNPVBalance     Objective = "npv_balance"
)

// Objectives lists every ranked objective in a stable order.
func Objectives() []Objective {
	return []Objective{
		ObjectiveCapex,
		ObjectiveAnnualisedCost,
		ObjectivePayback,
		ObjectiveCostBalance,
		ObjectiveCarbonBalance,
		ObjectiveNPVBalance,
	}
}

// better reports whether a ranks ahead of b on o.
func (o Objective) better(a, b scenario.SimulationResult) bool {
	switch o {
	case ObjectiveCapex:
		return a.CAPEX < b.CAPEX
	case ObjectiveAnnualisedCost:
		return a.AnnualisedCost < b.AnnualisedCost
	case ObjectivePayback:
		return a.PaybackHorizon < b.PaybackHorizon
	case ObjectiveCostBalance:
		return a.CostBalance > b.CostBalance
	case ObjectiveCarbonBalance:
		return a.CarbonBalance > b.CarbonBalance
	case ObjectiveNPVBalance:
		return a.NPVBalance > b.NPVBalance
	}
	return false
}

// Entry is one evaluated task. Index is the task's position in the input list.
type Entry struct {
	Index  int                       `json:"index"`
	Hash   uint64                    `json:"hash"`
	Result scenario.SimulationResult `json:"result"`
}

// LeagueTable keeps the best N entries per objective. Safe for concurrent use.
type LeagueTable struct {
	mu    sync.Mutex
	size  int
	ranks map[Objective][]Entry
}

func NewLeagueTable(size int) *LeagueTable {
	if size < 1 {
		size = 1
	}
	t := &LeagueTable{size: size, ranks: make(map[Objective][]Entry)}
	for _, o := range Objectives() {
		t.ranks[o] = make([]Entry, 0, size+1)
	}
	return t
}

// Consider offers e to every objective's ranking. Rejected scenarios carrying
// the worst result sentinel are ignored.
func (t *LeagueTable) Consider(e Entry) {
	if e.Result == scenario.WorstResult() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, o := range Objectives() {
		list := append(t.ranks[o], e)
		sort.SliceStable(list, func(i, j int) bool {
			if o.better(list[i].Result, list[j].Result) {
				return true
			}
			if o.better(list[j].Result, list[i].Result) {
				return false
			}
			return list[i].Index < list[j].Index
		})
		if len(list) > t.size {
			list = list[:t.size]
		}
		t.ranks[o] = list
	}
}

// Best returns a copy of the ranking for o, best first.
func (t *LeagueTable) Best(o Objective) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.ranks[o]...)
}

// Snapshot copies every ranking.
func (t *LeagueTable) Snapshot() map[Objective][]Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Objective][]Entry, len(t.ranks))
	for o, list := range t.ranks {
		out[o] = append([]Entry(nil), list...)
	}
	return out
}
