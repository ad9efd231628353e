// Package scenario compares proposed site configurations against a fixed
// baseline configuration of the same site.
package scenario

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"site-energy-sim/internal/cost"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/simulate"
)

const (
	DefaultNPVHorizonYears = 10
	DefaultNPVDiscountRate = 0.035
)

// SimulationResult is a scenario's outcome relative to the baseline. Positive
// balances are improvements: money saved per year, carbon avoided per year.
type SimulationResult struct {
	CAPEX          float64 `json:"capex"`
	AnnualisedCost float64 `json:"annualised_cost"`
	CostBalance    float64 `json:"cost_balance"`
	PaybackHorizon float64 `json:"payback_horizon"`
	CarbonBalance  float64 `json:"carbon_balance"`
	NPVBalance     float64 `json:"npv_balance"`
}

// WorstResult is returned for scenarios rejected before simulation, such as
// those over the capex limit. It loses to every real result on every objective.
func WorstResult() SimulationResult {
	return SimulationResult{
		CAPEX:          math.MaxFloat64,
		AnnualisedCost: math.MaxFloat64,
		CostBalance:    -math.MaxFloat64,
		PaybackHorizon: math.MaxFloat64,
		CarbonBalance:  -math.MaxFloat64,
		NPVBalance:     -math.MaxFloat64,
	}
}

// FullResult is SimulateFull's output.
type FullResult struct {
	Result   SimulationResult     `json:"result"`
	Scenario cost.Summary         `json:"scenario"`
	Baseline cost.Summary         `json:"baseline"`
	Costs    simulate.CostVectors `json:"cost_vectors"`
	Report   simulate.ReportData  `json:"report"`
}

type Options struct {
	Engine simulate.Options
	Prices cost.Prices
	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{Engine: simulate.DefaultOptions(), Prices: cost.DefaultPrices()}
}

// Simulator is safe for concurrent use. Site and baseline are read only after
// construction; the baseline is simulated once on first use.
type Simulator struct {
	site     *model.SiteData
	baseline *model.TaskData
	engine   *simulate.Engine
	prices   cost.Prices
	log      *zap.Logger

	baseOnce sync.Once
	base     cost.Summary
	baseErr  error
}

func New(site *model.SiteData, baseline *model.TaskData, opts Options) (*Simulator, error) {
	if site == nil {
		return nil, fmt.Errorf("site is nil")
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	if baseline == nil {
		return nil, fmt.Errorf("baseline is nil")
	}
	if err := model.ValidateScenario(site, baseline); err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{
		site:     site,
		baseline: baseline,
		engine:   simulate.New(opts.Engine),
		prices:   opts.Prices,
		log:      log,
	}, nil
}

// Site is the shared site data.
func (s *Simulator) Site() *model.SiteData { return s.site }

func (s *Simulator) ValidateScenario(task *model.TaskData) error {
	return model.ValidateScenario(s.site, task)
}

func (s *Simulator) CalculateCapexWithDiscounts(task *model.TaskData) (cost.Capex, error) {
	if err := s.ValidateScenario(task); err != nil {
		return cost.Capex{}, err
	}
	return cost.CalculateCapexWithDiscounts(s.site, task, s.prices), nil
}

// Baseline returns the priced baseline, simulating it on first call.
func (s *Simulator) Baseline() (cost.Summary, error) {
	s.baseOnce.Do(func() {
		start := time.Now()
		res, err := s.engine.Run(s.site, s.baseline)
		if err != nil {
			s.baseErr = fmt.Errorf("baseline: %w", err)
			return
		}
		s.base = cost.Summarise(s.site, s.baseline, res.CostVectors(), s.prices)
		s.log.Info("baseline simulated",
			zap.Int("timesteps", s.site.Timesteps()),
			zap.Float64("annual_opex", s.base.AnnualOpex),
			zap.Float64("annual_carbon", s.base.AnnualCarbon),
			zap.Duration("duration", time.Since(start)))
	})
	return s.base, s.baseErr
}

// SimulateScenario validates, prices and simulates task. A task over its
// capex limit is not simulated and gets WorstResult.
func (s *Simulator) SimulateScenario(task *model.TaskData) (SimulationResult, error) {
	full, err := s.simulate(task, false)
	if err != nil {
		return SimulationResult{}, err
	}
	return full.Result, nil
}

// SimulateFull is SimulateScenario plus the full per-timestep report.
// The capex limit is not applied.
func (s *Simulator) SimulateFull(task *model.TaskData) (*FullResult, error) {
	return s.simulate(task, true)
}

func (s *Simulator) simulate(task *model.TaskData, full bool) (*FullResult, error) {
	if err := s.ValidateScenario(task); err != nil {
		return nil, err
	}

	if !full {
		capex := cost.CalculateCapexWithDiscounts(s.site, task, s.prices)
		if limit := task.Config.CapexLimit; limit > 0 && capex.Total > limit {
			s.log.Debug("scenario over capex limit",
				zap.Float64("capex", capex.Total),
				zap.Float64("limit", limit))
			return &FullResult{Result: WorstResult()}, nil
		}
	}

	base, err := s.Baseline()
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Run(s.site, task)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	cv := res.CostVectors()
	sum := cost.Summarise(s.site, task, cv, s.prices)

	out := &FullResult{
		Result:   compare(base, sum, task.Config),
		Scenario: sum,
		Baseline: base,
	}
	if full {
		out.Costs = cv
		out.Report = res.Report
	}
	return out, nil
}

func compare(base, sc cost.Summary, cfg model.TaskConfig) SimulationResult {
	years := cfg.NPVHorizonYears
	if years == 0 {
		years = DefaultNPVHorizonYears
	}
	rate := cfg.NPVDiscountRate
	if rate == 0 {
		rate = DefaultNPVDiscountRate
	}

	saving := base.AnnualOpex - sc.AnnualOpex
	capex := sc.Capex.Total
	return SimulationResult{
		CAPEX:          capex,
		AnnualisedCost: sc.AnnualisedCost,
		CostBalance:    saving,
		PaybackHorizon: cost.Payback(capex, saving),
		CarbonBalance:  base.AnnualCarbon - sc.AnnualCarbon,
		NPVBalance:     cost.NPV(capex, saving, years, rate),
	}
}
