package models

import (
	"time"

	"site-energy-sim/internal/analysis"
	"site-energy-sim/internal/optimiser"
)

// Error codes returned in ErrorDetail.Code.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeInvalidScenario = "INVALID_SCENARIO"
	CodeInvalidState    = "INVALID_STATE"
	CodeNotFound        = "NOT_FOUND"
	CodeSimulationError = "SIMULATION_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ValidateResponse is returned for a task that passes validation.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Hash  string `json:"hash"`
}

// OptimiseResponse is returned once an optimisation run completes.
type OptimiseResponse struct {
	RunID   string            `json:"run_id"`
	Summary optimiser.Summary `json:"summary"`
}

// RunInfo describes a stored run. League is omitted from listings.
type RunInfo struct {
	ID         string                                  `json:"id"`
	CreatedAt  time.Time                               `json:"created_at"`
	SiteDigest string                                  `json:"site_digest"`
	Tasks      int                                     `json:"tasks"`
	Evaluated  int                                     `json:"evaluated"`
	CacheHits  int                                     `json:"cache_hits"`
	Rejected   int                                     `json:"rejected"`
	Failed     int                                     `json:"failed"`
	DurationMS int64                                   `json:"duration_ms"`
	League     map[analysis.Objective][]analysis.Entry `json:"league,omitempty"`
}

// TariffRankResponse lists tariffs best arbitrage value first.
type TariffRankResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Ranking is one ranked import tariff.
type Ranking struct {
	Rank int `json:"rank"`
	analysis.TariffSummary
}

// SiteInfo summarises the loaded site data.
type SiteInfo struct {
	Digest              string    `json:"digest"`
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	Timesteps           int       `json:"timesteps"`
	TimestepHours       float64   `json:"timestep_hours"`
	ImportTariffs       int       `json:"import_tariffs"`
	SolarYields         int       `json:"solar_yields"`
	FabricInterventions int       `json:"fabric_interventions"`
}

// BatteryModeInfo describes a battery dispatch mode a task may select.
type BatteryModeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
