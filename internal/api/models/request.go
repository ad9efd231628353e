package models

// OptimiseRequest is a batch of candidate tasks to evaluate against the
// loaded site and baseline. Each task is decoded strictly; an unknown field
// rejects the whole request.
type OptimiseRequest struct {
	Tasks      []map[string]any `json:"tasks" binding:"required,min=1"`
	Workers    int              `json:"workers,omitempty"`
	LeagueSize int              `json:"league_size,omitempty"`
}

// TariffRankRequest ranks the site's import tariffs.
type TariffRankRequest struct {
	Limit      int     `form:"limit,omitempty"`      // default: all
	Percentile float64 `form:"percentile,omitempty"` // 0 to 100; default: the configured setting
}

// RunsRequest lists stored optimisation runs.
type RunsRequest struct {
	Limit int `form:"limit,omitempty"` // default: 20
}
