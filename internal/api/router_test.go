package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"site-energy-sim/internal/api/models"
	"site-energy-sim/internal/data"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/scenario"
	"site-energy-sim/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	table := [][]float64{{0, 1, 2}, {0, 1, 1}, {1, 1, 1}}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	site, err := model.NewSiteData(model.SiteData{
		StartTS:         start,
		EndTS:           start.Add(24 * time.Hour),
		BuildingELoad:   ones(24),
		BuildingHLoad:   ones(24),
		DHWDemand:       ones(24),
		AirTemperature:  ones(24),
		EVELoad:         ones(24),
		GridCO2:         ones(24),
		ImportTariffs:   [][]float64{ones(24), ones(24)},
		SolarYields:     [][]float64{ones(24)},
		ASHPInputTable:  table,
		ASHPOutputTable: table,
	})
	require.NoError(t, err)

	baseline := &model.TaskData{
		Building:  &model.Building{ScalarElectricalLoad: 1, ScalarHeatLoad: 1},
		Grid:      &model.Grid{Installation: model.Installation{Incumbent: true}, GridImport: 10, GridExport: 10, MinPowerFactor: 1},
		GasHeater: &model.GasHeater{Installation: model.Installation{Incumbent: true}, MaximumOutput: 10, BoilerEfficiency: 0.9},
	}
	sim, err := scenario.New(site, baseline, scenario.DefaultOptions())
	require.NoError(t, err)

	st, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewRouter(Deps{
		Simulator:  sim,
		SiteDigest: "digest",
		Cache:      data.NewMemoryCache(time.Hour),
		Store:      st,
		Workers:    2,
		LeagueSize: 5,
		Logger:     zaptest.NewLogger(t),
	})
}

func taskBody(solar float64) map[string]any {
	return map[string]any{
		"building":   map[string]any{"scalar_electrical_load": 1, "scalar_heat_load": 1},
		"grid":       map[string]any{"incumbent": true, "grid_import": 10, "grid_export": 10, "min_power_factor": 1},
		"gas_heater": map[string]any{"incumbent": true, "maximum_output": 10, "boiler_efficiency": 0.9},
		"solar_panels": []any{
			map[string]any{"yield_scalar": solar, "yield_index": 0},
		},
	}
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	w := do(t, newRouter(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSimulate(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/simulate", taskBody(0.5))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res scenario.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Greater(t, res.CostBalance, 0.0)
	assert.Greater(t, res.CAPEX, 0.0)
}

func TestSimulateFull(t *testing.T) {
	w := do(t, newRouter(t), http.MethodPost, "/api/v1/simulate/full", taskBody(0.5))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res scenario.FullResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Costs.GridImport, 24)
}

func TestSimulate_Errors(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/simulate", map[string]any{"rocket": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.CodeInvalidConfig, decodeError(t, w).Code)

	body := taskBody(0.5)
	body["solar_panels"] = []any{map[string]any{"yield_scalar": 1, "yield_index": 7}}
	w = do(t, r, http.MethodPost, "/api/v1/simulate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, models.CodeInvalidScenario, detail.Code)
	assert.Equal(t, "solar_panels[0].yield_index", detail.Details["field"])

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.CodeInvalidRequest, decodeError(t, rec).Code)
}

func TestValidateAndCapex(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/validate", taskBody(1))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v models.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.True(t, v.Valid)
	assert.NotEmpty(t, v.Hash)

	w = do(t, r, http.MethodPost, "/api/v1/capex", taskBody(1))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "solar_panel")
}

func TestOptimiseThenLeagueAndRuns(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/league", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.CodeInvalidState, decodeError(t, w).Code)

	w = do(t, r, http.MethodPost, "/api/v1/optimise", map[string]any{
		"tasks": []any{taskBody(0.25), taskBody(0.5)},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.OptimiseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 2, resp.Summary.Evaluated)

	w = do(t, r, http.MethodGet, "/api/v1/league", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/league/tasks/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/league/tasks/9", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/runs/"+resp.RunID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var run models.RunInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, 2, run.Tasks)
	assert.NotEmpty(t, run.League)

	w = do(t, r, http.MethodGet, "/api/v1/runs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.RunID)

	w = do(t, r, http.MethodGet, "/api/v1/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptimise_EmptyTasks(t *testing.T) {
	w := do(t, newRouter(t), http.MethodPost, "/api/v1/optimise", map[string]any{"tasks": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSiteAndTariffs(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodGet, "/api/v1/site", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info models.SiteInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, 24, info.Timesteps)
	assert.Equal(t, 2, info.ImportTariffs)

	w = do(t, r, http.MethodGet, "/api/v1/site/tariffs?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ranked models.TariffRankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranked))
	require.Len(t, ranked.Rankings, 1)
	assert.Equal(t, 1, ranked.Rankings[0].Rank)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newRouter(t)
	do(t, r, http.MethodGet, "/health", nil)
	w := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "site_sim_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
