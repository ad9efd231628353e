package optimiser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"site-energy-sim/internal/analysis"
	"site-energy-sim/internal/data"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/scenario"
)

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func newSimulator(t *testing.T) *scenario.Simulator {
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
		ImportTariffs:   [][]float64{ones(24)},
		SolarYields:     [][]float64{ones(24)},
		ASHPInputTable:  table,
		ASHPOutputTable: table,
	})
	require.NoError(t, err)

	opts := scenario.DefaultOptions()
	opts.Logger = zaptest.NewLogger(t)
	sim, err := scenario.New(site, baselineTask(), opts)
	require.NoError(t, err)
	return sim
}

func baselineTask() *model.TaskData {
	return &model.TaskData{
		Building:  &model.Building{ScalarElectricalLoad: 1, ScalarHeatLoad: 1},
		Grid:      &model.Grid{Installation: model.Installation{Incumbent: true}, GridImport: 10, GridExport: 10, MinPowerFactor: 1},
		GasHeater: &model.GasHeater{Installation: model.Installation{Incumbent: true}, MaximumOutput: 10, BoilerEfficiency: 0.9},
	}
}

func withSolar(scalar float64) *model.TaskData {
	task := baselineTask()
	task.SolarPanels = []model.SolarPanel{{YieldScalar: scalar}}
	return task
}

func TestRun_RanksAndCounts(t *testing.T) {
	sim := newSimulator(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	overLimit := withSolar(1)
	overLimit.Config.CapexLimit = 1
	invalid := withSolar(1)
	invalid.SolarPanels[0].YieldIndex = 4

	tasks := []*model.TaskData{withSolar(0.25), withSolar(0.5), overLimit, invalid}

	var seen []Progress
	opt := New(sim, Options{
		Workers:    2,
		LeagueSize: 3,
		Metrics:    metrics,
		Logger:     zaptest.NewLogger(t),
		OnProgress: func(p Progress) { seen = append(seen, p) },
	})
	sum, err := opt.Run(context.Background(), tasks)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Tasks)
	assert.Equal(t, 3, sum.Evaluated)
	assert.Equal(t, 1, sum.Rejected)
	assert.Equal(t, 1, sum.Failed)
	assert.Zero(t, sum.CacheHits)

	require.Len(t, seen, 4)
	assert.Equal(t, 4, seen[3].Done)

	best := sum.League[analysis.ObjectiveCostBalance]
	require.Len(t, best, 2, "rejected and failed tasks are not ranked")
	assert.Equal(t, 1, best[0].Index)
	assert.Equal(t, 0, best[1].Index)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.tasks.WithLabelValues(OutcomeSimulated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.tasks.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.tasks.WithLabelValues(OutcomeFailed)))
	assert.Zero(t, testutil.ToFloat64(metrics.running))
}

func TestRun_UsesCache(t *testing.T) {
	sim := newSimulator(t)
	cache := data.NewMemoryCache(time.Hour)
	tasks := []*model.TaskData{withSolar(0.25), withSolar(0.5)}

	opt := New(sim, Options{Workers: 1, Cache: cache})
	first, err := opt.Run(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Evaluated)
	assert.Equal(t, 2, cache.Len())

	second, err := opt.Run(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Zero(t, second.Evaluated)
	assert.Equal(t, first.League, second.League)
}

func TestRun_Cancelled(t *testing.T) {
	sim := newSimulator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt := New(sim, Options{Workers: 2})
	_, err := opt.Run(ctx, []*model.TaskData{withSolar(0.25), withSolar(0.5)})
	assert.ErrorIs(t, err, context.Canceled)

	_, _, err = opt.Recall(0)
	assert.ErrorIs(t, err, model.ErrInvalidState, "a cancelled run is not recorded")
}

func TestRecall(t *testing.T) {
	sim := newSimulator(t)
	opt := New(sim, Options{})

	_, _, err := opt.Recall(0)
	assert.True(t, errors.Is(err, model.ErrInvalidState))
	_, err = opt.League()
	assert.True(t, errors.Is(err, model.ErrInvalidState))

	tasks := []*model.TaskData{withSolar(0.25)}
	_, err = opt.Run(context.Background(), tasks)
	require.NoError(t, err)

	task, res, err := opt.Recall(0)
	require.NoError(t, err)
	assert.Same(t, tasks[0], task)
	assert.Greater(t, res.CostBalance, 0.0)

	_, _, err = opt.Recall(1)
	var re *model.RangeError
	assert.ErrorAs(t, err, &re)
}

func TestSummary_Record(t *testing.T) {
	sum := &Summary{
		Tasks:     3,
		Evaluated: 2,
		Failed:    1,
		Duration:  1500 * time.Millisecond,
		League: map[analysis.Objective][]analysis.Entry{
			analysis.ObjectiveCapex: {{Index: 2, Hash: 0xabc}},
		},
	}
	r := sum.Record("digest")
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "digest", r.SiteDigest)
	assert.Equal(t, int64(1500), r.DurationMS)
	assert.Equal(t, 1, r.Failed)
	require.Len(t, r.Entries, 1)
	assert.Equal(t, 2, r.Entries[0].TaskIndex)
}

func TestMaxParallelism(t *testing.T) {
	assert.GreaterOrEqual(t, MaxParallelism(), 1)
}
