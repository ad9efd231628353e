package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-energy-sim/internal/analysis"
	"site-energy-sim/internal/scenario"
)

func TestStore_RoundTripRun(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	lt := analysis.NewLeagueTable(2)
	lt.Consider(analysis.Entry{Index: 0, Hash: 0xfeedface12345678, Result: scenario.SimulationResult{CAPEX: 100, CostBalance: 5}})
	lt.Consider(analysis.Entry{Index: 1, Hash: 2, Result: scenario.SimulationResult{CAPEX: 50, CostBalance: 1}})

	run := NewRun("abc", lt.Snapshot())
	run.Tasks = 2
	run.Evaluated = 2
	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(run))

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.SiteDigest)
	assert.Equal(t, 2, got.Tasks)

	league := got.League()
	capex := league[analysis.ObjectiveCapex]
	require.Len(t, capex, 2)
	assert.Equal(t, 1, capex[0].Index)
	assert.Equal(t, uint64(0xfeedface12345678), capex[1].Hash)
	assert.Equal(t, 0, league[analysis.ObjectiveCostBalance][0].Index)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].Entries)
}

func TestStore_GetRunNotFound(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.GetRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
