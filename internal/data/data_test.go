package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-energy-sim/internal/model"
	"site-energy-sim/internal/scenario"
)

const siteJSON = `{
  "start_ts": "2024-01-01T00:00:00Z",
  "end_ts": "2024-01-01T02:00:00Z",
  "building_eload": [1, 2],
  "building_hload": [1, 1],
  "dhw_demand": [0, 0],
  "air_temperature": [5, 6],
  "ev_eload": [0, 0],
  "grid_co2": [0.2, 0.2],
  "import_tariffs": [[0.3, 0.1]],
  "solar_yields": [[0, 0.5]],
  "fabric_interventions": [],
  "ashp_input_table": [[0, 35], [-10, 1], [20, 2]],
  "ashp_output_table": [[0, 35], [-10, 2], [20, 5]]
}`

func TestParseSiteJSON(t *testing.T) {
	site, err := ParseSiteJSON([]byte(siteJSON))
	require.NoError(t, err)

	assert.Equal(t, 2, site.Data.Timesteps())
	assert.InDelta(t, 1, site.Data.TimestepHours(), 1e-12)
	assert.InDelta(t, 1, site.Data.ASHPReferencePowerKW, 1e-12)
	assert.Len(t, site.Digest, 64)

	again, err := ParseSiteJSON([]byte(siteJSON))
	require.NoError(t, err)
	assert.Equal(t, site.Digest, again.Digest)
}

func TestParseSiteJSON_Errors(t *testing.T) {
	_, err := ParseSiteJSON([]byte(`{"building_eload": [1,`))
	assert.True(t, errors.Is(err, model.ErrConfig))

	_, err = ParseSiteJSON([]byte(`{"building_eload": [1]}`))
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = LoadSiteJSON("does-not-exist.json")
	assert.True(t, errors.Is(err, model.ErrConfig))
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	want := scenario.SimulationResult{CAPEX: 10, CostBalance: 2}
	require.NoError(t, c.Set(ctx, 42, want))

	got, ok, err := c.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, _ = c.Get(ctx, 7)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, 42)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "sim:0123456789abcdef:000000000000002a", Namespace("0123456789abcdef0123", 42))
}

func TestRedisCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisCache(client, "sim:test", time.Minute)
	assert.Equal(t, "sim:test:00000000000000ff", c.key(255))

	_, ok, err := c.Get(context.Background(), 1)
	assert.False(t, ok)
	assert.Error(t, err)
}
