// Package app assembles the long lived pieces both binaries need from a
// configuration: logger, site, baseline, simulator, result cache and store.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"site-energy-sim/internal/config"
	"site-energy-sim/internal/data"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/scenario"
	"site-energy-sim/internal/store"
)

const redisPingTimeout = 5 * time.Second

// NewLogger builds a zap logger at the configured level.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, &model.ConfigError{Source: "log.level", Err: err}
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

type App struct {
	Config    *config.Config
	Site      *data.Site
	Baseline  *model.TaskData
	Simulator *scenario.Simulator
	Cache     data.ResultCache
	Log       *zap.Logger

	redis *redis.Client
}

// Open loads the site and baseline named by cfg and builds the simulator and
// result cache. The in-memory cache is purged until ctx is done.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg.SiteFile == "" {
		return nil, &model.ConfigError{Err: fmt.Errorf("site_file is required")}
	}
	if cfg.BaselineFile == "" {
		return nil, &model.ConfigError{Err: fmt.Errorf("baseline_file is required")}
	}

	site, err := data.LoadSiteJSON(cfg.SiteFile)
	if err != nil {
		return nil, err
	}
	baseline, err := config.LoadTask(cfg.BaselineFile)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, site, baseline, log)
}

// New is Open for a site and baseline already in memory.
func New(ctx context.Context, cfg *config.Config, site *data.Site, baseline *model.TaskData, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sim, err := scenario.New(site.Data, baseline, scenario.Options{
		Engine: cfg.SimulateOptions(),
		Prices: cfg.CostPrices(),
		Logger: log,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Site:      site,
		Baseline:  baseline,
		Simulator: sim,
		Log:       log,
	}
	a.openCache(ctx)

	log.Info("site loaded",
		zap.String("digest", site.Digest),
		zap.Int("timesteps", site.Data.Timesteps()),
		zap.Float64("timestep_hours", site.Data.TimestepHours()),
		zap.Uint64("baseline_hash", baseline.Hash()))
	return a, nil
}

// openCache prefers redis when configured and reachable, otherwise falls back
// to an in-process cache.
func (a *App) openCache(ctx context.Context) {
	cc := a.Config.Cache
	if cc.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cc.RedisAddr, DB: cc.RedisDB})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			a.Log.Warn("redis connection failed, falling back to in-memory cache",
				zap.String("addr", cc.RedisAddr), zap.Error(err))
			client.Close()
		} else {
			a.redis = client
			a.Cache = data.NewRedisCache(client, data.Namespace(a.Site.Digest, a.Baseline.Hash()), cc.TTL)
			return
		}
	}
	mem := data.NewMemoryCache(cc.TTL)
	if cc.TTL > 0 {
		go mem.Run(ctx, cc.TTL)
	}
	a.Cache = mem
}

// OpenStore opens the run store at the configured path.
func (a *App) OpenStore() (*store.Store, error) {
	return store.New(a.Config.Store.Path)
}

func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
