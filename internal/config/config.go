package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"site-energy-sim/internal/cost"
	"site-energy-sim/internal/simulate"
)

// Config is the on-disk application configuration (YAML).
type Config struct {
	// SiteFile is the site data JSON; BaselineFile the baseline task (YAML or JSON).
	// Relative paths are resolved against the config file's directory first.
	SiteFile     string `yaml:"site_file"`
	BaselineFile string `yaml:"baseline_file"`

	// PricesFile, if set, is loaded over the built in prices. An inline
	// prices block is applied last.
	PricesFile string    `yaml:"prices_file"`
	Prices     yaml.Node `yaml:"prices"`

	Simulation SimulationConfig `yaml:"simulation"`
	Optimiser  OptimiserConfig  `yaml:"optimiser"`
	Store      StoreConfig      `yaml:"store"`
	Cache      CacheConfig      `yaml:"cache"`
	API        APIConfig        `yaml:"api"`
	Log        LogConfig        `yaml:"log"`

	prices cost.Prices
}

type SimulationConfig struct {
	TariffPercentile float64 `yaml:"tariff_percentile"`
	RoundTripLoss    float64 `yaml:"ess_round_trip_loss"`
}

type OptimiserConfig struct {
	Workers    int `yaml:"workers"`
	LeagueSize int `yaml:"league_size"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig selects the result cache. RedisAddr empty means in memory.
type CacheConfig struct {
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
}

type APIConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	c.prices = cost.DefaultPrices()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, configError(path, err)
	}
	return c, nil
}

// LoadUnchecked loads the file and resolves paths and prices, but applies no
// defaults and does not validate.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, configError(path, err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, configError(path, err)
	}

	dir := filepath.Dir(path)
	c.SiteFile = resolve(dir, c.SiteFile)
	c.BaselineFile = resolve(dir, c.BaselineFile)
	c.PricesFile = resolve(dir, c.PricesFile)
	if c.Store.Path != "" && c.Store.Path != ":memory:" {
		c.Store.Path = resolve(dir, c.Store.Path)
	}

	c.prices = cost.DefaultPrices()
	if c.PricesFile != "" {
		if err := loadPricesFile(c.PricesFile, &c.prices); err != nil {
			return nil, err
		}
	}
	if !c.Prices.IsZero() {
		if err := c.Prices.Decode(&c.prices); err != nil {
			return nil, configError(path, fmt.Errorf("prices: %w", err))
		}
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation.TariffPercentile == 0 {
		c.Simulation.TariffPercentile = simulate.DefaultOptions().TariffPercentile
	}
	if c.Simulation.RoundTripLoss == 0 {
		c.Simulation.RoundTripLoss = simulate.DefaultOptions().RoundTripLoss
	}
	if c.Optimiser.Workers == 0 {
		c.Optimiser.Workers = 4
	}
	if c.Optimiser.LeagueSize == 0 {
		c.Optimiser.LeagueSize = 10
	}
	if c.Store.Path == "" {
		c.Store.Path = "runs.db"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.API.Port == "" {
		c.API.Port = "8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if p := c.Simulation.TariffPercentile; p < 0 || p > 100 {
		return fmt.Errorf("simulation.tariff_percentile must be within [0, 100], got %g", p)
	}
	if l := c.Simulation.RoundTripLoss; l < 0 || l >= 1 {
		return fmt.Errorf("simulation.ess_round_trip_loss must be within [0, 1), got %g", l)
	}
	if c.Optimiser.Workers < 1 {
		return errors.New("optimiser.workers must be >= 1")
	}
	if c.Optimiser.LeagueSize < 1 {
		return errors.New("optimiser.league_size must be >= 1")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must be >= 0")
	}
	return nil
}

// SimulateOptions is the engine configuration.
func (c *Config) SimulateOptions() simulate.Options {
	return simulate.Options{
		RoundTripLoss:    c.Simulation.RoundTripLoss,
		TariffPercentile: c.Simulation.TariffPercentile,
	}
}

// CostPrices is the built in prices overlaid with the prices file and the
// inline prices block.
func (c *Config) CostPrices() cost.Prices { return c.prices }

// resolve prefers interpreting a relative path against dir, but falls back to
// the path as given (relative to cwd) if that doesn't exist.
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

type pricesFileWrapper struct {
	Prices yaml.Node `yaml:"prices"`
}

func loadPricesFile(path string, into *cost.Prices) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return configError(path, err)
	}
	var w pricesFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return configError(path, err)
	}
	if w.Prices.IsZero() {
		return configError(path, errors.New("missing prices block"))
	}
	if err := w.Prices.Decode(into); err != nil {
		return configError(path, err)
	}
	return nil
}
