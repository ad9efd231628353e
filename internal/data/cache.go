package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"site-energy-sim/internal/scenario"
)

// ResultCache stores simulation results by task hash. Namespace keeps results
// for different sites and baselines apart.
type ResultCache interface {
	Get(ctx context.Context, key uint64) (scenario.SimulationResult, bool, error)
	Set(ctx context.Context, key uint64, r scenario.SimulationResult) error
}

// Namespace builds a cache namespace from a site digest and the baseline hash.
func Namespace(siteDigest string, baselineHash uint64) string {
	if len(siteDigest) > 16 {
		siteDigest = siteDigest[:16]
	}
	return fmt.Sprintf("sim:%s:%016x", siteDigest, baselineHash)
}

type cacheEntry struct {
	result    scenario.SimulationResult
	expiresAt time.Time
}

// MemoryCache is an in-process ResultCache with a fixed TTL.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[uint64]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: make(map[uint64]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key uint64) (scenario.SimulationResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[key]
	if !ok || c.now().After(e.expiresAt) {
		return scenario.SimulationResult{}, false, nil
	}
	return e.result, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key uint64, r scenario.SimulationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cacheEntry{result: r, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Len counts entries, including expired ones not yet purged.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Purge removes expired entries.
func (c *MemoryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
		}
	}
}

// Run purges expired entries every interval until ctx is done.
func (c *MemoryCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}
