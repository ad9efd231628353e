package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"site-energy-sim/internal/scenario"
)

// RedisCache is a ResultCache shared between processes.
type RedisCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewRedisCache(client *redis.Client, namespace string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, namespace: namespace, ttl: ttl}
}

func (c *RedisCache) key(k uint64) string {
	return fmt.Sprintf("%s:%016x", c.namespace, k)
}

func (c *RedisCache) Get(ctx context.Context, key uint64) (scenario.SimulationResult, bool, error) {
	var r scenario.SimulationResult
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return r, false, nil
	}
	if err != nil {
		return r, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, false, fmt.Errorf("decode cached result: %w", err)
	}
	return r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key uint64, r scenario.SimulationResult) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
