package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
)

// RedisRateCache stores rate snapshots in Redis as JSON with a server-side TTL.
// Use when the cache must be shared across instances.
type RedisRateCache struct {
	client *redis.Client
}

var _ providers.RateCache = (*RedisRateCache)(nil)

func NewRedisRateCache(client *redis.Client) *RedisRateCache {
	return &RedisRateCache{client: client}
}

func (c *RedisRateCache) Get(ctx context.Context, from, to string) (*domain.RateSnapshot, error) {
	raw, err := c.client.Get(ctx, rateCacheKey(from, to)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get rate: %w", err)
	}

	var snapshot domain.RateSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// Treat a corrupt entry as a miss so the caller refetches
		_ = c.client.Del(ctx, rateCacheKey(from, to)).Err()
		return nil, nil
	}
	return &snapshot, nil
}

func (c *RedisRateCache) Set(ctx context.Context, snapshot domain.RateSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal rate snapshot: %w", err)
	}
	if err := c.client.Set(ctx, rateCacheKey(snapshot.From, snapshot.To), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set rate: %w", err)
	}
	return nil
}

func (c *RedisRateCache) Delete(ctx context.Context, from, to string) error {
	if err := c.client.Del(ctx, rateCacheKey(from, to)).Err(); err != nil {
		return fmt.Errorf("redis delete rate: %w", err)
	}
	return nil
}

func (c *RedisRateCache) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, "exchange_rate:*", 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan rate keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis flush rates: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
