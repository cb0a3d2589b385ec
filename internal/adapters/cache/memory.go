package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
)

// rateCacheKey builds the cache key for a currency pair.
func rateCacheKey(from, to string) string {
	return fmt.Sprintf("exchange_rate:%s:%s", from, to)
}

type memoryEntry struct {
	snapshot  domain.RateSnapshot
	expiresAt time.Time
}

// MemoryRateCache is an in-process TTL cache for rate snapshots.
type MemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   providers.Clock
}

var _ providers.RateCache = (*MemoryRateCache)(nil)

func NewMemoryRateCache(clock providers.Clock) *MemoryRateCache {
	return &MemoryRateCache{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

func (c *MemoryRateCache) Get(_ context.Context, from, to string) (*domain.RateSnapshot, error) {
	key := rateCacheKey(from, to)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if c.clock.Now().After(entry.expiresAt) {
		// Lazily evict on read
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil
	}

	snapshot := entry.snapshot
	return &snapshot, nil
}

func (c *MemoryRateCache) Set(_ context.Context, snapshot domain.RateSnapshot, ttl time.Duration) error {
	key := rateCacheKey(snapshot.From, snapshot.To)

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		snapshot:  snapshot,
		expiresAt: c.clock.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryRateCache) Delete(_ context.Context, from, to string) error {
	c.mu.Lock()
	delete(c.entries, rateCacheKey(from, to))
	c.mu.Unlock()
	return nil
}

func (c *MemoryRateCache) Flush(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}
