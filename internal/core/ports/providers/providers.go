package providers

import (
	"context"
	"time"

	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// RateClient talks to the external pair-conversion API. Implementations map
// API error types to the apperrors rate-provider sentinels so the service can
// decide retryability without knowing transport details.
type RateClient interface {
	// FetchPairRate retrieves the conversion rate for one currency pair.
	FetchPairRate(ctx context.Context, from, to string) (*domain.PairRate, error)

	// FetchRates retrieves all conversion rates for a base currency.
	FetchRates(ctx context.Context, base string) (map[string]float64, error)
}

// RateCache is a TTL key-value store for rate snapshots. A stale-within-TTL
// read is acceptable; concurrent refreshes for the same pair may both hit the
// provider and last write wins.
type RateCache interface {
	// Get returns the cached snapshot for a pair, or nil on a miss.
	Get(ctx context.Context, from, to string) (*domain.RateSnapshot, error)

	// Set stores a snapshot under the pair key with the given TTL.
	Set(ctx context.Context, snapshot domain.RateSnapshot, ttl time.Duration) error

	// Delete invalidates one pair.
	Delete(ctx context.Context, from, to string) error

	// Flush invalidates the entire cache.
	Flush(ctx context.Context) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}
