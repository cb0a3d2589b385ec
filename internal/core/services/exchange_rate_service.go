package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/middleware"
)

// ExchangeRateConfig tunes the provider service's retry and cache behaviour.
type ExchangeRateConfig struct {
	CacheTTL      time.Duration
	Retries       int
	RetryDelay    time.Duration
	FallbackRates map[string]float64 // keyed "USD_TO_RWF"
}

// ExchangeRateService resolves pair rates with a cache in front of the
// external provider and a static fallback table behind it. Rate lookups never
// fail for a configured pair: live, then cached, then fallback.
type ExchangeRateService struct {
	client providers.RateClient
	cache  providers.RateCache
	clock  providers.Clock
	cfg    ExchangeRateConfig
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(client providers.RateClient, cache providers.RateCache, clock providers.Clock, cfg ExchangeRateConfig) *ExchangeRateService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &ExchangeRateService{
		client: client,
		cache:  cache,
		clock:  clock,
		cfg:    cfg,
	}
}

var _ portssvc.RateProviderSvc = (*ExchangeRateService)(nil)

// GetRate returns the conversion rate for a pair.
func (s *ExchangeRateService) GetRate(ctx context.Context, from, to string) (float64, error) {
	snapshot, err := s.GetRateSnapshot(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return snapshot.Rate, nil
}

// GetRateSnapshot resolves a pair rate with provenance. Same-currency pairs
// short-circuit to 1.0 without touching cache or provider.
func (s *ExchangeRateService) GetRateSnapshot(ctx context.Context, from, to string) (*domain.RateSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from = domain.NormalizeCurrencyCode(from)
	to = domain.NormalizeCurrencyCode(to)

	if from == to {
		return &domain.RateSnapshot{From: from, To: to, Rate: 1.0, FetchedAt: s.clock.Now()}, nil
	}

	if cached, err := s.cache.Get(ctx, from, to); err != nil {
		logger.Warn("Rate cache read failed", slog.String("error", err.Error()), slog.String("pair", from+"/"+to))
	} else if cached != nil {
		return cached, nil
	}

	pairRate, err := s.fetchWithRetry(ctx, from, to)
	if err != nil {
		logger.Warn("Rate provider unavailable, using fallback",
			slog.String("error", err.Error()),
			slog.String("pair", from+"/"+to),
		)
		return s.fallbackSnapshot(ctx, from, to, err)
	}

	snapshot := domain.RateSnapshot{
		From:      from,
		To:        to,
		Rate:      pairRate.Rate,
		FetchedAt: s.clock.Now(),
	}
	if err := s.cache.Set(ctx, snapshot, s.cfg.CacheTTL); err != nil {
		logger.Warn("Rate cache write failed", slog.String("error", err.Error()), slog.String("pair", from+"/"+to))
	}
	return &snapshot, nil
}

// GetRates returns all rates for a base currency, or nil when the provider
// cannot supply data. Callers treat nil as "degrade gracefully", not an error.
func (s *ExchangeRateService) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	base = domain.NormalizeCurrencyCode(base)

	rates, err := s.client.FetchRates(ctx, base)
	if err != nil {
		logger.Warn("Bulk rate fetch failed", slog.String("error", err.Error()), slog.String("base", base))
		return nil, nil
	}
	return rates, nil
}

// GetRateMetadata returns diagnostic information about a pair for the admin UI.
func (s *ExchangeRateService) GetRateMetadata(ctx context.Context, from, to string) (*domain.RateMetadata, error) {
	from = domain.NormalizeCurrencyCode(from)
	to = domain.NormalizeCurrencyCode(to)

	if cached, err := s.cache.Get(ctx, from, to); err == nil && cached != nil {
		fetchedAt := cached.FetchedAt
		nextUpdate := fetchedAt.Add(s.cfg.CacheTTL)
		return &domain.RateMetadata{
			From:        from,
			To:          to,
			Rate:        cached.Rate,
			LastUpdated: &fetchedAt,
			NextUpdate:  &nextUpdate,
			IsCached:    true,
			IsFallback:  cached.IsFallback,
		}, nil
	}

	snapshot, err := s.GetRateSnapshot(ctx, from, to)
	if err != nil {
		return nil, err
	}
	fetchedAt := snapshot.FetchedAt
	nextUpdate := fetchedAt.Add(s.cfg.CacheTTL)
	return &domain.RateMetadata{
		From:        from,
		To:          to,
		Rate:        snapshot.Rate,
		LastUpdated: &fetchedAt,
		NextUpdate:  &nextUpdate,
		IsCached:    false,
		IsFallback:  snapshot.IsFallback,
	}, nil
}

// ClearCache invalidates one pair, or the whole cache when both codes are empty.
func (s *ExchangeRateService) ClearCache(ctx context.Context, from, to string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if from == "" && to == "" {
		if err := s.cache.Flush(ctx); err != nil {
			return fmt.Errorf("failed to flush rate cache: %w", err)
		}
		logger.Info("Rate cache flushed")
		return nil
	}

	from = domain.NormalizeCurrencyCode(from)
	to = domain.NormalizeCurrencyCode(to)
	if err := s.cache.Delete(ctx, from, to); err != nil {
		return fmt.Errorf("failed to invalidate rate cache entry: %w", err)
	}
	logger.Info("Rate cache entry invalidated", slog.String("pair", from+"/"+to))
	return nil
}

// fetchWithRetry calls the provider, retrying transient failures with a fixed
// delay. Auth, quota, malformed-request and inactive-account failures abort
// immediately since retrying cannot change the outcome.
func (s *ExchangeRateService) fetchWithRetry(ctx context.Context, from, to string) (*domain.PairRate, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.cfg.RetryDelay):
			}
		}

		pairRate, err := s.client.FetchPairRate(ctx, from, to)
		if err == nil {
			return pairRate, nil
		}
		lastErr = err

		if !apperrors.IsRetryableRateError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// fallbackSnapshot consults the static rate table. A missing entry surfaces
// the unsupported-currency error with the provider failure attached.
func (s *ExchangeRateService) fallbackSnapshot(ctx context.Context, from, to string, cause error) (*domain.RateSnapshot, error) {
	key := fmt.Sprintf("%s_TO_%s", from, to)
	rate, ok := s.cfg.FallbackRates[key]
	if !ok {
		return nil, fmt.Errorf("%w: no rate available for %s/%s (provider: %v)", apperrors.ErrUnsupportedCurrency, from, to, cause)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Serving fallback rate",
		slog.String("pair", from+"/"+to),
		slog.Float64("rate", rate),
	)

	return &domain.RateSnapshot{
		From:       from,
		To:         to,
		Rate:       rate,
		FetchedAt:  s.clock.Now(),
		IsFallback: true,
	}, nil
}
