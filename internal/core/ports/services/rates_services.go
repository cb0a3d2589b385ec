package services

import (
	"context"

	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/dto"
)

// RateProviderSvc resolves exchange rates with caching and static fallback.
type RateProviderSvc interface {
	// GetRate returns the conversion rate for a pair. Same-currency pairs
	// short-circuit to 1.0. Provider failures fall back to the static table;
	// only a pair with no fallback entry surfaces an error.
	GetRate(ctx context.Context, from, to string) (float64, error)

	// GetRateSnapshot is GetRate plus provenance (fetch time, fallback flag).
	GetRateSnapshot(ctx context.Context, from, to string) (*domain.RateSnapshot, error)

	// GetRates returns all rates for a base currency, or nil (not an error)
	// when the provider cannot supply data, letting callers degrade.
	GetRates(ctx context.Context, base string) (map[string]float64, error)

	// GetRateMetadata returns diagnostic information for the admin UI.
	GetRateMetadata(ctx context.Context, from, to string) (*domain.RateMetadata, error)

	// ClearCache invalidates one pair, or the whole cache when both codes are
	// empty. Must be called after any system-wide rate refresh.
	ClearCache(ctx context.Context, from, to string) error
}

// ConverterSvc is the customer-facing formatting and conversion facade.
type ConverterSvc interface {
	// Convert translates an amount between currencies via the rate provider.
	// Identity conversions bypass the provider entirely.
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)

	// ConvertDetailed is Convert plus the fallback marker.
	ConvertDetailed(ctx context.Context, amount float64, from, to string) (*dto.ConversionResult, error)

	// ConvertPrice translates a Price value into another currency.
	ConvertPrice(ctx context.Context, price domain.Price, to string) (domain.Price, error)

	// Format renders an amount with the currency's symbol, position and
	// decimal places per the registry.
	Format(ctx context.Context, amount float64, currencyCode string) (string, error)

	// FormatPrice renders a Price value.
	FormatPrice(ctx context.Context, price domain.Price) (string, error)

	// GetUserCurrency resolves a viewer's effective currency from request
	// preferences, falling through to the base currency.
	GetUserCurrency(ctx context.Context, prefs dto.CurrencyPreferences) (*domain.Currency, error)

	// GetDisplayPrice returns the named monetary field of a product's current
	// price in the viewer's currency, falling back to the base currency's row
	// when no row exists for the viewer's currency.
	GetDisplayPrice(ctx context.Context, productID string, cycle domain.BillingCycle, field string, prefs dto.CurrencyPreferences) (*dto.DisplayPrice, error)
}
