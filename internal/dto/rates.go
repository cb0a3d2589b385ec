package dto

import (
	"time"

	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// RateResponse defines the data returned for one currency pair rate.
type RateResponse struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Rate       float64 `json:"rate"`
	IsFallback bool    `json:"isFallback"`
}

// RateMetadataResponse defines the diagnostic data for a pair's cached rate.
type RateMetadataResponse struct {
	From        string     `json:"from"`
	To          string     `json:"to"`
	Rate        float64    `json:"rate"`
	LastUpdated *time.Time `json:"lastUpdated"`
	NextUpdate  *time.Time `json:"nextUpdate"`
	IsCached    bool       `json:"isCached"`
	IsFallback  bool       `json:"isFallback"`
}

// ToRateMetadataResponse converts domain.RateMetadata to its DTO
func ToRateMetadataResponse(m domain.RateMetadata) RateMetadataResponse {
	return RateMetadataResponse{
		From:        m.From,
		To:          m.To,
		Rate:        m.Rate,
		LastUpdated: m.LastUpdated,
		NextUpdate:  m.NextUpdate,
		IsCached:    m.IsCached,
		IsFallback:  m.IsFallback,
	}
}

// ConversionResult is the outcome of a currency conversion, carrying the
// fallback marker so callers can surface degraded accuracy.
type ConversionResult struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
	IsFallback   bool    `json:"isFallback"`
}

// CurrencyPreferences carries the request-scoped inputs to user-currency
// resolution. Handlers assemble it from the query string, session, principal
// and geolocation; absent sources stay empty.
type CurrencyPreferences struct {
	// RequestedCode is an explicit per-request override (e.g. ?currency=RWF).
	RequestedCode string
	// SessionCode is the currency the visitor previously selected.
	SessionCode string
	// PreferredCode is the authenticated user's saved preference.
	PreferredCode string
	// CountryCode is the ISO country derived from the request's IP.
	CountryCode string
}

// DisplayPrice is a converted, formatted price ready for rendering.
type DisplayPrice struct {
	Amount       float64 `json:"amount"`
	AmountMinor  int64   `json:"amountMinor"`
	CurrencyCode string  `json:"currencyCode"`
	Formatted    string  `json:"formatted"`
	IsFallback   bool    `json:"isFallback"`
}
