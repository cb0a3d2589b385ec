package services

import (
	"context"

	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/dto"
)

// CurrencyReaderSvc defines read operations for the currency registry
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code, resolving
	// aliases first.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies ordered by code.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// ListActiveCurrencies retrieves active currencies, base first, then
	// alphabetical by code.
	ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error)

	// GetBaseCurrency retrieves the single base currency. Zero or multiple
	// base rows is a configuration error and fails hard.
	GetBaseCurrency(ctx context.Context) (*domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for the currency registry
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// UpdateCurrency applies partial updates to an existing currency.
	UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest, updaterUserID string) (*domain.Currency, error)

	// SetBaseCurrency atomically moves the base designation to the given code.
	SetBaseCurrency(ctx context.Context, currencyCode string, updaterUserID string) error

	// DeleteCurrency removes a currency; the base currency is protected.
	DeleteCurrency(ctx context.Context, currencyCode string) error
}

// CurrencySvcFacade combines all currency-registry service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
