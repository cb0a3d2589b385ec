package repositories

import (
	"context"

	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its normalized code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies ordered by code.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// ListActiveCurrencies retrieves active currencies, base currency first,
	// then alphabetical by code.
	ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error)

	// FindBaseCurrencies retrieves every row flagged as base. The registry
	// treats anything other than exactly one row as a configuration error.
	FindBaseCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// UpdateCurrency persists changes to an existing currency.
	UpdateCurrency(ctx context.Context, currency domain.Currency) error

	// SetBaseCurrency atomically unsets the prior base and flags the given
	// code as base, within one transaction.
	SetBaseCurrency(ctx context.Context, currencyCode string, updatedBy string) error

	// DeleteCurrency removes a currency row.
	DeleteCurrency(ctx context.Context, currencyCode string) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}

// CurrencyRepositoryWithTx extends CurrencyRepositoryFacade with transaction capabilities
type CurrencyRepositoryWithTx interface {
	CurrencyRepositoryFacade
	TransactionManager
}
