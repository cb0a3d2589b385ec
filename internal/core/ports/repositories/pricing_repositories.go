package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// ProductPriceReader defines read operations for pricing data
type ProductPriceReader interface {
	// FindPriceByID retrieves a price row by its ID.
	FindPriceByID(ctx context.Context, priceID string) (*domain.ProductPrice, error)

	// FindCurrentPrice retrieves the current row for a scope, or ErrNotFound.
	FindCurrentPrice(ctx context.Context, scope domain.PriceScope) (*domain.ProductPrice, error)

	// ListPricesForProduct retrieves all rows for a product, newest effective date first.
	ListPricesForProduct(ctx context.Context, productID string) ([]domain.ProductPrice, error)

	// ListDuePending retrieves pending rows whose effective date is on or
	// before asOf, ordered by scope then effective date descending so the
	// latest due row per scope comes first.
	ListDuePending(ctx context.Context, asOf time.Time) ([]domain.ProductPrice, error)
}

// ProductPriceWriter defines write operations for pricing data. The
// transactional methods participate in the activation protocol: the service
// opens a transaction, locks the scope, deactivates siblings, flips the target
// row and writes history before committing.
type ProductPriceWriter interface {
	// InsertPriceInTx inserts a new price row within the given transaction.
	InsertPriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error

	// UpdatePriceInTx persists field changes to an existing row within the
	// given transaction.
	UpdatePriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error

	// LockScopeForUpdate acquires row locks (SELECT ... FOR UPDATE) on every
	// row in the scope and returns the currently-active row if any. Two
	// concurrent activations for the same scope serialize here.
	LockScopeForUpdate(ctx context.Context, tx pgx.Tx, scope domain.PriceScope) (*domain.ProductPrice, error)

	// DeactivateSiblingsInTx clears is_current on every row in the scope
	// except exceptPriceID, in a single UPDATE.
	DeactivateSiblingsInTx(ctx context.Context, tx pgx.Tx, scope domain.PriceScope, exceptPriceID string, updatedBy string, at time.Time) error

	// MarkCurrentInTx flags one row as current (and as having been current).
	MarkCurrentInTx(ctx context.Context, tx pgx.Tx, priceID string, updatedBy string, at time.Time) error

	// SupersedePendingInTx retires pending rows in the scope whose effective
	// date is on or before the activated row's, except exceptPriceID. Retired
	// rows are no longer eligible for scheduled activation, so a row that lost
	// the latest-effective tie-break cannot resurface in a later sweep.
	SupersedePendingInTx(ctx context.Context, tx pgx.Tx, scope domain.PriceScope, before time.Time, exceptPriceID string, updatedBy string, at time.Time) error
}

// ProductPriceRepositoryFacade combines all pricing repository interfaces
type ProductPriceRepositoryFacade interface {
	ProductPriceReader
	ProductPriceWriter
}

// ProductPriceRepositoryWithTx extends the facade with transaction capabilities
type ProductPriceRepositoryWithTx interface {
	ProductPriceRepositoryFacade
	TransactionManager
}

// PriceHistoryWriter appends audit entries. History is append-only; there are
// no update or delete operations.
type PriceHistoryWriter interface {
	// SaveHistoryInTx appends a history entry within the given transaction.
	SaveHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.PriceHistory) error

	// SaveHistory appends a history entry outside any caller transaction.
	SaveHistory(ctx context.Context, entry domain.PriceHistory) error
}

// PriceHistoryReader lists audit entries for a price row.
type PriceHistoryReader interface {
	// ListHistoryForPrice retrieves entries newest first with keyset
	// pagination; nextToken is nil on the last page.
	ListHistoryForPrice(ctx context.Context, priceID string, limit int, nextToken *string) ([]domain.PriceHistory, *string, error)
}

// PriceHistoryRepositoryFacade combines the history repository interfaces
type PriceHistoryRepositoryFacade interface {
	PriceHistoryWriter
	PriceHistoryReader
}
