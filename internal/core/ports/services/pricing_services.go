package services

import (
	"context"
	"time"

	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/dto"
)

// PriceChangeContext carries attribution for a price mutation: who did it,
// from where, and why. ChangedBy is nil for scheduler-driven changes.
type PriceChangeContext struct {
	ChangedBy *string
	Reason    *string
	IPAddress *string
}

// PricingReaderSvc defines read operations over pricing tracks
type PricingReaderSvc interface {
	// GetPrice retrieves a price row by ID.
	GetPrice(ctx context.Context, priceID string) (*domain.ProductPrice, error)

	// GetCurrentPrice retrieves the current row for a scope.
	GetCurrentPrice(ctx context.Context, scope domain.PriceScope) (*domain.ProductPrice, error)

	// ListPricesForProduct retrieves all rows for a product.
	ListPricesForProduct(ctx context.Context, productID string) ([]domain.ProductPrice, error)

	// ListPriceHistory retrieves audit entries for a price, newest first.
	ListPriceHistory(ctx context.Context, priceID string, limit int, nextToken *string) ([]domain.PriceHistory, *string, error)
}

// PricingWriterSvc defines the price-version ledger's write operations
type PricingWriterSvc interface {
	// CreatePrice persists a new price row, enforcing the at-most-one-current
	// invariant at creation time.
	CreatePrice(ctx context.Context, req dto.CreatePriceRequest, creatorUserID string, ipAddress *string) (*domain.ProductPrice, error)

	// UpdatePrice applies partial updates; monetary changes to a
	// previously-activated row are recorded in the history.
	UpdatePrice(ctx context.Context, priceID string, req dto.UpdatePriceRequest, change PriceChangeContext) (*domain.ProductPrice, error)

	// ActivatePrice promotes a row to current, supersedes siblings and writes
	// one history entry, all in one transaction. A no-op when already current.
	ActivatePrice(ctx context.Context, priceID string, change PriceChangeContext) error
}

// PricingSweeperSvc is the scheduled-activation entry point.
type PricingSweeperSvc interface {
	// SweepDueActivations activates every pending row whose effective date is
	// on or before asOf. Per-scope failures are logged and skipped; the sweep
	// reports how many scopes were activated and how many failed.
	SweepDueActivations(ctx context.Context, asOf time.Time) (activated int, failed int, err error)
}

// PricingSvcFacade combines all pricing-ledger service interfaces
type PricingSvcFacade interface {
	PricingReaderSvc
	PricingWriterSvc
	PricingSweeperSvc
}
