package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portsrepo "github.com/kazehost/pricing-backend/internal/core/ports/repositories"
	"github.com/kazehost/pricing-backend/internal/models"
	"github.com/kazehost/pricing-backend/internal/utils/mapping"
)

const productPriceColumns = `price_id, product_id, currency_code, cycle, register_price, renewal_price, transfer_price, redemption_price, is_current, was_current, effective_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxProductPriceRepository struct {
	BaseRepository
}

// newPgxProductPriceRepository creates a new repository for pricing data.
func newPgxProductPriceRepository(pool *pgxpool.Pool) portsrepo.ProductPriceRepositoryWithTx {
	return &PgxProductPriceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ProductPriceRepositoryWithTx = (*PgxProductPriceRepository)(nil)

func scanProductPrice(row pgx.CollectableRow) (models.ProductPrice, error) {
	var price models.ProductPrice
	err := row.Scan(
		&price.PriceID,
		&price.ProductID,
		&price.CurrencyCode,
		&price.Cycle,
		&price.RegisterPrice,
		&price.RenewalPrice,
		&price.TransferPrice,
		&price.RedemptionPrice,
		&price.IsCurrent,
		&price.WasCurrent,
		&price.EffectiveDate,
		&price.CreatedAt,
		&price.CreatedBy,
		&price.LastUpdatedAt,
		&price.LastUpdatedBy,
	)
	return price, err
}

// FindPriceByID retrieves a price row by its ID.
func (r *PgxProductPriceRepository) FindPriceByID(ctx context.Context, priceID string) (*domain.ProductPrice, error) {
	query := `SELECT ` + productPriceColumns + ` FROM product_prices WHERE price_id = $1;`

	rows, err := r.Pool.Query(ctx, query, priceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price %s: %w", priceID, err)
	}

	modelPrice, err := pgx.CollectOneRow(rows, scanProductPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find price by id %s: %w", priceID, err)
	}

	domainPrice := mapping.ToDomainProductPrice(modelPrice)
	return &domainPrice, nil
}

// FindCurrentPrice retrieves the current row for a scope.
func (r *PgxProductPriceRepository) FindCurrentPrice(ctx context.Context, scope domain.PriceScope) (*domain.ProductPrice, error) {
	query := `
		SELECT ` + productPriceColumns + `
		FROM product_prices
		WHERE product_id = $1 AND currency_code = $2 AND cycle = $3 AND is_current = TRUE;
	`

	rows, err := r.Pool.Query(ctx, query, scope.ProductID, scope.CurrencyCode, string(scope.Cycle))
	if err != nil {
		return nil, fmt.Errorf("failed to query current price: %w", err)
	}

	modelPrice, err := pgx.CollectOneRow(rows, scanProductPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find current price for product %s: %w", scope.ProductID, err)
	}

	domainPrice := mapping.ToDomainProductPrice(modelPrice)
	return &domainPrice, nil
}

// ListPricesForProduct retrieves all rows for a product, newest effective date first.
func (r *PgxProductPriceRepository) ListPricesForProduct(ctx context.Context, productID string) ([]domain.ProductPrice, error) {
	query := `
		SELECT ` + productPriceColumns + `
		FROM product_prices
		WHERE product_id = $1
		ORDER BY currency_code, cycle, effective_date DESC;
	`

	rows, err := r.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for product %s: %w", productID, err)
	}

	modelPrices, err := pgx.CollectRows(rows, scanProductPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to collect prices for product %s: %w", productID, err)
	}

	return mapping.ToDomainProductPriceSlice(modelPrices), nil
}

// ListDuePending retrieves pending rows whose effective date is on or before
// asOf. Ordered by scope then effective date descending so the sweep can take
// the first row per scope as the winner.
func (r *PgxProductPriceRepository) ListDuePending(ctx context.Context, asOf time.Time) ([]domain.ProductPrice, error) {
	query := `
		SELECT ` + productPriceColumns + `
		FROM product_prices
		WHERE is_current = FALSE AND was_current = FALSE AND effective_date <= $1
		ORDER BY product_id, currency_code, cycle, effective_date DESC;
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due pending prices: %w", err)
	}

	modelPrices, err := pgx.CollectRows(rows, scanProductPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to collect due pending prices: %w", err)
	}

	return mapping.ToDomainProductPriceSlice(modelPrices), nil
}

// InsertPriceInTx inserts a new price row within the given transaction.
func (r *PgxProductPriceRepository) InsertPriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error {
	modelPrice := mapping.ToModelProductPrice(price)

	query := `
		INSERT INTO product_prices (` + productPriceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`

	_, err := tx.Exec(ctx, query,
		modelPrice.PriceID,
		modelPrice.ProductID,
		modelPrice.CurrencyCode,
		modelPrice.Cycle,
		modelPrice.RegisterPrice,
		modelPrice.RenewalPrice,
		modelPrice.TransferPrice,
		modelPrice.RedemptionPrice,
		modelPrice.IsCurrent,
		modelPrice.WasCurrent,
		modelPrice.EffectiveDate,
		modelPrice.CreatedAt,
		modelPrice.CreatedBy,
		modelPrice.LastUpdatedAt,
		modelPrice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price %s: %w", modelPrice.PriceID, err)
	}
	return nil
}

// UpdatePriceInTx persists field changes to an existing row within the given transaction.
func (r *PgxProductPriceRepository) UpdatePriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error {
	modelPrice := mapping.ToModelProductPrice(price)

	query := `
		UPDATE product_prices
		SET register_price = $2,
			renewal_price = $3,
			transfer_price = $4,
			redemption_price = $5,
			is_current = $6,
			was_current = $7,
			effective_date = $8,
			last_updated_at = $9,
			last_updated_by = $10
		WHERE price_id = $1;
	`

	tag, err := tx.Exec(ctx, query,
		modelPrice.PriceID,
		modelPrice.RegisterPrice,
		modelPrice.RenewalPrice,
		modelPrice.TransferPrice,
		modelPrice.RedemptionPrice,
		modelPrice.IsCurrent,
		modelPrice.WasCurrent,
		modelPrice.EffectiveDate,
		modelPrice.LastUpdatedAt,
		modelPrice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update price %s: %w", modelPrice.PriceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockScopeForUpdate acquires row locks on every row in the scope and returns
// the currently-active row if any. Concurrent activations for the same scope
// serialize here.
func (r *PgxProductPriceRepository) LockScopeForUpdate(ctx context.Context, tx pgx.Tx, scope domain.PriceScope) (*domain.ProductPrice, error) {
	query := `
		SELECT ` + productPriceColumns + `
		FROM product_prices
		WHERE product_id = $1 AND currency_code = $2 AND cycle = $3
		ORDER BY price_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, scope.ProductID, scope.CurrencyCode, string(scope.Cycle))
	if err != nil {
		return nil, fmt.Errorf("failed to lock pricing scope: %w", err)
	}

	modelPrices, err := pgx.CollectRows(rows, scanProductPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to collect locked scope rows: %w", err)
	}

	for _, modelPrice := range modelPrices {
		if modelPrice.IsCurrent {
			domainPrice := mapping.ToDomainProductPrice(modelPrice)
			return &domainPrice, nil
		}
	}
	return nil, nil
}

// DeactivateSiblingsInTx clears is_current on every row in the scope except
// exceptPriceID, in a single UPDATE.
func (r *PgxProductPriceRepository) DeactivateSiblingsInTx(ctx context.Context, tx pgx.Tx, scope domain.PriceScope, exceptPriceID string, updatedBy string, at time.Time) error {
	query := `
		UPDATE product_prices
		SET is_current = FALSE, last_updated_at = $5, last_updated_by = $6
		WHERE product_id = $1 AND currency_code = $2 AND cycle = $3
			AND price_id <> $4 AND is_current = TRUE;
	`

	_, err := tx.Exec(ctx, query, scope.ProductID, scope.CurrencyCode, string(scope.Cycle), exceptPriceID, at, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate sibling prices: %w", err)
	}
	return nil
}

// SupersedePendingInTx retires pending rows in the scope whose effective date
// is on or before the activated row's, except exceptPriceID. Setting
// was_current removes them from the due-pending listing for good.
func (r *PgxProductPriceRepository) SupersedePendingInTx(ctx context.Context, tx pgx.Tx, scope domain.PriceScope, before time.Time, exceptPriceID string, updatedBy string, at time.Time) error {
	query := `
		UPDATE product_prices
		SET was_current = TRUE, last_updated_at = $6, last_updated_by = $7
		WHERE product_id = $1 AND currency_code = $2 AND cycle = $3
			AND price_id <> $4 AND is_current = FALSE AND was_current = FALSE
			AND effective_date <= $5;
	`

	_, err := tx.Exec(ctx, query, scope.ProductID, scope.CurrencyCode, string(scope.Cycle), exceptPriceID, before, at, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to supersede pending prices: %w", err)
	}
	return nil
}

// MarkCurrentInTx flags one row as current and as having been current.
func (r *PgxProductPriceRepository) MarkCurrentInTx(ctx context.Context, tx pgx.Tx, priceID string, updatedBy string, at time.Time) error {
	query := `
		UPDATE product_prices
		SET is_current = TRUE, was_current = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE price_id = $1;
	`

	tag, err := tx.Exec(ctx, query, priceID, at, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark price %s current: %w", priceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
