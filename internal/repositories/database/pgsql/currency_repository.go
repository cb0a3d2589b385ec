package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portsrepo "github.com/kazehost/pricing-backend/internal/core/ports/repositories"
	"github.com/kazehost/pricing-backend/internal/models"
	"github.com/kazehost/pricing-backend/internal/utils/mapping"
)

const currencyColumns = `currency_code, name, symbol, symbol_position, decimal_places, is_base, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

func scanCurrency(row pgx.CollectableRow) (models.Currency, error) {
	var currency models.Currency
	err := row.Scan(
		&currency.CurrencyCode,
		&currency.Name,
		&currency.Symbol,
		&currency.SymbolPosition,
		&currency.DecimalPlaces,
		&currency.IsBase,
		&currency.IsActive,
		&currency.CreatedAt,
		&currency.CreatedBy,
		&currency.LastUpdatedAt,
		&currency.LastUpdatedBy,
	)
	return currency, err
}

// SaveCurrency inserts a currency, upserting the mutable attributes when the
// code already exists (used by seeding).
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	modelCurr := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (currency_code) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			symbol_position = EXCLUDED.symbol_position,
			decimal_places = EXCLUDED.decimal_places,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`

	_, err := r.Pool.Exec(ctx, query,
		modelCurr.CurrencyCode,
		modelCurr.Name,
		modelCurr.Symbol,
		modelCurr.SymbolPosition,
		modelCurr.DecimalPlaces,
		modelCurr.IsBase,
		modelCurr.IsActive,
		modelCurr.CreatedAt,
		modelCurr.CreatedBy,
		modelCurr.LastUpdatedAt,
		modelCurr.LastUpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", modelCurr.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1;`

	rows, err := r.Pool.Query(ctx, query, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency %s: %w", currencyCode, err)
	}

	modelCurr, err := pgx.CollectOneRow(rows, scanCurrency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}

	domainCurr := mapping.ToDomainCurrency(modelCurr)
	return &domainCurr, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY currency_code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}

	modelCurrencies, err := pgx.CollectRows(rows, scanCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to collect currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// ListActiveCurrencies retrieves active currencies, base first, then alphabetical.
func (r *PgxCurrencyRepository) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE is_active = TRUE
		ORDER BY is_base DESC, currency_code;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active currencies: %w", err)
	}

	modelCurrencies, err := pgx.CollectRows(rows, scanCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to collect active currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// FindBaseCurrencies retrieves every row flagged as base.
func (r *PgxCurrencyRepository) FindBaseCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE is_base = TRUE;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query base currencies: %w", err)
	}

	modelCurrencies, err := pgx.CollectRows(rows, scanCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to collect base currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// UpdateCurrency persists changes to an existing currency.
func (r *PgxCurrencyRepository) UpdateCurrency(ctx context.Context, currency domain.Currency) error {
	modelCurr := mapping.ToModelCurrency(currency)

	query := `
		UPDATE currencies
		SET name = $2,
			symbol = $3,
			symbol_position = $4,
			decimal_places = $5,
			is_active = $6,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE currency_code = $1;
	`

	tag, err := r.Pool.Exec(ctx, query,
		modelCurr.CurrencyCode,
		modelCurr.Name,
		modelCurr.Symbol,
		modelCurr.SymbolPosition,
		modelCurr.DecimalPlaces,
		modelCurr.IsActive,
		modelCurr.LastUpdatedAt,
		modelCurr.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update currency %s: %w", modelCurr.CurrencyCode, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetBaseCurrency atomically moves the base designation: unset the prior base
// and flag the target within one transaction.
func (r *PgxCurrencyRepository) SetBaseCurrency(ctx context.Context, currencyCode string, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	unset := `
		UPDATE currencies
		SET is_base = FALSE, last_updated_at = NOW(), last_updated_by = $1
		WHERE is_base = TRUE AND currency_code <> $2;
	`
	if _, err := tx.Exec(ctx, unset, updatedBy, currencyCode); err != nil {
		return fmt.Errorf("failed to unset prior base currency: %w", err)
	}

	set := `
		UPDATE currencies
		SET is_base = TRUE, is_active = TRUE, last_updated_at = NOW(), last_updated_by = $1
		WHERE currency_code = $2;
	`
	tag, err := tx.Exec(ctx, set, updatedBy, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to set base currency %s: %w", currencyCode, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// DeleteCurrency removes a currency row.
func (r *PgxCurrencyRepository) DeleteCurrency(ctx context.Context, currencyCode string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM currencies WHERE currency_code = $1;`, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to delete currency %s: %w", currencyCode, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
