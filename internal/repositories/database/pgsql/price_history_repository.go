package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portsrepo "github.com/kazehost/pricing-backend/internal/core/ports/repositories"
	"github.com/kazehost/pricing-backend/internal/models"
	"github.com/kazehost/pricing-backend/internal/utils/mapping"
	"github.com/kazehost/pricing-backend/internal/utils/pagination"
)

const priceHistoryColumns = `history_id, price_id, old_values, changes, changed_by, reason, ip_address, created_at`

type PgxPriceHistoryRepository struct {
	BaseRepository
}

// newPgxPriceHistoryRepository creates a new repository for the append-only audit log.
func newPgxPriceHistoryRepository(pool *pgxpool.Pool) portsrepo.PriceHistoryRepositoryFacade {
	return &PgxPriceHistoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PriceHistoryRepositoryFacade = (*PgxPriceHistoryRepository)(nil)

func scanPriceHistory(row pgx.CollectableRow) (models.PriceHistory, error) {
	var entry models.PriceHistory
	var oldValuesRaw, changesRaw []byte
	err := row.Scan(
		&entry.HistoryID,
		&entry.PriceID,
		&oldValuesRaw,
		&changesRaw,
		&entry.ChangedBy,
		&entry.Reason,
		&entry.IPAddress,
		&entry.CreatedAt,
	)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(oldValuesRaw, &entry.OldValues); err != nil {
		return entry, fmt.Errorf("failed to decode old_values for history %s: %w", entry.HistoryID, err)
	}
	if err := json.Unmarshal(changesRaw, &entry.Changes); err != nil {
		return entry, fmt.Errorf("failed to decode changes for history %s: %w", entry.HistoryID, err)
	}
	return entry, nil
}

func (r *PgxPriceHistoryRepository) insertHistory(ctx context.Context, exec func(ctx context.Context, sql string, args ...any) error, entry domain.PriceHistory) error {
	modelEntry := mapping.ToModelPriceHistory(entry)

	oldValuesRaw, err := json.Marshal(modelEntry.OldValues)
	if err != nil {
		return fmt.Errorf("failed to encode old_values: %w", err)
	}
	changesRaw, err := json.Marshal(modelEntry.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes: %w", err)
	}

	query := `
		INSERT INTO price_histories (` + priceHistoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	return exec(ctx, query,
		modelEntry.HistoryID,
		modelEntry.PriceID,
		oldValuesRaw,
		changesRaw,
		modelEntry.ChangedBy,
		modelEntry.Reason,
		modelEntry.IPAddress,
		modelEntry.CreatedAt,
	)
}

// SaveHistoryInTx appends a history entry within the given transaction.
func (r *PgxPriceHistoryRepository) SaveHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.PriceHistory) error {
	return r.insertHistory(ctx, func(ctx context.Context, sql string, args ...any) error {
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to save price history %s: %w", entry.HistoryID, err)
		}
		return nil
	}, entry)
}

// SaveHistory appends a history entry outside any caller transaction.
func (r *PgxPriceHistoryRepository) SaveHistory(ctx context.Context, entry domain.PriceHistory) error {
	return r.insertHistory(ctx, func(ctx context.Context, sql string, args ...any) error {
		if _, err := r.Pool.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to save price history %s: %w", entry.HistoryID, err)
		}
		return nil
	}, entry)
}

// ListHistoryForPrice retrieves entries newest first with keyset pagination on
// created_at. nextToken is nil on the last page.
func (r *PgxPriceHistoryRepository) ListHistoryForPrice(ctx context.Context, priceID string, limit int, nextToken *string) ([]domain.PriceHistory, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + priceHistoryColumns + ` FROM price_histories WHERE price_id = $1`
	args := []any{priceID}

	if nextToken != nil && *nextToken != "" {
		before, err := pagination.DecodeCreatedAtToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND created_at < $2`
		args = append(args, before)
	}

	// Fetch one extra row to know whether another page exists
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query price history for %s: %w", priceID, err)
	}

	modelEntries, err := pgx.CollectRows(rows, scanPriceHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to collect price history for %s: %w", priceID, err)
	}

	var next *string
	if len(modelEntries) > limit {
		modelEntries = modelEntries[:limit]
		token := pagination.EncodeCreatedAtToken(modelEntries[limit-1].CreatedAt)
		next = &token
	}

	return mapping.ToDomainPriceHistorySlice(modelEntries), next, nil
}
