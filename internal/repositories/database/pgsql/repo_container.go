package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kazehost/pricing-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo: newPgxCurrencyRepository(dbPool),
		PriceRepo:    newPgxProductPriceRepository(dbPool),
		HistoryRepo:  newPgxPriceHistoryRepository(dbPool),
	}
}
