package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindBaseCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) UpdateCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) SetBaseCurrency(ctx context.Context, currencyCode string, updatedBy string) error {
	args := m.Called(ctx, currencyCode, updatedBy)
	return args.Error(0)
}

func (m *MockCurrencyRepository) DeleteCurrency(ctx context.Context, currencyCode string) error {
	args := m.Called(ctx, currencyCode)
	return args.Error(0)
}

func (m *MockCurrencyRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockCurrencyRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCurrencyRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ProductPriceRepository ---

type MockProductPriceRepository struct {
	mock.Mock
}

func (m *MockProductPriceRepository) FindPriceByID(ctx context.Context, priceID string) (*domain.ProductPrice, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) FindCurrentPrice(ctx context.Context, scope domain.PriceScope) (*domain.ProductPrice, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) ListPricesForProduct(ctx context.Context, productID string) ([]domain.ProductPrice, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) ListDuePending(ctx context.Context, asOf time.Time) ([]domain.ProductPrice, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) InsertPriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error {
	args := m.Called(ctx, tx, price)
	return args.Error(0)
}

func (m *MockProductPriceRepository) UpdatePriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error {
	args := m.Called(ctx, tx, price)
	return args.Error(0)
}

func (m *MockProductPriceRepository) LockScopeForUpdate(ctx context.Context, tx pgx.Tx, scope domain.PriceScope) (*domain.ProductPrice, error) {
	args := m.Called(ctx, tx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) DeactivateSiblingsInTx(ctx context.Context, tx pgx.Tx, scope domain.PriceScope, exceptPriceID string, updatedBy string, at time.Time) error {
	args := m.Called(ctx, tx, scope, exceptPriceID, updatedBy, at)
	return args.Error(0)
}

func (m *MockProductPriceRepository) SupersedePendingInTx(ctx context.Context, tx pgx.Tx, scope domain.PriceScope, before time.Time, exceptPriceID string, updatedBy string, at time.Time) error {
	args := m.Called(ctx, tx, scope, before, exceptPriceID, updatedBy, at)
	return args.Error(0)
}

func (m *MockProductPriceRepository) MarkCurrentInTx(ctx context.Context, tx pgx.Tx, priceID string, updatedBy string, at time.Time) error {
	args := m.Called(ctx, tx, priceID, updatedBy, at)
	return args.Error(0)
}

func (m *MockProductPriceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockProductPriceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProductPriceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock PriceHistoryRepository ---

type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) SaveHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.PriceHistory) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) SaveHistory(ctx context.Context, entry domain.PriceHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) ListHistoryForPrice(ctx context.Context, priceID string, limit int, nextToken *string) ([]domain.PriceHistory, *string, error) {
	args := m.Called(ctx, priceID, limit, nextToken)
	var entries []domain.PriceHistory
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.PriceHistory)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return entries, next, args.Error(2)
}

// --- Mock RateClient ---

type MockRateClient struct {
	mock.Mock
}

func (m *MockRateClient) FetchPairRate(ctx context.Context, from, to string) (*domain.PairRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PairRate), args.Error(1)
}

func (m *MockRateClient) FetchRates(ctx context.Context, base string) (map[string]float64, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

// --- Mock RateCache ---

type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Get(ctx context.Context, from, to string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRateCache) Set(ctx context.Context, snapshot domain.RateSnapshot, ttl time.Duration) error {
	args := m.Called(ctx, snapshot, ttl)
	return args.Error(0)
}

func (m *MockRateCache) Delete(ctx context.Context, from, to string) error {
	args := m.Called(ctx, from, to)
	return args.Error(0)
}

func (m *MockRateCache) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
