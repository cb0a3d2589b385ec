package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portsrepo "github.com/kazehost/pricing-backend/internal/core/ports/repositories"
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/dto"
	"github.com/kazehost/pricing-backend/internal/middleware"
)

const defaultDecimalPlaces = 2

// CurrencyService provides business logic for the currency registry.
type CurrencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryWithTx
	clock        providers.Clock
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryWithTx, clock providers.Clock) *CurrencyService {
	return &CurrencyService{
		currencyRepo: currencyRepo,
		clock:        clock,
	}
}

var _ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)

// CreateCurrency handles the creation of a new currency.
func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := domain.NormalizeCurrencyCode(req.CurrencyCode)
	if !domain.IsValidCurrencyCode(code) {
		return nil, fmt.Errorf("%w: currency code %q is not a valid ISO 4217 code", apperrors.ErrValidation, req.CurrencyCode)
	}

	existing, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency existence: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, code)
	}

	symbolPosition := domain.SymbolBefore
	if req.SymbolPosition == string(domain.SymbolAfter) {
		symbolPosition = domain.SymbolAfter
	}

	decimalPlaces := defaultDecimalPlaces
	if req.DecimalPlaces != nil {
		decimalPlaces = *req.DecimalPlaces
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.clock.Now()
	currency := domain.Currency{
		CurrencyCode:   code,
		Name:           strings.TrimSpace(req.Name),
		Symbol:         req.Symbol,
		SymbolPosition: symbolPosition,
		DecimalPlaces:  decimalPlaces,
		IsBase:         false, // base designation moves only via SetBaseCurrency
		IsActive:       isActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		logger.Error("Failed to save currency", slog.String("error", err.Error()), slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	logger.Info("Currency created", slog.String("currency_code", code), slog.String("created_by", creatorUserID))
	return &currency, nil
}

// GetCurrencyByCode retrieves a currency, resolving aliases first.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code := domain.NormalizeCurrencyCode(currencyCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to get currency by code: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// ListActiveCurrencies retrieves active currencies, base first, then alphabetical.
func (s *CurrencyService) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListActiveCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// GetBaseCurrency retrieves the single base currency. Anything other than
// exactly one base row is a configuration error.
func (s *CurrencyService) GetBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	bases, err := s.currencyRepo.FindBaseCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find base currency: %w", err)
	}
	if len(bases) != 1 {
		middleware.GetLoggerFromCtx(ctx).Error("Base currency misconfigured", slog.Int("base_count", len(bases)))
		return nil, fmt.Errorf("registry misconfigured: expected exactly 1 base currency, found %d", len(bases))
	}
	return &bases[0], nil
}

// UpdateCurrency applies partial updates to an existing currency. Deactivating
// the base currency is rejected.
func (s *CurrencyService) UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest, updaterUserID string) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := domain.NormalizeCurrencyCode(currencyCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to get currency for update: %w", err)
	}

	if req.Name != nil {
		currency.Name = strings.TrimSpace(*req.Name)
	}
	if req.Symbol != nil {
		currency.Symbol = *req.Symbol
	}
	if req.SymbolPosition != nil {
		currency.SymbolPosition = domain.SymbolPosition(*req.SymbolPosition)
	}
	if req.DecimalPlaces != nil {
		currency.DecimalPlaces = *req.DecimalPlaces
	}
	if req.IsActive != nil {
		if currency.IsBase && !*req.IsActive {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrBaseCurrencyProtected, code)
		}
		currency.IsActive = *req.IsActive
	}

	currency.LastUpdatedAt = s.clock.Now()
	currency.LastUpdatedBy = updaterUserID

	if err := s.currencyRepo.UpdateCurrency(ctx, *currency); err != nil {
		logger.Error("Failed to update currency", slog.String("error", err.Error()), slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to update currency: %w", err)
	}

	logger.Info("Currency updated", slog.String("currency_code", code), slog.String("updated_by", updaterUserID))
	return currency, nil
}

// SetBaseCurrency atomically moves the base designation to the given code. The
// target must exist and be active; the repository unsets the prior base and
// flags the new one in a single transaction.
func (s *CurrencyService) SetBaseCurrency(ctx context.Context, currencyCode string, updaterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := domain.NormalizeCurrencyCode(currencyCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
		}
		return fmt.Errorf("failed to get currency for base change: %w", err)
	}
	if !currency.IsActive {
		return fmt.Errorf("%w: cannot make inactive currency %s the base", apperrors.ErrValidation, code)
	}
	if currency.IsBase {
		return nil // already base, nothing to do
	}

	if err := s.currencyRepo.SetBaseCurrency(ctx, code, updaterUserID); err != nil {
		logger.Error("Failed to set base currency", slog.String("error", err.Error()), slog.String("currency_code", code))
		return fmt.Errorf("failed to set base currency: %w", err)
	}

	logger.Info("Base currency changed", slog.String("currency_code", code), slog.String("updated_by", updaterUserID))
	return nil
}

// DeleteCurrency removes a currency. The base currency is protected.
func (s *CurrencyService) DeleteCurrency(ctx context.Context, currencyCode string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := domain.NormalizeCurrencyCode(currencyCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
		}
		return fmt.Errorf("failed to get currency for delete: %w", err)
	}
	if currency.IsBase {
		return fmt.Errorf("%w: %s", apperrors.ErrBaseCurrencyProtected, code)
	}

	if err := s.currencyRepo.DeleteCurrency(ctx, code); err != nil {
		logger.Error("Failed to delete currency", slog.String("error", err.Error()), slog.String("currency_code", code))
		return fmt.Errorf("failed to delete currency: %w", err)
	}

	logger.Info("Currency deleted", slog.String("currency_code", code))
	return nil
}
