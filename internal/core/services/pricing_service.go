package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
	portsrepo "github.com/kazehost/pricing-backend/internal/core/ports/repositories"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/dto"
	"github.com/kazehost/pricing-backend/internal/middleware"
)

// PricingService manages versioned pricing tracks. Activation serializes on
// row locks so that at most one row per scope is ever current.
type PricingService struct {
	priceRepo    portsrepo.ProductPriceRepositoryWithTx
	historyRepo  portsrepo.PriceHistoryRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	clock        providers.Clock
}

// NewPricingService creates a new PricingService.
func NewPricingService(
	priceRepo portsrepo.ProductPriceRepositoryWithTx,
	historyRepo portsrepo.PriceHistoryRepositoryFacade,
	currencyRepo portsrepo.CurrencyReader,
	clock providers.Clock,
) *PricingService {
	return &PricingService{
		priceRepo:    priceRepo,
		historyRepo:  historyRepo,
		currencyRepo: currencyRepo,
		clock:        clock,
	}
}

var _ portssvc.PricingSvcFacade = (*PricingService)(nil)

// GetPrice retrieves a price row by ID.
func (s *PricingService) GetPrice(ctx context.Context, priceID string) (*domain.ProductPrice, error) {
	price, err := s.priceRepo.FindPriceByID(ctx, priceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: price %s", apperrors.ErrNotFound, priceID)
		}
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	return price, nil
}

// GetCurrentPrice retrieves the current row for a scope.
func (s *PricingService) GetCurrentPrice(ctx context.Context, scope domain.PriceScope) (*domain.ProductPrice, error) {
	scope.CurrencyCode = domain.NormalizeCurrencyCode(scope.CurrencyCode)
	price, err := s.priceRepo.FindCurrentPrice(ctx, scope)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no current price for product %s in %s", apperrors.ErrNotFound, scope.ProductID, scope.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to get current price: %w", err)
	}
	return price, nil
}

// ListPricesForProduct retrieves all rows for a product.
func (s *PricingService) ListPricesForProduct(ctx context.Context, productID string) ([]domain.ProductPrice, error) {
	prices, err := s.priceRepo.ListPricesForProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for product: %w", err)
	}
	if prices == nil {
		return []domain.ProductPrice{}, nil
	}
	return prices, nil
}

// ListPriceHistory retrieves audit entries for a price, newest first.
func (s *PricingService) ListPriceHistory(ctx context.Context, priceID string, limit int, nextToken *string) ([]domain.PriceHistory, *string, error) {
	entries, next, err := s.historyRepo.ListHistoryForPrice(ctx, priceID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list price history: %w", err)
	}
	if entries == nil {
		entries = []domain.PriceHistory{}
	}
	return entries, next, nil
}

// CreatePrice persists a new price row. A row whose effective date lies in the
// future is created pending regardless of MakeCurrent; a due MakeCurrent row
// supersedes its siblings inside the insert transaction. Creation itself
// writes no history entry.
func (s *PricingService) CreatePrice(ctx context.Context, req dto.CreatePriceRequest, creatorUserID string, ipAddress *string) (*domain.ProductPrice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := domain.NormalizeCurrencyCode(req.CurrencyCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s not found", apperrors.ErrValidation, code)
		}
		return nil, fmt.Errorf("failed to validate currency: %w", err)
	}
	if !currency.IsActive {
		return nil, fmt.Errorf("%w: currency %s is inactive", apperrors.ErrValidation, code)
	}

	now := s.clock.Now()
	effective := req.EffectiveDate.UTC()
	makeCurrent := req.MakeCurrent && !effective.After(now)

	price := domain.ProductPrice{
		PriceID:         uuid.NewString(),
		ProductID:       req.ProductID,
		CurrencyCode:    code,
		Cycle:           domain.BillingCycle(req.Cycle),
		RegisterPrice:   req.RegisterPrice,
		RenewalPrice:    req.RenewalPrice,
		TransferPrice:   req.TransferPrice,
		RedemptionPrice: req.RedemptionPrice,
		IsCurrent:       makeCurrent,
		WasCurrent:      makeCurrent,
		EffectiveDate:   effective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	tx, err := s.priceRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.priceRepo.Rollback(ctx, tx)
	}()

	if makeCurrent {
		// Lock the scope so a concurrent activation cannot interleave
		if _, err := s.priceRepo.LockScopeForUpdate(ctx, tx, price.Scope()); err != nil {
			return nil, fmt.Errorf("failed to lock pricing scope: %w", err)
		}
		if err := s.priceRepo.DeactivateSiblingsInTx(ctx, tx, price.Scope(), price.PriceID, creatorUserID, now); err != nil {
			return nil, fmt.Errorf("failed to deactivate sibling prices: %w", err)
		}
		// Older due pendings the new row overtakes would otherwise win the
		// next sweep over it.
		if err := s.priceRepo.SupersedePendingInTx(ctx, tx, price.Scope(), effective, price.PriceID, creatorUserID, now); err != nil {
			return nil, fmt.Errorf("failed to supersede pending prices: %w", err)
		}
	}

	if err := s.priceRepo.InsertPriceInTx(ctx, tx, price); err != nil {
		logger.Error("Failed to insert price", slog.String("error", err.Error()), slog.String("product_id", req.ProductID))
		return nil, fmt.Errorf("failed to create price: %w", err)
	}

	if err := s.priceRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit price creation: %w", err)
	}

	logger.Info("Price created",
		slog.String("price_id", price.PriceID),
		slog.String("product_id", price.ProductID),
		slog.String("currency_code", price.CurrencyCode),
		slog.Bool("is_current", price.IsCurrent),
	)
	return &price, nil
}

// UpdatePrice applies partial updates. Monetary changes to a row that has been
// activated before are recorded in the price history; pending-only rows can be
// corrected silently. MakeCurrent promotes the row when its effective date is due.
func (s *PricingService) UpdatePrice(ctx context.Context, priceID string, req dto.UpdatePriceRequest, change portssvc.PriceChangeContext) (*domain.ProductPrice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	before, err := s.priceRepo.FindPriceByID(ctx, priceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: price %s", apperrors.ErrNotFound, priceID)
		}
		return nil, fmt.Errorf("failed to get price for update: %w", err)
	}

	now := s.clock.Now()
	after := *before

	if req.RegisterPrice != nil {
		after.RegisterPrice = *req.RegisterPrice
	}
	if req.RenewalPrice != nil {
		after.RenewalPrice = *req.RenewalPrice
	}
	if req.TransferPrice != nil {
		after.TransferPrice = *req.TransferPrice
	}
	if req.RedemptionPrice != nil {
		after.RedemptionPrice = *req.RedemptionPrice
	}
	if req.EffectiveDate != nil {
		after.EffectiveDate = req.EffectiveDate.UTC()
		// Pushing the effective date into the future demotes a current row
		if after.IsCurrent && after.EffectiveDate.After(now) {
			after.IsCurrent = false
		}
	}

	after.LastUpdatedAt = now
	if change.ChangedBy != nil {
		after.LastUpdatedBy = *change.ChangedBy
	}

	oldValues, changes := domain.DiffMonetaryFields(*before, after)

	tx, err := s.priceRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.priceRepo.Rollback(ctx, tx)
	}()

	if err := s.priceRepo.UpdatePriceInTx(ctx, tx, after); err != nil {
		logger.Error("Failed to update price", slog.String("error", err.Error()), slog.String("price_id", priceID))
		return nil, fmt.Errorf("failed to update price: %w", err)
	}

	// Dirty monetary fields on a previously-activated row are audit-relevant
	if len(changes) > 0 && before.WasCurrent {
		entry := domain.PriceHistory{
			HistoryID: uuid.NewString(),
			PriceID:   priceID,
			OldValues: oldValues,
			Changes:   changes,
			ChangedBy: change.ChangedBy,
			Reason:    change.Reason,
			IPAddress: change.IPAddress,
			CreatedAt: now,
		}
		if err := s.historyRepo.SaveHistoryInTx(ctx, tx, entry); err != nil {
			return nil, fmt.Errorf("failed to record price history: %w", err)
		}
	}

	if err := s.priceRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit price update: %w", err)
	}

	if req.MakeCurrent != nil && *req.MakeCurrent && !after.IsCurrent && !after.EffectiveDate.After(now) {
		if err := s.ActivatePrice(ctx, priceID, change); err != nil {
			return nil, err
		}
		return s.GetPrice(ctx, priceID)
	}

	logger.Info("Price updated", slog.String("price_id", priceID), slog.Int("changed_fields", len(changes)))
	return &after, nil
}

// ActivatePrice promotes a row to current. The whole protocol runs in one
// transaction: lock the scope, clear sibling flags, flip the target, write one
// history entry. Activating an already-current row is a no-op.
func (s *PricingService) ActivatePrice(ctx context.Context, priceID string, change portssvc.PriceChangeContext) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	target, err := s.priceRepo.FindPriceByID(ctx, priceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: price %s", apperrors.ErrNotFound, priceID)
		}
		return fmt.Errorf("failed to get price for activation: %w", err)
	}

	now := s.clock.Now()
	if target.EffectiveDate.After(now) {
		return fmt.Errorf("%w: price %s is not effective until %s", apperrors.ErrValidation, priceID, target.EffectiveDate.Format(time.RFC3339))
	}

	updatedBy := ""
	if change.ChangedBy != nil {
		updatedBy = *change.ChangedBy
	}

	tx, err := s.priceRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.priceRepo.Rollback(ctx, tx)
	}()

	// Serialize concurrent activations for the scope on the row locks
	previous, err := s.priceRepo.LockScopeForUpdate(ctx, tx, target.Scope())
	if err != nil {
		return fmt.Errorf("failed to lock pricing scope: %w", err)
	}

	if previous != nil && previous.PriceID == priceID {
		// Already current; idempotent success
		if err := s.priceRepo.Commit(ctx, tx); err != nil {
			return fmt.Errorf("failed to commit activation: %w", err)
		}
		return nil
	}

	if err := s.priceRepo.DeactivateSiblingsInTx(ctx, tx, target.Scope(), priceID, updatedBy, now); err != nil {
		return fmt.Errorf("failed to deactivate sibling prices: %w", err)
	}
	if err := s.priceRepo.MarkCurrentInTx(ctx, tx, priceID, updatedBy, now); err != nil {
		return fmt.Errorf("failed to mark price current: %w", err)
	}
	// Pending rows the activated row overtakes are retired here, inside the
	// same transaction. Left pending, the older row would be the only due row
	// for its scope on the next sweep and would supersede this newer price.
	if err := s.priceRepo.SupersedePendingInTx(ctx, tx, target.Scope(), target.EffectiveDate, priceID, updatedBy, now); err != nil {
		return fmt.Errorf("failed to supersede pending prices: %w", err)
	}

	// The history entry records what the customer-visible prices changed from
	oldValues := map[string]int64{}
	changes := target.MonetaryFields()
	if previous != nil {
		oldValues, changes = domain.DiffMonetaryFields(*previous, *target)
	}

	entry := domain.PriceHistory{
		HistoryID: uuid.NewString(),
		PriceID:   priceID,
		OldValues: oldValues,
		Changes:   changes,
		ChangedBy: change.ChangedBy,
		Reason:    change.Reason,
		IPAddress: change.IPAddress,
		CreatedAt: now,
	}
	if err := s.historyRepo.SaveHistoryInTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to record activation history: %w", err)
	}

	if err := s.priceRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit activation: %w", err)
	}

	logger.Info("Price activated",
		slog.String("price_id", priceID),
		slog.String("product_id", target.ProductID),
		slog.String("currency_code", target.CurrencyCode),
	)
	return nil
}

// SweepDueActivations activates every pending row whose effective date is on
// or before asOf. When several rows in one scope are due, only the one with
// the latest effective date is promoted. A failing scope is logged and skipped
// so one bad row cannot stall the rest of the sweep.
func (s *PricingService) SweepDueActivations(ctx context.Context, asOf time.Time) (int, int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	due, err := s.priceRepo.ListDuePending(ctx, asOf)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list due pending prices: %w", err)
	}

	reason := domain.ActivationReasonScheduled
	change := portssvc.PriceChangeContext{Reason: &reason}

	var activated, failed int
	seen := map[domain.PriceScope]bool{}
	for _, price := range due {
		scope := price.Scope()
		if seen[scope] {
			continue // an earlier (later-effective) row already won this scope
		}
		seen[scope] = true

		if err := s.ActivatePrice(ctx, price.PriceID, change); err != nil {
			failed++
			logger.Error("Scheduled activation failed",
				slog.String("error", err.Error()),
				slog.String("price_id", price.PriceID),
				slog.String("product_id", price.ProductID),
			)
			continue
		}
		activated++
	}

	if activated > 0 || failed > 0 {
		logger.Info("Activation sweep completed",
			slog.Int("activated", activated),
			slog.Int("failed", failed),
			slog.Time("as_of", asOf),
		)
	}
	return activated, failed, nil
}
