package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/dto"
	"github.com/kazehost/pricing-backend/internal/middleware"
)

// ConverterService is the customer-facing conversion and formatting facade. It
// resolves the viewer's currency, converts amounts through the rate provider
// and renders them per the registry's symbol and decimal rules.
type ConverterService struct {
	rates             portssvc.RateProviderSvc
	currencies        portssvc.CurrencyReaderSvc
	pricing           portssvc.PricingReaderSvc
	countryCurrencies map[string]string
}

// NewConverterService creates a new ConverterService. countryCurrencies maps
// ISO country codes to currency codes for the geolocation resolution step.
func NewConverterService(
	rates portssvc.RateProviderSvc,
	currencies portssvc.CurrencyReaderSvc,
	pricing portssvc.PricingReaderSvc,
	countryCurrencies map[string]string,
) *ConverterService {
	return &ConverterService{
		rates:             rates,
		currencies:        currencies,
		pricing:           pricing,
		countryCurrencies: countryCurrencies,
	}
}

var _ portssvc.ConverterSvc = (*ConverterService)(nil)

// Convert translates an amount between currencies. Identity conversions bypass
// the rate provider entirely.
func (s *ConverterService) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	result, err := s.ConvertDetailed(ctx, amount, from, to)
	if err != nil {
		return 0, err
	}
	return result.Amount, nil
}

// ConvertDetailed is Convert plus the fallback marker.
func (s *ConverterService) ConvertDetailed(ctx context.Context, amount float64, from, to string) (*dto.ConversionResult, error) {
	from = domain.NormalizeCurrencyCode(from)
	to = domain.NormalizeCurrencyCode(to)

	if from == to {
		return &dto.ConversionResult{Amount: amount, CurrencyCode: to}, nil
	}

	snapshot, err := s.rates.GetRateSnapshot(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to %s: %w", from, to, err)
	}

	converted, _ := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(snapshot.Rate)).Float64()
	return &dto.ConversionResult{
		Amount:       converted,
		CurrencyCode: to,
		IsFallback:   snapshot.IsFallback,
	}, nil
}

// ConvertPrice translates a Price value into another currency.
func (s *ConverterService) ConvertPrice(ctx context.Context, price domain.Price, to string) (domain.Price, error) {
	result, err := s.ConvertDetailed(ctx, price.ToMajorUnits(), price.Currency(), to)
	if err != nil {
		return domain.Price{}, err
	}
	return domain.NewPriceFromMajorUnits(result.Amount, result.CurrencyCode)
}

// Format renders an amount with the currency's symbol, position and decimal
// places. Whole amounts in decimal currencies drop the trailing zeros;
// zero-decimal currencies never show a decimal point.
func (s *ConverterService) Format(ctx context.Context, amount float64, currencyCode string) (string, error) {
	currency, err := s.currencies.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return "", err
	}

	number := formatNumber(amount, currency.DecimalPlaces)
	if currency.SymbolPosition == domain.SymbolAfter {
		return number + " " + currency.Symbol, nil
	}
	return currency.Symbol + number, nil
}

// FormatPrice renders a Price value.
func (s *ConverterService) FormatPrice(ctx context.Context, price domain.Price) (string, error) {
	return s.Format(ctx, price.ToMajorUnits(), price.Currency())
}

// GetUserCurrency resolves a viewer's effective currency. Resolution order:
// explicit request override, session selection, saved user preference, country
// geolocation, and finally the base currency. A candidate that is unknown or
// inactive falls through to the next source.
func (s *ConverterService) GetUserCurrency(ctx context.Context, prefs dto.CurrencyPreferences) (*domain.Currency, error) {
	candidates := []string{prefs.RequestedCode, prefs.SessionCode, prefs.PreferredCode}
	if prefs.CountryCode != "" {
		if code, ok := s.countryCurrencies[strings.ToUpper(prefs.CountryCode)]; ok {
			candidates = append(candidates, code)
		}
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		currency, err := s.currencies.GetCurrencyByCode(ctx, domain.NormalizeCurrencyCode(candidate))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if currency.IsActive {
			return currency, nil
		}
	}

	return s.currencies.GetBaseCurrency(ctx)
}

// GetDisplayPrice returns the named monetary field of a product's current
// price in the viewer's currency. When no row exists for that currency the
// base currency's row is converted instead.
func (s *ConverterService) GetDisplayPrice(ctx context.Context, productID string, cycle domain.BillingCycle, field string, prefs dto.CurrencyPreferences) (*dto.DisplayPrice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	viewer, err := s.GetUserCurrency(ctx, prefs)
	if err != nil {
		return nil, err
	}

	price, err := s.pricing.GetCurrentPrice(ctx, domain.PriceScope{
		ProductID:    productID,
		CurrencyCode: viewer.CurrencyCode,
		Cycle:        cycle,
	})
	if err == nil {
		return s.displayFromRow(ctx, price, field, viewer.CurrencyCode, false)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// No native row for the viewer's currency; convert from the base row
	base, err := s.currencies.GetBaseCurrency(ctx)
	if err != nil {
		return nil, err
	}
	if base.CurrencyCode == viewer.CurrencyCode {
		return nil, fmt.Errorf("%w: no current price for product %s", apperrors.ErrNotFound, productID)
	}

	basePrice, err := s.pricing.GetCurrentPrice(ctx, domain.PriceScope{
		ProductID:    productID,
		CurrencyCode: base.CurrencyCode,
		Cycle:        cycle,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Converting base price for display",
		"product_id", productID,
		"viewer_currency", viewer.CurrencyCode,
	)
	return s.displayFromRow(ctx, basePrice, field, viewer.CurrencyCode, true)
}

// displayFromRow picks one monetary field, converts it if needed and formats.
func (s *ConverterService) displayFromRow(ctx context.Context, price *domain.ProductPrice, field, targetCurrency string, convert bool) (*dto.DisplayPrice, error) {
	minor, ok := price.MonetaryFields()[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown price field %q", apperrors.ErrValidation, field)
	}

	rowPrice, err := domain.NewPriceFromMinorUnits(minor, price.CurrencyCode)
	if err != nil {
		return nil, err
	}

	major := rowPrice.ToMajorUnits()
	isFallback := false

	if convert {
		result, err := s.ConvertDetailed(ctx, major, price.CurrencyCode, targetCurrency)
		if err != nil {
			return nil, err
		}
		major = result.Amount
		isFallback = result.IsFallback
	}

	formatted, err := s.Format(ctx, major, targetCurrency)
	if err != nil {
		return nil, err
	}

	// Round-trip through the Price value so minor-unit math stays in one place.
	outPrice, err := domain.NewPriceFromMajorUnits(major, targetCurrency)
	if err != nil {
		return nil, err
	}
	return &dto.DisplayPrice{
		Amount:       major,
		AmountMinor:  outPrice.AmountMinorUnits(),
		CurrencyCode: targetCurrency,
		Formatted:    formatted,
		IsFallback:   isFallback,
	}, nil
}

// formatNumber renders an amount with thousands separators. Decimal-currency
// amounts that come out whole drop the ".00" suffix.
func formatNumber(amount float64, decimalPlaces int) string {
	d := decimal.NewFromFloat(amount).Round(int32(decimalPlaces))

	if decimalPlaces > 0 && d.Equal(d.Round(0)) {
		decimalPlaces = 0
		d = d.Round(0)
	}

	fixed := d.StringFixed(int32(decimalPlaces))

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	fracPart := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(fracPart)
	return b.String()
}
