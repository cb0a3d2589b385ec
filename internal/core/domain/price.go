package domain

import (
	"fmt"
	"math"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// minorUnitsPerMajor fixes prices at two implied decimal places in storage,
// regardless of how the currency is displayed. Zero-decimal currencies are a
// formatting concern, not a storage one.
const minorUnitsPerMajor = 100

// Price is an immutable monetary amount in integer minor units tied to a
// currency code. The code is normalized through the alias table on
// construction; RawCurrency preserves what the caller supplied.
type Price struct {
	amountMinor int64
	rawCurrency string
	currency    string // normalized ISO code
}

// NewPriceFromMinorUnits creates a Price from minor units (e.g., cents).
func NewPriceFromMinorUnits(amount int64, currency string) (Price, error) {
	if amount < 0 {
		return Price{}, fmt.Errorf("%w: amount cannot be negative", apperrors.ErrInvalidAmount)
	}
	normalized := NormalizeCurrencyCode(currency)
	if !currencyCodePattern.MatchString(normalized) {
		return Price{}, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrUnsupportedCurrency, currency)
	}
	return Price{amountMinor: amount, rawCurrency: currency, currency: normalized}, nil
}

// NewPriceFromMajorUnits creates a Price from major units (e.g., dollars),
// rounding to the nearest minor unit.
func NewPriceFromMajorUnits(amount float64, currency string) (Price, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Price{}, fmt.Errorf("%w: amount must be finite", apperrors.ErrInvalidAmount)
	}
	if amount < 0 {
		return Price{}, fmt.Errorf("%w: amount cannot be negative", apperrors.ErrInvalidAmount)
	}
	minor := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(minorUnitsPerMajor)).Round(0).IntPart()
	return NewPriceFromMinorUnits(minor, currency)
}

// ZeroPrice creates a zero-value Price in the given currency.
func ZeroPrice(currency string) (Price, error) {
	return NewPriceFromMinorUnits(0, currency)
}

// AmountMinorUnits returns the amount in minor units.
func (p Price) AmountMinorUnits() int64 {
	return p.amountMinor
}

// ToMajorUnits returns the amount in major units.
func (p Price) ToMajorUnits() float64 {
	return float64(p.amountMinor) / minorUnitsPerMajor
}

// Currency returns the normalized ISO currency code.
func (p Price) Currency() string {
	return p.currency
}

// RawCurrency returns the currency code exactly as it was supplied.
func (p Price) RawCurrency() string {
	return p.rawCurrency
}

// Add returns the sum of two prices in the same currency.
func (p Price) Add(other Price) (Price, error) {
	if p.currency != other.currency {
		return Price{}, fmt.Errorf("%w: cannot add %s and %s", apperrors.ErrCurrencyMismatch, p.currency, other.currency)
	}
	return Price{amountMinor: p.amountMinor + other.amountMinor, rawCurrency: p.rawCurrency, currency: p.currency}, nil
}

// Subtract returns the difference of two prices in the same currency. The
// result must not go below zero.
func (p Price) Subtract(other Price) (Price, error) {
	if p.currency != other.currency {
		return Price{}, fmt.Errorf("%w: cannot subtract %s from %s", apperrors.ErrCurrencyMismatch, other.currency, p.currency)
	}
	result := p.amountMinor - other.amountMinor
	if result < 0 {
		return Price{}, fmt.Errorf("%w: %d - %d", apperrors.ErrNegativeResult, p.amountMinor, other.amountMinor)
	}
	return Price{amountMinor: result, rawCurrency: p.rawCurrency, currency: p.currency}, nil
}

// Multiply scales the price by a non-negative factor, rounding half-up to the
// nearest minor unit.
func (p Price) Multiply(factor float64) (Price, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return Price{}, fmt.Errorf("%w: %v", apperrors.ErrNegativeFactor, factor)
	}
	scaled := decimal.NewFromInt(p.amountMinor).Mul(decimal.NewFromFloat(factor)).Round(0).IntPart()
	return Price{amountMinor: scaled, rawCurrency: p.rawCurrency, currency: p.currency}, nil
}

// Equals reports whether two prices have the same amount and normalized
// currency. Unlike ordered comparisons, a cross-currency Equals is simply
// false, not an error.
func (p Price) Equals(other Price) bool {
	return p.amountMinor == other.amountMinor && p.currency == other.currency
}

// IsGreaterThan compares two prices in the same currency.
func (p Price) IsGreaterThan(other Price) (bool, error) {
	if p.currency != other.currency {
		return false, fmt.Errorf("%w: cannot compare %s and %s", apperrors.ErrCurrencyMismatch, p.currency, other.currency)
	}
	return p.amountMinor > other.amountMinor, nil
}

// IsLessThan compares two prices in the same currency.
func (p Price) IsLessThan(other Price) (bool, error) {
	if p.currency != other.currency {
		return false, fmt.Errorf("%w: cannot compare %s and %s", apperrors.ErrCurrencyMismatch, p.currency, other.currency)
	}
	return p.amountMinor < other.amountMinor, nil
}

// IsZero reports whether the amount is zero.
func (p Price) IsZero() bool {
	return p.amountMinor == 0
}

// String renders the price for logs and debugging. Display formatting belongs
// to the converter service, which knows the registry's symbols and decimals.
func (p Price) String() string {
	return fmt.Sprintf("%s %s", decimal.NewFromInt(p.amountMinor).Div(decimal.NewFromInt(minorUnitsPerMajor)).StringFixed(2), p.currency)
}
