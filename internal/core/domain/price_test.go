package domain_test

import (
	"testing"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_FromMajorUnits_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
	}{
		{"whole dollars", 100.0},
		{"with cents", 10.50},
		{"zero", 0.0},
		{"single cent", 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := domain.NewPriceFromMajorUnits(tt.amount, "USD")
			require.NoError(t, err)
			assert.Equal(t, tt.amount, p.ToMajorUnits())
		})
	}
}

func TestPrice_RejectsInvalidAmounts(t *testing.T) {
	_, err := domain.NewPriceFromMajorUnits(-1.0, "USD")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = domain.NewPriceFromMinorUnits(-1, "USD")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = domain.NewPriceFromMinorUnits(100, "US")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCurrency)

	_, err = domain.NewPriceFromMinorUnits(100, "1SD")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCurrency)
}

func TestPrice_NormalizesLegacyCode(t *testing.T) {
	p, err := domain.NewPriceFromMajorUnits(100, "FRW")
	require.NoError(t, err)

	assert.Equal(t, "RWF", p.Currency())
	assert.Equal(t, "FRW", p.RawCurrency())
}

func TestPrice_Add(t *testing.T) {
	a, _ := domain.NewPriceFromMajorUnits(10.50, "USD")
	b, _ := domain.NewPriceFromMajorUnits(4.50, "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), sum.AmountMinorUnits())

	eur, _ := domain.NewPriceFromMajorUnits(1, "EUR")
	_, err = a.Add(eur)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestPrice_AddAcrossAlias(t *testing.T) {
	// FRW normalizes to RWF, so the two are the same currency.
	frw, _ := domain.NewPriceFromMajorUnits(100, "FRW")
	rwf, _ := domain.NewPriceFromMajorUnits(50, "RWF")

	sum, err := frw.Add(rwf)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), sum.AmountMinorUnits())
	assert.Equal(t, "RWF", sum.Currency())
}

func TestPrice_Subtract(t *testing.T) {
	a, _ := domain.NewPriceFromMajorUnits(100, "USD")
	b, _ := domain.NewPriceFromMajorUnits(40, "USD")

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, 60.0, diff.ToMajorUnits())
}

func TestPrice_Subtract_NegativeResult(t *testing.T) {
	small, _ := domain.NewPriceFromMajorUnits(50, "USD")
	large, _ := domain.NewPriceFromMajorUnits(100, "USD")

	_, err := small.Subtract(large)
	assert.ErrorIs(t, err, apperrors.ErrNegativeResult)
	// The operand is unchanged by the failed operation.
	assert.Equal(t, int64(5000), small.AmountMinorUnits())
}

func TestPrice_Multiply(t *testing.T) {
	p, _ := domain.NewPriceFromMajorUnits(10.50, "USD")

	doubled, err := p.Multiply(2)
	require.NoError(t, err)
	assert.Equal(t, 21.0, doubled.ToMajorUnits())

	// Rounds half-up to the nearest minor unit: 1050 * 0.333 = 349.65 -> 350.
	third, err := p.Multiply(0.333)
	require.NoError(t, err)
	assert.Equal(t, int64(350), third.AmountMinorUnits())

	_, err = p.Multiply(-1)
	assert.ErrorIs(t, err, apperrors.ErrNegativeFactor)
}

func TestPrice_Comparisons(t *testing.T) {
	a, _ := domain.NewPriceFromMajorUnits(10, "USD")
	b, _ := domain.NewPriceFromMajorUnits(20, "USD")
	c, _ := domain.NewPriceFromMajorUnits(10, "EUR")

	gt, err := b.IsGreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := a.IsLessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	_, err = a.IsGreaterThan(c)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	// Cross-currency equality is false, not an error.
	assert.False(t, a.Equals(c))

	same, _ := domain.NewPriceFromMajorUnits(10, "USD")
	assert.True(t, a.Equals(same))
}

func TestPrice_IsZero(t *testing.T) {
	z, err := domain.ZeroPrice("USD")
	require.NoError(t, err)
	assert.True(t, z.IsZero())

	p, _ := domain.NewPriceFromMinorUnits(1, "USD")
	assert.False(t, p.IsZero())
}

func TestDiffMonetaryFields(t *testing.T) {
	before := domain.ProductPrice{RegisterPrice: 1000, RenewalPrice: 1200, TransferPrice: 900, RedemptionPrice: 8000}
	after := before
	after.RegisterPrice = 1100
	after.RenewalPrice = 1300

	oldValues, changes := domain.DiffMonetaryFields(before, after)

	assert.Equal(t, map[string]int64{
		domain.FieldRegisterPrice: 1000,
		domain.FieldRenewalPrice:  1200,
	}, oldValues)
	assert.Equal(t, map[string]int64{
		domain.FieldRegisterPrice: 1100,
		domain.FieldRenewalPrice:  1300,
	}, changes)

	oldValues, changes = domain.DiffMonetaryFields(before, before)
	assert.Empty(t, oldValues)
	assert.Empty(t, changes)
}

func TestProductPrice_State(t *testing.T) {
	p := domain.ProductPrice{}
	assert.Equal(t, domain.PricePending, p.State())

	p.IsCurrent = true
	assert.Equal(t, domain.PriceCurrent, p.State())

	p.IsCurrent = false
	p.WasCurrent = true
	assert.Equal(t, domain.PriceSuperseded, p.State())
}
