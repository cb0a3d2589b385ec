package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/services"
	"github.com/kazehost/pricing-backend/internal/dto"
)

// --- Service-level mocks for the converter's collaborators ---

type MockRateProviderSvc struct {
	mock.Mock
}

func (m *MockRateProviderSvc) GetRate(ctx context.Context, from, to string) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRateProviderSvc) GetRateSnapshot(ctx context.Context, from, to string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRateProviderSvc) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockRateProviderSvc) GetRateMetadata(ctx context.Context, from, to string) (*domain.RateMetadata, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateMetadata), args.Error(1)
}

func (m *MockRateProviderSvc) ClearCache(ctx context.Context, from, to string) error {
	args := m.Called(ctx, from, to)
	return args.Error(0)
}

type MockCurrencyReaderSvc struct {
	mock.Mock
}

func (m *MockCurrencyReaderSvc) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderSvc) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderSvc) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderSvc) GetBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

type MockPricingReaderSvc struct {
	mock.Mock
}

func (m *MockPricingReaderSvc) GetPrice(ctx context.Context, priceID string) (*domain.ProductPrice, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *MockPricingReaderSvc) GetCurrentPrice(ctx context.Context, scope domain.PriceScope) (*domain.ProductPrice, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *MockPricingReaderSvc) ListPricesForProduct(ctx context.Context, productID string) ([]domain.ProductPrice, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductPrice), args.Error(1)
}

func (m *MockPricingReaderSvc) ListPriceHistory(ctx context.Context, priceID string, limit int, nextToken *string) ([]domain.PriceHistory, *string, error) {
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

// --- Test suite ---

type ConverterServiceTestSuite struct {
	suite.Suite
	mockRates      *MockRateProviderSvc
	mockCurrencies *MockCurrencyReaderSvc
	mockPricing    *MockPricingReaderSvc
	service        *services.ConverterService

	usd domain.Currency
	rwf domain.Currency
}

func (suite *ConverterServiceTestSuite) SetupTest() {
	suite.mockRates = new(MockRateProviderSvc)
	suite.mockCurrencies = new(MockCurrencyReaderSvc)
	suite.mockPricing = new(MockPricingReaderSvc)
	suite.service = services.NewConverterService(
		suite.mockRates,
		suite.mockCurrencies,
		suite.mockPricing,
		map[string]string{"RW": "RWF"},
	)

	suite.usd = domain.Currency{
		CurrencyCode: "USD", Name: "US Dollar", Symbol: "$",
		SymbolPosition: domain.SymbolBefore, DecimalPlaces: 2, IsBase: true, IsActive: true,
	}
	suite.rwf = domain.Currency{
		CurrencyCode: "RWF", Name: "Rwandan Franc", Symbol: "FRw",
		SymbolPosition: domain.SymbolAfter, DecimalPlaces: 0, IsActive: true,
	}
}

func (suite *ConverterServiceTestSuite) TestConvert_IdentityBypassesProvider() {
	ctx := context.Background()

	amount, err := suite.service.Convert(ctx, 42.5, "USD", "usd")

	suite.Require().NoError(err)
	suite.Equal(42.5, amount)
	suite.mockRates.AssertNotCalled(suite.T(), "GetRateSnapshot")
}

func (suite *ConverterServiceTestSuite) TestConvertDetailed_CarriesFallbackMarker() {
	ctx := context.Background()
	suite.mockRates.On("GetRateSnapshot", ctx, "USD", "RWF").
		Return(&domain.RateSnapshot{From: "USD", To: "RWF", Rate: 1350.0, IsFallback: true}, nil).Once()

	result, err := suite.service.ConvertDetailed(ctx, 10.50, "USD", "RWF")

	suite.Require().NoError(err)
	suite.InDelta(14175.0, result.Amount, 0.001)
	suite.True(result.IsFallback)
	suite.Equal("RWF", result.CurrencyCode)
}

func (suite *ConverterServiceTestSuite) TestConvertPrice() {
	ctx := context.Background()
	suite.mockRates.On("GetRateSnapshot", ctx, "USD", "RWF").
		Return(&domain.RateSnapshot{From: "USD", To: "RWF", Rate: 1350.0}, nil).Once()

	price, err := domain.NewPriceFromMinorUnits(1050, "USD")
	suite.Require().NoError(err)

	converted, err := suite.service.ConvertPrice(ctx, price, "RWF")

	suite.Require().NoError(err)
	suite.Equal("RWF", converted.Currency())
	suite.Equal(int64(1417500), converted.AmountMinorUnits())
}

func (suite *ConverterServiceTestSuite) TestFormat_DecimalCurrency() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)

	formatted, err := suite.service.Format(ctx, 1234.5, "USD")
	suite.Require().NoError(err)
	suite.Equal("$1,234.50", formatted)

	// Whole amounts drop the trailing zeros
	formatted, err = suite.service.Format(ctx, 1234.0, "USD")
	suite.Require().NoError(err)
	suite.Equal("$1,234", formatted)
}

func (suite *ConverterServiceTestSuite) TestFormat_ZeroDecimalCurrencyNeverShowsPoint() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "RWF").Return(&suite.rwf, nil)

	formatted, err := suite.service.Format(ctx, 14175.4, "RWF")

	suite.Require().NoError(err)
	suite.Equal("14,175 FRw", formatted)
}

func (suite *ConverterServiceTestSuite) TestFormatPrice() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)

	price, err := domain.NewPriceFromMinorUnits(1050, "USD")
	suite.Require().NoError(err)

	formatted, err := suite.service.FormatPrice(ctx, price)

	suite.Require().NoError(err)
	suite.Equal("$10.50", formatted)
}

func (suite *ConverterServiceTestSuite) TestGetUserCurrency_RequestOverrideWins() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "RWF").Return(&suite.rwf, nil).Once()

	currency, err := suite.service.GetUserCurrency(ctx, dto.CurrencyPreferences{
		RequestedCode: "FRW", // alias resolves before lookup
		SessionCode:   "USD",
	})

	suite.Require().NoError(err)
	suite.Equal("RWF", currency.CurrencyCode)
}

func (suite *ConverterServiceTestSuite) TestGetUserCurrency_UnknownCandidateFallsThrough() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()

	currency, err := suite.service.GetUserCurrency(ctx, dto.CurrencyPreferences{
		RequestedCode: "XXX",
		PreferredCode: "USD",
	})

	suite.Require().NoError(err)
	suite.Equal("USD", currency.CurrencyCode)
}

func (suite *ConverterServiceTestSuite) TestGetUserCurrency_InactiveCandidateFallsThrough() {
	ctx := context.Background()
	retired := &domain.Currency{
		CurrencyCode:  "GBP",
		Name:          "Pound Sterling",
		Symbol:        "£",
		DecimalPlaces: 2,
		IsActive:      false,
	}
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "GBP").Return(retired, nil).Twice()
	suite.mockCurrencies.On("GetBaseCurrency", ctx).Return(&suite.usd, nil).Once()

	// The session and preference currencies both exist but are inactive, so
	// resolution keeps falling through until the base currency.
	currency, err := suite.service.GetUserCurrency(ctx, dto.CurrencyPreferences{
		SessionCode:   "GBP",
		PreferredCode: "GBP",
	})

	suite.Require().NoError(err)
	suite.Equal("USD", currency.CurrencyCode)
	suite.True(currency.IsActive)
	suite.mockCurrencies.AssertExpectations(suite.T())
}

func (suite *ConverterServiceTestSuite) TestGetUserCurrency_GeolocationStep() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "RWF").Return(&suite.rwf, nil).Once()

	currency, err := suite.service.GetUserCurrency(ctx, dto.CurrencyPreferences{CountryCode: "rw"})

	suite.Require().NoError(err)
	suite.Equal("RWF", currency.CurrencyCode)
}

func (suite *ConverterServiceTestSuite) TestGetUserCurrency_DefaultsToBase() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetBaseCurrency", ctx).Return(&suite.usd, nil).Once()

	currency, err := suite.service.GetUserCurrency(ctx, dto.CurrencyPreferences{})

	suite.Require().NoError(err)
	suite.Equal("USD", currency.CurrencyCode)
}

func (suite *ConverterServiceTestSuite) TestGetDisplayPrice_NativeRow() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "RWF").Return(&suite.rwf, nil)

	scope := domain.PriceScope{ProductID: "tld-com", CurrencyCode: "RWF"}
	suite.mockPricing.On("GetCurrentPrice", ctx, scope).Return(&domain.ProductPrice{
		PriceID: "p1", ProductID: "tld-com", CurrencyCode: "RWF",
		RegisterPrice: 1417500, IsCurrent: true, WasCurrent: true,
	}, nil).Once()

	display, err := suite.service.GetDisplayPrice(ctx, "tld-com", domain.CycleNone, domain.FieldRegisterPrice, dto.CurrencyPreferences{RequestedCode: "RWF"})

	suite.Require().NoError(err)
	suite.Equal("RWF", display.CurrencyCode)
	suite.Equal("14,175 FRw", display.Formatted)
	suite.False(display.IsFallback)
	suite.mockRates.AssertNotCalled(suite.T(), "GetRateSnapshot")
}

func (suite *ConverterServiceTestSuite) TestGetDisplayPrice_ConvertsBaseRowWhenNoNativeRow() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "RWF").Return(&suite.rwf, nil)
	suite.mockCurrencies.On("GetBaseCurrency", ctx).Return(&suite.usd, nil).Once()

	rwfScope := domain.PriceScope{ProductID: "tld-com", CurrencyCode: "RWF"}
	usdScope := domain.PriceScope{ProductID: "tld-com", CurrencyCode: "USD"}
	suite.mockPricing.On("GetCurrentPrice", ctx, rwfScope).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPricing.On("GetCurrentPrice", ctx, usdScope).Return(&domain.ProductPrice{
		PriceID: "p2", ProductID: "tld-com", CurrencyCode: "USD",
		RegisterPrice: 1050, IsCurrent: true, WasCurrent: true,
	}, nil).Once()
	suite.mockRates.On("GetRateSnapshot", ctx, "USD", "RWF").
		Return(&domain.RateSnapshot{From: "USD", To: "RWF", Rate: 1350.0, IsFallback: true}, nil).Once()

	display, err := suite.service.GetDisplayPrice(ctx, "tld-com", domain.CycleNone, domain.FieldRegisterPrice, dto.CurrencyPreferences{RequestedCode: "RWF"})

	suite.Require().NoError(err)
	suite.Equal("RWF", display.CurrencyCode)
	suite.InDelta(14175.0, display.Amount, 0.001)
	suite.Equal(int64(1417500), display.AmountMinor)
	suite.Equal("14,175 FRw", display.Formatted)
	suite.True(display.IsFallback)
}

func (suite *ConverterServiceTestSuite) TestGetDisplayPrice_UnknownFieldRejected() {
	ctx := context.Background()
	suite.mockCurrencies.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)

	scope := domain.PriceScope{ProductID: "tld-com", CurrencyCode: "USD"}
	suite.mockPricing.On("GetCurrentPrice", ctx, scope).Return(&domain.ProductPrice{
		PriceID: "p1", ProductID: "tld-com", CurrencyCode: "USD", IsCurrent: true,
	}, nil).Once()

	_, err := suite.service.GetDisplayPrice(ctx, "tld-com", domain.CycleNone, "setup_fee", dto.CurrencyPreferences{RequestedCode: "USD"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestConverterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConverterServiceTestSuite))
}
