package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/services"
	"github.com/kazehost/pricing-backend/internal/utils/clock"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockClient *MockRateClient
	mockCache  *MockRateCache
	clock      *clock.MockClock
	service    *services.ExchangeRateService
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockClient = new(MockRateClient)
	suite.mockCache = new(MockRateCache)
	suite.clock = clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	suite.service = services.NewExchangeRateService(suite.mockClient, suite.mockCache, suite.clock, services.ExchangeRateConfig{
		CacheTTL:      time.Hour,
		Retries:       2,
		RetryDelay:    time.Millisecond, // keep retry tests fast
		FallbackRates: map[string]float64{"USD_TO_RWF": 1350.0},
	})
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_SameCurrencyShortCircuits() {
	ctx := context.Background()

	rate, err := suite.service.GetRate(ctx, "USD", "usd")

	suite.Require().NoError(err)
	suite.Equal(1.0, rate)
	suite.mockCache.AssertNotCalled(suite.T(), "Get")
	suite.mockClient.AssertNotCalled(suite.T(), "FetchPairRate")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_AliasPairShortCircuits() {
	ctx := context.Background()

	// FRW normalizes to RWF, making this an identity pair
	rate, err := suite.service.GetRate(ctx, "FRW", "RWF")

	suite.Require().NoError(err)
	suite.Equal(1.0, rate)
	suite.mockClient.AssertNotCalled(suite.T(), "FetchPairRate")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_CacheHit() {
	ctx := context.Background()
	cached := &domain.RateSnapshot{From: "USD", To: "RWF", Rate: 1340.0, FetchedAt: suite.clock.Now()}

	suite.mockCache.On("Get", ctx, "USD", "RWF").Return(cached, nil).Once()

	rate, err := suite.service.GetRate(ctx, "USD", "RWF")

	suite.Require().NoError(err)
	suite.Equal(1340.0, rate)
	suite.mockClient.AssertNotCalled(suite.T(), "FetchPairRate")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_CacheMissFetchesAndStores() {
	ctx := context.Background()

	suite.mockCache.On("Get", ctx, "USD", "RWF").Return(nil, nil).Once()
	suite.mockClient.On("FetchPairRate", ctx, "USD", "RWF").
		Return(&domain.PairRate{Rate: 1355.5}, nil).Once()
	suite.mockCache.On("Set", ctx, mock.MatchedBy(func(s domain.RateSnapshot) bool {
		return s.From == "USD" && s.To == "RWF" && s.Rate == 1355.5 && !s.IsFallback
	}), time.Hour).Return(nil).Once()

	rate, err := suite.service.GetRate(ctx, "USD", "RWF")

	suite.Require().NoError(err)
	suite.Equal(1355.5, rate)
	suite.mockCache.AssertExpectations(suite.T())
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_NetworkErrorRetriesThenFallback() {
	ctx := context.Background()

	suite.mockCache.On("Get", ctx, "USD", "RWF").Return(nil, nil).Once()
	// Initial attempt plus two retries, all failing
	suite.mockClient.On("FetchPairRate", ctx, "USD", "RWF").
		Return(nil, apperrors.ErrRateProviderNetwork).Times(3)

	snapshot, err := suite.service.GetRateSnapshot(ctx, "USD", "RWF")

	suite.Require().NoError(err)
	suite.Equal(1350.0, snapshot.Rate)
	suite.True(snapshot.IsFallback)
	suite.mockClient.AssertExpectations(suite.T())
	// Fallback rates are never cached
	suite.mockCache.AssertNotCalled(suite.T(), "Set")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_AuthErrorDoesNotRetry() {
	ctx := context.Background()

	suite.mockCache.On("Get", ctx, "USD", "RWF").Return(nil, nil).Once()
	suite.mockClient.On("FetchPairRate", ctx, "USD", "RWF").
		Return(nil, apperrors.ErrRateProviderAuth).Once()

	snapshot, err := suite.service.GetRateSnapshot(ctx, "USD", "RWF")

	suite.Require().NoError(err)
	suite.True(snapshot.IsFallback)
	suite.mockClient.AssertNumberOfCalls(suite.T(), "FetchPairRate", 1)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_NoFallbackEntrySurfacesError() {
	ctx := context.Background()

	suite.mockCache.On("Get", ctx, "USD", "JPY").Return(nil, nil).Once()
	suite.mockClient.On("FetchPairRate", ctx, "USD", "JPY").
		Return(nil, apperrors.ErrRateProviderQuotaExceeded).Once()

	_, err := suite.service.GetRateSnapshot(ctx, "USD", "JPY")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_FallbackConversionAmount() {
	ctx := context.Background()

	suite.mockCache.On("Get", ctx, "USD", "RWF").Return(nil, nil).Once()
	suite.mockClient.On("FetchPairRate", ctx, "USD", "RWF").
		Return(nil, apperrors.ErrRateProviderNetwork).Times(3)

	snapshot, err := suite.service.GetRateSnapshot(ctx, "USD", "RWF")

	suite.Require().NoError(err)
	// 10.50 USD at the static 1350 fallback rate
	suite.InDelta(14175.0, 10.50*snapshot.Rate, 0.001)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRates_ProviderFailureDegradesToNil() {
	ctx := context.Background()

	suite.mockClient.On("FetchRates", ctx, "USD").
		Return(nil, apperrors.ErrRateProviderNetwork).Once()

	rates, err := suite.service.GetRates(ctx, "USD")

	suite.Require().NoError(err)
	suite.Nil(rates)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRates_Success() {
	ctx := context.Background()
	expected := map[string]float64{"RWF": 1350.0, "EUR": 0.92}

	suite.mockClient.On("FetchRates", ctx, "USD").Return(expected, nil).Once()

	rates, err := suite.service.GetRates(ctx, "USD")

	suite.Require().NoError(err)
	suite.Equal(expected, rates)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRateMetadata_CachedEntry() {
	ctx := context.Background()
	fetchedAt := suite.clock.Now().Add(-10 * time.Minute)
	cached := &domain.RateSnapshot{From: "USD", To: "RWF", Rate: 1340.0, FetchedAt: fetchedAt}

	suite.mockCache.On("Get", ctx, "USD", "RWF").Return(cached, nil).Once()

	meta, err := suite.service.GetRateMetadata(ctx, "USD", "RWF")

	suite.Require().NoError(err)
	suite.True(meta.IsCached)
	suite.Equal(1340.0, meta.Rate)
	suite.Require().NotNil(meta.NextUpdate)
	suite.Equal(fetchedAt.Add(time.Hour), *meta.NextUpdate)
}

func (suite *ExchangeRateServiceTestSuite) TestClearCache_SinglePair() {
	ctx := context.Background()

	suite.mockCache.On("Delete", ctx, "USD", "RWF").Return(nil).Once()

	err := suite.service.ClearCache(ctx, "usd", "frw")

	suite.Require().NoError(err)
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestClearCache_All() {
	ctx := context.Background()

	suite.mockCache.On("Flush", ctx).Return(nil).Once()

	err := suite.service.ClearCache(ctx, "", "")

	suite.Require().NoError(err)
	suite.mockCache.AssertExpectations(suite.T())
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
