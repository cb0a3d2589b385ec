package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/core/services"
	"github.com/kazehost/pricing-backend/internal/dto"
	"github.com/kazehost/pricing-backend/internal/utils/clock"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	clock    *clock.MockClock
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.clock = clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	suite.service = services.NewCurrencyService(suite.mockRepo, suite.clock)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateCurrencyRequest{
		CurrencyCode:   "rwf",
		Name:           "Rwandan Franc",
		Symbol:         "FRw",
		SymbolPosition: "after",
		DecimalPlaces:  intPtr(0),
	}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "RWF").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "RWF" &&
			c.SymbolPosition == domain.SymbolAfter &&
			c.DecimalPlaces == 0 &&
			!c.IsBase &&
			c.IsActive &&
			c.CreatedBy == creatorUserID
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(currency)
	suite.Equal("RWF", currency.CurrencyCode)
	suite.Equal(suite.clock.Now(), currency.CreatedAt)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_AliasNormalized() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "FRW", // legacy code resolves to RWF
		Name:         "Rwandan Franc",
		Symbol:       "FRw",
	}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "RWF").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "RWF"
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal("RWF", currency.CurrencyCode)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Duplicate() {
	ctx := context.Background()
	existing := &domain.Currency{CurrencyCode: "USD"}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(existing, nil).Once()

	_, err := suite.service.CreateCurrency(ctx, dto.CreateCurrencyRequest{
		CurrencyCode: "USD", Name: "US Dollar", Symbol: "$",
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrency")
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_InvalidCode() {
	ctx := context.Background()

	_, err := suite.service.CreateCurrency(ctx, dto.CreateCurrencyRequest{
		CurrencyCode: "US", Name: "Bad", Symbol: "?",
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestGetBaseCurrency_Success() {
	ctx := context.Background()
	base := domain.Currency{CurrencyCode: "USD", IsBase: true}

	suite.mockRepo.On("FindBaseCurrencies", ctx).Return([]domain.Currency{base}, nil).Once()

	got, err := suite.service.GetBaseCurrency(ctx)

	suite.Require().NoError(err)
	suite.Equal("USD", got.CurrencyCode)
}

func (suite *CurrencyServiceTestSuite) TestGetBaseCurrency_Misconfigured() {
	ctx := context.Background()

	suite.mockRepo.On("FindBaseCurrencies", ctx).Return([]domain.Currency{
		{CurrencyCode: "USD", IsBase: true},
		{CurrencyCode: "EUR", IsBase: true},
	}, nil).Once()

	_, err := suite.service.GetBaseCurrency(ctx)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "expected exactly 1 base currency")
}

func (suite *CurrencyServiceTestSuite) TestUpdateCurrency_DeactivateBaseRejected() {
	ctx := context.Background()
	base := &domain.Currency{CurrencyCode: "USD", IsBase: true, IsActive: true}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(base, nil).Once()

	inactive := false
	_, err := suite.service.UpdateCurrency(ctx, "USD", dto.UpdateCurrencyRequest{IsActive: &inactive}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBaseCurrencyProtected)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCurrency")
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency_Success() {
	ctx := context.Background()
	target := &domain.Currency{CurrencyCode: "RWF", IsActive: true}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "RWF").Return(target, nil).Once()
	suite.mockRepo.On("SetBaseCurrency", ctx, "RWF", "admin-1").Return(nil).Once()

	err := suite.service.SetBaseCurrency(ctx, "RWF", "admin-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency_AlreadyBaseIsNoop() {
	ctx := context.Background()
	target := &domain.Currency{CurrencyCode: "USD", IsBase: true, IsActive: true}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(target, nil).Once()

	err := suite.service.SetBaseCurrency(ctx, "USD", "admin-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "SetBaseCurrency")
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency_InactiveRejected() {
	ctx := context.Background()
	target := &domain.Currency{CurrencyCode: "RWF", IsActive: false}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "RWF").Return(target, nil).Once()

	err := suite.service.SetBaseCurrency(ctx, "RWF", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestDeleteCurrency_BaseProtected() {
	ctx := context.Background()
	base := &domain.Currency{CurrencyCode: "USD", IsBase: true, IsActive: true}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(base, nil).Once()

	err := suite.service.DeleteCurrency(ctx, "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBaseCurrencyProtected)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteCurrency")
}

func (suite *CurrencyServiceTestSuite) TestDeleteCurrency_Success() {
	ctx := context.Background()
	target := &domain.Currency{CurrencyCode: "EUR", IsActive: true}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "EUR").Return(target, nil).Once()
	suite.mockRepo.On("DeleteCurrency", ctx, "EUR").Return(nil).Once()

	err := suite.service.DeleteCurrency(ctx, "EUR")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}

func intPtr(i int) *int { return &i }
