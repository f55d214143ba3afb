package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CostRepository ---
type MockCostRepository struct {
	mock.Mock
}

func (m *MockCostRepository) SaveCost(ctx context.Context, cost domain.Cost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}

func (m *MockCostRepository) FindCostByID(ctx context.Context, costID string) (*domain.Cost, error) {
	args := m.Called(ctx, costID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cost), args.Error(1)
}

func (m *MockCostRepository) ListCostsMissingConversion(ctx context.Context, organizationID string) ([]domain.Cost, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cost), args.Error(1)
}

func (m *MockCostRepository) UpdateCostConversion(ctx context.Context, cost domain.Cost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}

// --- Mock RateResolver ---
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) ResolveRate(ctx context.Context, organizationID, baseCurrency, targetCurrency, yearMonth string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, organizationID, baseCurrency, targetCurrency, yearMonth, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---
type CostConversionServiceTestSuite struct {
	suite.Suite
	mockCostRepo    *MockCostRepository
	mockOrgRepo     *MockOrganizationRepository
	mockCurrencySvc *MockCurrencyService
	mockResolver    *MockRateResolver
	service         *services.CostConversionService

	organizationID string
}

func (suite *CostConversionServiceTestSuite) SetupTest() {
	suite.mockCostRepo = new(MockCostRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.mockResolver = new(MockRateResolver)
	suite.service = services.NewCostConversionService(
		suite.mockCostRepo,
		suite.mockOrgRepo,
		suite.mockCurrencySvc,
		suite.mockResolver,
		"BRL",
	)

	suite.organizationID = uuid.NewString()
	suite.mockOrgRepo.On("FindOrganizationByID", mock.Anything, suite.organizationID).
		Return(&domain.Organization{OrganizationID: suite.organizationID, Name: "Org"}, nil).Maybe()
	suite.mockCurrencySvc.On("GetCurrencyByCode", mock.Anything, "BRL").
		Return(&domain.Currency{CurrencyCode: "BRL", Precision: 2}, nil).Maybe()
	suite.mockCurrencySvc.On("GetCurrencyByCode", mock.Anything, "USD").
		Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Maybe()
}

func (suite *CostConversionServiceTestSuite) TestCreateCost_ReportingCurrencyIdentity() {
	ctx := context.Background()
	req := dto.CreateCostRequest{
		Description:  "Office rent",
		Amount:       decimal.NewFromFloat(1234.567),
		CurrencyCode: "BRL",
		DueDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCostRepo.On("SaveCost", ctx, mock.AnythingOfType("domain.Cost")).Return(nil).Once()

	cost, err := suite.service.CreateCost(ctx, suite.organizationID, req, "tester")

	suite.Require().NoError(err)
	suite.Require().NotNil(cost)
	suite.False(cost.NeedsConversion())
	suite.True(cost.ConvertedAmountBRL.Equal(req.Amount), "identity conversion must keep the amount exact")
	suite.True(cost.ExchangeRateValue.Equal(decimal.NewFromInt(1)))
	suite.Equal("2024-03", *cost.ExchangeRateMonth)
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveRate")
}

func (suite *CostConversionServiceTestSuite) TestCreateCost_ResolvedFromRate() {
	ctx := context.Background()
	dueDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	req := dto.CreateCostRequest{
		Description:  "SaaS subscription",
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		DueDate:      dueDate,
	}
	resolved := &domain.ExchangeRate{
		YearMonth: "2024-03",
		Rate:      decimal.NewFromFloat(5.00),
	}

	suite.mockResolver.On("ResolveRate", ctx, suite.organizationID, "USD", "BRL", "2024-03", dueDate).
		Return(resolved, nil).Once()
	suite.mockCostRepo.On("SaveCost", ctx, mock.AnythingOfType("domain.Cost")).Return(nil).Once()

	cost, err := suite.service.CreateCost(ctx, suite.organizationID, req, "tester")

	suite.Require().NoError(err)
	suite.False(cost.NeedsConversion())
	suite.True(cost.ConvertedAmountBRL.Equal(decimal.NewFromFloat(500.00)))
	suite.True(cost.ExchangeRateValue.Equal(decimal.NewFromFloat(5.00)))
	suite.Equal("2024-03", *cost.ExchangeRateMonth)
}

func (suite *CostConversionServiceTestSuite) TestCreateCost_ExplicitConversionTrusted() {
	ctx := context.Background()
	explicitAmount := decimal.NewFromFloat(512.34)
	explicitRate := decimal.NewFromFloat(5.1234)
	explicitMonth := "2024-02"
	req := dto.CreateCostRequest{
		Description:        "Imported invoice",
		Amount:             decimal.NewFromInt(100),
		CurrencyCode:       "USD",
		DueDate:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ConvertedAmountBRL: &explicitAmount,
		ExchangeRateValue:  &explicitRate,
		ExchangeRateMonth:  &explicitMonth,
	}

	suite.mockCostRepo.On("SaveCost", ctx, mock.AnythingOfType("domain.Cost")).Return(nil).Once()

	cost, err := suite.service.CreateCost(ctx, suite.organizationID, req, "tester")

	suite.Require().NoError(err)
	suite.True(cost.ConvertedAmountBRL.Equal(explicitAmount))
	suite.True(cost.ExchangeRateValue.Equal(explicitRate))
	suite.Equal(explicitMonth, *cost.ExchangeRateMonth)
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveRate")
}

func (suite *CostConversionServiceTestSuite) TestCreateCost_PartialConversionRejected() {
	ctx := context.Background()
	explicitRate := decimal.NewFromFloat(5.1234)
	req := dto.CreateCostRequest{
		Description:       "Broken invoice",
		Amount:            decimal.NewFromInt(100),
		CurrencyCode:      "USD",
		DueDate:           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ExchangeRateValue: &explicitRate,
	}

	cost, err := suite.service.CreateCost(ctx, suite.organizationID, req, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(cost)
	suite.mockCostRepo.AssertNotCalled(suite.T(), "SaveCost")
}

func (suite *CostConversionServiceTestSuite) TestCreateCost_PersistedPendingWhenNoRate() {
	ctx := context.Background()
	dueDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	req := dto.CreateCostRequest{
		Description:  "Cost without a rate",
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		DueDate:      dueDate,
	}

	suite.mockResolver.On("ResolveRate", ctx, suite.organizationID, "USD", "BRL", "2024-03", dueDate).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCostRepo.On("SaveCost", ctx, mock.AnythingOfType("domain.Cost")).Return(nil).Once()

	cost, err := suite.service.CreateCost(ctx, suite.organizationID, req, "tester")

	suite.Require().NoError(err)
	suite.Require().NotNil(cost)
	suite.True(cost.NeedsConversion())
	suite.Nil(cost.ConvertedAmountBRL)
	suite.mockCostRepo.AssertExpectations(suite.T())
}

func (suite *CostConversionServiceTestSuite) TestCreateCost_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateCostRequest{
		Description:  "Zero cost",
		Amount:       decimal.Zero,
		CurrencyCode: "USD",
		DueDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	cost, err := suite.service.CreateCost(ctx, suite.organizationID, req, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(cost)
}

func (suite *CostConversionServiceTestSuite) TestCreateCost_UnknownOrganization() {
	ctx := context.Background()
	req := dto.CreateCostRequest{
		Description:  "Orphan cost",
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "USD",
		DueDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockOrgRepo.On("FindOrganizationByID", mock.Anything, "missing-org").
		Return(nil, apperrors.ErrNotFound).Once()

	cost, err := suite.service.CreateCost(ctx, "missing-org", req, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(cost)
}

func (suite *CostConversionServiceTestSuite) TestReconcileMissingRates_ConvertsWhatItCan() {
	ctx := context.Background()
	dueDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	resolvable := domain.Cost{
		CostID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		Amount:         decimal.NewFromInt(100),
		CurrencyCode:   "USD",
		DueDate:        dueDate,
	}
	unresolvable := domain.Cost{
		CostID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		Amount:         decimal.NewFromInt(50),
		CurrencyCode:   "USD",
		DueDate:        time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	resolved := &domain.ExchangeRate{YearMonth: "2024-03", Rate: decimal.NewFromFloat(5.00)}

	suite.mockCostRepo.On("ListCostsMissingConversion", ctx, suite.organizationID).
		Return([]domain.Cost{resolvable, unresolvable}, nil).Once()
	suite.mockResolver.On("ResolveRate", ctx, suite.organizationID, "USD", "BRL", "2024-03", dueDate).
		Return(resolved, nil).Once()
	suite.mockResolver.On("ResolveRate", ctx, suite.organizationID, "USD", "BRL", "2023-07", unresolvable.DueDate).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCostRepo.On("UpdateCostConversion", ctx, mock.MatchedBy(func(c domain.Cost) bool {
		return c.CostID == resolvable.CostID && c.ConvertedAmountBRL != nil && c.ConvertedAmountBRL.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	result, err := suite.service.ReconcileMissingRates(ctx, suite.organizationID)

	suite.Require().NoError(err)
	suite.Equal(2, result.Examined)
	suite.Equal(1, result.Converted)
	suite.Equal(1, result.StillPending)
	suite.mockCostRepo.AssertExpectations(suite.T())
}

func (suite *CostConversionServiceTestSuite) TestReconcileMissingRates_NothingPending() {
	ctx := context.Background()

	suite.mockCostRepo.On("ListCostsMissingConversion", ctx, suite.organizationID).
		Return([]domain.Cost{}, nil).Once()

	result, err := suite.service.ReconcileMissingRates(ctx, suite.organizationID)

	suite.Require().NoError(err)
	suite.Zero(result.Examined)
	suite.Zero(result.Converted)
	suite.Zero(result.StillPending)
	suite.mockCostRepo.AssertNotCalled(suite.T(), "UpdateCostConversion")
}

func TestCostConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CostConversionServiceTestSuite))
}
