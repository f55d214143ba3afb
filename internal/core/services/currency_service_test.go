package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
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

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  *services.CurrencyService
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "BRL",
		Symbol:       "R$",
		Name:         "Brazilian Real",
		Precision:    2,
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, "tester")

	suite.Require().NoError(err)
	suite.Require().NotNil(currency)
	suite.Equal("BRL", currency.CurrencyCode)
	suite.Equal(2, currency.Precision)
	suite.Equal("tester", currency.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_RepoError() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "BRL", Symbol: "R$", Name: "Brazilian Real"}
	repoErr := errors.New("connection refused")

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(repoErr).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, repoErr)
	suite.Nil(currency)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_Success() {
	ctx := context.Background()
	stored := &domain.Currency{CurrencyCode: "USD", Name: "US Dollar", Precision: 2}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(stored, nil).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "USD")

	suite.Require().NoError(err)
	suite.Equal(stored, currency)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_EmptyIsNotNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListCurrencies", ctx).Return(nil, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.NotNil(currencies)
	suite.Empty(currencies)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
