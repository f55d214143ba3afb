package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock QuoteProvider ---
type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) FetchQuote(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

// --- Mock OrganizationRepository ---
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListActiveOrganizations(ctx context.Context) ([]domain.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func usdBrlQuote(mid float64) *domain.RateQuote {
	bid := decimal.NewFromFloat(mid - 0.05)
	ask := decimal.NewFromFloat(mid + 0.05)
	return &domain.RateQuote{
		BaseCurrencyCode:   "USD",
		TargetCurrencyCode: "BRL",
		Bid:                bid,
		Ask:                ask,
		Mid:                bid.Add(ask).Div(decimal.NewFromInt(2)),
		Timestamp:          time.Now(),
		Source:             "awesomeapi",
	}
}

// --- Test Suite ---
type RateSyncServiceTestSuite struct {
	suite.Suite
	mockProvider *MockQuoteProvider
	mockRateRepo *MockExchangeRateRepository
	mockOrgRepo  *MockOrganizationRepository
	service      *services.RateSyncService
}

func (suite *RateSyncServiceTestSuite) SetupTest() {
	suite.mockProvider = new(MockQuoteProvider)
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	cache := services.NewRateCache(suite.mockProvider, 5*time.Minute)
	suite.service = services.NewRateSyncService(cache, suite.mockRateRepo, suite.mockOrgRepo, "USD", "BRL", 6, 0)
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_WritesEveryOrganization() {
	ctx := context.Background()
	orgs := []domain.Organization{
		{OrganizationID: uuid.NewString(), Name: "Org A"},
		{OrganizationID: uuid.NewString(), Name: "Org B"},
	}
	quote := usdBrlQuote(5.10)

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").Return(quote, nil).Once()
	suite.mockOrgRepo.On("ListActiveOrganizations", ctx).Return(orgs, nil).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate"), domain.PreserveManualEntries).
		Return(domain.UpsertWritten, nil).Twice()

	run, err := suite.service.RunOnce(ctx, "")

	suite.Require().NoError(err)
	suite.Equal(2, run.SyncedCount)
	suite.Zero(run.SkippedCount)
	suite.Zero(run.FailedCount)
	suite.Equal(2, run.TotalOrganizations)
	suite.False(run.StaleQuoteUsed)

	// Every upsert must carry the quote's mid, the current month and the
	// synchronizer's source tag.
	now := time.Now()
	validFrom, validTo := domain.MonthRange(now)
	for _, call := range suite.mockRateRepo.Calls {
		if call.Method != "UpsertExchangeRate" {
			continue
		}
		rate := call.Arguments.Get(1).(domain.ExchangeRate)
		suite.True(quote.Mid.Equal(rate.Rate))
		suite.Equal(domain.YearMonthOf(now), rate.YearMonth)
		suite.True(rate.ValidFrom.Equal(validFrom))
		suite.True(rate.ValidTo.Equal(validTo))
		suite.True(strings.HasPrefix(rate.Source, domain.AutoSourcePrefix+"_"))
		suite.True(rate.IsAutoSynced())
	}
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_FailureIsolatedPerOrganization() {
	ctx := context.Background()
	orgA := domain.Organization{OrganizationID: "org-a", Name: "A"}
	orgB := domain.Organization{OrganizationID: "org-b", Name: "B"}
	orgC := domain.Organization{OrganizationID: "org-c", Name: "C"}

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").Return(usdBrlQuote(5.10), nil).Once()
	suite.mockOrgRepo.On("ListActiveOrganizations", ctx).Return([]domain.Organization{orgA, orgB, orgC}, nil).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool { return r.OrganizationID == "org-a" }), domain.PreserveManualEntries).
		Return(domain.UpsertWritten, nil).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool { return r.OrganizationID == "org-b" }), domain.PreserveManualEntries).
		Return(domain.UpsertOutcome(""), errors.New("connection reset")).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool { return r.OrganizationID == "org-c" }), domain.PreserveManualEntries).
		Return(domain.UpsertWritten, nil).Once()

	run, err := suite.service.RunOnce(ctx, "")

	suite.Require().NoError(err)
	suite.Equal(2, run.SyncedCount)
	suite.Equal(1, run.FailedCount)
	suite.Len(run.Outcomes, 3)
	suite.Equal(domain.SyncStatusFailed, run.Outcomes[1].Status)
	suite.Equal("org-b", run.Outcomes[1].OrganizationID)
	suite.NotEmpty(run.Outcomes[1].Error)
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_ManualRatePreserved() {
	ctx := context.Background()
	org := domain.Organization{OrganizationID: uuid.NewString(), Name: "Org"}

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").Return(usdBrlQuote(5.10), nil).Once()
	suite.mockOrgRepo.On("ListActiveOrganizations", ctx).Return([]domain.Organization{org}, nil).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate"), domain.PreserveManualEntries).
		Return(domain.UpsertSkipped, nil).Once()

	run, err := suite.service.RunOnce(ctx, "")

	suite.Require().NoError(err)
	suite.Zero(run.SyncedCount)
	suite.Equal(1, run.SkippedCount)
	suite.Equal(domain.SyncStatusSkipped, run.Outcomes[0].Status)
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_SingleOrganization() {
	ctx := context.Background()
	org := &domain.Organization{OrganizationID: "org-x", Name: "X"}

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").Return(usdBrlQuote(5.10), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, "org-x").Return(org, nil).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate"), domain.PreserveManualEntries).
		Return(domain.UpsertWritten, nil).Once()

	run, err := suite.service.RunOnce(ctx, "org-x")

	suite.Require().NoError(err)
	suite.Equal(1, run.TotalOrganizations)
	suite.Equal(1, run.SyncedCount)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "ListActiveOrganizations")
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_AbortsWhenNoQuoteAtAll() {
	ctx := context.Background()

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").
		Return(nil, apperrors.ErrQuoteUnavailable).Once()

	run, err := suite.service.RunOnce(ctx, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrQuoteUnavailable)
	suite.Nil(run)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "ListActiveOrganizations")
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate")
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_DegradesToStaleQuote() {
	ctx := context.Background()
	org := domain.Organization{OrganizationID: uuid.NewString(), Name: "Org"}

	// A cache that expires immediately forces a refetch on the second pass.
	cache := services.NewRateCache(suite.mockProvider, time.Nanosecond)
	service := services.NewRateSyncService(cache, suite.mockRateRepo, suite.mockOrgRepo, "USD", "BRL", 6, 0)

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").Return(usdBrlQuote(5.10), nil).Once()
	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").Return(nil, apperrors.ErrQuoteUnavailable).Once()
	suite.mockOrgRepo.On("ListActiveOrganizations", ctx).Return([]domain.Organization{org}, nil).Twice()
	suite.mockRateRepo.On("UpsertExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate"), domain.PreserveManualEntries).
		Return(domain.UpsertWritten, nil).Twice()

	first, err := service.RunOnce(ctx, "")
	suite.Require().NoError(err)
	suite.False(first.StaleQuoteUsed)

	second, err := service.RunOnce(ctx, "")
	suite.Require().NoError(err)
	suite.True(second.StaleQuoteUsed)
	suite.Equal(1, second.SyncedCount)
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_RejectsNonPositiveMid() {
	ctx := context.Background()
	quote := usdBrlQuote(5.10)
	quote.Mid = decimal.Zero

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").Return(quote, nil).Once()

	run, err := suite.service.RunOnce(ctx, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMalformedQuote)
	suite.Nil(run)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate")
}

func (suite *RateSyncServiceTestSuite) TestRunOnce_SecondCallerRejectedWhileRunning() {
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})

	suite.mockProvider.On("FetchQuote", mock.Anything, "USD", "BRL").
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(usdBrlQuote(5.10), nil).Once()
	suite.mockOrgRepo.On("ListActiveOrganizations", ctx).Return([]domain.Organization{}, nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := suite.service.RunOnce(ctx, "")
		suite.NoError(err)
	}()

	<-entered
	_, err := suite.service.RunOnce(ctx, "")
	suite.ErrorIs(err, apperrors.ErrSyncInProgress)

	close(release)
	<-done
}

func (suite *RateSyncServiceTestSuite) TestStatus_ReflectsSchedulerState() {
	status := suite.service.Status()
	suite.False(status.Armed)
	suite.False(status.Running)
	suite.Equal(6, status.SyncHour)
	suite.Nil(status.NextRunAt)

	suite.service.Start(context.Background())
	defer suite.service.Stop()

	status = suite.service.Status()
	suite.True(status.Armed)
	suite.Require().NotNil(status.NextRunAt)
	suite.True(status.NextRunAt.After(time.Now()))

	suite.service.Stop()
	status = suite.service.Status()
	suite.False(status.Armed)
	suite.Nil(status.NextRunAt)
}

func (suite *RateSyncServiceTestSuite) TestStart_Idempotent() {
	ctx := context.Background()
	suite.service.Start(ctx)
	suite.service.Start(ctx)
	suite.service.Stop()
	// A second Stop on a disarmed scheduler is also a no-op.
	suite.service.Stop()
}

func TestRateSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateSyncServiceTestSuite))
}
