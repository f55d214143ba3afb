package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateService provides business logic for exchange rates, including
// the resolution cascade cost conversion depends on.
type ExchangeRateService struct {
	BaseService
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	currencyService portssvc.CurrencyReaderSvc
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyService portssvc.CurrencyReaderSvc) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)

// CreateExchangeRate handles manual entry of a new exchange rate.
func (s *ExchangeRateService) CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	// Input validation (basic format) is handled by DTO binding tags.
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.BaseCurrencyCode == req.TargetCurrencyCode {
		return nil, fmt.Errorf("%w: base and target currency codes cannot be the same", apperrors.ErrValidation)
	}

	// Check if currencies exist
	if _, err := s.currencyService.GetCurrencyByCode(ctx, req.BaseCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: base currency code '%s' not found", apperrors.ErrValidation, req.BaseCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate base currency '%s': %w", req.BaseCurrencyCode, err)
	}
	if _, err := s.currencyService.GetCurrencyByCode(ctx, req.TargetCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: target currency code '%s' not found", apperrors.ErrValidation, req.TargetCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate target currency '%s': %w", req.TargetCurrencyCode, err)
	}

	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:     uuid.NewString(),
		OrganizationID:     organizationID,
		YearMonth:          req.YearMonth,
		BaseCurrencyCode:   req.BaseCurrencyCode,
		TargetCurrencyCode: req.TargetCurrencyCode,
		Rate:               req.Rate,
		Source:             source,
		ValidFrom:          req.ValidFrom,
		ValidTo:            req.ValidTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := rate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "failed to create exchange rate",
			"organization_id", organizationID,
			"year_month", req.YearMonth)
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}

	s.LogInfo(ctx, "exchange rate created",
		"organization_id", organizationID,
		"year_month", req.YearMonth,
		"rate", req.Rate.String(),
		"source", source)

	return &rate, nil
}

// GetRateForPeriod retrieves the rate stored for an exact year-month.
func (s *ExchangeRateService) GetRateForPeriod(ctx context.Context, organizationID, yearMonth, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	baseCurrency, targetCurrency, err := normalizePair(baseCurrency, targetCurrency)
	if err != nil {
		return nil, err
	}
	if !domain.IsValidYearMonth(yearMonth) {
		return nil, fmt.Errorf("%w: year-month must be in format YYYY-MM, got %q", apperrors.ErrValidation, yearMonth)
	}
	return s.rateRepo.FindRateByPeriod(ctx, organizationID, yearMonth, baseCurrency, targetCurrency)
}

// GetRateForDate retrieves the rate whose validity window contains date.
func (s *ExchangeRateService) GetRateForDate(ctx context.Context, organizationID string, date time.Time, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	baseCurrency, targetCurrency, err := normalizePair(baseCurrency, targetCurrency)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	return s.rateRepo.FindRateCoveringDate(ctx, organizationID, date, baseCurrency, targetCurrency)
}

// GetLatestRate retrieves the most recent rate for the currency pair.
func (s *ExchangeRateService) GetLatestRate(ctx context.Context, organizationID, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	baseCurrency, targetCurrency, err := normalizePair(baseCurrency, targetCurrency)
	if err != nil {
		return nil, err
	}
	return s.rateRepo.FindLatestRate(ctx, organizationID, baseCurrency, targetCurrency)
}

// ListExchangeRates retrieves a paginated, filtered rate listing.
func (s *ExchangeRateService) ListExchangeRates(ctx context.Context, organizationID string, req dto.ListExchangeRatesRequest) ([]domain.ExchangeRate, int, error) {
	filter := portsrepo.ExchangeRateFilter{
		YearMonth:      req.YearMonth,
		BaseCurrency:   strings.ToUpper(req.BaseCurrencyCode),
		TargetCurrency: strings.ToUpper(req.TargetCurrencyCode),
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	return s.rateRepo.ListExchangeRates(ctx, organizationID, filter, page, pageSize)
}

// ResolveRate walks the resolution cascade: an exact period match wins, then
// a rate whose validity window contains the date, then not found. The period
// stage runs first because a period rate is an explicit monthly close while a
// window match is a continuous approximation.
func (s *ExchangeRateService) ResolveRate(ctx context.Context, organizationID, baseCurrency, targetCurrency, yearMonth string, date time.Time) (*domain.ExchangeRate, error) {
	baseCurrency, targetCurrency, err := normalizePair(baseCurrency, targetCurrency)
	if err != nil {
		return nil, err
	}
	if yearMonth == "" && date.IsZero() {
		return nil, fmt.Errorf("%w: either a year-month or a date is required to resolve a rate", apperrors.ErrValidation)
	}

	if yearMonth != "" {
		if !domain.IsValidYearMonth(yearMonth) {
			return nil, fmt.Errorf("%w: year-month must be in format YYYY-MM, got %q", apperrors.ErrValidation, yearMonth)
		}
		rate, err := s.rateRepo.FindRateByPeriod(ctx, organizationID, yearMonth, baseCurrency, targetCurrency)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		// No period match; fall through to the date stage.
	}

	if !date.IsZero() {
		rate, err := s.rateRepo.FindRateCoveringDate(ctx, organizationID, date, baseCurrency, targetCurrency)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: no exchange rate for %s/%s (organization %s)", apperrors.ErrNotFound, baseCurrency, targetCurrency, organizationID)
}

func normalizePair(baseCurrency, targetCurrency string) (string, string, error) {
	baseCurrency = strings.ToUpper(baseCurrency)
	targetCurrency = strings.ToUpper(targetCurrency)
	if len(baseCurrency) != 3 || len(targetCurrency) != 3 {
		return "", "", fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	return baseCurrency, targetCurrency, nil
}
