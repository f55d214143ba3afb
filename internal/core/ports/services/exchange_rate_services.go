package services

import (
	"context"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetRateForPeriod retrieves the rate stored for an exact year-month and
	// currency pair.
	GetRateForPeriod(ctx context.Context, organizationID, yearMonth, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// GetRateForDate retrieves the rate whose validity window contains date.
	GetRateForDate(ctx context.Context, organizationID string, date time.Time, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// GetLatestRate retrieves the most recent rate for the currency pair.
	GetLatestRate(ctx context.Context, organizationID, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves a paginated, filtered rate listing.
	ListExchangeRates(ctx context.Context, organizationID string, req dto.ListExchangeRatesRequest) ([]domain.ExchangeRate, int, error)
}

// RateResolverSvc resolves the rate cost conversion should apply. The cascade
// prefers an exact period match over a date-window match: period rates are an
// explicit monthly close, date-window rates a continuous approximation.
type RateResolverSvc interface {
	// ResolveRate returns the best rate for the given period and/or date, or
	// apperrors.ErrNotFound when neither stage matches. yearMonth may be empty
	// and date may be the zero time, but not both.
	ResolveRate(ctx context.Context, organizationID, baseCurrency, targetCurrency, yearMonth string, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new manually entered exchange rate.
	CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	RateResolverSvc
	ExchangeRateWriterSvc
}
