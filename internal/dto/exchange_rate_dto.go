package dto

import (
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for manually entering an
// exchange rate for one organization and period.
type CreateExchangeRateRequest struct {
	YearMonth          string          `json:"yearMonth" binding:"required,yearmonth"`
	BaseCurrencyCode   string          `json:"baseCurrencyCode" binding:"required,uppercase,len=3"`
	TargetCurrencyCode string          `json:"targetCurrencyCode" binding:"required,uppercase,len=3"`
	Rate               decimal.Decimal `json:"rate" binding:"required"`
	ValidFrom          time.Time       `json:"validFrom" binding:"required" time_format:"2006-01-02"`
	ValidTo            time.Time       `json:"validTo" binding:"required" time_format:"2006-01-02"`
	Source             string          `json:"source"`
}

// ListExchangeRatesRequest carries the optional filters of a rate listing.
type ListExchangeRatesRequest struct {
	YearMonth          string     `form:"yearMonth" binding:"omitempty,yearmonth"`
	BaseCurrencyCode   string     `form:"baseCurrencyCode" binding:"omitempty,uppercase,len=3"`
	TargetCurrencyCode string     `form:"targetCurrencyCode" binding:"omitempty,uppercase,len=3"`
	DateFrom           *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo             *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Page               int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize           int        `form:"pageSize,default=50" binding:"omitempty,min=1,max=200"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID     string          `json:"exchangeRateID"`
	OrganizationID     string          `json:"organizationID"`
	YearMonth          string          `json:"yearMonth"`
	BaseCurrencyCode   string          `json:"baseCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	Rate               decimal.Decimal `json:"rate"`
	Source             string          `json:"source"`
	ValidFrom          string          `json:"validFrom"`
	ValidTo            string          `json:"validTo"`
	CreatedAt          time.Time       `json:"createdAt"`
	LastUpdatedAt      time.Time       `json:"lastUpdatedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:     rate.ExchangeRateID,
		OrganizationID:     rate.OrganizationID,
		YearMonth:          rate.YearMonth,
		BaseCurrencyCode:   rate.BaseCurrencyCode,
		TargetCurrencyCode: rate.TargetCurrencyCode,
		Rate:               rate.Rate,
		Source:             rate.Source,
		ValidFrom:          rate.ValidFrom.Format(time.DateOnly),
		ValidTo:            rate.ValidTo.Format(time.DateOnly),
		CreatedAt:          rate.CreatedAt,
		LastUpdatedAt:      rate.LastUpdatedAt,
	}
}

// ListExchangeRatesResponse wraps a paginated rate listing.
type ListExchangeRatesResponse struct {
	ExchangeRates []ExchangeRateResponse `json:"exchangeRates"`
	TotalCount    int                    `json:"totalCount"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"pageSize"`
}

// ToListExchangeRatesResponse converts a page of domain rates plus the total
// count into the response shape.
func ToListExchangeRatesResponse(rates []domain.ExchangeRate, total, page, pageSize int) ListExchangeRatesResponse {
	out := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		out[i] = ToExchangeRateResponse(&rates[i])
	}
	return ListExchangeRatesResponse{
		ExchangeRates: out,
		TotalCount:    total,
		Page:          page,
		PageSize:      pageSize,
	}
}
