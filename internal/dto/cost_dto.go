package dto

import (
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCostRequest defines the data needed to create a new cost. The
// conversion fields are optional: when all three are supplied they are
// trusted verbatim, otherwise the conversion service resolves them.
type CreateCostRequest struct {
	Description        string           `json:"description" binding:"required"`
	Amount             decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode       string           `json:"currencyCode" binding:"required,uppercase,len=3"`
	DueDate            time.Time        `json:"dueDate" binding:"required" time_format:"2006-01-02"`
	ConvertedAmountBRL *decimal.Decimal `json:"convertedAmountBRL"`
	ExchangeRateMonth  *string          `json:"exchangeRateMonth" binding:"omitempty,yearmonth"`
	ExchangeRateValue  *decimal.Decimal `json:"exchangeRateValue"`
}

// CostResponse defines the data returned for a cost.
type CostResponse struct {
	CostID             string           `json:"costID"`
	OrganizationID     string           `json:"organizationID"`
	Description        string           `json:"description"`
	Amount             decimal.Decimal  `json:"amount"`
	CurrencyCode       string           `json:"currencyCode"`
	DueDate            string           `json:"dueDate"`
	ConvertedAmountBRL *decimal.Decimal `json:"convertedAmountBRL,omitempty"`
	ExchangeRateMonth  *string          `json:"exchangeRateMonth,omitempty"`
	ExchangeRateValue  *decimal.Decimal `json:"exchangeRateValue,omitempty"`
	PendingConversion  bool             `json:"pendingConversion"`
	Status             string           `json:"status"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// ToCostResponse converts a domain.Cost to CostResponse DTO
func ToCostResponse(cost *domain.Cost) CostResponse {
	return CostResponse{
		CostID:             cost.CostID,
		OrganizationID:     cost.OrganizationID,
		Description:        cost.Description,
		Amount:             cost.Amount,
		CurrencyCode:       cost.CurrencyCode,
		DueDate:            cost.DueDate.Format(time.DateOnly),
		ConvertedAmountBRL: cost.ConvertedAmountBRL,
		ExchangeRateMonth:  cost.ExchangeRateMonth,
		ExchangeRateValue:  cost.ExchangeRateValue,
		PendingConversion:  cost.NeedsConversion(),
		Status:             string(cost.Status),
		CreatedAt:          cost.CreatedAt,
	}
}
