package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cost is the persistence shape of a cost record. The conversion columns are
// nullable: a NULL triple marks the record as pending rate reconciliation.
type Cost struct {
	CostID             string           `json:"costID" db:"cost_id"`
	OrganizationID     string           `json:"organizationID" db:"organization_id"`
	Description        string           `json:"description" db:"description"`
	Amount             decimal.Decimal  `json:"amount" db:"amount"`
	Currency           string           `json:"currency" db:"currency"`
	DueDate            time.Time        `json:"dueDate" db:"due_date"`
	ConvertedAmountBRL *decimal.Decimal `json:"convertedAmountBRL,omitempty" db:"converted_amount_brl"`
	ExchangeRateMonth  *string          `json:"exchangeRateMonth,omitempty" db:"exchange_rate_month"`
	ExchangeRateValue  *decimal.Decimal `json:"exchangeRateValue,omitempty" db:"exchange_rate_value"`
	Status             string           `json:"status" db:"status"`
	AuditFields
}
