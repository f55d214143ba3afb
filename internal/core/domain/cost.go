package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostStatus is the lifecycle state of a cost record.
type CostStatus string

const (
	CostPending  CostStatus = "PENDING"
	CostApproved CostStatus = "APPROVED"
	CostPaid     CostStatus = "PAID"
)

// Cost is a cost-accounting record. Amounts in a foreign currency carry the
// reporting-currency conversion alongside the original amount; when no rate
// could be resolved the three conversion fields stay nil and the record is
// considered pending reconciliation.
type Cost struct {
	CostID              string           `json:"costID" db:"cost_id"`
	OrganizationID      string           `json:"organizationID" db:"organization_id"`
	Description         string           `json:"description" db:"description"`
	Amount              decimal.Decimal  `json:"amount" db:"amount"`
	CurrencyCode        string           `json:"currencyCode" db:"currency"`
	DueDate             time.Time        `json:"dueDate" db:"due_date"`
	ConvertedAmountBRL  *decimal.Decimal `json:"convertedAmountBRL,omitempty" db:"converted_amount_brl"`
	ExchangeRateMonth   *string          `json:"exchangeRateMonth,omitempty" db:"exchange_rate_month"`
	ExchangeRateValue   *decimal.Decimal `json:"exchangeRateValue,omitempty" db:"exchange_rate_value"`
	Status              CostStatus       `json:"status" db:"status"`
	AuditFields
}

// NeedsConversion reports whether the conversion fields are still unresolved.
func (c Cost) NeedsConversion() bool {
	return c.ConvertedAmountBRL == nil || c.ExchangeRateValue == nil || c.ExchangeRateMonth == nil
}

// HasExplicitConversion reports whether the caller supplied a complete set of
// conversion fields, which the conversion service must leave untouched.
func (c Cost) HasExplicitConversion() bool {
	return c.ConvertedAmountBRL != nil && c.ExchangeRateValue != nil && c.ExchangeRateMonth != nil
}

// ReconciliationResult summarizes a batch re-resolution over costs that were
// persisted without a rate.
type ReconciliationResult struct {
	OrganizationID string `json:"organizationID"`
	Examined       int    `json:"examined"`
	Converted      int    `json:"converted"`
	StillPending   int    `json:"stillPending"`
}
