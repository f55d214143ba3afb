package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the persistence shape of an exchange-rate record. The tuple
// (organization_id, year_month, base_currency, target_currency) is UNIQUE in
// the database and is the conflict target for upserts.
type ExchangeRate struct {
	ExchangeRateID     string          `json:"exchangeRateID" db:"exchange_rate_id"`
	OrganizationID     string          `json:"organizationID" db:"organization_id"`
	YearMonth          string          `json:"yearMonth" db:"year_month"`
	BaseCurrencyCode   string          `json:"baseCurrencyCode" db:"base_currency"`
	TargetCurrencyCode string          `json:"targetCurrencyCode" db:"target_currency"`
	Rate               decimal.Decimal `json:"rate" db:"rate"`
	Source             string          `json:"source" db:"source"`
	ValidFrom          time.Time       `json:"validFrom" db:"valid_from"`
	ValidTo            time.Time       `json:"validTo" db:"valid_to"`
	AuditFields
}
