package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateQuote is a point-in-time quote from the external source. Mid is the
// average of bid and ask and is the value the synchronizer persists.
type RateQuote struct {
	BaseCurrencyCode   string          `json:"baseCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	Bid                decimal.Decimal `json:"bid"`
	Ask                decimal.Decimal `json:"ask"`
	Mid                decimal.Decimal `json:"mid"`
	High               decimal.Decimal `json:"high"`
	Low                decimal.Decimal `json:"low"`
	Timestamp          time.Time       `json:"timestamp"`
	Source             string          `json:"source"`
}

// Validate rejects quotes that could never produce a storable exchange rate:
// a non-positive mid or a pair quoting a currency against itself.
func (q RateQuote) Validate() error {
	if !q.Mid.IsPositive() {
		return fmt.Errorf("quote mid rate must be greater than zero, got %s", q.Mid)
	}
	if q.BaseCurrencyCode == q.TargetCurrencyCode {
		return fmt.Errorf("quote base and target currencies must be different, both are %s", q.BaseCurrencyCode)
	}
	return nil
}
