package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AutoSourcePrefix tags exchange rates written by the automated synchronizer.
// Rates whose Source does not carry this prefix are treated as manually
// curated and are protected from automated overwrites.
const AutoSourcePrefix = "awesomeapi"

// SourceManual is the provenance tag for administrative rate entry.
const SourceManual = "manual"

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ExchangeRate stores a conversion rate between two currencies for one
// organization and one calendar month. The tuple (organization, year-month,
// base, target) is the natural key: writes targeting the same tuple replace
// the record in place rather than appending.
type ExchangeRate struct {
	ExchangeRateID     string          `json:"exchangeRateID" db:"exchange_rate_id"`
	OrganizationID     string          `json:"organizationID" db:"organization_id"`
	YearMonth          string          `json:"yearMonth" db:"year_month"` // e.g. "2024-03"
	BaseCurrencyCode   string          `json:"baseCurrencyCode" db:"base_currency"`
	TargetCurrencyCode string          `json:"targetCurrencyCode" db:"target_currency"`
	Rate               decimal.Decimal `json:"rate" db:"rate"`
	Source             string          `json:"source" db:"source"`
	ValidFrom          time.Time       `json:"validFrom" db:"valid_from"`
	ValidTo            time.Time       `json:"validTo" db:"valid_to"`
	AuditFields
}

// IsAutoSynced reports whether this rate was written by the synchronizer.
func (r ExchangeRate) IsAutoSynced() bool {
	return strings.HasPrefix(r.Source, AutoSourcePrefix)
}

// Validate checks the invariants every exchange rate must satisfy before it
// reaches storage.
func (r ExchangeRate) Validate() error {
	if !r.Rate.IsPositive() {
		return fmt.Errorf("exchange rate must be greater than zero, got %s", r.Rate)
	}
	if r.BaseCurrencyCode == r.TargetCurrencyCode {
		return fmt.Errorf("base and target currencies must be different, both are %s", r.BaseCurrencyCode)
	}
	if r.ValidFrom.After(r.ValidTo) {
		return fmt.Errorf("valid_from %s is after valid_to %s", r.ValidFrom.Format(time.DateOnly), r.ValidTo.Format(time.DateOnly))
	}
	if !IsValidYearMonth(r.YearMonth) {
		return fmt.Errorf("year-month must be in format YYYY-MM, got %q", r.YearMonth)
	}
	return nil
}

// IsValidYearMonth reports whether s is a well-formed "YYYY-MM" period.
func IsValidYearMonth(s string) bool {
	return yearMonthPattern.MatchString(s)
}

// YearMonthOf returns the "YYYY-MM" period containing t.
func YearMonthOf(t time.Time) string {
	return t.Format("2006-01")
}

// MonthRange returns the first and last day of the calendar month containing t,
// both truncated to midnight UTC. The range is inclusive on both ends.
func MonthRange(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

// WritePolicy controls what an upsert does when a record with the same natural
// key already exists.
type WritePolicy string

const (
	// AlwaysOverwrite replaces any existing record unconditionally.
	AlwaysOverwrite WritePolicy = "ALWAYS_OVERWRITE"
	// PreserveManualEntries overwrites only records the synchronizer wrote
	// itself; manually curated rates are left untouched.
	PreserveManualEntries WritePolicy = "PRESERVE_MANUAL_ENTRIES"
	// NeverOverwrite only inserts; an existing record always wins.
	NeverOverwrite WritePolicy = "NEVER_OVERWRITE"
)

// UpsertOutcome reports what an upsert actually did.
type UpsertOutcome string

const (
	UpsertWritten UpsertOutcome = "WRITTEN"
	UpsertSkipped UpsertOutcome = "SKIPPED"
)
