package domain_test

import (
	"testing"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRate() domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:     "rate-1",
		OrganizationID:     "org-1",
		YearMonth:          "2024-03",
		BaseCurrencyCode:   "USD",
		TargetCurrencyCode: "BRL",
		Rate:               decimal.NewFromFloat(5.10),
		Source:             domain.SourceManual,
		ValidFrom:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:            time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestExchangeRateValidate(t *testing.T) {
	t.Run("valid rate passes", func(t *testing.T) {
		assert.NoError(t, validRate().Validate())
	})

	t.Run("zero rate rejected", func(t *testing.T) {
		r := validRate()
		r.Rate = decimal.Zero
		assert.Error(t, r.Validate())
	})

	t.Run("negative rate rejected", func(t *testing.T) {
		r := validRate()
		r.Rate = decimal.NewFromFloat(-5.10)
		assert.Error(t, r.Validate())
	})

	t.Run("same currency pair rejected", func(t *testing.T) {
		r := validRate()
		r.TargetCurrencyCode = r.BaseCurrencyCode
		assert.Error(t, r.Validate())
	})

	t.Run("inverted validity window rejected", func(t *testing.T) {
		r := validRate()
		r.ValidFrom, r.ValidTo = r.ValidTo, r.ValidFrom
		assert.Error(t, r.Validate())
	})

	t.Run("malformed period rejected", func(t *testing.T) {
		r := validRate()
		r.YearMonth = "2024-13"
		assert.Error(t, r.Validate())
	})
}

func TestIsValidYearMonth(t *testing.T) {
	valid := []string{"2024-01", "2024-12", "1999-06"}
	for _, s := range valid {
		assert.True(t, domain.IsValidYearMonth(s), s)
	}

	invalid := []string{"", "2024", "2024-00", "2024-13", "2024-1", "24-03", "2024/03", "2024-03-15"}
	for _, s := range invalid {
		assert.False(t, domain.IsValidYearMonth(s), s)
	}
}

func TestMonthRange(t *testing.T) {
	t.Run("mid month", func(t *testing.T) {
		from, to := domain.MonthRange(time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("leap february", func(t *testing.T) {
		from, to := domain.MonthRange(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("december wraps the year", func(t *testing.T) {
		from, to := domain.MonthRange(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), to)
	})
}

func TestYearMonthOf(t *testing.T) {
	assert.Equal(t, "2024-03", domain.YearMonthOf(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1999-12", domain.YearMonthOf(time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIsAutoSynced(t *testing.T) {
	r := validRate()
	require.False(t, r.IsAutoSynced())

	r.Source = "awesomeapi_1710511200"
	assert.True(t, r.IsAutoSynced())

	r.Source = "manual"
	assert.False(t, r.IsAutoSynced())
}

func TestSyncRunRecord(t *testing.T) {
	run := &domain.SyncRun{}
	run.Record(domain.SyncOutcome{OrganizationID: "a", Status: domain.SyncStatusSynced})
	run.Record(domain.SyncOutcome{OrganizationID: "b", Status: domain.SyncStatusSkipped})
	run.Record(domain.SyncOutcome{OrganizationID: "c", Status: domain.SyncStatusFailed, Error: "boom"})

	assert.Equal(t, 1, run.SyncedCount)
	assert.Equal(t, 1, run.SkippedCount)
	assert.Equal(t, 1, run.FailedCount)
	assert.Len(t, run.Outcomes, 3)
}
