package repositories

import (
	"context"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
)

// ExchangeRateFilter narrows exchange-rate listings. Zero values mean "no
// filter". DateFrom/DateTo select rates whose validity window overlaps the
// given range.
type ExchangeRateFilter struct {
	YearMonth      string
	BaseCurrency   string
	TargetCurrency string
	DateFrom       *time.Time
	DateTo         *time.Time
}

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRateByPeriod retrieves the rate stored for an exact year-month and
	// currency pair. There is at most one such record per organization.
	FindRateByPeriod(ctx context.Context, organizationID, yearMonth, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// FindRateCoveringDate retrieves the rate whose [valid_from, valid_to]
	// window contains date. When several windows qualify the most recent
	// valid_from wins, tie-broken by last_updated_at.
	FindRateCoveringDate(ctx context.Context, organizationID string, date time.Time, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// FindLatestRate retrieves the most recent rate by valid_to, then
	// last_updated_at.
	FindLatestRate(ctx context.Context, organizationID, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves a paginated, filtered listing for an
	// organization together with the total count.
	ListExchangeRates(ctx context.Context, organizationID string, filter ExchangeRateFilter, page, pageSize int) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new rate. A natural-key collision returns
	// apperrors.ErrDuplicate; manual entry never silently replaces a record.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// UpsertExchangeRate inserts or replaces the record sharing rate's natural
	// key in a single atomic statement. The policy decides whether an existing
	// record may be overwritten; the outcome reports what actually happened.
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate, policy domain.WritePolicy) (domain.UpsertOutcome, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
