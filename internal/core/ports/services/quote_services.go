package services

import (
	"context"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
)

// QuoteProvider is the boundary to the external quote source. One call, one
// external request; retry policy belongs to the caller. Implementations must
// return apperrors.ErrQuoteUnavailable for transient failures and
// apperrors.ErrMalformedQuote for payloads that can never parse, so the
// caller can decide between aborting and degrading to a cached quote.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error)
}
