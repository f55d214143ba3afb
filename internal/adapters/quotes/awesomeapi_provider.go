// Package quotes implements external quote source adapters.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// AwesomeAPIProvider fetches currency quotes from the AwesomeAPI economia
// endpoint. One FetchQuote call is one HTTP request; caching and retry are
// the caller's concern.
type AwesomeAPIProvider struct {
	baseURL string
	client  *http.Client
}

// NewAwesomeAPIProvider creates a provider against baseURL, e.g.
// "https://economia.awesomeapi.com.br/json".
func NewAwesomeAPIProvider(baseURL string, timeout time.Duration) *AwesomeAPIProvider {
	return &AwesomeAPIProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ portssvc.QuoteProvider = (*AwesomeAPIProvider)(nil)

// awesomeQuote is the per-pair payload of the AwesomeAPI response. All
// numeric fields arrive as strings.
type awesomeQuote struct {
	Code      string `json:"code"`
	Codein    string `json:"codein"`
	High      string `json:"high"`
	Low       string `json:"low"`
	Bid       string `json:"bid"`
	Ask       string `json:"ask"`
	Timestamp string `json:"timestamp"`
}

// FetchQuote requests the latest quote for the pair, e.g. USD-BRL. Transport
// and upstream failures map to apperrors.ErrQuoteUnavailable so callers can
// degrade to a cached quote; payloads that can never parse map to
// apperrors.ErrMalformedQuote.
func (p *AwesomeAPIProvider) FetchQuote(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	pair := baseCurrency + "-" + targetCurrency
	url := fmt.Sprintf("%s/last/%s", p.baseURL, pair)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request to quote source failed: %s", apperrors.ErrQuoteUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quote source returned status %d", apperrors.ErrQuoteUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read quote response: %s", apperrors.ErrQuoteUnavailable, err.Error())
	}

	// The response is keyed by the concatenated pair, e.g. "USDBRL".
	var payload map[string]awesomeQuote
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: quote response is not valid JSON: %s", apperrors.ErrMalformedQuote, err.Error())
	}
	raw, ok := payload[baseCurrency+targetCurrency]
	if !ok {
		return nil, fmt.Errorf("%w: quote response has no entry for pair %s", apperrors.ErrMalformedQuote, pair)
	}

	return p.toQuote(raw, baseCurrency, targetCurrency)
}

func (p *AwesomeAPIProvider) toQuote(raw awesomeQuote, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	bid, err := decimal.NewFromString(raw.Bid)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable bid %q", apperrors.ErrMalformedQuote, raw.Bid)
	}
	ask, err := decimal.NewFromString(raw.Ask)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable ask %q", apperrors.ErrMalformedQuote, raw.Ask)
	}
	high, err := decimal.NewFromString(raw.High)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable high %q", apperrors.ErrMalformedQuote, raw.High)
	}
	low, err := decimal.NewFromString(raw.Low)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable low %q", apperrors.ErrMalformedQuote, raw.Low)
	}

	ts := time.Now()
	if raw.Timestamp != "" {
		unix, err := strconv.ParseInt(raw.Timestamp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: unparseable timestamp %q", apperrors.ErrMalformedQuote, raw.Timestamp)
		}
		ts = time.Unix(unix, 0)
	}

	quote := &domain.RateQuote{
		BaseCurrencyCode:   baseCurrency,
		TargetCurrencyCode: targetCurrency,
		Bid:                bid,
		Ask:                ask,
		Mid:                bid.Add(ask).Div(decimal.NewFromInt(2)),
		High:               high,
		Low:                low,
		Timestamp:          ts,
		Source:             "awesomeapi",
	}
	if err := quote.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMalformedQuote, err.Error())
	}
	return quote, nil
}
