package services

import (
	"context"
	"sync"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
)

// RateCache memoizes the last quote fetched from the external source so one
// synchronization pass hits the provider once regardless of how many
// organizations it serves. Safe for concurrent use; the status endpoint reads
// it while a pass may be writing.
type RateCache struct {
	mu       sync.RWMutex
	provider portssvc.QuoteProvider
	maxAge   time.Duration

	quote    *domain.RateQuote
	cachedAt time.Time

	now func() time.Time // test hook
}

// NewRateCache creates a cache in front of provider. Entries older than
// maxAge are refetched before being served.
func NewRateCache(provider portssvc.QuoteProvider, maxAge time.Duration) *RateCache {
	return &RateCache{
		provider: provider,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// GetOrFetch returns a quote no older than the cache's max age, fetching from
// the provider when the cached entry is missing or expired. When the fetch
// fails but an expired entry exists, that entry is returned with stale=true
// alongside the fetch error; the caller decides whether a stale quote is
// acceptable.
func (c *RateCache) GetOrFetch(ctx context.Context, baseCurrency, targetCurrency string) (quote *domain.RateQuote, stale bool, err error) {
	c.mu.RLock()
	if c.quote != nil && c.now().Sub(c.cachedAt) < c.maxAge {
		q := *c.quote
		c.mu.RUnlock()
		return &q, false, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if c.quote != nil && c.now().Sub(c.cachedAt) < c.maxAge {
		q := *c.quote
		return &q, false, nil
	}

	fresh, fetchErr := c.provider.FetchQuote(ctx, baseCurrency, targetCurrency)
	if fetchErr != nil {
		if c.quote != nil {
			q := *c.quote
			return &q, true, fetchErr
		}
		return nil, false, fetchErr
	}

	c.quote = fresh
	c.cachedAt = c.now()
	q := *fresh
	return &q, false, nil
}

// CachedAt returns when the current entry was stored, or the zero time when
// the cache is empty.
func (c *RateCache) CachedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cachedAt
}

// Invalidate drops the cached entry so the next read refetches.
func (c *RateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quote = nil
	c.cachedAt = time.Time{}
}
