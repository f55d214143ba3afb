package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// RateSyncService keeps every organization's current-month exchange rate in
// step with the external quote source. One pass fetches a single quote
// (through the cache) and fans it out across organizations; per-organization
// failures are isolated so one bad tenant never blocks the rest.
type RateSyncService struct {
	BaseService
	cache            *RateCache
	rateRepo         portsrepo.ExchangeRateRepositoryFacade
	organizationRepo portsrepo.OrganizationReader

	baseCurrency   string
	targetCurrency string
	syncHour       int
	syncMinute     int

	running atomic.Bool

	mu        sync.Mutex
	armed     bool
	cancel    context.CancelFunc
	done      chan struct{}
	nextRunAt time.Time
	lastRun   *domain.SyncRun

	now func() time.Time // test hook
}

// NewRateSyncService creates a new RateSyncService. The pass writes rates for
// the baseCurrency/targetCurrency pair at syncHour:syncMinute local time each
// day once Start is called.
func NewRateSyncService(cache *RateCache, rateRepo portsrepo.ExchangeRateRepositoryFacade, organizationRepo portsrepo.OrganizationReader, baseCurrency, targetCurrency string, syncHour, syncMinute int) *RateSyncService {
	return &RateSyncService{
		cache:            cache,
		rateRepo:         rateRepo,
		organizationRepo: organizationRepo,
		baseCurrency:     baseCurrency,
		targetCurrency:   targetCurrency,
		syncHour:         syncHour,
		syncMinute:       syncMinute,
		now:              time.Now,
	}
}

var _ portssvc.RateSyncSvcFacade = (*RateSyncService)(nil)

// Start arms the daily trigger. Idempotent; calling Start while armed is a
// no-op.
func (s *RateSyncService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.armed = true
	s.cancel = cancel
	s.done = make(chan struct{})
	s.nextRunAt = nextOccurrence(s.now(), s.syncHour, s.syncMinute)

	s.LogInfo(ctx, "rate sync scheduler armed",
		"sync_hour", s.syncHour,
		"sync_minute", s.syncMinute,
		"next_run_at", s.nextRunAt)

	go s.loop(loopCtx, s.done)
}

// Stop disarms the trigger and cancels a pending wait. A pass that is already
// executing completes normally; Stop returns once the loop goroutine exits.
func (s *RateSyncService) Stop() {
	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return
	}
	s.armed = false
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.nextRunAt = time.Time{}
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *RateSyncService) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		next := s.nextRunAt
		s.mu.Unlock()

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.mu.Lock()
		s.nextRunAt = nextOccurrence(s.now(), s.syncHour, s.syncMinute)
		s.mu.Unlock()

		// Stop only cancels the wait above. A pass that has started runs on
		// its own context so its tenant writes complete even when the
		// scheduler is disarmed mid-pass.
		passCtx := context.WithoutCancel(ctx)
		if _, err := s.RunOnce(passCtx, ""); err != nil {
			s.LogError(passCtx, err, "scheduled rate sync pass failed")
		}
	}
}

// nextOccurrence returns the next time hour:minute occurs strictly after now,
// today if it is still ahead, otherwise tomorrow.
func nextOccurrence(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce executes one synchronization pass. organizationID narrows the pass
// to one tenant; empty means every active organization. Only one pass runs at
// a time: a second caller gets apperrors.ErrSyncInProgress immediately
// instead of queueing.
func (s *RateSyncService) RunOnce(ctx context.Context, organizationID string) (*domain.SyncRun, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, apperrors.ErrSyncInProgress
	}
	defer s.running.Store(false)

	run := &domain.SyncRun{StartedAt: s.now()}

	quote, stale, fetchErr := s.cache.GetOrFetch(ctx, s.baseCurrency, s.targetCurrency)
	if quote == nil {
		// Nothing to write with; the pass aborts before touching any tenant.
		s.LogError(ctx, fetchErr, "rate sync aborted, no quote available")
		return nil, fmt.Errorf("rate sync aborted: %w", fetchErr)
	}
	if stale {
		s.LogWarn(ctx, "quote source unavailable, degrading to cached quote",
			"cached_at", s.cache.CachedAt(),
			"error", fetchErr.Error())
	}
	if err := quote.Validate(); err != nil {
		s.LogError(ctx, err, "rate sync aborted, quote failed validation")
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMalformedQuote, err.Error())
	}
	run.Quote = quote
	run.StaleQuoteUsed = stale

	organizations, err := s.targetOrganizations(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	run.TotalOrganizations = len(organizations)

	for _, org := range organizations {
		outcome := s.syncOrganization(ctx, org, quote)
		run.Record(outcome)
	}

	run.FinishedAt = s.now()
	run.Duration = run.FinishedAt.Sub(run.StartedAt)

	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()

	s.LogInfo(ctx, "rate sync pass finished",
		"organizations", run.TotalOrganizations,
		"synced", run.SyncedCount,
		"skipped", run.SkippedCount,
		"failed", run.FailedCount,
		"stale_quote", run.StaleQuoteUsed,
		"duration", run.Duration)

	return run, nil
}

func (s *RateSyncService) targetOrganizations(ctx context.Context, organizationID string) ([]domain.Organization, error) {
	if organizationID != "" {
		org, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		return []domain.Organization{*org}, nil
	}
	return s.organizationRepo.ListActiveOrganizations(ctx)
}

// syncOrganization writes the quote's mid rate for one tenant. Errors become
// a FAILED outcome instead of propagating so the pass continues with the
// remaining organizations.
func (s *RateSyncService) syncOrganization(ctx context.Context, org domain.Organization, quote *domain.RateQuote) domain.SyncOutcome {
	outcome := domain.SyncOutcome{
		OrganizationID:   org.OrganizationID,
		OrganizationName: org.Name,
	}

	now := s.now()
	validFrom, validTo := domain.MonthRange(now)
	rate := domain.ExchangeRate{
		ExchangeRateID:     uuid.NewString(),
		OrganizationID:     org.OrganizationID,
		YearMonth:          domain.YearMonthOf(now),
		BaseCurrencyCode:   quote.BaseCurrencyCode,
		TargetCurrencyCode: quote.TargetCurrencyCode,
		Rate:               quote.Mid,
		Source:             fmt.Sprintf("%s_%d", domain.AutoSourcePrefix, quote.Timestamp.Unix()),
		ValidFrom:          validFrom,
		ValidTo:            validTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "rate-sync",
			LastUpdatedAt: now,
			LastUpdatedBy: "rate-sync",
		},
	}

	result, err := s.rateRepo.UpsertExchangeRate(ctx, rate, domain.PreserveManualEntries)
	if err != nil {
		s.LogError(ctx, err, "rate sync failed for organization",
			"organization_id", org.OrganizationID)
		outcome.Status = domain.SyncStatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	if result == domain.UpsertSkipped {
		outcome.Status = domain.SyncStatusSkipped
		return outcome
	}
	outcome.Status = domain.SyncStatusSynced
	return outcome
}

// Status reports scheduler arming, next fire time and quote cache freshness.
func (s *RateSyncService) Status() domain.SyncStatus {
	s.mu.Lock()
	armed := s.armed
	nextRunAt := s.nextRunAt
	lastRun := s.lastRun
	s.mu.Unlock()

	status := domain.SyncStatus{
		Armed:      armed,
		Running:    s.running.Load(),
		SyncHour:   s.syncHour,
		SyncMinute: s.syncMinute,
	}
	if armed && !nextRunAt.IsZero() {
		t := nextRunAt
		status.NextRunAt = &t
	}
	if cachedAt := s.cache.CachedAt(); !cachedAt.IsZero() {
		t := cachedAt
		age := s.now().Sub(cachedAt).Seconds()
		status.QuoteCachedAt = &t
		status.QuoteCacheAge = &age
	}
	if lastRun != nil {
		started := lastRun.StartedAt
		synced := lastRun.SyncedCount
		status.LastRunStarted = &started
		status.LastRunSynced = &synced
	}
	return status
}
