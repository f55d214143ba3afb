package services

import (
	"context"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
)

// RateSyncSvcFacade drives periodic and on-demand exchange-rate
// synchronization across organizations.
type RateSyncSvcFacade interface {
	// Start arms the daily trigger. Idempotent; a second call while armed is
	// a no-op.
	Start(ctx context.Context)

	// Stop disarms the trigger and cancels a pending wait. A pass that is
	// already running completes normally.
	Stop()

	// RunOnce executes one synchronization pass, for a single organization
	// when organizationID is non-empty or for every active organization
	// otherwise. Returns apperrors.ErrSyncInProgress immediately when a pass
	// is already running.
	RunOnce(ctx context.Context, organizationID string) (*domain.SyncRun, error)

	// Status reports scheduler arming, next fire time and quote cache
	// freshness.
	Status() domain.SyncStatus
}
