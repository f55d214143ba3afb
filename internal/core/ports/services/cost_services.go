package services

import (
	"context"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
)

// CostConversionSvcFacade populates the reporting-currency conversion on cost
// records and re-resolves records persisted without a rate.
type CostConversionSvcFacade interface {
	// CreateCost persists a new cost, resolving its conversion fields first.
	CreateCost(ctx context.Context, organizationID string, req dto.CreateCostRequest, creatorUserID string) (*domain.Cost, error)

	// PrepareConversion fills the conversion fields of a cost draft in place.
	// A missing rate is not an error: the fields stay nil and the record is
	// flagged for reconciliation by their absence.
	PrepareConversion(ctx context.Context, cost *domain.Cost) error

	// ReconcileMissingRates re-runs resolution for every cost of the
	// organization whose conversion fields are NULL.
	ReconcileMissingRates(ctx context.Context, organizationID string) (*domain.ReconciliationResult, error)
}
