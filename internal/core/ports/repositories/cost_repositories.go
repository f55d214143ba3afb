package repositories

import (
	"context"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
)

// CostReader defines read operations for cost data
type CostReader interface {
	// FindCostByID retrieves a specific cost by its unique identifier.
	FindCostByID(ctx context.Context, costID string) (*domain.Cost, error)

	// ListCostsMissingConversion retrieves every cost of the organization whose
	// conversion fields are still NULL, oldest first. These are the records
	// the reconciliation batch re-resolves.
	ListCostsMissingConversion(ctx context.Context, organizationID string) ([]domain.Cost, error)
}

// CostWriter defines write operations for cost data
type CostWriter interface {
	// SaveCost persists a new cost.
	SaveCost(ctx context.Context, cost domain.Cost) error

	// UpdateCostConversion writes only the conversion triple and the audit
	// columns of an existing cost.
	UpdateCostConversion(ctx context.Context, cost domain.Cost) error
}

// CostRepositoryFacade combines all cost-related repository interfaces
type CostRepositoryFacade interface {
	CostReader
	CostWriter
}

// CostRepositoryWithTx extends CostRepositoryFacade with transaction capabilities
type CostRepositoryWithTx interface {
	CostRepositoryFacade
	TransactionManager
}
