package repositories

import (
	"context"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListActiveOrganizations retrieves every organization that has not been
	// soft-deleted, in creation order. This is the tenant directory the
	// synchronizer iterates during a pass.
	ListActiveOrganizations(ctx context.Context) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, organization domain.Organization) error
}

// OrganizationRepositoryFacade combines all organization-related repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}

// OrganizationRepositoryWithTx extends OrganizationRepositoryFacade with transaction capabilities
type OrganizationRepositoryWithTx interface {
	OrganizationRepositoryFacade
	TransactionManager
}
