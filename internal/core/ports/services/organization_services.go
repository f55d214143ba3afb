package services

import (
	"context"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// GetOrganizationByID retrieves a specific organization by its ID.
	GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizations retrieves every active organization.
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization persists a new organization.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)
}

// OrganizationSvcFacade combines all organization-related service interfaces
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
}
