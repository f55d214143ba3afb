package services

import (
	"context"
	"fmt"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/google/uuid"
)

// OrganizationService provides business logic for organizations.
type OrganizationService struct {
	BaseService
	organizationRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(organizationRepo portsrepo.OrganizationRepositoryFacade) *OrganizationService {
	return &OrganizationService{organizationRepo: organizationRepo}
}

var _ portssvc.OrganizationSvcFacade = (*OrganizationService)(nil)

func (s *OrganizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	now := time.Now()
	organization := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.organizationRepo.SaveOrganization(ctx, organization); err != nil {
		s.LogError(ctx, err, "failed to create organization", "name", req.Name)
		return nil, fmt.Errorf("failed to create organization in service: %w", err)
	}

	return &organization, nil
}

func (s *OrganizationService) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	return s.organizationRepo.FindOrganizationByID(ctx, organizationID)
}

func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	organizations, err := s.organizationRepo.ListActiveOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations in service: %w", err)
	}
	if organizations == nil {
		return []domain.Organization{}, nil
	}
	return organizations, nil
}
