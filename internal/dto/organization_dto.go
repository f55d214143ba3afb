package dto

import (
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
)

// CreateOrganizationRequest defines the data needed to create a new organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}

// ToOrganizationResponse converts a domain.Organization to OrganizationResponse DTO
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		Description:    org.Description,
		IsActive:       org.IsActive,
		CreatedAt:      org.CreatedAt,
		LastUpdatedAt:  org.LastUpdatedAt,
	}
}

// ToListOrganizationResponse converts a slice of domain.Organization to response DTOs
func ToListOrganizationResponse(orgs []domain.Organization) []OrganizationResponse {
	res := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		res[i] = ToOrganizationResponse(&orgs[i])
	}
	return res
}
