package mapping

import (
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Description:    d.Description,
		IsActive:       d.IsActive,
		DeletedAt:      d.DeletedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Description:    m.Description,
		IsActive:       m.IsActive,
		DeletedAt:      m.DeletedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
