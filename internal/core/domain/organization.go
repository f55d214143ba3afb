package domain

import "time"

// Organization is the tenant boundary: every exchange rate and cost record is
// owned by exactly one organization.
type Organization struct {
	OrganizationID string     `json:"organizationID" db:"organization_id"`
	Name           string     `json:"name" db:"name"`
	Description    string     `json:"description" db:"description"`
	IsActive       bool       `json:"isActive" db:"is_active"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	AuditFields
}
