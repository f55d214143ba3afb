package models

import "time"

// Organization is the persistence shape of a tenant. Soft deletion via
// deleted_at keeps historical exchange rates and costs addressable.
type Organization struct {
	OrganizationID string     `json:"organizationID" db:"organization_id"`
	Name           string     `json:"name" db:"name"`
	Description    string     `json:"description" db:"description"`
	IsActive       bool       `json:"isActive" db:"is_active"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	AuditFields
}
