package pgsql

import (
	"context"
	"errors"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	"github.com/LesterCerioli/lts_accounting_app/internal/models"
	"github.com/LesterCerioli/lts_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryWithTx {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxOrganizationRepository implements portsrepo.OrganizationRepositoryWithTx
var _ portsrepo.OrganizationRepositoryWithTx = (*PgxOrganizationRepository)(nil)

const organizationColumns = `
	organization_id, name, description, is_active, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, organization domain.Organization) error {
	m := mapping.ToModelOrganization(organization)
	query := `
		INSERT INTO organizations (
			organization_id, name, description, is_active, deleted_at,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganizationID, m.Name, m.Description, m.IsActive, m.DeletedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("organization ID " + m.OrganizationID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save organization "+m.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE organization_id = $1 AND deleted_at IS NULL;`

	var m models.Organization
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&m.OrganizationID, &m.Name, &m.Description, &m.IsActive, &m.DeletedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("organization with ID " + organizationID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find organization", err)
	}
	org := mapping.ToDomainOrganization(m)
	return &org, nil
}

// ListActiveOrganizations returns every organization that has not been soft
// deleted, in creation order. This is the tenant directory the synchronizer
// iterates.
func (r *PgxOrganizationRepository) ListActiveOrganizations(ctx context.Context) ([]domain.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations
		WHERE deleted_at IS NULL AND is_active
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations", err)
	}
	defer rows.Close()

	modelOrgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Organization])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) { // no rows is not an error for a list
			return []domain.Organization{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect organization rows", err)
	}

	orgs := make([]domain.Organization, len(modelOrgs))
	for i, m := range modelOrgs {
		orgs[i] = mapping.ToDomainOrganization(m)
	}
	return orgs, nil
}
