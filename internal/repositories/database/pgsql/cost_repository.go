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

type PgxCostRepository struct {
	BaseRepository
}

// newPgxCostRepository creates a new repository for cost data.
func newPgxCostRepository(pool *pgxpool.Pool) portsrepo.CostRepositoryWithTx {
	return &PgxCostRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCostRepository implements portsrepo.CostRepositoryWithTx
var _ portsrepo.CostRepositoryWithTx = (*PgxCostRepository)(nil)

const costColumns = `
	cost_id, organization_id, description, amount, currency, due_date,
	converted_amount_brl, exchange_rate_month, exchange_rate_value, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCost(row pgx.Row) (*domain.Cost, error) {
	var m models.Cost
	err := row.Scan(
		&m.CostID, &m.OrganizationID, &m.Description, &m.Amount, &m.Currency, &m.DueDate,
		&m.ConvertedAmountBRL, &m.ExchangeRateMonth, &m.ExchangeRateValue, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	cost := mapping.ToDomainCost(m)
	return &cost, nil
}

func (r *PgxCostRepository) SaveCost(ctx context.Context, cost domain.Cost) error {
	m := mapping.ToModelCost(cost)
	query := `
		INSERT INTO costs (
			cost_id, organization_id, description, amount, currency, due_date,
			converted_amount_brl, exchange_rate_month, exchange_rate_value, status,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CostID, m.OrganizationID, m.Description, m.Amount, m.Currency, m.DueDate,
		m.ConvertedAmountBRL, m.ExchangeRateMonth, m.ExchangeRateValue, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("cost ID " + m.CostID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationError("organization " + m.OrganizationID + " does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save cost", err)
	}
	return nil
}

func (r *PgxCostRepository) FindCostByID(ctx context.Context, costID string) (*domain.Cost, error) {
	query := `SELECT ` + costColumns + ` FROM costs WHERE cost_id = $1 AND deleted_at IS NULL;`
	cost, err := scanCost(r.Pool.QueryRow(ctx, query, costID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cost with ID " + costID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find cost", err)
	}
	return cost, nil
}

// ListCostsMissingConversion returns the organization's costs whose conversion
// triple is still NULL, oldest first, so reconciliation processes them in
// creation order.
func (r *PgxCostRepository) ListCostsMissingConversion(ctx context.Context, organizationID string) ([]domain.Cost, error) {
	query := `
		SELECT ` + costColumns + `
		FROM costs
		WHERE organization_id = $1 AND deleted_at IS NULL
		  AND (converted_amount_brl IS NULL OR exchange_rate_value IS NULL OR exchange_rate_month IS NULL)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query costs missing conversion", err)
	}
	defer rows.Close()

	var costs []domain.Cost
	for rows.Next() {
		cost, err := scanCost(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan cost", err)
		}
		costs = append(costs, *cost)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating costs", err)
	}
	return costs, nil
}

// UpdateCostConversion writes only the conversion triple and audit columns.
func (r *PgxCostRepository) UpdateCostConversion(ctx context.Context, cost domain.Cost) error {
	m := mapping.ToModelCost(cost)
	query := `
		UPDATE costs
		SET converted_amount_brl = $1,
		    exchange_rate_month = $2,
		    exchange_rate_value = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE cost_id = $6 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ConvertedAmountBRL, m.ExchangeRateMonth, m.ExchangeRateValue,
		m.LastUpdatedAt, m.LastUpdatedBy, m.CostID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update cost conversion", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cost with ID " + m.CostID + " not found")
	}
	return nil
}
