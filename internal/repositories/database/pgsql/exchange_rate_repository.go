package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	"github.com/LesterCerioli/lts_accounting_app/internal/models"
	"github.com/LesterCerioli/lts_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryWithTx using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryWithTx
var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `
	exchange_rate_id, organization_id, year_month, base_currency, target_currency,
	rate, source, valid_from, valid_to,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExchangeRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID, &m.OrganizationID, &m.YearMonth, &m.BaseCurrencyCode, &m.TargetCurrencyCode,
		&m.Rate, &m.Source, &m.ValidFrom, &m.ValidTo,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// SaveExchangeRate inserts a manually entered rate. A natural-key collision is
// surfaced as a conflict instead of replacing anything: manual entry must be
// explicit about overwrites.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, organization_id, year_month, base_currency, target_currency,
			rate, source, valid_from, valid_to,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExchangeRateID, m.OrganizationID, m.YearMonth, m.BaseCurrencyCode, m.TargetCurrencyCode,
		m.Rate, m.Source, m.ValidFrom, m.ValidTo,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation on the natural key
				return apperrors.NewConflictError(fmt.Sprintf(
					"exchange rate for %s (%s->%s) already exists for organization %s",
					m.YearMonth, m.BaseCurrencyCode, m.TargetCurrencyCode, m.OrganizationID))
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationError("organization " + m.OrganizationID + " does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}

// UpsertExchangeRate inserts or replaces the record sharing rate's natural key
// in one statement; atomicity rests on the storage engine's conflict
// resolution, no explicit locking. The conflict action depends on the policy:
// AlwaysOverwrite replaces unconditionally, NeverOverwrite never does, and
// PreserveManualEntries replaces only rates the synchronizer wrote itself.
// The RETURNING clause distinguishes a write from a skip: a conflict whose
// update predicate fails yields no row.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate, policy domain.WritePolicy) (domain.UpsertOutcome, error) {
	if err := rate.Validate(); err != nil {
		return domain.UpsertSkipped, apperrors.NewValidationError(err.Error())
	}

	m := mapping.ToModelExchangeRate(rate)

	var conflictAction string
	switch policy {
	case domain.AlwaysOverwrite:
		conflictAction = `DO UPDATE SET
			rate = EXCLUDED.rate,
			source = EXCLUDED.source,
			valid_from = EXCLUDED.valid_from,
			valid_to = EXCLUDED.valid_to,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`
	case domain.NeverOverwrite:
		conflictAction = `DO NOTHING`
	default: // PreserveManualEntries
		conflictAction = `DO UPDATE SET
			rate = EXCLUDED.rate,
			source = EXCLUDED.source,
			valid_from = EXCLUDED.valid_from,
			valid_to = EXCLUDED.valid_to,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		WHERE exchange_rates.source LIKE '` + domain.AutoSourcePrefix + `%'`
	}

	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, organization_id, year_month, base_currency, target_currency,
			rate, source, valid_from, valid_to,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (organization_id, year_month, base_currency, target_currency) ` + conflictAction + `
		RETURNING exchange_rate_id;
	`

	var writtenID string
	err := r.Pool.QueryRow(ctx, query,
		m.ExchangeRateID, m.OrganizationID, m.YearMonth, m.BaseCurrencyCode, m.TargetCurrencyCode,
		m.Rate, m.Source, m.ValidFrom, m.ValidTo,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&writtenID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict hit and the policy refused the overwrite.
			return domain.UpsertSkipped, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.UpsertSkipped, apperrors.NewValidationError("organization " + m.OrganizationID + " does not exist")
		}
		return domain.UpsertSkipped, apperrors.NewAppError(500, "failed to upsert exchange rate", err)
	}
	return domain.UpsertWritten, nil
}

// FindRateByPeriod retrieves the rate stored for an exact year-month and pair.
func (r *PgxExchangeRateRepository) FindRateByPeriod(ctx context.Context, organizationID, yearMonth, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1 AND year_month = $2 AND base_currency = $3 AND target_currency = $4;
	`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, organizationID, yearMonth, strings.ToUpper(baseCurrency), strings.ToUpper(targetCurrency)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf(
				"no exchange rate for %s (%s->%s)", yearMonth, baseCurrency, targetCurrency))
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate by period", err)
	}
	return rate, nil
}

// FindRateCoveringDate retrieves the rate whose validity window contains date.
// The most recent valid_from wins; last_updated_at breaks ties.
func (r *PgxExchangeRateRepository) FindRateCoveringDate(ctx context.Context, organizationID string, date time.Time, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1 AND base_currency = $2 AND target_currency = $3
		  AND valid_from <= $4 AND valid_to >= $4
		ORDER BY valid_from DESC, last_updated_at DESC
		LIMIT 1;
	`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, organizationID, strings.ToUpper(baseCurrency), strings.ToUpper(targetCurrency), date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf(
				"no exchange rate covering %s (%s->%s)", date.Format(time.DateOnly), baseCurrency, targetCurrency))
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate covering date", err)
	}
	return rate, nil
}

// FindLatestRate retrieves the most recent rate for the pair by valid_to, then
// last_updated_at.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, organizationID, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1 AND base_currency = $2 AND target_currency = $3
		ORDER BY valid_to DESC, last_updated_at DESC
		LIMIT 1;
	`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, organizationID, strings.ToUpper(baseCurrency), strings.ToUpper(targetCurrency)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf(
				"no exchange rate for %s->%s", baseCurrency, targetCurrency))
		}
		return nil, apperrors.NewAppError(500, "failed to find latest exchange rate", err)
	}
	return rate, nil
}

// ListExchangeRates retrieves a filtered, paginated listing with a total count.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, organizationID string, filter portsrepo.ExchangeRateFilter, page, pageSize int) ([]domain.ExchangeRate, int, error) {
	baseQuery := `FROM exchange_rates WHERE organization_id = $1`
	args := []any{organizationID}
	argNum := 2

	if filter.YearMonth != "" {
		baseQuery += fmt.Sprintf(" AND year_month = $%d", argNum)
		args = append(args, filter.YearMonth)
		argNum++
	}
	if filter.BaseCurrency != "" {
		baseQuery += fmt.Sprintf(" AND base_currency = $%d", argNum)
		args = append(args, strings.ToUpper(filter.BaseCurrency))
		argNum++
	}
	if filter.TargetCurrency != "" {
		baseQuery += fmt.Sprintf(" AND target_currency = $%d", argNum)
		args = append(args, strings.ToUpper(filter.TargetCurrency))
		argNum++
	}
	if filter.DateFrom != nil {
		baseQuery += fmt.Sprintf(" AND valid_to >= $%d", argNum)
		args = append(args, *filter.DateFrom)
		argNum++
	}
	if filter.DateTo != nil {
		baseQuery += fmt.Sprintf(" AND valid_from <= $%d", argNum)
		args = append(args, *filter.DateTo)
		argNum++
	}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count exchange rates", err)
	}
	if total == 0 {
		return []domain.ExchangeRate{}, 0, nil
	}

	baseQuery += " ORDER BY year_month DESC, valid_from DESC, last_updated_at DESC"
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		baseQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
		args = append(args, pageSize, offset)
	}

	rows, err := r.Pool.Query(ctx, "SELECT "+exchangeRateColumns+" "+baseQuery, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating exchange rates", err)
	}
	return rates, total, nil
}
