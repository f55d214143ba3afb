package pgsql

import (
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	organizationRepo := newPgxOrganizationRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	costRepo := newPgxCostRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: organizationRepo,
		CurrencyRepo:     currencyRepo,
		ExchangeRateRepo: exchangeRateRepo,
		CostRepo:         costRepo,
	}
}
