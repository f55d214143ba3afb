package services

import (
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, quoteProvider portssvc.QuoteProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Organization = NewOrganizationService(repos.OrganizationRepo)

	exchangeRateService := NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.ExchangeRate = exchangeRateService

	rateCache := NewRateCache(quoteProvider, cfg.RateCacheMaxAge)
	container.RateSync = NewRateSyncService(
		rateCache,
		repos.ExchangeRateRepo,
		repos.OrganizationRepo,
		cfg.BaseCurrency,
		cfg.ReportingCurrency,
		cfg.SyncHour,
		cfg.SyncMinute,
	)

	container.CostConversion = NewCostConversionService(
		repos.CostRepo,
		repos.OrganizationRepo,
		container.Currency,
		exchangeRateService,
		cfg.ReportingCurrency,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencySvcFacade       = (*CurrencyService)(nil)
	_ portssvc.OrganizationSvcFacade   = (*OrganizationService)(nil)
	_ portssvc.ExchangeRateSvcFacade   = (*ExchangeRateService)(nil)
	_ portssvc.RateSyncSvcFacade       = (*RateSyncService)(nil)
	_ portssvc.CostConversionSvcFacade = (*CostConversionService)(nil)
)
