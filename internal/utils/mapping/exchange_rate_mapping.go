package mapping

import (
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:     d.ExchangeRateID,
		OrganizationID:     d.OrganizationID,
		YearMonth:          d.YearMonth,
		BaseCurrencyCode:   d.BaseCurrencyCode,
		TargetCurrencyCode: d.TargetCurrencyCode,
		Rate:               d.Rate,
		Source:             d.Source,
		ValidFrom:          d.ValidFrom,
		ValidTo:            d.ValidTo,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:     m.ExchangeRateID,
		OrganizationID:     m.OrganizationID,
		YearMonth:          m.YearMonth,
		BaseCurrencyCode:   m.BaseCurrencyCode,
		TargetCurrencyCode: m.TargetCurrencyCode,
		Rate:               m.Rate,
		Source:             m.Source,
		ValidFrom:          m.ValidFrom,
		ValidTo:            m.ValidTo,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
