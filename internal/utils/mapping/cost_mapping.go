package mapping

import (
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	"github.com/LesterCerioli/lts_accounting_app/internal/models"
)

// ToModelCost converts a domain Cost to a model Cost
func ToModelCost(d domain.Cost) models.Cost {
	return models.Cost{
		CostID:             d.CostID,
		OrganizationID:     d.OrganizationID,
		Description:        d.Description,
		Amount:             d.Amount,
		Currency:           d.CurrencyCode,
		DueDate:            d.DueDate,
		ConvertedAmountBRL: d.ConvertedAmountBRL,
		ExchangeRateMonth:  d.ExchangeRateMonth,
		ExchangeRateValue:  d.ExchangeRateValue,
		Status:             string(d.Status),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCost converts a model Cost to a domain Cost
func ToDomainCost(m models.Cost) domain.Cost {
	return domain.Cost{
		CostID:             m.CostID,
		OrganizationID:     m.OrganizationID,
		Description:        m.Description,
		Amount:             m.Amount,
		CurrencyCode:       m.Currency,
		DueDate:            m.DueDate,
		ConvertedAmountBRL: m.ConvertedAmountBRL,
		ExchangeRateMonth:  m.ExchangeRateMonth,
		ExchangeRateValue:  m.ExchangeRateValue,
		Status:             domain.CostStatus(m.Status),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
