package mapping

import (
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode:   d.CurrencyCode,
		Name:           d.Name,
		Symbol:         d.Symbol,
		SymbolPosition: string(d.SymbolPosition),
		DecimalPlaces:  d.DecimalPlaces,
		IsBase:         d.IsBase,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode:   m.CurrencyCode,
		Name:           m.Name,
		Symbol:         m.Symbol,
		SymbolPosition: domain.SymbolPosition(m.SymbolPosition),
		DecimalPlaces:  m.DecimalPlaces,
		IsBase:         m.IsBase,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to a slice of domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}
