package mapping

import (
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/models"
)

// ToModelProductPrice converts a domain ProductPrice to a model ProductPrice
func ToModelProductPrice(d domain.ProductPrice) models.ProductPrice {
	return models.ProductPrice{
		PriceID:         d.PriceID,
		ProductID:       d.ProductID,
		CurrencyCode:    d.CurrencyCode,
		Cycle:           string(d.Cycle),
		RegisterPrice:   d.RegisterPrice,
		RenewalPrice:    d.RenewalPrice,
		TransferPrice:   d.TransferPrice,
		RedemptionPrice: d.RedemptionPrice,
		IsCurrent:       d.IsCurrent,
		WasCurrent:      d.WasCurrent,
		EffectiveDate:   d.EffectiveDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProductPrice converts a model ProductPrice to a domain ProductPrice
func ToDomainProductPrice(m models.ProductPrice) domain.ProductPrice {
	return domain.ProductPrice{
		PriceID:         m.PriceID,
		ProductID:       m.ProductID,
		CurrencyCode:    m.CurrencyCode,
		Cycle:           domain.BillingCycle(m.Cycle),
		RegisterPrice:   m.RegisterPrice,
		RenewalPrice:    m.RenewalPrice,
		TransferPrice:   m.TransferPrice,
		RedemptionPrice: m.RedemptionPrice,
		IsCurrent:       m.IsCurrent,
		WasCurrent:      m.WasCurrent,
		EffectiveDate:   m.EffectiveDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProductPriceSlice converts a slice of model ProductPrices to domain ProductPrices
func ToDomainProductPriceSlice(ms []models.ProductPrice) []domain.ProductPrice {
	ds := make([]domain.ProductPrice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProductPrice(m)
	}
	return ds
}

// ToModelPriceHistory converts a domain PriceHistory to a model PriceHistory
func ToModelPriceHistory(d domain.PriceHistory) models.PriceHistory {
	return models.PriceHistory{
		HistoryID: d.HistoryID,
		PriceID:   d.PriceID,
		OldValues: d.OldValues,
		Changes:   d.Changes,
		ChangedBy: d.ChangedBy,
		Reason:    d.Reason,
		IPAddress: d.IPAddress,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainPriceHistory converts a model PriceHistory to a domain PriceHistory
func ToDomainPriceHistory(m models.PriceHistory) domain.PriceHistory {
	return domain.PriceHistory{
		HistoryID: m.HistoryID,
		PriceID:   m.PriceID,
		OldValues: m.OldValues,
		Changes:   m.Changes,
		ChangedBy: m.ChangedBy,
		Reason:    m.Reason,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
	}
}

// ToDomainPriceHistorySlice converts a slice of model PriceHistories to domain PriceHistories
func ToDomainPriceHistorySlice(ms []models.PriceHistory) []domain.PriceHistory {
	ds := make([]domain.PriceHistory, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPriceHistory(m)
	}
	return ds
}
