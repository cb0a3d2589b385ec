package dto

import (
	"time"

	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// CreatePriceRequest defines the data needed to create a new price row.
// Monetary amounts are integer minor units in the row's currency. A row whose
// effective date lies in the future is created pending regardless of MakeCurrent.
type CreatePriceRequest struct {
	ProductID       string    `json:"productID" binding:"required"`
	CurrencyCode    string    `json:"currencyCode" binding:"required,currencycode"`
	Cycle           string    `json:"cycle" binding:"omitempty,oneof=monthly quarterly semi_annually annually"`
	RegisterPrice   int64     `json:"registerPrice" binding:"gte=0"`
	RenewalPrice    int64     `json:"renewalPrice" binding:"gte=0"`
	TransferPrice   int64     `json:"transferPrice" binding:"gte=0"`
	RedemptionPrice int64     `json:"redemptionPrice" binding:"gte=0"`
	EffectiveDate   time.Time `json:"effectiveDate" binding:"required"`
	MakeCurrent     bool      `json:"makeCurrent"`
}

// UpdatePriceRequest defines the updatable price attributes. Nil fields are
// left unchanged. Changes to monetary fields on a previously-activated row are
// recorded in the price history.
type UpdatePriceRequest struct {
	RegisterPrice   *int64     `json:"registerPrice" binding:"omitempty,gte=0"`
	RenewalPrice    *int64     `json:"renewalPrice" binding:"omitempty,gte=0"`
	TransferPrice   *int64     `json:"transferPrice" binding:"omitempty,gte=0"`
	RedemptionPrice *int64     `json:"redemptionPrice" binding:"omitempty,gte=0"`
	EffectiveDate   *time.Time `json:"effectiveDate"`
	MakeCurrent     *bool      `json:"makeCurrent"`
	Reason          *string    `json:"reason"`
}

// ActivatePriceRequest carries the operator-supplied reason for a manual activation.
type ActivatePriceRequest struct {
	Reason *string `json:"reason"`
}

// PriceResponse defines the data returned for a price row.
type PriceResponse struct {
	PriceID         string    `json:"priceID"`
	ProductID       string    `json:"productID"`
	CurrencyCode    string    `json:"currencyCode"`
	Cycle           string    `json:"cycle,omitempty"`
	RegisterPrice   int64     `json:"registerPrice"`
	RenewalPrice    int64     `json:"renewalPrice"`
	TransferPrice   int64     `json:"transferPrice"`
	RedemptionPrice int64     `json:"redemptionPrice"`
	IsCurrent       bool      `json:"isCurrent"`
	State           string    `json:"state"`
	EffectiveDate   time.Time `json:"effectiveDate"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// ToPriceResponse converts a domain.ProductPrice to PriceResponse DTO
func ToPriceResponse(p *domain.ProductPrice) PriceResponse {
	return PriceResponse{
		PriceID:         p.PriceID,
		ProductID:       p.ProductID,
		CurrencyCode:    p.CurrencyCode,
		Cycle:           string(p.Cycle),
		RegisterPrice:   p.RegisterPrice,
		RenewalPrice:    p.RenewalPrice,
		TransferPrice:   p.TransferPrice,
		RedemptionPrice: p.RedemptionPrice,
		IsCurrent:       p.IsCurrent,
		State:           string(p.State()),
		EffectiveDate:   p.EffectiveDate,
		CreatedAt:       p.CreatedAt,
		LastUpdatedAt:   p.LastUpdatedAt,
	}
}

// ToListPriceResponse converts a slice of domain.ProductPrice to PriceResponse DTOs
func ToListPriceResponse(prices []domain.ProductPrice) []PriceResponse {
	res := make([]PriceResponse, len(prices))
	for i, p := range prices {
		res[i] = ToPriceResponse(&p)
	}
	return res
}

// PriceHistoryResponse defines the data returned for one audit entry.
type PriceHistoryResponse struct {
	HistoryID string           `json:"historyID"`
	PriceID   string           `json:"priceID"`
	OldValues map[string]int64 `json:"oldValues"`
	Changes   map[string]int64 `json:"changes"`
	ChangedBy *string          `json:"changedBy"`
	Reason    *string          `json:"reason"`
	IPAddress *string          `json:"ipAddress"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ListPriceHistoryResponse wraps a page of history entries.
type ListPriceHistoryResponse struct {
	Items     []PriceHistoryResponse `json:"items"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToPriceHistoryResponse converts a domain.PriceHistory to PriceHistoryResponse DTO
func ToPriceHistoryResponse(h *domain.PriceHistory) PriceHistoryResponse {
	return PriceHistoryResponse{
		HistoryID: h.HistoryID,
		PriceID:   h.PriceID,
		OldValues: h.OldValues,
		Changes:   h.Changes,
		ChangedBy: h.ChangedBy,
		Reason:    h.Reason,
		IPAddress: h.IPAddress,
		CreatedAt: h.CreatedAt,
	}
}

// ToListPriceHistoryResponse converts a page of domain.PriceHistory entries.
func ToListPriceHistoryResponse(entries []domain.PriceHistory, nextToken *string) ListPriceHistoryResponse {
	items := make([]PriceHistoryResponse, len(entries))
	for i, h := range entries {
		items[i] = ToPriceHistoryResponse(&h)
	}
	return ListPriceHistoryResponse{Items: items, NextToken: nextToken}
}
