package dto

import (
	"time"

	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode   string `json:"currencyCode" binding:"required,currencycode"`
	Name           string `json:"name" binding:"required"`
	Symbol         string `json:"symbol" binding:"required"`
	SymbolPosition string `json:"symbolPosition" binding:"omitempty,oneof=before after"`
	DecimalPlaces  *int   `json:"decimalPlaces" binding:"omitempty,gte=0,lte=4"`
	IsActive       *bool  `json:"isActive"`
}

// UpdateCurrencyRequest defines the updatable currency attributes. Nil fields
// are left unchanged.
type UpdateCurrencyRequest struct {
	Name           *string `json:"name"`
	Symbol         *string `json:"symbol"`
	SymbolPosition *string `json:"symbolPosition" binding:"omitempty,oneof=before after"`
	DecimalPlaces  *int    `json:"decimalPlaces" binding:"omitempty,gte=0,lte=4"`
	IsActive       *bool   `json:"isActive"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode   string    `json:"currencyCode"`
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
	SymbolPosition string    `json:"symbolPosition"`
	DecimalPlaces  int       `json:"decimalPlaces"`
	IsBase         bool      `json:"isBase"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:   curr.CurrencyCode,
		Name:           curr.Name,
		Symbol:         curr.Symbol,
		SymbolPosition: string(curr.SymbolPosition),
		DecimalPlaces:  curr.DecimalPlaces,
		IsBase:         curr.IsBase,
		IsActive:       curr.IsActive,
		CreatedAt:      curr.CreatedAt,
		CreatedBy:      curr.CreatedBy,
		LastUpdatedAt:  curr.LastUpdatedAt,
		LastUpdatedBy:  curr.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr) // Reuse the single converter
	}
	return res
}
