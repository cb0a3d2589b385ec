package models

// Currency represents a row of the currencies table.
type Currency struct {
	CurrencyCode   string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	SymbolPosition string `json:"symbolPosition"` // "before" or "after"
	DecimalPlaces  int    `json:"decimalPlaces"`
	IsBase         bool   `json:"isBase"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}
