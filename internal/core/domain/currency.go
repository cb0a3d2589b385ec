package domain

// SymbolPosition indicates where a currency symbol is rendered relative to the amount.
type SymbolPosition string

const (
	SymbolBefore SymbolPosition = "before"
	SymbolAfter  SymbolPosition = "after"
)

// Currency represents a supported currency in the registry.
// Exactly one currency has IsBase=true at any time; the registry enforces this
// on every write. DecimalPlaces is the single source of truth for zero-decimal
// rendering (e.g. RWF has 0, USD has 2).
type Currency struct {
	CurrencyCode   string         `json:"currencyCode"` // Primary Key, ISO 4217 (e.g., "USD")
	Name           string         `json:"name"`         // e.g., "US Dollar"
	Symbol         string         `json:"symbol"`       // e.g., "$"
	SymbolPosition SymbolPosition `json:"symbolPosition"`
	DecimalPlaces  int            `json:"decimalPlaces"`
	IsBase         bool           `json:"isBase"`
	IsActive       bool           `json:"isActive"`
	AuditFields
}

// HasDecimals reports whether the currency uses minor-unit subdivision in display.
func (c Currency) HasDecimals() bool {
	return c.DecimalPlaces > 0
}
