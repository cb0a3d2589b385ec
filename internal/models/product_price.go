package models

import "time"

// ProductPrice represents a row of the product_prices table. Monetary columns
// are integer minor units.
type ProductPrice struct {
	PriceID         string    `json:"priceID"` // Primary Key (UUID)
	ProductID       string    `json:"productID"`
	CurrencyCode    string    `json:"currencyCode"` // FK -> Currency.currencyCode
	Cycle           string    `json:"cycle"`        // empty for TLD pricing
	RegisterPrice   int64     `json:"registerPrice"`
	RenewalPrice    int64     `json:"renewalPrice"`
	TransferPrice   int64     `json:"transferPrice"`
	RedemptionPrice int64     `json:"redemptionPrice"`
	IsCurrent       bool      `json:"isCurrent"`
	WasCurrent      bool      `json:"wasCurrent"`
	EffectiveDate   time.Time `json:"effectiveDate"`
	AuditFields
}
