package models

import "time"

// PriceHistory represents a row of the append-only price_histories table.
// OldValues and Changes are stored as JSONB maps of field name to minor units.
type PriceHistory struct {
	HistoryID string           `json:"historyID"` // Primary Key (UUID)
	PriceID   string           `json:"priceID"`   // FK -> ProductPrice.priceID
	OldValues map[string]int64 `json:"oldValues"`
	Changes   map[string]int64 `json:"changes"`
	ChangedBy *string          `json:"changedBy"`
	Reason    *string          `json:"reason"`
	IPAddress *string          `json:"ipAddress"`
	CreatedAt time.Time        `json:"createdAt"`
}
