package domain

import "time"

// RateSnapshot is a cached exchange rate for one currency pair. Ephemeral:
// held in the rate cache under a TTL, never persisted as a table of record.
type RateSnapshot struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Rate       float64   `json:"rate"`
	FetchedAt  time.Time `json:"fetchedAt"`
	IsFallback bool      `json:"isFallback"`
}

// RateMetadata is diagnostic information about a pair's rate for the admin UI.
type RateMetadata struct {
	From        string     `json:"from"`
	To          string     `json:"to"`
	Rate        float64    `json:"rate"`
	LastUpdated *time.Time `json:"lastUpdated"`
	NextUpdate  *time.Time `json:"nextUpdate"`
	IsCached    bool       `json:"isCached"`
	IsFallback  bool       `json:"isFallback"`
}

// PairRate is what the external pair-conversion API returns for one lookup.
type PairRate struct {
	Rate        float64
	LastUpdated time.Time
	NextUpdate  time.Time
}
