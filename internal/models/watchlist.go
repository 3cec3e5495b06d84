package models

import "time"

// WatchlistEvent represents a Kafka event for watchlist changes
type WatchlistEvent struct {
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Company   string    `json:"company,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WatchlistEntry is a user's tracked ticker, stored independent of live
// price data. At most one entry exists per (UserID, Symbol) pair.
type WatchlistEntry struct {
	UserID  string    `json:"user_id"`
	Symbol  string    `json:"symbol"`
	Company string    `json:"company"`
	AddedAt time.Time `json:"added_at"`
}

// EnrichedStock is a WatchlistEntry augmented with transient live market
// fields. The enrichment fields are pointers: nil means the upstream data
// was unavailable, which is an expected state rather than an error.
type EnrichedStock struct {
	UserID          string    `json:"user_id"`
	Symbol          string    `json:"symbol"`
	Company         string    `json:"company"`
	AddedAt         time.Time `json:"added_at"`
	CurrentPrice    *float64  `json:"current_price,omitempty"`
	ChangePercent   *float64  `json:"change_percent,omitempty"`
	PriceFormatted  *string   `json:"price_formatted,omitempty"`
	ChangeFormatted *string   `json:"change_formatted,omitempty"`
	Logo            *string   `json:"logo,omitempty"`
}
