package models

// Watchlist is one named, user-curated list of symbols in insertion order.
type Watchlist struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

// WatchlistEntry is a hydrated watchlist row: the list plus the quotes that
// could be fetched for its symbols. Symbols with no quote stay in Symbols but
// have no entry in Quotes.
type WatchlistEntry struct {
	Name    string                   `json:"name"`
	Symbols []string                 `json:"symbols"`
	Quotes  map[string]EnrichedStock `json:"quotes,omitempty"`
}
