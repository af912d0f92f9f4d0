package models

import "time"

// Quote is point-in-time price data for one symbol.
// Change and ChangePercent are derived from Price and PreviousClose.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
}

// Profile is best-effort company metadata. Any field may be empty; a missing
// profile never blocks displaying the quote.
type Profile struct {
	Name      string  `json:"name,omitempty"`
	Logo      string  `json:"logo,omitempty"`
	Country   string  `json:"country,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	Exchange  string  `json:"exchange,omitempty"`
	MarketCap float64 `json:"marketCap,omitempty"`
	Sector    string  `json:"sector,omitempty"`
}

// EnrichedStock merges a Quote with its Profile, using deterministic
// fallbacks where the profile is absent.
type EnrichedStock struct {
	Quote
	Name      string  `json:"name"`
	Logo      string  `json:"logo,omitempty"`
	Country   string  `json:"country"`
	Currency  string  `json:"currency"`
	Exchange  string  `json:"exchange"`
	MarketCap float64 `json:"marketCap,omitempty"`
	Sector    string  `json:"sector"`
}

// Enrich builds an EnrichedStock from a quote and an optional profile.
func Enrich(q Quote, p *Profile) EnrichedStock {
	s := EnrichedStock{
		Quote:    q,
		Name:     q.Symbol,
		Country:  "US",
		Currency: "USD",
		Exchange: "NASDAQ",
		Sector:   "Technology",
	}
	if p == nil {
		return s
	}
	if p.Name != "" {
		s.Name = p.Name
	}
	if p.Logo != "" {
		s.Logo = p.Logo
	}
	if p.Country != "" {
		s.Country = p.Country
	}
	if p.Currency != "" {
		s.Currency = p.Currency
	}
	if p.Exchange != "" {
		s.Exchange = p.Exchange
	}
	if p.Sector != "" {
		s.Sector = p.Sector
	}
	s.MarketCap = p.MarketCap
	return s
}

// SearchResult is one match from symbol search.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
}

// NewsItem is one company news headline.
type NewsItem struct {
	Headline string    `json:"headline"`
	Source   string    `json:"source,omitempty"`
	URL      string    `json:"url,omitempty"`
	Datetime time.Time `json:"datetime"`
}

// Snapshot status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// MarketSnapshot is the cached aggregate for the tracked universe.
// One snapshot exists at a time; it is overwritten on every refresh.
type MarketSnapshot struct {
	Stocks    []EnrichedStock `json:"stocks"`
	Gainers   []EnrichedStock `json:"gainers"`
	Losers    []EnrichedStock `json:"losers"`
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// Age returns how old the snapshot is.
func (s *MarketSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.Timestamp)
}

// StockDetail is the product-view payload for a single symbol.
type StockDetail struct {
	Stock  *EnrichedStock `json:"stock,omitempty"`
	News   []NewsItem     `json:"news,omitempty"`
	Status string         `json:"status"`
}
