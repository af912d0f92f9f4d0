package repository

import (
	"context"
	"time"

	"StockScope/internal/domain/models"
)

// QuoteProvider wraps the remote market-data service. Quote and Profile
// return nil (not an error) on any upstream failure; the diagnostic is
// logged by the implementation.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) *models.Quote
	Profile(ctx context.Context, symbol string) *models.Profile
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	CompanyNews(ctx context.Context, symbol string) ([]models.NewsItem, error)
}

// PriceStream is a live last-trade feed for the tracked universe.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// KeyValueStore is the durable local storage used for watchlists and the
// cached snapshot. Only round-trip fidelity matters, not the byte format.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Pacer spaces outbound calls to respect the provider's rate limit.
type Pacer interface {
	Allow(key string, capacity, refillPerSec float64) bool
	Wait(ctx context.Context, key string, capacity, refillPerSec float64) error
}

// Metrics records operational counters and gauges.
type Metrics interface {
	RecordFetch(endpoint, outcome string)
	RecordCache(outcome string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}

// SnapshotTTL is the default validity window for the market snapshot.
const SnapshotTTL = 5 * time.Minute
