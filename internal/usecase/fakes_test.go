package usecase

import (
	"context"
	"sync"

	"StockScope/internal/domain/models"
	xlogger "StockScope/pkg/logger"
)

// fakeKV is an in-memory KeyValueStore.
type fakeKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{m: make(map[string]string)} }

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = value
	return nil
}

func (f *fakeKV) Close() error { return nil }

// fakeProvider serves canned quotes and profiles and counts calls.
type fakeProvider struct {
	mu        sync.Mutex
	quotes    map[string]*models.Quote
	profiles  map[string]*models.Profile
	searchErr error
	results   []models.SearchResult
	calls     int
}

func (f *fakeProvider) Quote(_ context.Context, symbol string) *models.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.quotes[symbol]
}

func (f *fakeProvider) Profile(_ context.Context, symbol string) *models.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[symbol]
}

func (f *fakeProvider) Search(_ context.Context, _ string) ([]models.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeProvider) CompanyNews(_ context.Context, _ string) ([]models.NewsItem, error) {
	return nil, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeMetrics is a no-op Metrics.
type fakeMetrics struct{}

func (fakeMetrics) RecordFetch(string, string)      {}
func (fakeMetrics) RecordCache(string)              {}
func (fakeMetrics) RecordLastPrice(string, float64) {}
func (fakeMetrics) RecordLatency(string, float64)   {}

// fakePacer never blocks.
type fakePacer struct{}

func (fakePacer) Allow(string, float64, float64) bool { return true }
func (fakePacer) Wait(ctx context.Context, _ string, _, _ float64) error {
	return ctx.Err()
}

func testLogger() *xlogger.Logger {
	l, _ := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	return l
}

func quoteOf(symbol string, price, prevClose float64) *models.Quote {
	change := price - prevClose
	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: prevClose,
		Change:        change,
		ChangePercent: change / prevClose * 100,
		High:          price,
		Low:           price,
		Open:          price,
	}
}
