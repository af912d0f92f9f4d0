package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	"StockScope/internal/service/cache"
	xlogger "StockScope/pkg/logger"
)

// Storage and cache keys for the explore snapshot.
const (
	SnapshotCacheKey   = "market_snapshot"
	SnapshotStorageKey = "explore_snapshot"
)

// MarketAggregator produces the gainers/losers view of the tracked universe,
// re-servable from cache within the TTL window. One snapshot exists at a
// time; a refresh overwrites it (last-to-complete wins).
type MarketAggregator struct {
	provider drepo.QuoteProvider
	cache    cache.Service
	store    drepo.KeyValueStore
	metrics  drepo.Metrics
	logger   *xlogger.Logger

	universe    []string
	fetchLimit  int
	ttl         time.Duration
	searchLimit int

	mu   sync.RWMutex
	last *models.MarketSnapshot // last good snapshot, regardless of age

	now func() time.Time
}

// NewMarketAggregator creates the aggregator and hydrates the last-good
// snapshot from durable storage so a cold start can serve stale data
// immediately. A hydration failure is logged and start continues empty.
func NewMarketAggregator(provider drepo.QuoteProvider, c cache.Service, store drepo.KeyValueStore, metrics drepo.Metrics, logger *xlogger.Logger, universe []string, fetchLimit int, ttl time.Duration, searchLimit int) *MarketAggregator {
	a := &MarketAggregator{
		provider:    provider,
		cache:       c,
		store:       store,
		metrics:     metrics,
		logger:      logger,
		universe:    universe,
		fetchLimit:  fetchLimit,
		ttl:         ttl,
		searchLimit: searchLimit,
		now:         time.Now,
	}
	a.hydrate()
	return a
}

func (a *MarketAggregator) hydrate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, ok, err := a.store.Get(ctx, SnapshotStorageKey)
	if err != nil {
		a.logger.Warn("snapshot hydrate failed", xlogger.Error(err))
		return
	}
	if !ok {
		return
	}
	var snap models.MarketSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		a.logger.Warn("snapshot hydrate malformed", xlogger.Error(err))
		return
	}
	a.mu.Lock()
	a.last = &snap
	a.mu.Unlock()
	a.logger.Info("snapshot hydrated from storage",
		xlogger.Int("stocks", len(snap.Stocks)),
		xlogger.Duration("age", a.now().Sub(snap.Timestamp)))
}

// Snapshot returns the current market snapshot. With forceRefresh false a
// cached snapshot younger than the TTL is returned without any network
// access; otherwise the whole universe batch is refetched.
func (a *MarketAggregator) Snapshot(ctx context.Context, forceRefresh bool) (*models.MarketSnapshot, error) {
	if !forceRefresh {
		if snap := a.cached(ctx); snap != nil {
			a.metrics.RecordCache("hit")
			return snap, nil
		}
		a.metrics.RecordCache("miss")
	}

	start := a.now()
	snap := a.refresh(ctx)
	a.metrics.RecordLatency("snapshot_refresh", a.now().Sub(start).Seconds())

	if snap.Status == models.StatusFailed {
		// Stale-but-present beats empty: fall back to the last good batch,
		// flagged failed so the caller can show a cached-data notice.
		if prev := a.lastGood(); prev != nil {
			stale := *prev
			stale.Status = models.StatusFailed
			return &stale, nil
		}
		return snap, nil
	}

	a.remember(ctx, snap)
	return snap, nil
}

// cached returns the shared cached snapshot if it is younger than the TTL.
func (a *MarketAggregator) cached(ctx context.Context) *models.MarketSnapshot {
	b, ok, err := a.cache.GetBytes(ctx, SnapshotCacheKey)
	if err != nil {
		a.logger.Warn("snapshot cache read failed", xlogger.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var snap models.MarketSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil
	}
	if snap.Age(a.now()) >= a.ttl {
		return nil
	}
	return &snap
}

// refresh fetches the whole universe batch. All symbol fetches run
// concurrently and the merge waits for every one of them; per-symbol quote
// and profile are independent, so a profile failure keeps the quote.
func (a *MarketAggregator) refresh(ctx context.Context) *models.MarketSnapshot {
	symbols := a.universe
	if len(symbols) > a.fetchLimit {
		symbols = symbols[:a.fetchLimit]
	}

	results := make([]*models.EnrichedStock, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			var quote *models.Quote
			var profile *models.Profile
			var inner sync.WaitGroup
			inner.Add(2)
			go func() {
				defer inner.Done()
				quote = a.provider.Quote(ctx, symbol)
			}()
			go func() {
				defer inner.Done()
				profile = a.provider.Profile(ctx, symbol)
			}()
			inner.Wait()

			if quote == nil {
				return
			}
			enriched := models.Enrich(*quote, profile)
			results[i] = &enriched
		}(i, symbol)
	}
	wg.Wait()

	stocks := make([]models.EnrichedStock, 0, len(results))
	for _, r := range results {
		if r != nil {
			stocks = append(stocks, *r)
		}
	}

	status := models.StatusSuccess
	if len(stocks) == 0 {
		status = models.StatusFailed
		a.logger.Error("snapshot refresh: entire batch failed", xlogger.Int("universe", len(symbols)))
	} else {
		a.logger.Info("snapshot refreshed",
			xlogger.Int("fetched", len(stocks)),
			xlogger.Int("universe", len(symbols)))
	}

	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].ChangePercent > stocks[j].ChangePercent
	})

	gainers := make([]models.EnrichedStock, 0, len(stocks))
	losers := make([]models.EnrichedStock, 0, len(stocks))
	for _, s := range stocks {
		switch {
		case s.ChangePercent > 0:
			gainers = append(gainers, s)
		case s.ChangePercent < 0:
			losers = append(losers, s)
		}
	}
	// Biggest loser first.
	sort.SliceStable(losers, func(i, j int) bool {
		return losers[i].ChangePercent < losers[j].ChangePercent
	})

	return &models.MarketSnapshot{
		Stocks:    stocks,
		Gainers:   gainers,
		Losers:    losers,
		Status:    status,
		Timestamp: a.now(),
	}
}

// remember overwrites the in-memory, shared-cache and durable copies of the
// snapshot. Cache and storage failures are logged, never surfaced.
func (a *MarketAggregator) remember(ctx context.Context, snap *models.MarketSnapshot) {
	a.mu.Lock()
	a.last = snap
	a.mu.Unlock()

	b, err := json.Marshal(snap)
	if err != nil {
		a.logger.Error("snapshot marshal failed", xlogger.Error(err))
		return
	}
	if err := a.cache.SetBytes(ctx, SnapshotCacheKey, b, a.ttl); err != nil {
		a.logger.Warn("snapshot cache write failed", xlogger.Error(err))
	}
	if err := a.store.Set(ctx, SnapshotStorageKey, string(b)); err != nil {
		a.logger.Warn("snapshot persist failed", xlogger.Error(err))
	}
}

func (a *MarketAggregator) lastGood() *models.MarketSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Search runs the remote symbol search; on upstream failure it falls back to
// a case-insensitive substring match over the last snapshot's stocks.
func (a *MarketAggregator) Search(ctx context.Context, query string) []models.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	results, err := a.provider.Search(ctx, query)
	if err == nil {
		return results
	}
	a.logger.Warn("remote search failed, using local fallback",
		xlogger.String("query", query), xlogger.Error(err))

	q := strings.ToLower(query)
	local := make([]models.SearchResult, 0, a.searchLimit)
	snap := a.lastGood()
	if snap == nil {
		return local
	}
	for _, s := range snap.Stocks {
		if len(local) >= a.searchLimit {
			break
		}
		if strings.Contains(strings.ToLower(s.Symbol), q) || strings.Contains(strings.ToLower(s.Name), q) {
			local = append(local, models.SearchResult{Symbol: s.Symbol, Name: s.Name})
		}
	}
	return local
}

// StockDetail builds the product view for one symbol: quote, profile and
// recent news. Quote and profile are fetched concurrently; news is
// best-effort and never fails the detail.
func (a *MarketAggregator) StockDetail(ctx context.Context, symbol string) *models.StockDetail {
	var quote *models.Quote
	var profile *models.Profile
	var news []models.NewsItem

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		quote = a.provider.Quote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		profile = a.provider.Profile(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		var err error
		news, err = a.provider.CompanyNews(ctx, symbol)
		if err != nil {
			a.logger.Warn("news fetch failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		}
	}()
	wg.Wait()

	if quote == nil {
		return &models.StockDetail{Status: models.StatusFailed}
	}
	enriched := models.Enrich(*quote, profile)
	return &models.StockDetail{
		Stock:  &enriched,
		News:   news,
		Status: models.StatusSuccess,
	}
}
