package usecase

import (
	"context"
	"sync"
	"time"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	xlogger "StockScope/pkg/logger"
)

const hydratePaceKey = "watchlist_hydrate"

// WatchlistHydrator fetches quotes for every watched symbol. The provider
// rate-limits aggressively on this path, so symbols are fetched one at a
// time with a configurable pacing interval between calls rather than in a
// parallel batch.
type WatchlistHydrator struct {
	watchlists *WatchlistStore
	provider   drepo.QuoteProvider
	pacer      drepo.Pacer
	logger     *xlogger.Logger
	interval   time.Duration
}

// NewWatchlistHydrator creates a hydrator pacing one call per interval.
func NewWatchlistHydrator(watchlists *WatchlistStore, provider drepo.QuoteProvider, pacer drepo.Pacer, logger *xlogger.Logger, interval time.Duration) *WatchlistHydrator {
	return &WatchlistHydrator{
		watchlists: watchlists,
		provider:   provider,
		pacer:      pacer,
		logger:     logger,
		interval:   interval,
	}
}

// Hydrate returns the non-empty watchlists with quotes for every symbol the
// provider could resolve. Failed symbols stay listed without a quote.
func (h *WatchlistHydrator) Hydrate(ctx context.Context) ([]models.WatchlistEntry, error) {
	lists := h.watchlists.Lists()
	if len(lists) == 0 {
		return nil, nil
	}

	quotes := make(map[string]models.EnrichedStock)
	refill := 1.0 / h.interval.Seconds()
	for _, symbol := range h.watchlists.Symbols() {
		if err := h.pacer.Wait(ctx, hydratePaceKey, 1, refill); err != nil {
			return nil, err
		}
		if stock := h.fetch(ctx, symbol); stock != nil {
			quotes[symbol] = *stock
		}
	}

	entries := make([]models.WatchlistEntry, 0, len(lists))
	for _, wl := range lists {
		entry := models.WatchlistEntry{
			Name:    wl.Name,
			Symbols: wl.Symbols,
			Quotes:  make(map[string]models.EnrichedStock),
		}
		for _, s := range wl.Symbols {
			if q, ok := quotes[s]; ok {
				entry.Quotes[s] = q
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// fetch gets quote and profile for one symbol concurrently; a nil quote
// means the symbol is skipped this round.
func (h *WatchlistHydrator) fetch(ctx context.Context, symbol string) *models.EnrichedStock {
	var quote *models.Quote
	var profile *models.Profile

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote = h.provider.Quote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		profile = h.provider.Profile(ctx, symbol)
	}()
	wg.Wait()

	if quote == nil {
		h.logger.Debug("watchlist symbol skipped", xlogger.String("symbol", symbol))
		return nil
	}
	enriched := models.Enrich(*quote, profile)
	return &enriched
}
