package di

import (
	"fmt"

	"StockScope/internal/domain/repository"
	"StockScope/internal/handler/api"
	internalrepo "StockScope/internal/repository"
	"StockScope/internal/service/cache"
	"StockScope/internal/service/finnhub"
	"StockScope/internal/service/ratelimit"
	"StockScope/internal/usecase"
	"StockScope/pkg/config"
	xhttp "StockScope/pkg/http"
	xlogger "StockScope/pkg/logger"
	"StockScope/pkg/metrics"
	"StockScope/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return xlogger.New(&xlogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvidePacer creates the shared token-bucket limiter.
func ProvidePacer() repository.Pacer {
	return ratelimit.New()
}

// ProvideKeyValueStore opens the durable local KV database.
func ProvideKeyValueStore(cfg *config.Config) (repository.KeyValueStore, error) {
	kv, err := internalrepo.OpenSQLiteKV(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return kv, nil
}

// ProvideCache creates the snapshot cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedis(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemory(), nil
}

// ProvideQuoteProvider creates the Finnhub REST client.
func ProvideQuoteProvider(cfg *config.Config, pacer repository.Pacer, m repository.Metrics, logger *xlogger.Logger) repository.QuoteProvider {
	return finnhub.NewClient(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.BaseURL,
		cfg.Finnhub.QuoteTimeout,
		cfg.Finnhub.SearchTimeout,
		cfg.Market.SearchLimit,
		cfg.Market.NewsLimit,
		pacer, m, logger,
	)
}

// ProvidePriceStream creates the Finnhub WebSocket stream.
func ProvidePriceStream(cfg *config.Config, logger *xlogger.Logger) repository.PriceStream {
	return finnhub.NewStream(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Market.Universe,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
		logger,
	)
}

// ProvideMarketAggregator creates the market snapshot aggregator.
func ProvideMarketAggregator(cfg *config.Config, provider repository.QuoteProvider, c cache.Service, kv repository.KeyValueStore, m repository.Metrics, logger *xlogger.Logger) *usecase.MarketAggregator {
	return usecase.NewMarketAggregator(
		provider, c, kv, m, logger,
		cfg.Market.Universe,
		cfg.Market.FetchLimit,
		cfg.Market.SnapshotTTL,
		cfg.Market.SearchLimit,
	)
}

// ProvideWatchlistStore creates the watchlist store.
func ProvideWatchlistStore(kv repository.KeyValueStore, logger *xlogger.Logger) *usecase.WatchlistStore {
	return usecase.NewWatchlistStore(kv, logger)
}

// ProvideWatchlistHydrator creates the paced watchlist quote hydrator.
func ProvideWatchlistHydrator(cfg *config.Config, watchlists *usecase.WatchlistStore, provider repository.QuoteProvider, pacer repository.Pacer, logger *xlogger.Logger) *usecase.WatchlistHydrator {
	return usecase.NewWatchlistHydrator(watchlists, provider, pacer, logger, cfg.Watchlist.PaceInterval)
}

// ProvidePriceCollector creates the live price collector.
func ProvidePriceCollector(stream repository.PriceStream, m repository.Metrics, logger *xlogger.Logger) *usecase.PriceCollector {
	return usecase.NewPriceCollector(stream, m, logger)
}

// ProvideHandler composes the HTTP route registrar.
func ProvideHandler(logger *xlogger.Logger, agg *usecase.MarketAggregator, watchlists *usecase.WatchlistStore, hydrator *usecase.WatchlistHydrator) xhttp.Handler {
	market := api.NewMarketHandler(logger, agg)
	watchlist := api.NewWatchlistHandler(logger, watchlists, hydrator)
	return api.NewRouter(market, watchlist)
}

// ProvideApp creates the application.
func ProvideApp(cfg *config.Config, watchlists *usecase.WatchlistStore, collector *usecase.PriceCollector, kv repository.KeyValueStore, handler xhttp.Handler) *server.App {
	return server.New(cfg, watchlists, collector, kv, handler)
}
