package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	drepo "StockScope/internal/domain/repository"
	"StockScope/internal/usecase"
	"StockScope/pkg/config"
	xhttp "StockScope/pkg/http"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	watchlists *usecase.WatchlistStore
	collector  *usecase.PriceCollector
	kv         drepo.KeyValueStore
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	watchlists *usecase.WatchlistStore,
	collector *usecase.PriceCollector,
	kv drepo.KeyValueStore,
	handler xhttp.Handler,
) *App {
	srv := xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
	return &App{
		cfg:        cfg,
		watchlists: watchlists,
		collector:  collector,
		kv:         kv,
		httpServer: srv,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.watchlists.Load(ctx)

	if a.cfg.Market.StreamEnabled && a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			// Live prices are an enhancement; the REST path still works.
			log.Printf("price stream unavailable: %v", err)
		}
	}

	if err := a.httpServer.Start(); err != nil {
		return err
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("shutdown signal received")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		log.Printf("http server stop: %v", err)
	}
	if a.collector != nil {
		if err := a.collector.Stop(); err != nil {
			log.Printf("price collector stop: %v", err)
		}
	}
	if err := a.kv.Close(); err != nil {
		log.Printf("storage close: %v", err)
	}

	return nil
}
