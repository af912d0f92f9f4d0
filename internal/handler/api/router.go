package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Router composes the API handlers into one route registrar.
type Router struct {
	market    *MarketHandler
	watchlist *WatchlistHandler
}

func NewRouter(market *MarketHandler, watchlist *WatchlistHandler) *Router {
	return &Router{market: market, watchlist: watchlist}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	r.market.RegisterRoutes(e)
	r.watchlist.RegisterRoutes(e)
}
