package api

import (
	"StockScope/internal/domain/models"
	"StockScope/internal/usecase"
	xhttp "StockScope/pkg/http"
	xlogger "StockScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler exposes watchlist operations over Echo.
type WatchlistHandler struct {
	logger     *xlogger.Logger
	watchlists *usecase.WatchlistStore
	hydrator   *usecase.WatchlistHydrator
}

func NewWatchlistHandler(logger *xlogger.Logger, watchlists *usecase.WatchlistStore, hydrator *usecase.WatchlistHydrator) *WatchlistHandler {
	return &WatchlistHandler{logger: logger, watchlists: watchlists, hydrator: hydrator}
}

func (h *WatchlistHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/watchlists")
	g.GET("", h.List)
	g.POST("/items", h.AddItem)
	g.DELETE("/items/:symbol", h.RemoveItem)
	g.GET("/lookup/:symbol", h.Lookup)
}

// List returns the non-empty watchlists with hydrated quotes. Hydration
// paces provider calls, so this is the slowest read in the API.
func (h *WatchlistHandler) List(c echo.Context) error {
	entries, err := h.hydrator.Hydrate(c.Request().Context())
	if err != nil {
		h.logger.Error("watchlist hydrate error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	return xhttp.SuccessResponse(c, entries)
}

func (h *WatchlistHandler) AddItem(c echo.Context) error {
	req := &models.AddWatchlistItemRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.watchlists.Add(c.Request().Context(), req.Symbol, req.List)
	return xhttp.CreatedResponse(c, map[string]string{
		"symbol": req.Symbol,
		"list":   req.List,
	})
}

func (h *WatchlistHandler) RemoveItem(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol is required")
	}

	h.watchlists.Remove(c.Request().Context(), symbol)
	return xhttp.NoContentResponse(c)
}

func (h *WatchlistHandler) Lookup(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol is required")
	}

	list, ok := h.watchlists.ListFor(symbol)
	resp := map[string]interface{}{
		"inWatchlist": ok,
	}
	if ok {
		resp["list"] = list
	}
	return xhttp.SuccessResponse(c, resp)
}
