package api

import (
	"StockScope/internal/domain/models"
	"StockScope/internal/usecase"
	xhttp "StockScope/pkg/http"
	xlogger "StockScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler exposes the explore/search/detail surface over Echo.
type MarketHandler struct {
	logger *xlogger.Logger
	agg    *usecase.MarketAggregator
}

func NewMarketHandler(logger *xlogger.Logger, agg *usecase.MarketAggregator) *MarketHandler {
	return &MarketHandler{logger: logger, agg: agg}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market", h.Snapshot)
	g.GET("/search", h.Search)
	g.GET("/stocks/:symbol", h.Detail)
}

func (h *MarketHandler) Snapshot(c echo.Context) error {
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.agg.Snapshot(c.Request().Context(), req.Refresh)
	if err != nil {
		h.logger.Error("snapshot usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *MarketHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	results := h.agg.Search(c.Request().Context(), req.Query)
	return xhttp.SuccessResponse(c, results)
}

func (h *MarketHandler) Detail(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol is required")
	}

	detail := h.agg.StockDetail(c.Request().Context(), symbol)
	if detail.Stock == nil {
		return xhttp.NotFoundResponse(c, detail)
	}
	return xhttp.SuccessResponse(c, detail)
}
