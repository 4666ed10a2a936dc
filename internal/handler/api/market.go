package api

import (
	"errors"
	"net/http"

	"DivScout/internal/domain/models"
	"DivScout/internal/usecase"
	xhttp "DivScout/pkg/http"
	xlogger "DivScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SearchAssets proxies ticker search to the first configured provider.
func (h *Handler) SearchAssets(c echo.Context) error {
	var req models.SearchRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	assets, source, err := h.searcher.Search(c.Request().Context(), req.Q)
	if err != nil {
		if errors.Is(err, usecase.ErrSearchUnavailable) {
			return c.JSON(http.StatusBadRequest, models.SearchResponse{
				Result:         []models.Asset{},
				Message:        "Asset search requires a provider API key.",
				RequiresAPIKey: true,
			})
		}
		h.logger.Error("search failed", xlogger.String("query", req.Q), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	return xhttp.SuccessResponse(c, models.SearchResponse{
		Count:      len(assets),
		Result:     assets,
		DataSource: source,
	})
}

// AssetQuote returns a live quote, or a deterministic synthetic one when no
// provider can serve the symbol.
func (h *Handler) AssetQuote(c echo.Context) error {
	var req models.SymbolRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	quote, synthetic := h.market.Quote(c.Request().Context(), req.Symbol)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"quote": quote,
		"mock":  synthetic,
	})
}

// AssetProfile returns the company profile or 404.
func (h *Handler) AssetProfile(c echo.Context) error {
	var req models.SymbolRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	profile, err := h.market.Profile(c.Request().Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, usecase.ErrProfileNotFound) {
			return xhttp.NotFoundResponse(c, "no profile available for "+req.Symbol)
		}
		h.logger.Error("profile lookup failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, profile)
}
