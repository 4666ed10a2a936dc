package api

import (
	"DivScout/internal/domain/models"
	"DivScout/internal/usecase"
	xhttp "DivScout/pkg/http"
	"DivScout/pkg/util"

	"github.com/labstack/echo/v4"
)

// maxSymbolsPerRequest caps a single fetch; the client batches above this.
const maxSymbolsPerRequest = 50

// DividendData resolves dividend records for a comma separated symbol list.
// Per-symbol failures surface as no-data records, never as an HTTP error.
func (h *Handler) DividendData(c echo.Context) error {
	var req models.DividendDataRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	symbols := util.SplitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.BadRequestResponse(c, "no valid symbols provided")
	}
	if len(symbols) > maxSymbolsPerRequest {
		symbols = symbols[:maxSymbolsPerRequest]
	}

	records := h.fetcher.FetchDividendData(c.Request().Context(), symbols)
	return xhttp.SuccessResponse(c, map[string]interface{}{"data": records})
}

// Projection fetches dividend records and runs the equal-weight income
// projection over them in one round trip.
func (h *Handler) Projection(c echo.Context) error {
	var req models.ProjectionRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	symbols := util.SplitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.BadRequestResponse(c, "no valid symbols provided")
	}
	if len(symbols) > maxSymbolsPerRequest {
		symbols = symbols[:maxSymbolsPerRequest]
	}

	records := h.fetcher.FetchDividendData(c.Request().Context(), symbols)
	result := usecase.Project(records, req.Amount)
	return xhttp.SuccessResponse(c, result)
}
