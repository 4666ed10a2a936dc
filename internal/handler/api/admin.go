package api

import (
	xhttp "DivScout/pkg/http"
	xlogger "DivScout/pkg/logger"
	"DivScout/pkg/util"

	"github.com/labstack/echo/v4"
)

// AdminUsage lists the most recent symbol resolutions from the audit store.
// Route is gated by the admin token middleware.
func (h *Handler) AdminUsage(c echo.Context) error {
	limit := util.ParseIntDefault(c.QueryParam("limit"), 100)
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	events, err := h.audit.Recent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("usage query failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	return xhttp.SuccessResponse(c, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}
