package api

import (
	"errors"

	"DivScout/internal/domain/models"
	"DivScout/internal/usecase"
	xhttp "DivScout/pkg/http"
	xlogger "DivScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ListPortfolios returns every portfolio for the owner plus the active id.
func (h *Handler) ListPortfolios(c echo.Context) error {
	portfolios, activeID, err := h.portfolios.List(c.Request().Context(), owner(c))
	if err != nil {
		h.logger.Error("list portfolios failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"portfolios": portfolios,
		"activeId":   activeID,
	})
}

// CreatePortfolio stores a new portfolio and marks it active.
func (h *Handler) CreatePortfolio(c echo.Context) error {
	var req models.CreatePortfolioRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	p, err := h.portfolios.Create(c.Request().Context(), owner(c), req.Name, req.Description, req.TotalAmount)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPortfolioName) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("create portfolio failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, p)
}

// UpdatePortfolio applies a partial update. Unknown ids are a no-op so a
// stale client tab cannot resurrect a deleted portfolio.
func (h *Handler) UpdatePortfolio(c echo.Context) error {
	var patch models.PortfolioPatch
	if err := c.Bind(&patch); err != nil {
		return xhttp.BadRequestResponse(c, "invalid patch body")
	}

	if err := h.portfolios.Update(c.Request().Context(), owner(c), c.Param("id"), patch); err != nil {
		if errors.Is(err, usecase.ErrInvalidPortfolioName) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("update portfolio failed", xlogger.String("id", c.Param("id")), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}

// DeletePortfolio removes a portfolio, clearing the active marker if needed.
func (h *Handler) DeletePortfolio(c echo.Context) error {
	if err := h.portfolios.Delete(c.Request().Context(), owner(c), c.Param("id")); err != nil {
		h.logger.Error("delete portfolio failed", xlogger.String("id", c.Param("id")), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}

// ActivatePortfolio marks an existing portfolio as the active one.
func (h *Handler) ActivatePortfolio(c echo.Context) error {
	if err := h.portfolios.Load(c.Request().Context(), owner(c), c.Param("id")); err != nil {
		h.logger.Error("activate portfolio failed", xlogger.String("id", c.Param("id")), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}
