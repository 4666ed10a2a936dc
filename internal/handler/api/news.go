package api

import (
	"DivScout/internal/domain/models"
	xhttp "DivScout/pkg/http"
	"DivScout/pkg/util"

	"github.com/labstack/echo/v4"
)

// News returns recent articles for the requested symbols or category. The
// endpoint degrades to a bundled demo feed instead of failing.
func (h *Handler) News(c echo.Context) error {
	var req models.NewsRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	symbols := util.SplitSymbols(req.Symbols)
	articles := h.news.Fetch(c.Request().Context(), symbols, req.Category, req.Limit)

	demo := len(articles) > 0 && articles[0].Demo
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"articles": articles,
		"demo":     demo,
	})
}
