package api

import (
	"errors"
	"net/http"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	xhttp "DivScout/pkg/http"
	xlogger "DivScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateCheckoutSession delegates payment to the hosted billing provider.
// Only price ids from the configured plan table are accepted; the session is
// created under the configured plan name, not the client-supplied one. When
// billing is unreachable or unconfigured the response still carries a 200
// with a fallback URL, so the upgrade flow never dead-ends.
func (h *Handler) CreateCheckoutSession(c echo.Context) error {
	var req models.CheckoutRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	plan, ok := h.lookupPlan(req.PriceID)
	if !ok {
		return xhttp.BadRequestResponse(c, "unknown price id: "+req.PriceID)
	}

	if !h.billing.Configured() {
		return xhttp.SuccessResponse(c, map[string]interface{}{
			"error":       "billing is not configured",
			"fallbackUrl": h.fallbackURL,
		})
	}

	url, err := h.billing.CreateSession(c.Request().Context(), plan.PriceID, plan.Name)
	if err != nil {
		h.logger.Error("checkout session failed",
			xlogger.String("plan", plan.Name), xlogger.Error(err))
		return xhttp.SuccessResponse(c, map[string]interface{}{
			"error":       "could not start checkout",
			"fallbackUrl": h.fallbackURL,
		})
	}

	return xhttp.SuccessResponse(c, map[string]string{"url": url})
}

// ConsumeAICredit decrements the caller's AI credit balance and reports what
// is left. An exhausted balance maps to 402.
func (h *Handler) ConsumeAICredit(c echo.Context) error {
	var req models.ConsumeRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	if h.quota == nil {
		return xhttp.SuccessResponse(c, map[string]interface{}{
			"remaining": -1,
			"unlimited": true,
		})
	}

	remaining, err := h.quota.Consume(c.Request().Context(), req.UserID)
	if err != nil {
		if errors.Is(err, drepo.ErrQuotaExceeded) {
			return c.JSON(http.StatusPaymentRequired, map[string]interface{}{
				"error":     "ai credit quota exceeded",
				"remaining": 0,
			})
		}
		h.logger.Error("quota consume failed", xlogger.String("user", req.UserID), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	return xhttp.SuccessResponse(c, map[string]interface{}{"remaining": remaining})
}
