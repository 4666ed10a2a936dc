package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const adminTokenHeader = "X-Admin-Token"

// AdminToken guards admin routes with a shared-secret header. An empty
// configured token disables the routes entirely.
func AdminToken(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "admin access is not configured",
				})
			}
			got := c.Request().Header.Get(adminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "invalid admin token",
				})
			}
			return next(c)
		}
	}
}
