package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes the payload as-is with 200. Endpoint payload shapes
// are part of the public API contract, so no envelope is added.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse writes the payload with 201.
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContentResponse writes no content response.
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": data})
}

// UnauthorizedResponse writes unauthorized error.
func UnauthorizedResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{"error": message})
}

// NotFoundResponse writes not found error.
func NotFoundResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]interface{}{"error": message})
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": "Something went wrong"})
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, map[string]interface{}{"error": appErr})
	}
	return InternalServerErrorResponse(c)
}
