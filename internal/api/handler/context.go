package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/api/middleware"
	"github.com/inkpress/blog-api/internal/core/domain"
)

// principal returns the caller resolved by the auth middleware in front of
// the route, or domain.Anonymous() on public routes.
func principal(c echo.Context) domain.Principal {
	return middleware.PrincipalFrom(c)
}

// bind decodes the request body and maps decoding failures to a plain 400.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}
