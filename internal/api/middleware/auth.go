package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/api/metrics"
	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// Auth requires a valid bearer token. The resolved principal is stored on
// the context; any failure is returned to the error handler, which renders
// domain.ErrUnauthenticated as 401.
func Auth(gate ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := gate.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				result := "error"
				if errors.Is(err, domain.ErrUnauthenticated) {
					result = "rejected"
				}
				metrics.BearerChecksTotal.WithLabelValues("required", result).Inc()
				return err
			}

			metrics.BearerChecksTotal.WithLabelValues("required", "authenticated").Inc()
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// OptionalAuth resolves a bearer token when one is present. Requests
// without a usable token continue as anonymous.
func OptionalAuth(gate ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := gate.AuthenticateOptional(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))

			result := "anonymous"
			if p.IsAuthenticated() {
				result = "authenticated"
			}
			metrics.BearerChecksTotal.WithLabelValues("optional", result).Inc()

			SetPrincipal(c, p)
			return next(c)
		}
	}
}
