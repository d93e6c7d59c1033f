package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/domain"
)

const principalKey = "principal"

// SetPrincipal stores the resolved principal on the request context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal resolved by Auth or OptionalAuth.
// Requests that went through neither are anonymous.
func PrincipalFrom(c echo.Context) domain.Principal {
	if p, ok := c.Get(principalKey).(domain.Principal); ok {
		return p
	}
	return domain.Anonymous()
}
