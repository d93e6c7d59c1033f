package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/policy"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// Authorize rejects the request before the handler runs when the policy
// denies op to the current principal, and records the denial on audit. It
// only fits operations that do not target a stored resource (creating a
// post, listings); per-resource checks happen in the services once the
// resource is loaded.
func Authorize(op domain.Operation, audit ports.AuditSink) echo.MiddlewareFunc {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			decision := policy.Decide(op, p, domain.Resource{})
			if !decision.Allow {
				audit.Record(domain.AuditEvent{
					Kind:       domain.AuditAccessDenied,
					SubjectID:  p.ID,
					Username:   p.Username,
					Operation:  op,
					Reason:     decision.Reason,
					OccurredAt: time.Now().UTC(),
				})
				return decision.Err(echo.ErrNotFound)
			}
			return next(c)
		}
	}
}
