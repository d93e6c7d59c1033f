package service

import (
	"time"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/policy"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// authorize asks the policy for a decision and records denials. notFound
// is returned when the resource must stay hidden.
func authorize(audit ports.AuditSink, op domain.Operation, p domain.Principal, r domain.Resource, notFound error) error {
	d := policy.Decide(op, p, r)
	if d.Allow {
		return nil
	}
	audit.Record(domain.AuditEvent{
		Kind:       domain.AuditAccessDenied,
		SubjectID:  p.ID,
		Username:   p.Username,
		Operation:  op,
		Reason:     d.Reason,
		OccurredAt: time.Now().UTC(),
	})
	return d.Err(notFound)
}
