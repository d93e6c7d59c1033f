package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// AuditRepository stores audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// NopAuditSink discards every event.
type NopAuditSink struct{}

func (NopAuditSink) Record(domain.AuditEvent) {}
