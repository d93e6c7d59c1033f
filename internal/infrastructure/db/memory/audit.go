package memory

import (
	"context"
	"sync"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// AuditLog implements ports.AuditRepository by appending to a slice.
type AuditLog struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) InsertEvent(_ context.Context, event *domain.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, *event)
	return nil
}

// Events returns a copy of everything recorded so far.
func (l *AuditLog) Events() []domain.AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.AuditEvent, len(l.events))
	copy(out, l.events)
	return out
}
