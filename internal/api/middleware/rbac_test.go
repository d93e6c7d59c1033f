package middleware

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// recordingSink keeps audit events in memory.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingSink) Record(e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) recorded() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}

func TestAuthorize(t *testing.T) {
	admin := domain.Authenticated(&domain.User{ID: "u9", Username: "root", Role: domain.RoleElevated})

	cases := []struct {
		name    string
		op      domain.Operation
		p       domain.Principal
		wantErr error
	}{
		{"list all as elevated", domain.OpListAllPosts, admin, nil},
		{"list all as standard", domain.OpListAllPosts, alice, domain.ErrForbidden},
		{"list all as anonymous", domain.OpListAllPosts, domain.Anonymous(), domain.ErrUnauthenticated},
		{"create as standard", domain.OpCreatePost, alice, nil},
		{"create as anonymous", domain.OpCreatePost, domain.Anonymous(), domain.ErrUnauthenticated},
		{"list own as standard", domain.OpListOwnPosts, alice, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext("")
			SetPrincipal(c, tc.p)
			sink := &recordingSink{}

			called := false
			err := Authorize(tc.op, sink)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c)

			if tc.wantErr == nil {
				if err != nil || !called || rec.Code != http.StatusOK {
					t.Fatalf("expected pass-through, got err=%v called=%v code=%d", err, called, rec.Code)
				}
				if n := len(sink.recorded()); n != 0 {
					t.Fatalf("allowed request must not be audited, got %d events", n)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if called {
				t.Fatalf("next must not run on denial")
			}
			events := sink.recorded()
			if len(events) != 1 {
				t.Fatalf("expected one audit event, got %d", len(events))
			}
			if e := events[0]; e.Kind != domain.AuditAccessDenied || e.Operation != tc.op || e.SubjectID != tc.p.ID {
				t.Fatalf("unexpected audit event %+v", e)
			}
		})
	}
}

func TestAuthorize_NilSink(t *testing.T) {
	c, _ := newContext("")
	SetPrincipal(c, alice)

	err := Authorize(domain.OpListAllPosts, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
