package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

// recordingSink collects audit events synchronously.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingSink) Record(e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) kinds() []domain.AuditKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

// failingUsers wraps a user store and fails lookups by id.
type failingUsers struct {
	*memory.UserRepository
	err error
}

func (f *failingUsers) FindByID(context.Context, string) (*domain.User, error) {
	return nil, f.err
}

// untouchableUsers fails the test on any store access.
type untouchableUsers struct{ t *testing.T }

func (u untouchableUsers) FindByUsername(context.Context, string) (*domain.User, error) {
	u.t.Fatalf("unexpected store access: FindByUsername")
	return nil, nil
}

func (u untouchableUsers) FindByID(context.Context, string) (*domain.User, error) {
	u.t.Fatalf("unexpected store access: FindByID")
	return nil, nil
}

func (u untouchableUsers) FindByUsernameOrEmail(context.Context, string, string) (*domain.User, error) {
	u.t.Fatalf("unexpected store access: FindByUsernameOrEmail")
	return nil, nil
}

func (u untouchableUsers) Create(context.Context, *domain.User) (*domain.User, error) {
	u.t.Fatalf("unexpected store access: Create")
	return nil, nil
}

func (u untouchableUsers) SetRole(context.Context, string, domain.Role) error {
	u.t.Fatalf("unexpected store access: SetRole")
	return nil
}

type authFixture struct {
	users  *memory.UserRepository
	tokens *TokenManager
	gate   *Authenticator
	svc    *AuthService
	audit  *recordingSink
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := memory.NewUserRepository()
	tokens, err := NewTokenManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	hasher := NewBcryptHasher(4)
	audit := &recordingSink{}
	gate := NewAuthenticator(users, hasher, tokens, audit, discardLogger)
	return &authFixture{
		users:  users,
		tokens: tokens,
		gate:   gate,
		svc:    NewAuthService(users, hasher, gate, tokens, audit, discardLogger),
		audit:  audit,
	}
}

// seedUser stores a user directly with the given role.
func seedUser(t *testing.T, users *memory.UserRepository, username string, role domain.Role) domain.Principal {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return domain.Authenticated(u)
}
