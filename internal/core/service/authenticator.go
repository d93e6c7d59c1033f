package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// ParseBearer extracts the token from an Authorization header of the form
// "Bearer <token>". The scheme is matched case-insensitively.
func ParseBearer(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

// Authenticator implements both the credential and the bearer protocols.
// Only the id claim of a token is trusted: the user is re-read from the
// store on every request so role changes apply immediately.
type Authenticator struct {
	users  ports.UserRepository
	hasher PasswordHasher
	tokens *TokenManager
	audit  ports.AuditSink
	log    zerolog.Logger
}

func NewAuthenticator(users ports.UserRepository, hasher PasswordHasher, tokens *TokenManager, audit ports.AuditSink, log zerolog.Logger) *Authenticator {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &Authenticator{users: users, hasher: hasher, tokens: tokens, audit: audit, log: log}
}

// Credentials runs the credential protocol. It fails with
// domain.ErrUserNotFound or domain.ErrInvalidCredentials; callers must not
// let the difference reach the client.
func (a *Authenticator) Credentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (domain.Principal, error) {
	if authorization == "" {
		return domain.Anonymous(), domain.ErrUnauthenticated
	}
	principal, err := a.resolve(ctx, authorization)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			a.audit.Record(domain.AuditEvent{
				Kind:       domain.AuditTokenRejected,
				Reason:     domain.ReasonUnauthenticated,
				OccurredAt: time.Now().UTC(),
			})
		}
		return domain.Anonymous(), err
	}
	return principal, nil
}

func (a *Authenticator) AuthenticateOptional(ctx context.Context, authorization string) domain.Principal {
	if authorization == "" {
		return domain.Anonymous()
	}
	principal, err := a.resolve(ctx, authorization)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			a.log.Warn().Err(err).Msg("optional authentication failed, continuing as anonymous")
		}
		return domain.Anonymous()
	}
	return principal
}

func (a *Authenticator) resolve(ctx context.Context, authorization string) (domain.Principal, error) {
	raw, err := ParseBearer(authorization)
	if err != nil {
		return domain.Anonymous(), err
	}
	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return domain.Anonymous(), err
	}

	user, err := a.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Anonymous(), domain.ErrUnauthenticated
		}
		return domain.Anonymous(), fmt.Errorf("resolve token subject: %w", err)
	}
	return domain.Authenticated(user), nil
}
