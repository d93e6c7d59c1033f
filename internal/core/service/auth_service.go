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
	"github.com/inkpress/blog-api/internal/pkg/validate"
)

// AuthService implements registration, login and identity lookup.
type AuthService struct {
	users  ports.UserRepository
	hasher PasswordHasher
	gate   *Authenticator
	tokens *TokenManager
	audit  ports.AuditSink
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher PasswordHasher, gate *Authenticator, tokens *TokenManager, audit ports.AuditSink, log zerolog.Logger) *AuthService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		gate:   gate,
		tokens: tokens,
		audit:  audit,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

// Register creates a standard-role user. Input is validated before the
// store is consulted; the store's own uniqueness check still decides races.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleStandard,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	s.audit.Record(domain.AuditEvent{
		Kind:       domain.AuditRegistered,
		SubjectID:  created.ID,
		Username:   created.Username,
		OccurredAt: now,
	})
	return created, nil
}

// SeedAdmin makes sure an elevated account named input.Username exists. A
// missing account is created with the elevated role; an existing one keeps
// its password and is promoted.
func (s *AuthService) SeedAdmin(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		if user.Role == domain.RoleElevated {
			return user, nil
		}
		if err := s.users.SetRole(ctx, user.ID, domain.RoleElevated); err != nil {
			return nil, fmt.Errorf("promote %s: %w", user.Username, err)
		}
		user.Role = domain.RoleElevated
		s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user promoted to admin")
		return user, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find admin: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleElevated,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("admin seeded")
	return created, nil
}

// Login runs the credential protocol and issues a token on success.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (string, *domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := validate.Struct(input); err != nil {
		return "", nil, err
	}

	user, err := s.gate.Credentials(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			s.audit.Record(domain.AuditEvent{
				Kind:       domain.AuditLoginFailure,
				Username:   input.Username,
				OccurredAt: time.Now().UTC(),
			})
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Kind:       domain.AuditLoginSuccess,
		SubjectID:  user.ID,
		Username:   user.Username,
		OccurredAt: time.Now().UTC(),
	})
	return token, user, nil
}

// Me returns the stored record of an authenticated principal.
func (s *AuthService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	if !p.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, p.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	return user, err
}
