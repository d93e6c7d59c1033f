package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// RegisterInput is validated before the credential store is consulted.
type RegisterInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// LoginInput carries the credential protocol's inputs.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=6"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (string, *domain.User, error)
	Me(ctx context.Context, principal domain.Principal) (*domain.User, error)
}

// Authenticator resolves bearer credentials into a principal.
type Authenticator interface {
	// Authenticate fails with domain.ErrUnauthenticated when the header is
	// missing, malformed, carries an invalid token, or names a user that no
	// longer exists.
	Authenticate(ctx context.Context, authorization string) (domain.Principal, error)
	// AuthenticateOptional never fails: every failure resolves to
	// domain.Anonymous().
	AuthenticateOptional(ctx context.Context, authorization string) domain.Principal
}
