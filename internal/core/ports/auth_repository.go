package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// UserRepository is the credential store. Create must enforce username and
// email uniqueness itself and report collisions as domain.ErrUserExists;
// callers may pre-check with FindByUsernameOrEmail but the store is the
// authority.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsernameOrEmail returns domain.ErrUserNotFound when neither matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetRole returns domain.ErrUserNotFound when id matches nothing.
	SetRole(ctx context.Context, id string, role domain.Role) error
}
