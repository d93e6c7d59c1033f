// Package memory provides in-process implementations of the store ports.
// They back STORE_DRIVER=memory and the end-to-end tests; data is lost on
// restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.User
	names map[string]string // username -> id
	mails map[string]string // email -> id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:  make(map[string]*domain.User),
		names: make(map[string]string),
		mails: make(map[string]string),
	}
}

// Create enforces username and email uniqueness under the write lock, so
// concurrent registrations of the same name cannot both succeed.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	if _, ok := r.mails[user.Email]; ok {
		return nil, domain.ErrUserExists
	}

	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.byID[u.ID] = &u
	r.names[u.Username] = u.ID
	r.mails[u.Email] = u.ID

	out := u
	return &out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(r.names[username])
}

func (r *UserRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.names[username]; ok {
		return r.get(id)
	}
	return r.get(r.mails[email])
}

func (r *UserRepository) SetRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *UserRepository) get(id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
