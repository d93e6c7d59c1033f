package ports

import (
	"context"
	"time"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// ListPostsFilter narrows a post listing. Zero values mean no filter.
type ListPostsFilter struct {
	AuthorID      string
	PublishedOnly bool
	// Search is a case-insensitive substring match on the title.
	Search string
}

// PostRepository persists posts. Lists are ordered newest first.
//
// Writes touch only the fields they name, so an edit never overwrites a
// concurrent publish state change.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, error)
	// UpdateContent sets title and content; an empty value leaves the field
	// unchanged. It returns the stored post after the write.
	UpdateContent(ctx context.Context, id, title, content string, updatedAt time.Time) (*domain.Post, error)
	// TogglePublished flips the published flag atomically and returns the
	// stored post after the write.
	TogglePublished(ctx context.Context, id string, updatedAt time.Time) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}
