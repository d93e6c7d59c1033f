package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// CommentRepository persists comments. Lists are ordered oldest first.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	List(ctx context.Context) ([]*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	// ListByPosts returns the comments of every listed post in one call.
	ListByPosts(ctx context.Context, postIDs []string) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
}
