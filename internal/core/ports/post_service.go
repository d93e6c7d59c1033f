package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

type CreatePostInput struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

// UpdatePostInput leaves a field unchanged when it is empty; at least one
// must be set.
type UpdatePostInput struct {
	Title   string
	Content string
}

// PostDetail is a single post together with its comments.
type PostDetail struct {
	Post     *domain.Post
	Comments []*domain.Comment
}

type PostService interface {
	Create(ctx context.Context, p domain.Principal, input CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, p domain.Principal, id string) (*PostDetail, error)
	ListPublished(ctx context.Context, search string) ([]*PostDetail, error)
	ListAll(ctx context.Context, p domain.Principal) ([]*PostDetail, error)
	ListMine(ctx context.Context, p domain.Principal) ([]*PostDetail, error)
	Update(ctx context.Context, p domain.Principal, id string, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, p domain.Principal, id string) (*domain.Post, error)
	TogglePublish(ctx context.Context, p domain.Principal, id string) (*domain.Post, error)
}
