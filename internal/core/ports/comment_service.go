package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// CreateCommentInput carries a new comment. Username and Email are only
// recorded for anonymous callers.
type CreateCommentInput struct {
	Content  string `validate:"required"`
	Username string
	Email    string `validate:"omitempty,email"`
}

type UpdateCommentInput struct {
	Content string `validate:"required"`
}

type CommentService interface {
	List(ctx context.Context, p domain.Principal) ([]*domain.Comment, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Comment, error)
	Create(ctx context.Context, p domain.Principal, postID string, input CreateCommentInput) (*domain.Comment, error)
	Update(ctx context.Context, p domain.Principal, id string, input UpdateCommentInput) (*domain.Comment, error)
	Delete(ctx context.Context, p domain.Principal, id string) (*domain.Comment, error)
}
