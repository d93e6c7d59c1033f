package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// CommentRepository implements ports.CommentRepository.
type CommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*domain.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[string]*domain.Comment)}
}

func (r *CommentRepository) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *comment
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.comments[c.ID] = &c

	out := c
	return &out, nil
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

func (r *CommentRepository) List(_ context.Context) ([]*domain.Comment, error) {
	return r.filter(func(*domain.Comment) bool { return true }), nil
}

func (r *CommentRepository) ListByPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	return r.filter(func(c *domain.Comment) bool { return c.PostID == postID }), nil
}

func (r *CommentRepository) ListByPosts(_ context.Context, postIDs []string) ([]*domain.Comment, error) {
	ids := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		ids[id] = struct{}{}
	}
	return r.filter(func(c *domain.Comment) bool {
		_, ok := ids[c.PostID]
		return ok
	}), nil
}

func (r *CommentRepository) Update(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[comment.ID]; !ok {
		return domain.ErrCommentNotFound
	}
	c := *comment
	r.comments[c.ID] = &c
	return nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *CommentRepository) DeleteByPost(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

// filter returns matching comments oldest first.
func (r *CommentRepository) filter(keep func(*domain.Comment) bool) []*domain.Comment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Comment, 0)
	for _, c := range r.comments {
		if keep(c) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
