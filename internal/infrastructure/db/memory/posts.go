package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// PostRepository implements ports.PostRepository.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]*domain.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*domain.Post)}
}

func (r *PostRepository) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *post
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.posts[p.ID] = &p

	out := p
	return &out, nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	out := *p
	return &out, nil
}

func (r *PostRepository) List(_ context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(f.Search)
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if f.PublishedOnly && !p.Published {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PostRepository) UpdateContent(_ context.Context, id, title, content string, updatedAt time.Time) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if title != "" {
		p.Title = title
	}
	if content != "" {
		p.Content = content
	}
	p.UpdatedAt = updatedAt

	out := *p
	return &out, nil
}

func (r *PostRepository) TogglePublished(_ context.Context, id string, updatedAt time.Time) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Published = !p.Published
	p.UpdatedAt = updatedAt

	out := *p
	return &out, nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}
