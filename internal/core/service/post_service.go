package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
	"github.com/inkpress/blog-api/internal/pkg/validate"
)

type PostService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	audit    ports.AuditSink
	logger   zerolog.Logger
}

func NewPostService(posts ports.PostRepository, comments ports.CommentRepository, audit ports.AuditSink, logger zerolog.Logger) *PostService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &PostService{posts: posts, comments: comments, audit: audit, logger: logger}
}

// Create stores a new unpublished post owned by p.
func (s *PostService) Create(ctx context.Context, p domain.Principal, input ports.CreatePostInput) (*domain.Post, error) {
	if err := authorize(s.audit, domain.OpCreatePost, p, domain.Resource{}, domain.ErrPostNotFound); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post, err := s.posts.Create(ctx, &domain.Post{
		Title:          input.Title,
		Content:        input.Content,
		AuthorID:       p.ID,
		AuthorUsername: p.Username,
		Published:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author_id", p.ID).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("author_id", p.ID).Msg("post created")
	return post, nil
}

// Get returns a post and its comments when the post is visible to p.
func (s *PostService) Get(ctx context.Context, p domain.Principal, id string) (*ports.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.audit, domain.OpReadPost, p, post.Resource(), domain.ErrPostNotFound); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &ports.PostDetail{Post: post, Comments: comments}, nil
}

// ListPublished returns every published post, optionally filtered by a
// title search.
func (s *PostService) ListPublished(ctx context.Context, search string) ([]*ports.PostDetail, error) {
	return s.list(ctx, ports.ListPostsFilter{
		PublishedOnly: true,
		Search:        strings.TrimSpace(search),
	})
}

// ListAll returns every post regardless of state. Elevated principals only.
func (s *PostService) ListAll(ctx context.Context, p domain.Principal) ([]*ports.PostDetail, error) {
	if err := authorize(s.audit, domain.OpListAllPosts, p, domain.Resource{}, domain.ErrPostNotFound); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListPostsFilter{})
}

// ListMine returns the posts authored by p.
func (s *PostService) ListMine(ctx context.Context, p domain.Principal) ([]*ports.PostDetail, error) {
	if err := authorize(s.audit, domain.OpListOwnPosts, p, domain.Resource{}, domain.ErrPostNotFound); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListPostsFilter{AuthorID: p.ID})
}

// list loads the matching posts and attaches their comments.
func (s *PostService) list(ctx context.Context, f ports.ListPostsFilter) ([]*ports.PostDetail, error) {
	posts, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	comments, err := s.comments.ListByPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	byPost := make(map[string][]*domain.Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	out := make([]*ports.PostDetail, 0, len(posts))
	for _, post := range posts {
		out = append(out, &ports.PostDetail{Post: post, Comments: byPost[post.ID]})
	}
	return out, nil
}

func (s *PostService) Update(ctx context.Context, p domain.Principal, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	if !p.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Title == "" && input.Content == "" {
		return nil, domain.NewValidationError(domain.FieldError{Field: "title", Message: "title or content is required"})
	}

	post, err := s.mutable(ctx, domain.OpUpdatePost, p, id)
	if err != nil {
		return nil, err
	}
	return s.posts.UpdateContent(ctx, post.ID, input.Title, input.Content, time.Now().UTC())
}

// Delete removes a post together with its comments and returns the removed
// post.
func (s *PostService) Delete(ctx context.Context, p domain.Principal, id string) (*domain.Post, error) {
	post, err := s.mutable(ctx, domain.OpDeletePost, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return nil, err
	}
	// Comments of a missing post are unreachable, so a failure here only
	// leaves garbage behind.
	if err := s.comments.DeleteByPost(ctx, post.ID); err != nil {
		s.logger.Error().Err(err).Str("post_id", post.ID).Msg("failed to delete comments of deleted post")
	}

	s.logger.Info().Str("post_id", post.ID).Str("by", p.ID).Msg("post deleted")
	return post, nil
}

// TogglePublish flips the published flag.
func (s *PostService) TogglePublish(ctx context.Context, p domain.Principal, id string) (*domain.Post, error) {
	post, err := s.mutable(ctx, domain.OpTogglePublish, p, id)
	if err != nil {
		return nil, err
	}
	post, err = s.posts.TogglePublished(ctx, post.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Bool("published", post.Published).Msg("post publish state changed")
	return post, nil
}

// mutable loads the post and checks that p may apply op to it.
// Unauthenticated callers are rejected before the lookup.
func (s *PostService) mutable(ctx context.Context, op domain.Operation, p domain.Principal, id string) (*domain.Post, error) {
	if !p.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.audit, op, p, post.Resource(), domain.ErrPostNotFound); err != nil {
		return nil, err
	}
	return post, nil
}
