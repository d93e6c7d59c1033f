package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/policy"
	"github.com/inkpress/blog-api/internal/core/ports"
	"github.com/inkpress/blog-api/internal/pkg/validate"
)

type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	audit    ports.AuditSink
	logger   zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, audit ports.AuditSink, logger zerolog.Logger) *CommentService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &CommentService{comments: comments, posts: posts, audit: audit, logger: logger}
}

// List returns the comments whose post is visible to p.
func (s *CommentService) List(ctx context.Context, p domain.Principal) ([]*domain.Comment, error) {
	all, err := s.comments.List(ctx)
	if err != nil {
		return nil, err
	}

	posts := make(map[string]*domain.Post)
	out := make([]*domain.Comment, 0, len(all))
	for _, c := range all {
		post, ok := posts[c.PostID]
		if !ok {
			post, err = s.posts.FindByID(ctx, c.PostID)
			if errors.Is(err, domain.ErrPostNotFound) {
				posts[c.PostID] = nil
				continue
			}
			if err != nil {
				return nil, err
			}
			posts[c.PostID] = post
		}
		if post == nil {
			continue
		}
		if policy.View(p, c.Resource(post)).Allow {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CommentService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Comment, error) {
	c, post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.audit, domain.OpReadComment, p, c.Resource(post), domain.ErrCommentNotFound); err != nil {
		return nil, err
	}
	return c, nil
}

// Create adds a comment to a post visible to p. Authenticated callers are
// recorded as the owner; anonymous callers may leave a display name and
// email instead.
func (s *CommentService) Create(ctx context.Context, p domain.Principal, postID string, input ports.CreateCommentInput) (*domain.Comment, error) {
	input.Content = strings.TrimSpace(input.Content)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.audit, domain.OpReadPost, p, post.Resource(), domain.ErrPostNotFound); err != nil {
		return nil, err
	}
	if err := authorize(s.audit, domain.OpCreateComment, p, post.Resource(), domain.ErrPostNotFound); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Comment{
		PostID:    post.ID,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.IsAuthenticated() {
		c.UserID = p.ID
		c.Username = p.Username
	} else {
		c.Username = input.Username
		c.Email = input.Email
	}

	created, err := s.comments.Create(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("post_id", post.ID).Msg("failed to create comment")
		return nil, err
	}
	return created, nil
}

func (s *CommentService) Update(ctx context.Context, p domain.Principal, id string, input ports.UpdateCommentInput) (*domain.Comment, error) {
	if !p.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	c, err := s.mutable(ctx, domain.OpUpdateComment, p, id)
	if err != nil {
		return nil, err
	}
	c.Content = input.Content
	c.UpdatedAt = time.Now().UTC()

	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a comment and returns it.
func (s *CommentService) Delete(ctx context.Context, p domain.Principal, id string) (*domain.Comment, error) {
	c, err := s.mutable(ctx, domain.OpDeleteComment, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) mutable(ctx context.Context, op domain.Operation, p domain.Principal, id string) (*domain.Comment, error) {
	if !p.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	c, post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.audit, op, p, c.Resource(post), domain.ErrCommentNotFound); err != nil {
		return nil, err
	}
	return c, nil
}

// load fetches a comment and its post. A comment whose post is gone is
// reported as missing.
func (s *CommentService) load(ctx context.Context, id string) (*domain.Comment, *domain.Post, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	post, err := s.posts.FindByID(ctx, c.PostID)
	if errors.Is(err, domain.ErrPostNotFound) {
		return nil, nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return c, post, nil
}
