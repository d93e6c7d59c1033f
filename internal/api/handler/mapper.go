package handler

import (
	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

func toLoginInput(req loginRequest) ports.LoginInput {
	return ports.LoginInput{Username: req.Username, Password: req.Password}
}

func toCreatePostInput(req createPostRequest) ports.CreatePostInput {
	return ports.CreatePostInput{Title: req.Title, Content: req.Content}
}

func toUpdatePostInput(req updatePostRequest) ports.UpdatePostInput {
	return ports.UpdatePostInput{Title: req.Title, Content: req.Content}
}

func toCreateCommentInput(req createCommentRequest) ports.CreateCommentInput {
	return ports.CreateCommentInput{
		Content:  req.Content,
		Username: req.Username,
		Email:    req.Email,
	}
}

// --- Service output → Response ---

func toPostDetailResponse(d *ports.PostDetail) postDetailResponse {
	comments := d.Comments
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return postDetailResponse{Post: d.Post, Comments: comments}
}

func toPostDetailResponses(details []*ports.PostDetail) []postDetailResponse {
	out := make([]postDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toPostDetailResponse(d))
	}
	return out
}

// nonNil keeps empty listings rendered as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
