package handler

import "github.com/inkpress/blog-api/internal/core/domain"

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse is returned with 400 when input fails validation.
type validationResponse struct {
	Errors []domain.FieldError `json:"errors"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// --- Posts ---

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type postDetailResponse struct {
	*domain.Post
	Comments []*domain.Comment `json:"comments"`
}

// --- Comments ---

type createCommentRequest struct {
	Content  string `json:"content"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}
