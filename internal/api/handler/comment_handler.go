package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/ports"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// List handles GET /api/comments.
//
// @Summary      List comments on posts visible to the caller
// @Tags         comments
// @Produce      json
// @Success      200  {array}  domain.Comment
// @Router       /api/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.service.List(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(comments))
}

// Get handles GET /api/comments/:id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  domain.Comment
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	comment, err := h.service.Get(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Create handles POST /api/posts/:id/comments. Anonymous callers may pass a
// display name and email.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Post ID"
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  validationResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req createCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Create(c.Request().Context(), principal(c), c.Param("id"), toCreateCommentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// Update handles PUT /api/comments/:id.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Comment ID"
// @Param        body  body      updateCommentRequest  true  "New content"
// @Success      200   {object}  domain.Comment
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	var req updateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Update(c.Request().Context(), principal(c), c.Param("id"), ports.UpdateCommentInput{Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  domain.Comment
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	comment, err := h.service.Delete(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}
