package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/ports"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List handles GET /api/posts.
//
// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Param        search  query     string  false  "Case-insensitive title filter"
// @Success      200     {array}   postDetailResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.ListPublished(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostDetailResponses(posts))
}

// ListAll handles GET /api/posts/all.
//
// @Summary      List every post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   postDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/posts/all [get]
func (h *PostHandler) ListAll(c echo.Context) error {
	posts, err := h.service.ListAll(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostDetailResponses(posts))
}

// ListMine handles GET /api/posts/my.
//
// @Summary      List the caller's posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   postDetailResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/posts/my [get]
func (h *PostHandler) ListMine(c echo.Context) error {
	posts, err := h.service.ListMine(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostDetailResponses(posts))
}

// Get handles GET /api/posts/:id. Unpublished posts are only returned to
// their author; everyone else gets 404.
//
// @Summary      Get a post with its comments
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostDetailResponse(detail))
}

// Create handles POST /api/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), principal(c), toCreatePostInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// Update handles PUT /api/posts/:id.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post ID"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  domain.Post
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), principal(c), c.Param("id"), toUpdatePostInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id.
//
// @Summary      Delete a post and its comments
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  domain.Post
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	post, err := h.service.Delete(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// TogglePublish handles PUT /api/posts/:id/publish.
//
// @Summary      Publish or unpublish a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  domain.Post
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id}/publish [put]
func (h *PostHandler) TogglePublish(c echo.Context) error {
	post, err := h.service.TogglePublish(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}
