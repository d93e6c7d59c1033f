package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"unknown user", domain.ErrUserNotFound, http.StatusUnauthorized, "invalid credentials"},
		{"bad password", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"post", fmt.Errorf("load: %w", domain.ErrPostNotFound), http.StatusNotFound, "post not found"},
		{"comment", domain.ErrCommentNotFound, http.StatusNotFound, "comment not found"},
		{"conflict", domain.ErrUserExists, http.StatusConflict, "username or email already taken"},
		{"echo", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"internal", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.New(&logs))(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body["error"])
			}

			logged := logs.Len() > 0
			if logged != (tc.code == http.StatusInternalServerError) {
				t.Fatalf("only unexpected errors are logged, logged=%v", logged)
			}
		})
	}
}

func TestHTTPErrorHandler_Validation(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := domain.NewValidationError(
		domain.FieldError{Field: "email", Message: "must be a valid email"},
		domain.FieldError{Field: "password", Message: "must be at least 6 characters"},
	)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body validationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Errors) != 2 || body.Errors[0].Field != "email" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
