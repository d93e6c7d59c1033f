package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, body
}

func TestLiveness(t *testing.T) {
	rec, body := serve(t, NewHealthHandler().Liveness)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	h := NewHealthDependenciesHandler(map[string]Pinger{"mongodb": ok, "redis": ok})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Pinger{
		"mongodb": PingFunc(func(context.Context) error { return nil }),
		"redis":   PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable || body["status"] != "degraded" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	deps := body["dependencies"].(map[string]any)
	redis := deps["redis"].(map[string]any)
	if redis["status"] != "unhealthy" || redis["error"] != "connection refused" {
		t.Fatalf("unexpected redis status: %v", redis)
	}
	if deps["mongodb"].(map[string]any)["status"] != "ok" {
		t.Fatalf("mongodb should be ok: %v", deps)
	}
}
