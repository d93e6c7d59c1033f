package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/infrastructure/db/redis"
)

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	e := echo.New()
	e.Use(RateLimit(redis.NewRateLimiter(client, "ratelimit", 2, 15*time.Minute), zerolog.Nop()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := do("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("missing rate limit headers: %v", rec.Header())
	}

	if rec := do("10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("other client must not be limited, got %d", rec.Code)
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (redis.RateDecision, error) {
	return redis.RateDecision{}, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	c, rec := newContext("")
	err := RateLimit(brokenLimiter{}, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected request to pass, got err=%v code=%d", err, rec.Code)
	}
}

func newLimitedEcho(t *testing.T, limit int, trusted []*net.IPNet) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := echo.New()
	e.IPExtractor = ClientIP(trusted)
	e.Use(RateLimit(redis.NewRateLimiter(client, "ratelimit", limit, 15*time.Minute), zerolog.Nop()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func serveFrom(e *echo.Echo, peer, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = peer + ":1234"
	if forwardedFor != "" {
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_IgnoresForwardedForWithoutTrustedProxies(t *testing.T) {
	e := newLimitedEcho(t, 2, nil)

	allowed := 0
	for i := 0; i < 50; i++ {
		if serveFrom(e, "10.0.0.1", "1.2.3."+strconv.Itoa(i)) == http.StatusOK {
			allowed++
		}
	}
	if allowed != 2 {
		t.Fatalf("rotating X-Forwarded-For from one peer: expected 2 allowed, got %d", allowed)
	}
}

func TestRateLimit_TrustedProxyForwardsClientIP(t *testing.T) {
	_, proxies, err := net.ParseCIDR("10.0.0.0/8")
	if err != nil {
		t.Fatal(err)
	}
	e := newLimitedEcho(t, 1, []*net.IPNet{proxies})

	if code := serveFrom(e, "10.0.0.1", "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", code)
	}
	if code := serveFrom(e, "10.0.0.1", "203.0.113.2"); code != http.StatusOK {
		t.Fatalf("second client behind the proxy: expected 200, got %d", code)
	}
	if code := serveFrom(e, "10.0.0.1", "203.0.113.1"); code != http.StatusTooManyRequests {
		t.Fatalf("first client again: expected 429, got %d", code)
	}

	// An untrusted peer cannot pick its identity through the header.
	if code := serveFrom(e, "198.51.100.7", "203.0.113.9"); code != http.StatusOK {
		t.Fatalf("untrusted peer first hit: expected 200, got %d", code)
	}
	if code := serveFrom(e, "198.51.100.7", "203.0.113.10"); code != http.StatusTooManyRequests {
		t.Fatalf("untrusted peer rotating header: expected 429, got %d", code)
	}
}
