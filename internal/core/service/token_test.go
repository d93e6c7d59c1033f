package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpress/blog-api/internal/core/domain"
)

var tokenEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTokens(t *testing.T, at *time.Time) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	m.now = func() time.Time { return *at }
	return m
}

func TestNewTokenManager_MissingSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); !errors.Is(err, ErrMissingSigningSecret) {
		t.Fatalf("expected ErrMissingSigningSecret, got %v", err)
	}
}

func TestTokenManager_IssueVerify(t *testing.T) {
	now := tokenEpoch
	m := newTestTokens(t, &now)
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleStandard}

	token, err := m.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != "u1" || claims.Username != "alice" || claims.Role != domain.RoleStandard {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IssuedAt.Time.Equal(tokenEpoch) {
		t.Fatalf("unexpected iat: %v", claims.IssuedAt)
	}
	if !claims.ExpiresAt.Time.Equal(tokenEpoch.Add(time.Hour)) {
		t.Fatalf("unexpected exp: %v", claims.ExpiresAt)
	}
}

func TestTokenManager_PayloadFields(t *testing.T) {
	now := tokenEpoch
	m := newTestTokens(t, &now)

	token, err := m.Issue(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleElevated})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	want := []string{"id", "username", "role", "iat", "exp"}
	if len(payload) != len(want) {
		t.Fatalf("expected exactly %v, got %v", want, payload)
	}
	for _, k := range want {
		if _, ok := payload[k]; !ok {
			t.Fatalf("payload missing %q: %v", k, payload)
		}
	}
	if payload["role"] != "admin" {
		t.Fatalf("unexpected role claim: %v", payload["role"])
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	now := tokenEpoch
	m := newTestTokens(t, &now)

	token, err := m.Issue(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleStandard})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = tokenEpoch.Add(time.Hour - time.Second)
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("expected token valid just before expiry, got %v", err)
	}

	now = tokenEpoch.Add(time.Hour)
	if _, err := m.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated at expiry, got %v", err)
	}

	now = tokenEpoch.Add(2 * time.Hour)
	if _, err := m.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after expiry, got %v", err)
	}
}

func TestTokenManager_Tampered(t *testing.T) {
	now := tokenEpoch
	m := newTestTokens(t, &now)

	token, err := m.Issue(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleStandard})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for i := 0; i < len(token); i++ {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := m.Verify(string(b)); err == nil {
			t.Fatalf("tampered token verified (byte %d flipped)", i)
		}
	}
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	now := tokenEpoch
	m := newTestTokens(t, &now)

	other, _ := NewTokenManager("another-secret", time.Hour)
	other.now = m.now
	foreign, _ := other.Issue(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleStandard})

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "username": "alice", "role": "user"})
	noExpSigned, _ := noExp.SignedString([]byte("test-secret"))

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "u1", "username": "alice", "role": "root", "exp": tokenEpoch.Add(time.Hour).Unix(),
	})
	badRoleSigned, _ := badRole.SignedString([]byte("test-secret"))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id": "u1", "username": "alice", "role": "user", "exp": tokenEpoch.Add(time.Hour).Unix(),
	})
	unsignedStr, _ := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tok := range map[string]string{
		"other secret": foreign,
		"missing exp":  noExpSigned,
		"unknown role": badRoleSigned,
		"alg none":     unsignedStr,
		"garbage":      "not-a-token",
		"empty":        "",
	} {
		if _, err := m.Verify(tok); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}
