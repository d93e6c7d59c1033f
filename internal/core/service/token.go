package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = time.Hour

// ErrMissingSigningSecret is returned at construction when no secret is
// configured. It must stop the process before it serves requests.
var ErrMissingSigningSecret = errors.New("token signing secret is not configured")

// Claims is the decoded token payload: {id, username, role, iat, exp}.
type Claims struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSigningSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for u that expires after the configured TTL.
func (m *TokenManager) Issue(u *domain.User) (string, error) {
	now := m.now()
	claims := Claims{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw. Every failure is reported
// as domain.ErrUnauthenticated; the cause is not exposed.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	tkn, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.ID == "" || !claims.Role.Valid() {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
