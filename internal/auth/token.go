package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// Token type markers. An access token can never be used where a refresh
// token is expected and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload carried inside every signed token.
type Claims struct {
	TenantID  string      `json:"tenant_id"`
	Role      domain.Role `json:"role"`
	TokenType string      `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed tokens. It is stateless: a pure
// function of the secret, the TTLs, and the clock. The secret is loaded once
// at startup and never rotated at runtime; rotation would invalidate every
// outstanding token.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec builds a codec signing with HS256 over secret.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the configured access-token lifetime.
func (tc *TokenCodec) AccessTTL() time.Duration { return tc.accessTTL }

// IssueAccess signs a short-lived access token for the given identity.
func (tc *TokenCodec) IssueAccess(userID, tenantID string, role domain.Role) (string, error) {
	return tc.issue(userID, tenantID, role, TokenTypeAccess, tc.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the given identity.
func (tc *TokenCodec) IssueRefresh(userID, tenantID string, role domain.Role) (string, error) {
	return tc.issue(userID, tenantID, role, TokenTypeRefresh, tc.refreshTTL)
}

func (tc *TokenCodec) issue(userID, tenantID string, role domain.Role, tokenType string, ttl time.Duration) (string, error) {
	now := tc.now().UTC()
	claims := Claims{
		TenantID:  tenantID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.secret)
}

// Decode verifies the signature and expiry of token and returns its claims.
// Every failure mode (malformed, expired, tampered, wrong algorithm) is
// collapsed into domain.ErrInvalidToken so callers cannot distinguish them.
func (tc *TokenCodec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return tc.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return tc.now() }))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// CheckType fails closed when the claims' type marker does not match
// expected. This blocks a refresh token from authenticating a request and an
// access token from minting new tokens.
func (tc *TokenCodec) CheckType(claims *Claims, expected string) error {
	if claims == nil || claims.TokenType != expected {
		return domain.ErrInvalidToken
	}
	return nil
}

// Identity extracts (user id, tenant id, role) from claims, rejecting
// payloads with any of the three missing or an unknown role.
func (tc *TokenCodec) Identity(claims *Claims) (userID, tenantID string, role domain.Role, err error) {
	if claims == nil || claims.Subject == "" || claims.TenantID == "" || !claims.Role.Valid() {
		return "", "", "", domain.ErrInvalidToken
	}
	return claims.Subject, claims.TenantID, claims.Role, nil
}
