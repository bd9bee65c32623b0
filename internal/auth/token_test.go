package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookhaven/library-api/internal/core/domain"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestTokenCodec_AccessRoundtrip(t *testing.T) {
	tc := newTestCodec()

	token, err := tc.IssueAccess("user_1", "tenant_1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tc.Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := tc.CheckType(claims, TokenTypeAccess); err != nil {
		t.Fatalf("type check failed: %v", err)
	}

	userID, tenantID, role, err := tc.Identity(claims)
	if err != nil {
		t.Fatalf("identity extraction failed: %v", err)
	}
	if userID != "user_1" || tenantID != "tenant_1" || role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %s %s %s", userID, tenantID, role)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id")
	}
}

func TestTokenCodec_RefreshTypeMarker(t *testing.T) {
	tc := newTestCodec()

	token, err := tc.IssueRefresh("user_1", "tenant_1", domain.RoleMember)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tc.Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := tc.CheckType(claims, TokenTypeRefresh); err != nil {
		t.Fatalf("refresh token failed its own type check: %v", err)
	}
	if err := tc.CheckType(claims, TokenTypeAccess); err != domain.ErrInvalidToken {
		t.Fatalf("refresh token accepted as access token")
	}
}

func TestTokenCodec_Expiry(t *testing.T) {
	tc := newTestCodec()

	token, err := tc.IssueAccess("user_1", "tenant_1", domain.RoleMember)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Advance the codec clock past the access TTL.
	tc.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	if _, err := tc.Decode(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenCodec_TamperedAndMalformed(t *testing.T) {
	tc := newTestCodec()

	token, err := tc.IssueAccess("user_1", "tenant_1", domain.RoleMember)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tampered := token[:len(token)-1] + "A"
	if tampered == token {
		tampered = token[:len(token)-1] + "B"
	}

	cases := map[string]string{
		"malformed":    "not-a-token",
		"empty":        "",
		"tampered":     tampered,
		"wrong secret": mustSign(t, "other-secret"),
	}
	for name, tok := range cases {
		if _, err := tc.Decode(tok); err != domain.ErrInvalidToken {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenCodec_RejectsUnexpectedAlgorithm(t *testing.T) {
	tc := newTestCodec()

	// "none" tokens must never verify regardless of payload.
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user_1", "tenant_id": "tenant_1", "role": "admin", "type": "access",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := tc.Decode(tok); err != domain.ErrInvalidToken {
		t.Fatalf("unsigned token accepted")
	}
}

func TestTokenCodec_IdentityMissingFields(t *testing.T) {
	tc := newTestCodec()

	cases := []*Claims{
		nil,
		{TenantID: "tenant_1", Role: domain.RoleAdmin},
		{Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"}},
		{TenantID: "tenant_1", Role: "superuser", RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"}},
	}
	for i, c := range cases {
		if _, _, _, err := tc.Identity(c); err != domain.ErrInvalidToken {
			t.Fatalf("case %d: expected ErrInvalidToken, got %v", i, err)
		}
	}
}

func mustSign(t *testing.T, secret string) string {
	t.Helper()
	other := NewTokenCodec(secret, time.Hour, time.Hour)
	tok, err := other.IssueAccess("user_1", "tenant_1", domain.RoleMember)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return tok
}
