package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/api/metrics"
	"github.com/bookhaven/library-api/internal/auth"
	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// AuthService implements login, token refresh, logout, and password change.
type AuthService struct {
	tenants ports.TenantRepository
	users   ports.UserRepository
	codec   *auth.TokenCodec
	revoker ports.TokenRevoker
	logger  zerolog.Logger
}

func NewAuthService(
	tenants ports.TenantRepository,
	users ports.UserRepository,
	codec *auth.TokenCodec,
	revoker ports.TokenRevoker,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{tenants: tenants, users: users, codec: codec, revoker: revoker, logger: logger}
}

// Login authenticates (username, password) within the tenant identified by
// subdomain and returns a fresh token pair. "User not found" and "wrong
// password" both come back as ErrInvalidCredentials so usernames cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, subdomain, username, password string) (*ports.TokenPair, *domain.User, error) {
	if subdomain == "" || username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	tenant, err := s.tenants.FindBySubdomain(ctx, subdomain)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("tenant_not_found").Inc()
		return nil, nil, err
	}
	if !tenant.IsActive {
		metrics.LoginsTotal.WithLabelValues("tenant_inactive").Inc()
		return nil, nil, domain.ErrTenantInactive
	}

	user, err := s.users.FindByUsername(ctx, username, tenant.ID)
	if err != nil || !auth.VerifyPassword(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("user_inactive").Inc()
		return nil, nil, domain.ErrUserInactive
	}

	pair, err := s.issuePair(user.ID, tenant.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, tenant.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("tenant_id", tenant.ID).Str("role", user.Role.String()).Msg("login")
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user must still
// exist in the token's tenant and be active; anything else invalidates the
// session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if err := s.codec.CheckType(claims, auth.TokenTypeRefresh); err != nil {
		return nil, domain.ErrInvalidToken
	}
	if revoked, err := s.isRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, domain.ErrInvalidToken
	}

	userID, tenantID, _, err := s.codec.Identity(claims)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID, tenantID)
	if err != nil || !user.IsActive {
		return nil, domain.ErrInvalidToken
	}

	// Role is re-read from the user row so a role change takes effect on the
	// next refresh instead of surviving for the whole refresh TTL.
	return s.issuePair(user.ID, tenantID, user.Role)
}

// Logout revokes the presented tokens for their remaining lifetime. Tokens
// that no longer decode are ignored; logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	for _, tok := range []string{accessToken, refreshToken} {
		if tok == "" {
			continue
		}
		claims, err := s.codec.Decode(tok)
		if err != nil {
			continue
		}
		if err := s.revoke(ctx, claims); err != nil {
			return err
		}
	}
	return nil
}

// ChangePassword verifies the current password and replaces the stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, principal domain.Principal, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, principal.UserID, principal.TenantID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, user.ID, principal.TenantID, hash)
}

func (s *AuthService) issuePair(userID, tenantID string, role domain.Role) (*ports.TokenPair, error) {
	access, err := s.codec.IssueAccess(userID, tenantID, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefresh(userID, tenantID, role)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues(auth.TokenTypeAccess).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(auth.TokenTypeRefresh).Inc()
	return &ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.codec.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) isRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.revoker == nil || tokenID == "" {
		return false, nil
	}
	return s.revoker.IsRevoked(ctx, tokenID)
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, ttl)
}
