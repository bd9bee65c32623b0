package ports

import (
	"context"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// AuthService implements login, token refresh, logout, and password change.
type AuthService interface {
	// Login authenticates (username, password) within the tenant identified by
	// subdomain. Unknown user and wrong password are indistinguishable.
	Login(ctx context.Context, subdomain, username, password string) (*TokenPair, *domain.User, error)
	// Refresh exchanges a valid refresh token for a new token pair, verifying
	// the user still exists and is active.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout revokes both presented tokens for their remaining lifetime.
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ChangePassword(ctx context.Context, principal domain.Principal, oldPassword, newPassword string) error
}
