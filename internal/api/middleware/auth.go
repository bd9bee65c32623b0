package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/api/metrics"
	"github.com/bookhaven/library-api/internal/auth"
	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// PrincipalKey is the context key under which Auth stores the resolved
// principal.
const PrincipalKey = "principal"

// LastLoginRecorder receives authentication timestamps. Implementations are
// expected to be non-blocking.
type LastLoginRecorder interface {
	Record(userID, tenantID string, at time.Time)
}

// AuthDeps carries everything the identity resolver needs. Revoker may be nil
// when token revocation is disabled; LastLogin may be nil to write timestamps
// synchronously through Users instead.
type AuthDeps struct {
	Codec     *auth.TokenCodec
	Users     ports.UserRepository
	Tenants   ports.TenantRepository
	Revoker   ports.TokenRevoker
	LastLogin LastLoginRecorder
	Logger    zerolog.Logger
}

// Auth resolves the acting principal from the bearer token and injects it
// into the request context. The token must be a live access token whose
// (user, tenant) pair still exists and is active; a token bound to tenant A
// never resolves a user under tenant B.
func Auth(deps AuthDeps) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_header").Inc()
				return err
			}

			claims, err := deps.Codec.Decode(token)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if err := deps.Codec.CheckType(claims, auth.TokenTypeAccess); err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if deps.Revoker != nil && claims.ID != "" {
				revoked, err := deps.Revoker.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					deps.Logger.Warn().Err(err).Msg("revocation check failed, treating token as valid")
				} else if revoked {
					metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
			}

			userID, tenantID, role, err := deps.Codec.Identity(claims)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()

			user, err := deps.Users.FindByID(ctx, userID, tenantID)
			if err != nil {
				// The referenced user changed or disappeared since issuance:
				// treat the session as invalid, not as a missing resource.
				metrics.AuthRejectionsTotal.WithLabelValues("user_not_found").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !user.IsActive {
				metrics.AuthRejectionsTotal.WithLabelValues("user_inactive").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "user account is disabled")
			}

			tenant, err := deps.Tenants.FindByID(ctx, tenantID)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !tenant.IsActive {
				metrics.AuthRejectionsTotal.WithLabelValues("tenant_inactive").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "tenant is disabled")
			}

			if deps.LastLogin != nil {
				deps.LastLogin.Record(user.ID, tenantID, time.Now().UTC())
			} else if err := deps.Users.TouchLastLogin(ctx, user.ID, tenantID, time.Now().UTC()); err != nil {
				deps.Logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record authentication timestamp")
			}

			c.Set(PrincipalKey, domain.Principal{
				UserID:   user.ID,
				Username: user.Username,
				TenantID: tenantID,
				Role:     role,
				TokenID:  claims.ID,
			})

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
