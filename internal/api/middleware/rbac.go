package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// RBAC builds a role gate over an already-resolved principal. The request is
// rejected with 403 when the principal's role is not in the allowed set. The
// gate never touches persistence; it must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[principal.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// The three conventional permission tiers. Roles are cumulative: admins can
// do everything a librarian can, and so on.
func RequireAdmin() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}

func RequireLibrarian() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin, domain.RoleLibrarian)
}

func RequireMember() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin, domain.RoleLibrarian, domain.RoleMember)
}
