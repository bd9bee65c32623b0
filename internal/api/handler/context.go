package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-api/internal/api/middleware"
	"github.com/bookhaven/library-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Presence proves the middleware ran; a handler wired without it fails fast
// with 401 instead of acting on a zero identity.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || principal.UserID == "" || principal.TenantID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}
