package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-api/internal/api/middleware"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// AuthHandler handles login, token refresh, logout, and password change.
type AuthHandler struct {
	authService    ports.AuthService
	tenantResolver *middleware.TenantResolver
}

func NewAuthHandler(authService ports.AuthService, tenantResolver *middleware.TenantResolver) *AuthHandler {
	return &AuthHandler{authService: authService, tenantResolver: tenantResolver}
}

type loginRequest struct {
	Username        string `json:"username"         validate:"required,min=3,max=100"`
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	TenantSubdomain string `json:"tenant_subdomain"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,min=8,max=72"`
	NewPassword string `json:"new_password" validate:"required,strongpassword"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login authenticates a user within a tenant and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials and tenant subdomain"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subdomain := strings.TrimSpace(req.TenantSubdomain)
	if subdomain == "" && h.tenantResolver != nil {
		// Fall back to the addressing-derived tenant (subdomain or path mode).
		if tenant, err := h.tenantResolver.Resolve(c); err == nil && tenant != nil {
			subdomain = tenant.Subdomain
		}
	}

	pair, _, err := h.authService.Login(c.Request().Context(), subdomain, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Logout revokes the presented access token and, when supplied, the refresh
// token. Requires authentication.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	var req logoutRequest
	_ = c.Bind(&req) // body is optional

	accessToken := ""
	if header := c.Request().Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 {
			accessToken = parts[1]
		}
	}

	if err := h.authService.Logout(c.Request().Context(), accessToken, req.RefreshToken); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword verifies the current password and replaces it.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Old and new passwords"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), principal, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password changed"})
}
