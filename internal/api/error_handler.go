package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Authentication failures
	// share one message regardless of cause.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "user account is disabled"
	case errors.Is(err, domain.ErrTenantInactive):
		return http.StatusForbidden, "tenant is disabled"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrTenantNotFound):
		return http.StatusNotFound, "tenant not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrBookNotFound):
		return http.StatusNotFound, "book not found"
	case errors.Is(err, domain.ErrSubdomainTaken):
		return http.StatusConflict, "subdomain already taken"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "username already exists"
	case errors.Is(err, domain.ErrBookExists):
		return http.StatusConflict, "book with this ISBN already exists"
	case errors.Is(err, domain.ErrSelfAction):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid argument"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
