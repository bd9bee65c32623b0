package domain

import "errors"

// Authentication failures. ErrInvalidCredentials covers both "user not found"
// and "wrong password" so callers cannot enumerate usernames. ErrInvalidToken
// covers malformed, expired, tampered, revoked, and wrong-type tokens alike.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Authorization failures: the credential was valid but the account or tenant
// is disabled, or the role is insufficient.
var (
	ErrUserInactive   = errors.New("user account is inactive")
	ErrTenantInactive = errors.New("tenant is inactive")
	ErrForbidden      = errors.New("access forbidden")
)

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrSubdomainTaken  = errors.New("subdomain already taken")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username already exists in tenant")
	ErrBookNotFound    = errors.New("book not found")
	ErrBookExists      = errors.New("book with this ISBN already exists in tenant")
	ErrSelfAction      = errors.New("cannot perform this action on your own account")
	ErrInvalidArgument = errors.New("invalid argument")
)
