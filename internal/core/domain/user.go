package domain

import "time"

// User is an account within a single tenant. Usernames are unique per tenant,
// not globally.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	TenantID     string     `json:"tenant_id"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Principal is the resolved identity of an authenticated request: the user,
// the tenant the token was bound to, and the role carried in the token.
type Principal struct {
	UserID   string
	Username string
	TenantID string
	Role     Role
	TokenID  string
}
