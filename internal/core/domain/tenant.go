package domain

import "time"

// Tenant is an isolated organization. Every user and book belongs to exactly
// one tenant, and all queries are scoped by its ID.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
