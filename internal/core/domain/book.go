package domain

import (
	"strings"
	"time"
)

// Book is a catalog entry within a tenant's library. The (tenant, ISBN) pair
// is unique; the same ISBN may exist in different tenants.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	TenantID    string    `json:"tenant_id"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeISBN strips formatting characters so lookups and uniqueness checks
// compare the bare number.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.TrimSpace(isbn)
}
