package ports

import (
	"context"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// BookQuery narrows and pages a tenant's catalog listing.
type BookQuery struct {
	TenantID string
	Search   string // matches title or author, case-insensitive
	Skip     int64
	Limit    int64
}

// BookRepository defines persistence for the per-tenant book catalog.
type BookRepository interface {
	List(ctx context.Context, q BookQuery) ([]*domain.Book, error)
	FindByID(ctx context.Context, id, tenantID string) (*domain.Book, error)
	FindByISBN(ctx context.Context, isbn, tenantID string) (*domain.Book, error)
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id, tenantID string) error
}
