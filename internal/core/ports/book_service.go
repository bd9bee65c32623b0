package ports

import (
	"context"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// CreateBookInput carries the fields for adding a book to a tenant's catalog.
type CreateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	Description string
	Quantity    int
}

// BookUpdateInput carries editable book fields. Nil means "leave unchanged".
type BookUpdateInput struct {
	Title       *string
	Author      *string
	ISBN        *string
	Description *string
	Quantity    *int
}

// ListBooksInput pages and filters a catalog listing.
type ListBooksInput struct {
	Search string
	Skip   int64
	Limit  int64
}

// BookService handles the per-tenant book catalog.
type BookService interface {
	List(ctx context.Context, principal domain.Principal, input ListBooksInput) ([]*domain.Book, error)
	Get(ctx context.Context, principal domain.Principal, bookID string) (*domain.Book, error)
	Create(ctx context.Context, principal domain.Principal, input CreateBookInput) (*domain.Book, error)
	Update(ctx context.Context, principal domain.Principal, bookID string, input BookUpdateInput) (*domain.Book, error)
	Delete(ctx context.Context, principal domain.Principal, bookID string) error
}
