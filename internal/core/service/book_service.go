package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BookService manages the per-tenant book catalog. Every repository call is
// scoped by the principal's tenant id.
type BookService struct {
	books  ports.BookRepository
	logger zerolog.Logger
}

func NewBookService(books ports.BookRepository, logger zerolog.Logger) *BookService {
	return &BookService{books: books, logger: logger}
}

func (s *BookService) List(ctx context.Context, principal domain.Principal, input ports.ListBooksInput) ([]*domain.Book, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	skip := input.Skip
	if skip < 0 {
		skip = 0
	}

	return s.books.List(ctx, ports.BookQuery{
		TenantID: principal.TenantID,
		Search:   input.Search,
		Skip:     skip,
		Limit:    limit,
	})
}

func (s *BookService) Get(ctx context.Context, principal domain.Principal, bookID string) (*domain.Book, error) {
	return s.books.FindByID(ctx, bookID, principal.TenantID)
}

// Create adds a book to the tenant's catalog. The ISBN is normalized and must
// be unique within the tenant.
func (s *BookService) Create(ctx context.Context, principal domain.Principal, input ports.CreateBookInput) (*domain.Book, error) {
	if input.Title == "" || input.Author == "" || input.ISBN == "" {
		return nil, domain.ErrInvalidArgument
	}

	isbn := domain.NormalizeISBN(input.ISBN)
	if _, err := s.books.FindByISBN(ctx, isbn, principal.TenantID); err == nil {
		return nil, domain.ErrBookExists
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	now := time.Now().UTC()
	book := &domain.Book{
		Title:       input.Title,
		Author:      input.Author,
		ISBN:        isbn,
		Description: input.Description,
		Quantity:    quantity,
		TenantID:    principal.TenantID,
		CreatedBy:   principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.books.Create(ctx, book)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("book_id", created.ID).Str("tenant_id", principal.TenantID).Str("isbn", isbn).Msg("book created")
	return created, nil
}

// Update applies the provided fields. An ISBN change re-checks uniqueness
// within the tenant.
func (s *BookService) Update(ctx context.Context, principal domain.Principal, bookID string, input ports.BookUpdateInput) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, bookID, principal.TenantID)
	if err != nil {
		return nil, err
	}

	if input.ISBN != nil {
		isbn := domain.NormalizeISBN(*input.ISBN)
		if isbn != book.ISBN {
			if existing, err := s.books.FindByISBN(ctx, isbn, principal.TenantID); err == nil && existing.ID != book.ID {
				return nil, domain.ErrBookExists
			}
		}
		book.ISBN = isbn
	}
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Quantity != nil && *input.Quantity >= 0 {
		book.Quantity = *input.Quantity
	}
	book.UpdatedAt = time.Now().UTC()

	return s.books.Update(ctx, book)
}

func (s *BookService) Delete(ctx context.Context, principal domain.Principal, bookID string) error {
	if _, err := s.books.FindByID(ctx, bookID, principal.TenantID); err != nil {
		return err
	}
	return s.books.Delete(ctx, bookID, principal.TenantID)
}
