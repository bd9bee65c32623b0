package ports

import (
	"context"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// CreateUserInput carries the fields an admin supplies when creating a user
// in their tenant.
type CreateUserInput struct {
	Username string
	Password string
	Role     domain.Role
}

// UserUpdateInput carries admin-editable user fields. Nil means "leave
// unchanged".
type UserUpdateInput struct {
	Role     *domain.Role
	IsActive *bool
}

// UserService handles user management within the acting principal's tenant.
type UserService interface {
	List(ctx context.Context, principal domain.Principal) ([]*domain.User, error)
	Get(ctx context.Context, principal domain.Principal, userID string) (*domain.User, error)
	Create(ctx context.Context, principal domain.Principal, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, principal domain.Principal, userID string, input UserUpdateInput) (*domain.User, error)
	Delete(ctx context.Context, principal domain.Principal, userID string) error
}
