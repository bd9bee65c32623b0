package ports

import (
	"context"
	"time"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// UserRepository defines persistence for users. Every lookup is scoped by an
// explicitly supplied tenant id; the repository never infers isolation on the
// caller's behalf.
type UserRepository interface {
	FindByID(ctx context.Context, id, tenantID string) (*domain.User, error)
	FindByUsername(ctx context.Context, username, tenantID string) (*domain.User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id, tenantID string) error
	// TouchLastLogin records an authentication timestamp. Best effort: callers
	// log failures instead of failing the request.
	TouchLastLogin(ctx context.Context, id, tenantID string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, tenantID, hash string) error
}
