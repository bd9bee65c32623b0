package ports

import (
	"context"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// TenantRepository defines persistence for tenants.
type TenantRepository interface {
	FindBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error)
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
	// CreateWithAdmin inserts the tenant and its bootstrap admin atomically:
	// either both rows are committed or neither is.
	CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) (*domain.Tenant, *domain.User, error)
	Update(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
}
