package ports

import (
	"context"

	"github.com/bookhaven/library-api/internal/core/domain"
)

// RegisterTenantInput carries the public signup payload.
type RegisterTenantInput struct {
	Name      string
	Subdomain string
}

// TenantUpdateInput carries the admin-editable tenant fields. Nil means
// "leave unchanged".
type TenantUpdateInput struct {
	Name     *string
	IsActive *bool
}

// TenantService handles organization signup and self management.
type TenantService interface {
	// Register creates the tenant together with its bootstrap admin user.
	Register(ctx context.Context, input RegisterTenantInput) (*domain.Tenant, error)
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error)
	Update(ctx context.Context, id string, input TenantUpdateInput) (*domain.Tenant, error)
	// URL renders the tenant's public address in the configured addressing mode.
	URL(tenant *domain.Tenant) string
}
