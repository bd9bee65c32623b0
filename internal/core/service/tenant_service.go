package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/api/metrics"
	"github.com/bookhaven/library-api/internal/auth"
	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// BootstrapAdminUsername and BootstrapAdminPassword are the credentials of
// the admin user auto-created with every new tenant. The password is meant to
// be changed on first login.
const (
	BootstrapAdminUsername = "admin"
	BootstrapAdminPassword = "ChangeMe123!"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// TenantService handles organization signup and self management.
type TenantService struct {
	tenants    ports.TenantRepository
	baseDomain string
	tenantMode string // "subdomain" or "path"
	reserved   map[string]struct{}
	logger     zerolog.Logger
}

func NewTenantService(tenants ports.TenantRepository, baseDomain, tenantMode string, reserved []string, logger zerolog.Logger) *TenantService {
	r := make(map[string]struct{}, len(reserved))
	for _, s := range reserved {
		r[s] = struct{}{}
	}
	return &TenantService{
		tenants:    tenants,
		baseDomain: baseDomain,
		tenantMode: tenantMode,
		reserved:   r,
		logger:     logger,
	}
}

// Register creates a tenant and its bootstrap admin user. The two inserts are
// atomic: a failure on either leaves no partial state behind.
func (s *TenantService) Register(ctx context.Context, input ports.RegisterTenantInput) (*domain.Tenant, error) {
	if err := s.validateSubdomain(input.Subdomain); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, domain.ErrInvalidArgument
	}

	if _, err := s.tenants.FindBySubdomain(ctx, input.Subdomain); err == nil {
		return nil, domain.ErrSubdomainTaken
	}

	hash, err := auth.HashPassword(BootstrapAdminPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tenant := &domain.Tenant{
		Name:      input.Name,
		Subdomain: input.Subdomain,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := &domain.User{
		Username:     BootstrapAdminUsername,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
	}

	created, _, err := s.tenants.CreateWithAdmin(ctx, tenant, admin)
	if err != nil {
		s.logger.Error().Err(err).Str("subdomain", input.Subdomain).Msg("tenant registration failed")
		return nil, err
	}

	metrics.TenantsRegisteredTotal.Inc()
	s.logger.Info().Str("tenant_id", created.ID).Str("subdomain", created.Subdomain).Msg("tenant registered")
	return created, nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return s.tenants.FindByID(ctx, id)
}

func (s *TenantService) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return s.tenants.FindBySubdomain(ctx, subdomain)
}

// Update applies the provided fields to the tenant.
func (s *TenantService) Update(ctx context.Context, id string, input ports.TenantUpdateInput) (*domain.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		tenant.Name = *input.Name
	}
	if input.IsActive != nil {
		tenant.IsActive = *input.IsActive
	}
	tenant.UpdatedAt = time.Now().UTC()
	return s.tenants.Update(ctx, tenant)
}

// URL renders the tenant's public address in the configured addressing mode.
func (s *TenantService) URL(tenant *domain.Tenant) string {
	if s.tenantMode == "path" {
		return fmt.Sprintf("https://%s/tenant/%s", s.baseDomain, tenant.Subdomain)
	}
	return fmt.Sprintf("https://%s.%s", tenant.Subdomain, s.baseDomain)
}

func (s *TenantService) validateSubdomain(subdomain string) error {
	if len(subdomain) < 3 || len(subdomain) > 63 || !subdomainPattern.MatchString(subdomain) {
		return domain.ErrInvalidArgument
	}
	if _, ok := s.reserved[subdomain]; ok {
		return domain.ErrInvalidArgument
	}
	return nil
}
