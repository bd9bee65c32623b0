package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// Tenant addressing modes.
const (
	TenantModeSubdomain = "subdomain"
	TenantModePath      = "path"
)

const tenantPathPrefix = "/tenant/"

// TenantResolver derives a tenant from ambient request context for flows that
// precede authentication. Absence of a match is not an error; callers decide
// whether a missing tenant is fatal.
type TenantResolver struct {
	tenants  ports.TenantRepository
	mode     string
	reserved map[string]struct{}
}

func NewTenantResolver(tenants ports.TenantRepository, mode string, reserved []string) *TenantResolver {
	r := make(map[string]struct{}, len(reserved))
	for _, s := range reserved {
		r[s] = struct{}{}
	}
	if mode != TenantModePath {
		mode = TenantModeSubdomain
	}
	return &TenantResolver{tenants: tenants, mode: mode, reserved: r}
}

// Resolve returns the tenant addressed by the request, or (nil, nil) when the
// request does not address a registered tenant.
func (tr *TenantResolver) Resolve(c echo.Context) (*domain.Tenant, error) {
	subdomain := tr.subdomainFrom(c)
	if subdomain == "" {
		return nil, nil
	}

	tenant, err := tr.tenants.FindBySubdomain(c.Request().Context(), subdomain)
	if err != nil {
		// Not found is "no match", not a failure.
		return nil, nil
	}
	return tenant, nil
}

func (tr *TenantResolver) subdomainFrom(c echo.Context) string {
	if tr.mode == TenantModePath {
		path := c.Request().URL.Path
		if !strings.HasPrefix(path, tenantPathPrefix) {
			return ""
		}
		rest := strings.TrimPrefix(path, tenantPathPrefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		return rest
	}

	host := c.Request().Host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	if !strings.Contains(host, ".") {
		return ""
	}
	label := host[:strings.IndexByte(host, '.')]
	if _, ok := tr.reserved[label]; ok {
		return ""
	}
	return label
}
