package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/auth"
	"github.com/bookhaven/library-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User // key: id + "/" + tenantID
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID+"/"+u.TenantID] = u
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id, tenantID string) (*domain.User, error) {
	if u, ok := r.users[id+"/"+tenantID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username, tenantID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.TenantID == tenantID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByTenant(context.Context, string) ([]*domain.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (r *stubUserRepo) Delete(context.Context, string, string) error { return nil }

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id, tenantID string, at time.Time) error {
	if u, ok := r.users[id+"/"+tenantID]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id, tenantID, hash string) error {
	if u, ok := r.users[id+"/"+tenantID]; ok {
		u.PasswordHash = hash
	}
	return nil
}

type stubTenantRepo struct {
	tenants map[string]*domain.Tenant // key: id
}

func newStubTenantRepo(tenants ...*domain.Tenant) *stubTenantRepo {
	r := &stubTenantRepo{tenants: make(map[string]*domain.Tenant)}
	for _, t := range tenants {
		r.tenants[t.ID] = t
	}
	return r
}

func (r *stubTenantRepo) FindByID(_ context.Context, id string) (*domain.Tenant, error) {
	if t, ok := r.tenants[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTenantNotFound
}

func (r *stubTenantRepo) FindBySubdomain(_ context.Context, subdomain string) (*domain.Tenant, error) {
	for _, t := range r.tenants {
		if t.Subdomain == subdomain {
			return t, nil
		}
	}
	return nil, domain.ErrTenantNotFound
}

func (r *stubTenantRepo) CreateWithAdmin(_ context.Context, t *domain.Tenant, u *domain.User) (*domain.Tenant, *domain.User, error) {
	return t, u, nil
}

func (r *stubTenantRepo) Update(_ context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	return t, nil
}

type stubRevoker struct {
	revoked map[string]bool
}

func (s *stubRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	if s.revoked == nil {
		s.revoked = make(map[string]bool)
	}
	s.revoked[tokenID] = true
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func testDeps(users *stubUserRepo, tenants *stubTenantRepo) (AuthDeps, *auth.TokenCodec) {
	codec := auth.NewTokenCodec("secret", 30*time.Minute, time.Hour)
	return AuthDeps{
		Codec:   codec,
		Users:   users,
		Tenants: tenants,
		Logger:  zerolog.Nop(),
	}, codec
}

func runAuth(t *testing.T, deps AuthDeps, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(deps)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuth_ValidToken(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", TenantID: "t1", Role: domain.RoleAdmin, IsActive: true}
	tenant := &domain.Tenant{ID: "t1", Subdomain: "acme", IsActive: true}
	deps, codec := testDeps(newStubUserRepo(user), newStubTenantRepo(tenant))

	token, err := codec.IssueAccess("u1", "t1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(deps)(func(c echo.Context) error {
		p, ok := c.Get(PrincipalKey).(domain.Principal)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.UserID != "u1" || p.TenantID != "t1" || p.Role != domain.RoleAdmin || p.Username != "alice" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if user.LastLogin == nil {
		t.Fatalf("authentication timestamp not recorded")
	}
}

// A token issued for tenant A must not resolve a user with the same id that
// lives in tenant B.
func TestAuth_CrossTenantIsolation(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", TenantID: "t2", Role: domain.RoleAdmin, IsActive: true}
	tenantA := &domain.Tenant{ID: "t1", Subdomain: "acme", IsActive: true}
	tenantB := &domain.Tenant{ID: "t2", Subdomain: "globex", IsActive: true}
	deps, codec := testDeps(newStubUserRepo(user), newStubTenantRepo(tenantA, tenantB))

	token, err := codec.IssueAccess("u1", "t1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	rec, called := runAuth(t, deps, token)
	if called {
		t.Fatalf("cross-tenant token resolved a user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", TenantID: "t1", Role: domain.RoleAdmin, IsActive: true}
	tenant := &domain.Tenant{ID: "t1", Subdomain: "acme", IsActive: true}
	deps, codec := testDeps(newStubUserRepo(user), newStubTenantRepo(tenant))

	token, err := codec.IssueRefresh("u1", "t1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	rec, called := runAuth(t, deps, token)
	if called {
		t.Fatalf("refresh token accepted as access token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_InactiveUser(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", TenantID: "t1", Role: domain.RoleAdmin, IsActive: false}
	tenant := &domain.Tenant{ID: "t1", Subdomain: "acme", IsActive: true}
	deps, codec := testDeps(newStubUserRepo(user), newStubTenantRepo(tenant))

	token, _ := codec.IssueAccess("u1", "t1", domain.RoleAdmin)
	rec, called := runAuth(t, deps, token)
	if called {
		t.Fatalf("inactive user resolved")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuth_InactiveTenant(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", TenantID: "t1", Role: domain.RoleAdmin, IsActive: true}
	tenant := &domain.Tenant{ID: "t1", Subdomain: "acme", IsActive: false}
	deps, codec := testDeps(newStubUserRepo(user), newStubTenantRepo(tenant))

	token, _ := codec.IssueAccess("u1", "t1", domain.RoleAdmin)
	rec, called := runAuth(t, deps, token)
	if called {
		t.Fatalf("principal resolved under an inactive tenant")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", TenantID: "t1", Role: domain.RoleAdmin, IsActive: true}
	tenant := &domain.Tenant{ID: "t1", Subdomain: "acme", IsActive: true}
	deps, codec := testDeps(newStubUserRepo(user), newStubTenantRepo(tenant))

	token, _ := codec.IssueAccess("u1", "t1", domain.RoleAdmin)
	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	revoker := &stubRevoker{}
	_ = revoker.Revoke(context.Background(), claims.ID, time.Hour)
	deps.Revoker = revoker

	rec, called := runAuth(t, deps, token)
	if called {
		t.Fatalf("revoked token accepted")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_MissingAndMalformedHeader(t *testing.T) {
	deps, _ := testDeps(newStubUserRepo(), newStubTenantRepo())

	rec, called := runAuth(t, deps, "")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d (called=%v)", rec.Code, called)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := Auth(deps)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: expected 401, got %d", rec.Code)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	deps, _ := testDeps(newStubUserRepo(), newStubTenantRepo())
	rec, called := runAuth(t, deps, "not-a-token")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}
