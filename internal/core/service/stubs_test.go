package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/auth"
	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubTenantRepo struct {
	byID        map[string]*domain.Tenant
	bySubdomain map[string]*domain.Tenant
	lastAdmin   *domain.User // admin passed to the last CreateWithAdmin call
	users       *stubUserRepo
	createErr   error
	seq         int
}

func newStubTenantRepo() *stubTenantRepo {
	return &stubTenantRepo{
		byID:        make(map[string]*domain.Tenant),
		bySubdomain: make(map[string]*domain.Tenant),
	}
}

func (r *stubTenantRepo) FindBySubdomain(_ context.Context, subdomain string) (*domain.Tenant, error) {
	t, ok := r.bySubdomain[subdomain]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTenantRepo) FindByID(_ context.Context, id string) (*domain.Tenant, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTenantRepo) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) (*domain.Tenant, *domain.User, error) {
	if r.createErr != nil {
		return nil, nil, r.createErr
	}
	if _, ok := r.bySubdomain[tenant.Subdomain]; ok {
		return nil, nil, domain.ErrSubdomainTaken
	}
	r.seq++
	t := *tenant
	t.ID = fmt.Sprintf("tenant_%d", r.seq)

	a := *admin
	a.TenantID = t.ID
	r.lastAdmin = &a

	r.byID[t.ID] = &t
	r.bySubdomain[t.Subdomain] = &t

	// Mirror the transactional insert: the admin lands in the user store too.
	if r.users != nil {
		created, err := r.users.Create(ctx, &a)
		if err != nil {
			return nil, nil, err
		}
		a = *created
	}
	return &t, &a, nil
}

func (r *stubTenantRepo) Update(_ context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	if _, ok := r.byID[tenant.ID]; !ok {
		return nil, domain.ErrTenantNotFound
	}
	clone := *tenant
	r.byID[tenant.ID] = &clone
	r.bySubdomain[tenant.Subdomain] = &clone
	return tenant, nil
}

type stubUserRepo struct {
	byID      map[string]*domain.User
	touched   map[string]time.Time // user id → last TouchLastLogin timestamp
	createErr error
	seq       int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		touched: make(map[string]time.Time),
	}
}

func (r *stubUserRepo) FindByID(_ context.Context, id, tenantID string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok || u.TenantID != tenantID {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username, tenantID string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username && u.TenantID == tenantID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if u.TenantID == tenantID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user_%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	stored, ok := r.byID[user.ID]
	if !ok || stored.TenantID != user.TenantID {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	r.byID[user.ID] = &clone
	return user, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id, tenantID string) error {
	u, ok := r.byID[id]
	if !ok || u.TenantID != tenantID {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id, tenantID string, at time.Time) error {
	u, ok := r.byID[id]
	if !ok || u.TenantID != tenantID {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	r.touched[id] = at
	return nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id, tenantID, hash string) error {
	u, ok := r.byID[id]
	if !ok || u.TenantID != tenantID {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type stubBookRepo struct {
	byID map[string]*domain.Book
	seq  int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{byID: make(map[string]*domain.Book)}
}

// List applies the same filters the real Mongo repo would use.
func (r *stubBookRepo) List(_ context.Context, q ports.BookQuery) ([]*domain.Book, error) {
	var matched []*domain.Book
	for _, b := range r.byID {
		if b.TenantID != q.TenantID {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			titleMatch := strings.Contains(strings.ToLower(b.Title), needle)
			authorMatch := strings.Contains(strings.ToLower(b.Author), needle)
			if !titleMatch && !authorMatch {
				continue
			}
		}
		clone := *b
		matched = append(matched, &clone)
	}

	skip := int(q.Skip)
	if skip > len(matched) {
		return []*domain.Book{}, nil
	}
	end := skip + int(q.Limit)
	if q.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id, tenantID string) (*domain.Book, error) {
	b, ok := r.byID[id]
	if !ok || b.TenantID != tenantID {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) FindByISBN(_ context.Context, isbn, tenantID string) (*domain.Book, error) {
	for _, b := range r.byID {
		if b.ISBN == isbn && b.TenantID == tenantID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrBookNotFound
}

func (r *stubBookRepo) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	r.seq++
	clone := *book
	clone.ID = fmt.Sprintf("book_%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubBookRepo) Update(_ context.Context, book *domain.Book) (*domain.Book, error) {
	stored, ok := r.byID[book.ID]
	if !ok || stored.TenantID != book.TenantID {
		return nil, domain.ErrBookNotFound
	}
	clone := *book
	r.byID[book.ID] = &clone
	return book, nil
}

func (r *stubBookRepo) Delete(_ context.Context, id, tenantID string) error {
	b, ok := r.byID[id]
	if !ok || b.TenantID != tenantID {
		return domain.ErrBookNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (s *stubRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[tokenID] = ttl
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Seed helpers
// ---------------------------------------------------------------------------

func seedTenant(repo *stubTenantRepo, id, subdomain string, active bool) *domain.Tenant {
	t := &domain.Tenant{
		ID:        id,
		Name:      subdomain + " library",
		Subdomain: subdomain,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	repo.byID[id] = t
	repo.bySubdomain[subdomain] = t
	return t
}

func seedUser(repo *stubUserRepo, id, username, password, tenantID string, role domain.Role, active bool) *domain.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	u := &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		TenantID:     tenantID,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
	}
	repo.byID[id] = u
	return u
}
