package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/auth"
	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// UserService manages users within the acting principal's tenant. All lookups
// are scoped by the principal's tenant id.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context, principal domain.Principal) ([]*domain.User, error) {
	return s.users.ListByTenant(ctx, principal.TenantID)
}

func (s *UserService) Get(ctx context.Context, principal domain.Principal, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID, principal.TenantID)
}

// Create adds a user to the principal's tenant. Usernames are unique per
// tenant only.
func (s *UserService) Create(ctx context.Context, principal domain.Principal, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" || !input.Role.Valid() {
		return nil, domain.ErrInvalidArgument
	}

	if _, err := s.users.FindByUsername(ctx, input.Username, principal.TenantID); err == nil {
		return nil, domain.ErrUserExists
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		TenantID:     principal.TenantID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("tenant_id", principal.TenantID).Str("role", created.Role.String()).Msg("user created")
	return created, nil
}

// Update applies role/active changes. A principal can never deactivate their
// own account.
func (s *UserService) Update(ctx context.Context, principal domain.Principal, userID string, input ports.UserUpdateInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID, principal.TenantID)
	if err != nil {
		return nil, err
	}

	if user.ID == principal.UserID && input.IsActive != nil && !*input.IsActive {
		return nil, domain.ErrSelfAction
	}

	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, domain.ErrInvalidArgument
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	return s.users.Update(ctx, user)
}

// Delete removes a user from the tenant. A principal can never delete their
// own account.
func (s *UserService) Delete(ctx context.Context, principal domain.Principal, userID string) error {
	user, err := s.users.FindByID(ctx, userID, principal.TenantID)
	if err != nil {
		return err
	}
	if user.ID == principal.UserID {
		return domain.ErrSelfAction
	}
	return s.users.Delete(ctx, user.ID, principal.TenantID)
}
