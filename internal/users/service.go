package users

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Service wraps team management business rules.
type Service struct {
	repo     *Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.repo.Create(ctx, User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		RoleID:       req.RoleID,
		Team:         req.Team,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update applies only the changed fields; an empty request is a no-op read.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate user: %w", err)
	}
	updates := make(map[string]any)
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.Team != nil {
		updates["team"] = *req.Team
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return s.repo.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Deactivate keeps the account and its history but disables login.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Update(ctx, id, map[string]any{"is_active": false, "online": false})
}

func (s *Service) ListLogins(ctx context.Context, req ListLoginsRequest) ([]LoginRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate login filter: %w", err)
	}
	return s.repo.ListLogins(ctx, req)
}
