// Package rbac resolves role permission flags to route guards.
package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scentdesk/scentdesk/internal/roles"
)

// Service resolves the effective permission set of a user through its role.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// EffectivePermissions returns the flag names granted to the user. An unknown
// or inactive user has no permissions.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	var role roles.Role
	var isActive bool
	err := s.pool.QueryRow(ctx, `
		SELECT u.is_active, r.full_access, r.customers_view, r.customers_edit,
		       r.groups_edit, r.orders_edit, r.team_manage, r.email_sending
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, userID,
	).Scan(
		&isActive, &role.FullAccess, &role.CustomersView, &role.CustomersEdit,
		&role.GroupsEdit, &role.OrdersEdit, &role.TeamManage, &role.EmailSending,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !isActive {
		return nil, nil
	}
	return role.Permissions(), nil
}
