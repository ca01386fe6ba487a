package quotas

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleResolver reads a user's allowances from their role row.
type RoleResolver struct {
	pool *pgxpool.Pool
}

// NewRoleResolver constructs a RoleResolver.
func NewRoleResolver(pool *pgxpool.Pool) *RoleResolver {
	return &RoleResolver{pool: pool}
}

// Limits returns the monthly allowances of the user's role. Users with
// full_access are unmetered. Unknown or inactive users get zero allowances,
// which Consume treats as unmetered; the RBAC layer already blocks them.
func (r *RoleResolver) Limits(ctx context.Context, userID int64) (Limits, error) {
	var (
		fullAccess bool
		limits     Limits
	)
	err := r.pool.QueryRow(ctx, `
		SELECT r.full_access, r.monthly_csv_quota, r.monthly_extraction_quota
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1 AND u.is_active`, userID,
	).Scan(&fullAccess, &limits.CSVExport, &limits.PDFExtraction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Limits{}, nil
		}
		return Limits{}, fmt.Errorf("load role limits: %w", err)
	}
	if fullAccess {
		return Limits{}, nil
	}
	return limits, nil
}
