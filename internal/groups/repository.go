package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scentdesk/scentdesk/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("group not found")
	ErrAlreadyExists = errors.New("group already exists")
)

// Repository persists groups and memberships.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (*Group, error) {
	var g Group
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *Repository) List(ctx context.Context) ([]Group, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// MemberCounts returns per-group membership totals in one aggregate query
// instead of one lookup per customer.
func (r *Repository) MemberCounts(ctx context.Context) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT group_id, COUNT(*) FROM group_members GROUP BY group_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (r *Repository) Create(ctx context.Context, g Group) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO groups (name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id`,
		g.Name, g.Description, g.CreatedBy,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE groups SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"name", "description"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMembers inserts memberships, ignoring customers already in the group.
func (r *Repository) AddMembers(ctx context.Context, groupID int64, customerIDs []int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO group_members (group_id, customer_id, created_at)
		SELECT $1, unnest($2::bigint[]), NOW()
		ON CONFLICT (group_id, customer_id) DO NOTHING`,
		groupID, customerIDs)
	return err
}

func (r *Repository) RemoveMembers(ctx context.Context, groupID int64, customerIDs []int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND customer_id = ANY($2)`,
		groupID, customerIDs)
	return err
}

// ListByCustomer returns the groups a customer belongs to.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Group, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.customer_id = $1
		ORDER BY g.name`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// Merge moves memberships from the source groups into the target (deduplicated)
// and deletes the sources, all in one transaction.
func (r *Repository) Merge(ctx context.Context, sourceIDs []int64, targetID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, targetID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO group_members (group_id, customer_id, created_at)
			SELECT $1, customer_id, NOW() FROM group_members
			WHERE group_id = ANY($2)
			ON CONFLICT (group_id, customer_id) DO NOTHING`,
			targetID, sourceIDs,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM group_members WHERE group_id = ANY($1)`, sourceIDs); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM groups WHERE id = ANY($1)`, sourceIDs); err != nil {
			return err
		}
		return nil
	})
}
