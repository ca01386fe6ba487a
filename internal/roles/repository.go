package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("role not found")
	ErrAlreadyExists = errors.New("role already exists")
)

const roleColumns = `id, name, description, full_access, customers_view, customers_edit,
	groups_edit, orders_edit, team_manage, email_sending,
	monthly_csv_quota, monthly_extraction_quota, created_at, updated_at`

// Repository persists roles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (*Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	return scanRole(row)
}

func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

func (r *Repository) Create(ctx context.Context, role Role) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, description, full_access, customers_view, customers_edit,
			groups_edit, orders_edit, team_manage, email_sending,
			monthly_csv_quota, monthly_extraction_quota, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id`,
		role.Name, role.Description, role.FullAccess, role.CustomersView, role.CustomersEdit,
		role.GroupsEdit, role.OrdersEdit, role.TeamManage, role.EmailSending,
		role.MonthlyCSVQuota, role.MonthlyExtractionQuota,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, id int64, role Role) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE roles SET name = $1, description = $2, full_access = $3,
			customers_view = $4, customers_edit = $5, groups_edit = $6,
			orders_edit = $7, team_manage = $8, email_sending = $9,
			monthly_csv_quota = $10, monthly_extraction_quota = $11, updated_at = NOW()
		WHERE id = $12`,
		role.Name, role.Description, role.FullAccess, role.CustomersView, role.CustomersEdit,
		role.GroupsEdit, role.OrdersEdit, role.TeamManage, role.EmailSending,
		role.MonthlyCSVQuota, role.MonthlyExtractionQuota, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRole(row pgx.Row) (*Role, error) {
	var role Role
	err := row.Scan(
		&role.ID, &role.Name, &role.Description, &role.FullAccess,
		&role.CustomersView, &role.CustomersEdit, &role.GroupsEdit,
		&role.OrdersEdit, &role.TeamManage, &role.EmailSending,
		&role.MonthlyCSVQuota, &role.MonthlyExtractionQuota,
		&role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
