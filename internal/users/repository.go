package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scentdesk/scentdesk/internal/roles"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

// Repository persists users and their login history.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userSelect = `
	SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.role_id,
	       u.team, u.is_active, u.online, u.last_login_at, u.created_at, u.updated_at,
	       r.id, r.name, r.description, r.full_access, r.customers_view, r.customers_edit,
	       r.groups_edit, r.orders_edit, r.team_manage, r.email_sending,
	       r.monthly_csv_quota, r.monthly_extraction_quota, r.created_at, r.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

func (r *Repository) Get(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id)
	return scanUser(row)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, userSelect+` WHERE lower(u.email) = lower($1)`, email)
	return scanUser(row)
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` ORDER BY u.last_name, u.first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

func (r *Repository) Create(ctx context.Context, u User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, first_name, last_name, password_hash, role_id, team,
			is_active, online, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE, NOW(), NOW())
		RETURNING id`,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, u.RoleID, u.Team,
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

// Update applies only the provided columns, mirroring the PATCH semantics of
// the edit endpoints.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE users SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"email", "first_name", "last_name", "password_hash", "role_id", "team", "is_active", "online", "last_login_at"} {
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
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordLogin stores a login-history row and flips the online marker.
func (r *Repository) RecordLogin(ctx context.Context, userID int64, ip, ua string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_history (user_id, ip, user_agent, created_at)
		VALUES ($1, $2, $3, NOW())`, userID, ip, ua)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE users SET online = TRUE, last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1`, userID)
	return err
}

// MarkOffline clears the online marker on logout.
func (r *Repository) MarkOffline(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET online = FALSE, updated_at = NOW() WHERE id = $1`, userID)
	return err
}

// ListLogins returns login history filtered by year and optionally month.
func (r *Repository) ListLogins(ctx context.Context, req ListLoginsRequest) ([]LoginRecord, error) {
	query := `SELECT id, user_id, ip, user_agent, created_at FROM login_history WHERE user_id = $1`
	args := []any{req.UserID}
	argPos := 2
	if req.Year > 0 {
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM created_at) = $%d", argPos)
		args = append(args, req.Year)
		argPos++
	}
	if req.Month > 0 {
		query += fmt.Sprintf(" AND EXTRACT(MONTH FROM created_at) = $%d", argPos)
		args = append(args, req.Month)
		argPos++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LoginRecord
	for rows.Next() {
		var rec LoginRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.IP, &rec.UserAgent, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var role roles.Role
	var lastLogin pgtype.Timestamptz
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.RoleID,
		&u.Team, &u.IsActive, &u.Online, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
		&role.ID, &role.Name, &role.Description, &role.FullAccess, &role.CustomersView,
		&role.CustomersEdit, &role.GroupsEdit, &role.OrdersEdit, &role.TeamManage,
		&role.EmailSending, &role.MonthlyCSVQuota, &role.MonthlyExtractionQuota,
		&role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	u.Role = &role
	return &u, nil
}
