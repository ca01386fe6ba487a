package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scentdesk/scentdesk/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("customer not found")
	ErrAlreadyExists = errors.New("customer already exists")
)

// Repository persists customers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, first_name, last_name, email, phone, company,
	email_verified, phone_verified, domain_verified,
	country, city, address, reference, date, created_at, updated_at`

func (r *Repository) Get(ctx context.Context, id int64) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

// List applies search and dropdown filters server-side and returns the page
// plus the exact filtered total.
func (r *Repository) List(ctx context.Context, req ListCustomersRequest, limit, offset int) ([]Customer, int, error) {
	whereClause, args := buildFilter(req)

	countQuery := "SELECT COUNT(*) FROM customers" + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argPos := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY last_name, first_name, id LIMIT $%d OFFSET $%d`,
		customerColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

// ListIDs materializes the full filtered ID set across all pages, backing the
// select-all action.
func (r *Repository) ListIDs(ctx context.Context, req ListCustomersRequest) ([]int64, error) {
	whereClause, args := buildFilter(req)
	rows, err := r.pool.Query(ctx, "SELECT id FROM customers"+whereClause+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByIDs loads a selection of customers, ordered like List.
func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ANY($1) ORDER BY last_name, first_name, id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

func (r *Repository) Create(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (first_name, last_name, email, phone, company,
			email_verified, phone_verified, domain_verified,
			country, city, address, reference, date, search_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id`,
		c.FirstName, c.LastName, textOrNil(c.Email), textOrNil(c.Phone), textOrNil(c.Company),
		c.EmailVerified, c.PhoneVerified, c.DomainVerified,
		textOrNil(c.Country), textOrNil(c.City), textOrNil(c.Address), textOrNil(c.Reference),
		c.Date, SearchText(c),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

// Update writes only the provided columns and refreshes search_text when any
// searched column changed.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE customers SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range updatableColumns {
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
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if touchesSearchText(updates) {
		return r.refreshSearchText(ctx, id)
	}
	return nil
}

// BulkUpdate applies the same column changes to all IDs in one transaction.
func (r *Repository) BulkUpdate(ctx context.Context, ids []int64, updates map[string]any) error {
	if len(updates) == 0 || len(ids) == 0 {
		return nil
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := "UPDATE customers SET updated_at = NOW()"
		var args []any
		argPos := 1
		for _, col := range updatableColumns {
			if v, ok := updates[col]; ok {
				query += fmt.Sprintf(", %s = $%d", col, argPos)
				args = append(args, v)
				argPos++
			}
		}
		query += fmt.Sprintf(" WHERE id = ANY($%d)", argPos)
		args = append(args, ids)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
		if touchesSearchText(updates) {
			return refreshSearchTextTx(ctx, tx, ids)
		}
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFiles returns the scanned documents of the customer's formulas.
func (r *Repository) ListFiles(ctx context.Context, customerID int64) ([]File, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_file, reference, created_at
		FROM formulas
		WHERE customer_id = $1 AND document_file <> ''
		ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.FormulaID, &f.Name, &f.Reference, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

var updatableColumns = []string{
	"first_name", "last_name", "email", "phone", "company",
	"email_verified", "phone_verified", "domain_verified",
	"country", "city", "address", "reference", "date",
}

var searchColumns = map[string]struct{}{
	"first_name": {}, "last_name": {}, "email": {}, "company": {}, "reference": {},
}

func touchesSearchText(updates map[string]any) bool {
	for col := range updates {
		if _, ok := searchColumns[col]; ok {
			return true
		}
	}
	return false
}

func (r *Repository) refreshSearchText(ctx context.Context, id int64) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `UPDATE customers SET search_text = $1 WHERE id = $2`, SearchText(*c), id)
	return err
}

func refreshSearchTextTx(ctx context.Context, tx pgx.Tx, ids []int64) error {
	rows, err := tx.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	var all []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			rows.Close()
			return err
		}
		all = append(all, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, c := range all {
		if _, err := tx.Exec(ctx, `UPDATE customers SET search_text = $1 WHERE id = $2`, SearchText(c), c.ID); err != nil {
			return err
		}
	}
	return nil
}

func buildFilter(req ListCustomersRequest) (string, []any) {
	var conditions []string
	var args []any
	argPos := 1

	if q := NormalizeSearch(req.Search); q != "" {
		conditions = append(conditions, fmt.Sprintf("search_text LIKE $%d", argPos))
		args = append(args, "%"+q+"%")
		argPos++
	}
	if req.Country != "" {
		conditions = append(conditions, fmt.Sprintf("country = $%d", argPos))
		args = append(args, req.Country)
		argPos++
	}
	if req.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM date) = $%d", argPos))
		args = append(args, req.Year)
		argPos++
	}
	if req.Month > 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM date) = $%d", argPos))
		args = append(args, req.Month)
		argPos++
	}
	if req.Verified != nil {
		conditions = append(conditions, fmt.Sprintf("email_verified = $%d", argPos))
		args = append(args, *req.Verified)
		argPos++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var email, phone, company, country, city, address, reference pgtype.Text
	var date pgtype.Date
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &email, &phone, &company,
		&c.EmailVerified, &c.PhoneVerified, &c.DomainVerified,
		&country, &city, &address, &reference, &date, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if company.Valid {
		c.Company = &company.String
	}
	if country.Valid {
		c.Country = &country.String
	}
	if city.Valid {
		c.City = &city.String
	}
	if address.Valid {
		c.Address = &address.String
	}
	if reference.Valid {
		c.Reference = &reference.String
	}
	if date.Valid {
		c.Date = &date.Time
	}
	return &c, nil
}

func textOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
