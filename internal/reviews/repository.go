package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scentdesk/scentdesk/internal/customers"
	"github.com/scentdesk/scentdesk/internal/platform/db"
)

var (
	ErrNotFound       = errors.New("review not found")
	ErrCustomerExists = errors.New("a customer with this email already exists")
)

const reviewColumns = `id, first_name, last_name, email, phone, company,
	email_verified, phone_verified, domain_verified,
	country, city, address, reference, date,
	rating, comment, source, review_at, created_at, updated_at`

// Repository persists staged reviews.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (*Review, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM customer_reviews WHERE id = $1`, reviewColumns), id)
	return scanReview(row)
}

func (r *Repository) List(ctx context.Context) ([]Review, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM customer_reviews ORDER BY created_at DESC`, reviewColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rv)
	}
	return list, rows.Err()
}

func (r *Repository) Create(ctx context.Context, rv Review) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customer_reviews (first_name, last_name, email, phone, company,
			email_verified, phone_verified, domain_verified,
			country, city, address, reference, date,
			rating, comment, source, review_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id`,
		rv.FirstName, rv.LastName, rv.Email, rv.Phone, rv.Company,
		rv.EmailVerified, rv.PhoneVerified, rv.DomainVerified,
		rv.Country, rv.City, rv.Address, rv.Reference, rv.Date,
		rv.Rating, rv.Comment, rv.Source, rv.ReviewAt,
	).Scan(&id)
	return id, err
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE customer_reviews SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"first_name", "last_name", "email", "phone", "company",
		"email_verified", "phone_verified", "domain_verified",
		"country", "city", "address", "reference", "date",
		"rating", "comment", "source"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM customer_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Transfer promotes a staged review into a customer and removes the staged
// row, atomically. Fails when a customer already carries the review's email.
func (r *Repository) Transfer(ctx context.Context, id int64) (int64, error) {
	var customerID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM customer_reviews WHERE id = $1 FOR UPDATE`, reviewColumns), id)
		rv, err := scanReview(row)
		if err != nil {
			return err
		}

		if rv.Email != nil && *rv.Email != "" {
			var exists bool
			err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM customers WHERE LOWER(email) = LOWER($1))`,
				*rv.Email,
			).Scan(&exists)
			if err != nil {
				return err
			}
			if exists {
				return ErrCustomerExists
			}
		}

		c := rv.CustomerRecord()
		err = tx.QueryRow(ctx, `
			INSERT INTO customers (first_name, last_name, email, phone, company,
				email_verified, phone_verified, domain_verified,
				country, city, address, reference, date, search_text, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
			RETURNING id`,
			c.FirstName, c.LastName, c.Email, c.Phone, c.Company,
			c.EmailVerified, c.PhoneVerified, c.DomainVerified,
			c.Country, c.City, c.Address, c.Reference, c.Date, customers.SearchText(c),
		).Scan(&customerID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM customer_reviews WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return customerID, nil
}

func scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	var email, phone, company, country, city, address, reference pgtype.Text
	var date, reviewAt pgtype.Timestamptz
	var rating pgtype.Int4
	err := row.Scan(&rv.ID, &rv.FirstName, &rv.LastName, &email, &phone, &company,
		&rv.EmailVerified, &rv.PhoneVerified, &rv.DomainVerified,
		&country, &city, &address, &reference, &date,
		&rating, &rv.Comment, &rv.Source, &reviewAt, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	assign := func(dst **string, src pgtype.Text) {
		if src.Valid {
			s := src.String
			*dst = &s
		}
	}
	assign(&rv.Email, email)
	assign(&rv.Phone, phone)
	assign(&rv.Company, company)
	assign(&rv.Country, country)
	assign(&rv.City, city)
	assign(&rv.Address, address)
	assign(&rv.Reference, reference)
	if date.Valid {
		rv.Date = &date.Time
	}
	if rating.Valid {
		v := int(rating.Int32)
		rv.Rating = &v
	}
	if reviewAt.Valid {
		rv.ReviewAt = &reviewAt.Time
	}
	return &rv, nil
}
