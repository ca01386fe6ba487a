package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scentdesk/scentdesk/internal/platform/db"
)

var ErrNotFound = errors.New("order not found")

const orderColumns = "id, customer_id, formula_id, reference, status, comment, allergy_note, responsible_id, desired_date, total, created_by, created_at, updated_at"

// Repository persists orders and their line items.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns), id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	items, err := r.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// Count returns how many orders match the filter.
func (r *Repository) Count(ctx context.Context, req ListOrdersRequest) (int, error) {
	where, args := buildFilter(req)
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total)
	return total, err
}

// List returns one page of matching orders, newest first, without items.
func (r *Repository) List(ctx context.Context, req ListOrdersRequest, limit, offset int) ([]Order, error) {
	where, args := buildFilter(req)
	query := fmt.Sprintf("SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

func buildFilter(req ListOrdersRequest) (string, []any) {
	var conditions []string
	var args []any
	if req.CustomerID > 0 {
		args = append(args, req.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if req.Responsible > 0 {
		args = append(args, req.Responsible)
		conditions = append(conditions, fmt.Sprintf("responsible_id = $%d", len(args)))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.Search != "" {
		args = append(args, "%"+strings.ToLower(req.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(reference) LIKE $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListByIDs loads a selection of orders without items, newest first.
func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM orders WHERE id = ANY($1) ORDER BY created_at DESC`, orderColumns), ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

// Create inserts the order header and items in one transaction.
func (r *Repository) Create(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (customer_id, formula_id, reference, status, comment, allergy_note, responsible_id, desired_date, total, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING id`,
			o.CustomerID, o.FormulaID, o.Reference, o.Status, o.Comment, o.AllergyNote, o.ResponsibleID, o.DesiredDate, o.Total, o.CreatedBy,
		).Scan(&id)
		if err != nil {
			return err
		}
		return insertItems(ctx, tx, id, o.Items)
	})
	return id, err
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE orders SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"formula_id", "reference", "comment", "allergy_note", "responsible_id", "desired_date"} {
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

// SetStatus writes a new status. Transition rules are enforced by the service.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceItems swaps the full line-item set and refreshes the stored total.
func (r *Repository) ReplaceItems(ctx context.Context, orderID int64, items []Item, total float64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, orderID, items); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE orders SET total = $1, updated_at = NOW() WHERE id = $2`, total, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) Items(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, label, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Label, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []Item) error {
	for _, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, label, quantity, unit_price)
			VALUES ($1, $2, $3, $4)`,
			orderID, it.Label, it.Quantity, it.UnitPrice)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.FormulaID, &o.Reference, &o.Status, &o.Comment, &o.AllergyNote, &o.ResponsibleID, &o.DesiredDate, &o.Total, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
