package formulas

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scentdesk/scentdesk/internal/platform/db"
)

var ErrNotFound = errors.New("formula not found")

// Repository persists formulas and their notes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (*Formula, error) {
	var f Formula
	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, reference, comment, document_file, created_at, updated_at
		FROM formulas WHERE id = $1`, id,
	).Scan(&f.ID, &f.CustomerID, &f.Reference, &f.Comment, &f.DocumentFile, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Formula, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, reference, comment, document_file, created_at, updated_at
		FROM formulas WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Formula
	for rows.Next() {
		var f Formula
		if err := rows.Scan(&f.ID, &f.CustomerID, &f.Reference, &f.Comment, &f.DocumentFile, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (r *Repository) Notes(ctx context.Context, formulaID int64) ([]Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, formula_id, category, name, quantity, position
		FROM formula_notes WHERE formula_id = $1
		ORDER BY category, position`, formulaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.FormulaID, &n.Category, &n.Name, &n.Quantity, &n.Position); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *Repository) Create(ctx context.Context, f Formula) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO formulas (customer_id, reference, comment, document_file, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id`,
		f.CustomerID, f.Reference, f.Comment, f.DocumentFile,
	).Scan(&id)
	return id, err
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE formulas SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"reference", "comment", "document_file"} {
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

// ReplaceNotes swaps all three category arrays in full. Note identity is not
// tracked against the previous state, so this is a delete-and-reinsert.
func (r *Repository) ReplaceNotes(ctx context.Context, formulaID int64, notes []Note) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM formula_notes WHERE formula_id = $1`, formulaID); err != nil {
			return err
		}
		for _, n := range notes {
			if _, err := tx.Exec(ctx, `
				INSERT INTO formula_notes (formula_id, category, name, quantity, position)
				VALUES ($1, $2, $3, $4, $5)`,
				formulaID, n.Category, n.Name, n.Quantity, n.Position,
			); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE formulas SET updated_at = NOW() WHERE id = $1`, formulaID); err != nil {
			return err
		}
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM formulas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
