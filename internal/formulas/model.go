package formulas

import "time"

// Category names a note partition within a formula.
type Category string

const (
	CategoryTop   Category = "top"
	CategoryHeart Category = "heart"
	CategoryBase  Category = "base"
)

// Categories lists the fixed partitions in display order.
var Categories = []Category{CategoryTop, CategoryHeart, CategoryBase}

// Valid reports whether c is one of the three fixed categories.
func (c Category) Valid() bool {
	return c == CategoryTop || c == CategoryHeart || c == CategoryBase
}

// Formula is a perfume composition record.
type Formula struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	Reference    string    `json:"reference"`
	Comment      string    `json:"comment"`
	DocumentFile string    `json:"document_file"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Note is a named ingredient with a free-text quantity. Position preserves
// the order within its category.
type Note struct {
	ID        int64    `json:"id"`
	FormulaID int64    `json:"formula_id"`
	Category  Category `json:"category"`
	Name      string   `json:"name"`
	Quantity  string   `json:"quantity"`
	Position  int      `json:"position"`
}

// Detail is the formula with its notes grouped by category plus totals.
type Detail struct {
	Formula Formula             `json:"formula"`
	Notes   map[Category][]Note `json:"notes"`
	Totals  *Totals             `json:"totals,omitempty"`
	// InvalidNotes lists offending note names when totals cannot be shown.
	InvalidNotes []string `json:"invalid_notes,omitempty"`
}
