package formulas

// CreateFormulaRequest carries fields for a new formula.
type CreateFormulaRequest struct {
	CustomerID   int64  `json:"customer_id" validate:"required,gt=0"`
	Reference    string `json:"reference" validate:"max=100"`
	Comment      string `json:"comment"`
	DocumentFile string `json:"document_file" validate:"max=300"`
}

// UpdateFormulaRequest carries partial updates to formula headers. Notes are
// never patched here; they go through ReplaceNotesRequest in full.
type UpdateFormulaRequest struct {
	Reference    *string `json:"reference,omitempty" validate:"omitempty,max=100"`
	Comment      *string `json:"comment,omitempty"`
	DocumentFile *string `json:"document_file,omitempty" validate:"omitempty,max=300"`
}

// NoteInput is one incoming note. Order within its category is positional.
type NoteInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity string `json:"quantity" validate:"max=50"`
}

// ReplaceNotesRequest replaces the full three-category note set.
type ReplaceNotesRequest struct {
	Top   []NoteInput `json:"top" validate:"dive"`
	Heart []NoteInput `json:"heart" validate:"dive"`
	Base  []NoteInput `json:"base" validate:"dive"`
}
