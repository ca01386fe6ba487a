package formulas

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Get(ctx context.Context, id int64) (*Formula, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Formula, error)
	Notes(ctx context.Context, formulaID int64) ([]Note, error)
	Create(ctx context.Context, f Formula) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	ReplaceNotes(ctx context.Context, formulaID int64, notes []Note) error
	Delete(ctx context.Context, id int64) error
}

// Service wraps formula business rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// Detail loads the formula, groups notes by category and attaches totals when
// every note quantity parses.
func (s *Service) Detail(ctx context.Context, id int64) (*Detail, error) {
	f, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.Notes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}

	grouped := make(map[Category][]Note, len(Categories))
	for _, c := range Categories {
		grouped[c] = []Note{}
	}
	for _, n := range notes {
		grouped[n.Category] = append(grouped[n.Category], n)
	}

	totals, invalid := ComputeTotals(notes)
	return &Detail{
		Formula:      *f,
		Notes:        grouped,
		Totals:       totals,
		InvalidNotes: invalid,
	}, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Formula, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

func (s *Service) Create(ctx context.Context, req CreateFormulaRequest) (*Detail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate formula: %w", err)
	}
	id, err := s.store.Create(ctx, Formula{
		CustomerID:   req.CustomerID,
		Reference:    req.Reference,
		Comment:      req.Comment,
		DocumentFile: req.DocumentFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create formula: %w", err)
	}
	return s.Detail(ctx, id)
}

// Update patches formula headers with the changed subset only.
func (s *Service) Update(ctx context.Context, id int64, req UpdateFormulaRequest) (*Detail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate formula: %w", err)
	}
	updates := make(map[string]any)
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if req.DocumentFile != nil {
		updates["document_file"] = *req.DocumentFile
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update formula: %w", err)
		}
	}
	return s.Detail(ctx, id)
}

// ReplaceNotes swaps the full note set. The three arrays are always re-sent
// whole by clients, so there is no per-note diffing.
func (s *Service) ReplaceNotes(ctx context.Context, id int64, req ReplaceNotesRequest) (*Detail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate notes: %w", err)
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}

	var notes []Note
	appendCategory := func(category Category, inputs []NoteInput) {
		for i, in := range inputs {
			notes = append(notes, Note{
				FormulaID: id,
				Category:  category,
				Name:      in.Name,
				Quantity:  in.Quantity,
				Position:  i,
			})
		}
	}
	appendCategory(CategoryTop, req.Top)
	appendCategory(CategoryHeart, req.Heart)
	appendCategory(CategoryBase, req.Base)

	if err := s.store.ReplaceNotes(ctx, id, notes); err != nil {
		return nil, fmt.Errorf("replace notes: %w", err)
	}
	return s.Detail(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
