package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/scentdesk/scentdesk/internal/shared"
)

// ErrUnknownStatus is returned when a request names a status outside the enum.
var ErrUnknownStatus = errors.New("unknown order status")

// ErrInvalidDate is returned when desired_date is not calendar-correct DD/MM/YYYY.
var ErrInvalidDate = errors.New("desired date must be a valid DD/MM/YYYY value")

// ErrNotDeletable is returned when deleting an order past the pending state.
// Confirmed orders are cancelled, never removed.
var ErrNotDeletable = errors.New("order can no longer be deleted, cancel it instead")

// TransitionError reports a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

// Store is the persistence contract the service depends on.
type Store interface {
	Get(ctx context.Context, id int64) (*Order, error)
	Count(ctx context.Context, req ListOrdersRequest) (int, error)
	List(ctx context.Context, req ListOrdersRequest, limit, offset int) ([]Order, error)
	Create(ctx context.Context, o Order) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	SetStatus(ctx context.Context, id int64, status Status) error
	ReplaceItems(ctx context.Context, orderID int64, items []Item, total float64) error
	Delete(ctx context.Context, id int64) error
}

// Service wraps order business rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.store.Get(ctx, id)
}

// List counts matches first, then fetches the clamped page so the client can
// never land past the last page.
func (s *Service) List(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate list request: %w", err)
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, req.Status)
	}
	total, err := s.store.Count(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	p := shared.NewPagination(req.Page, req.PerPage, total)
	list := []Order{}
	if total > 0 {
		list, err = s.store.List(ctx, req, p.PerPage, p.Offset())
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
	}
	return &ListOrdersResponse{Orders: list, Pagination: p}, nil
}

func (s *Service) Create(ctx context.Context, createdBy int64, req CreateOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}
	o := Order{
		CustomerID:    req.CustomerID,
		FormulaID:     req.FormulaID,
		Reference:     req.Reference,
		Status:        StatusPending,
		Comment:       req.Comment,
		AllergyNote:   req.AllergyNote,
		ResponsibleID: req.ResponsibleID,
		CreatedBy:     createdBy,
	}
	if req.DesiredDate != nil && *req.DesiredDate != "" {
		d, ok := shared.ParseDate(*req.DesiredDate)
		if !ok {
			return nil, ErrInvalidDate
		}
		o.DesiredDate = &d
	}
	o.Items = itemsFromInputs(0, req.Items)
	o.Total = sumItems(o.Items)
	id, err := s.store.Create(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}
	updates := make(map[string]any)
	if req.FormulaID != nil {
		updates["formula_id"] = *req.FormulaID
	}
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if req.AllergyNote != nil {
		updates["allergy_note"] = *req.AllergyNote
	}
	if req.ResponsibleID != nil {
		updates["responsible_id"] = *req.ResponsibleID
	}
	if req.DesiredDate != nil {
		if *req.DesiredDate == "" {
			updates["desired_date"] = nil
		} else {
			d, ok := shared.ParseDate(*req.DesiredDate)
			if !ok {
				return nil, ErrInvalidDate
			}
			updates["desired_date"] = d
		}
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.Get(ctx, id)
}

// Transition moves the order to the requested status when the state machine
// allows it. Terminal states never change again.
func (s *Service) Transition(ctx context.Context, id int64, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, next)
	}
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(next) {
		return nil, &TransitionError{From: o.Status, To: next}
	}
	if err := s.store.SetStatus(ctx, id, next); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// ReplaceItems swaps the full line-item set and recomputes the order total.
func (s *Service) ReplaceItems(ctx context.Context, id int64, req ReplaceItemsRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate items: %w", err)
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	items := itemsFromInputs(id, req.Items)
	if err := s.store.ReplaceItems(ctx, id, items, sumItems(items)); err != nil {
		return nil, fmt.Errorf("replace items: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Delete removes an order that is still pending. Anything further along the
// lifecycle keeps its history and must be cancelled instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != StatusPending {
		return ErrNotDeletable
	}
	return s.store.Delete(ctx, id)
}

func itemsFromInputs(orderID int64, inputs []ItemInput) []Item {
	items := make([]Item, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, Item{
			OrderID:   orderID,
			Label:     in.Label,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}
	return items
}

func sumItems(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}
