package customers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/scentdesk/scentdesk/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest, limit, offset int) ([]Customer, int, error)
	ListIDs(ctx context.Context, req ListCustomersRequest) ([]int64, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	BulkUpdate(ctx context.Context, ids []int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	ListFiles(ctx context.Context, customerID int64) ([]File, error)
}

// Service wraps customer business rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// ErrInvalidDate is returned when a date field is not calendar-correct DD/MM/YYYY.
var ErrInvalidDate = fmt.Errorf("date must be a valid DD/MM/YYYY value")

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.store.Get(ctx, id)
}

// List returns a page of customers plus exact pagination metadata.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, shared.Pagination, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("validate list: %w", err)
	}
	// Count first so the page can be clamped before the fetch.
	_, total, err := s.store.List(ctx, req, 0, 0)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("count customers: %w", err)
	}
	p := shared.NewPagination(req.Page, req.PerPage, total)
	if total == 0 {
		return []Customer{}, p, nil
	}
	items, _, err := s.store.List(ctx, req, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list customers: %w", err)
	}
	return items, p, nil
}

// SelectAllIDs implements the select-all toggle: with nothing currently
// selected it materializes every ID matching the filters; any existing
// selection collapses to empty instead.
func (s *Service) SelectAllIDs(ctx context.Context, req ListCustomersRequest, selected []int64) ([]int64, error) {
	all, err := s.store.ListIDs(ctx, req)
	if err != nil {
		return nil, err
	}
	return shared.NewSelection(selected).ToggleAll(all).IDs(), nil
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate customer: %w", err)
	}
	c := Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Country:   req.Country,
		City:      req.City,
		Address:   req.Address,
		Reference: req.Reference,
	}
	if req.Date != nil && *req.Date != "" {
		d, ok := shared.ParseDate(*req.Date)
		if !ok {
			return nil, ErrInvalidDate
		}
		c.Date = &d
	}
	id, err := s.store.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Update writes only the fields that actually differ from the stored record.
// A request where every field is nil, or where every provided value matches
// what is already stored, issues no write at all.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate customer: %w", err)
	}
	updates, err := updatesFromRequest(req)
	if err != nil {
		return nil, err
	}
	original, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates = shared.ChangedFields(fieldValues(original), updates)
	if len(updates) == 0 {
		return original, nil
	}
	if err := s.store.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.store.Get(ctx, id)
}

// BulkUpdate applies the same field changes to every selected customer.
func (s *Service) BulkUpdate(ctx context.Context, req BulkUpdateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("validate bulk update: %w", err)
	}
	updates, err := updatesFromRequest(req.Fields)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	ids := shared.NewSelection(req.IDs).IDs()
	if err := s.store.BulkUpdate(ctx, ids, updates); err != nil {
		return fmt.Errorf("bulk update customers: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) ListFiles(ctx context.Context, customerID int64) ([]File, error) {
	if _, err := s.store.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.store.ListFiles(ctx, customerID)
}

// fieldValues flattens a record into the column map ChangedFields compares an
// incoming update set against.
func fieldValues(c *Customer) map[string]any {
	values := map[string]any{
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"email_verified":  c.EmailVerified,
		"phone_verified":  c.PhoneVerified,
		"domain_verified": c.DomainVerified,
	}
	put := func(col string, v *string) {
		if v != nil {
			values[col] = *v
		}
	}
	put("email", c.Email)
	put("phone", c.Phone)
	put("company", c.Company)
	put("country", c.Country)
	put("city", c.City)
	put("address", c.Address)
	put("reference", c.Reference)
	values["date"] = nil
	if c.Date != nil {
		values["date"] = *c.Date
	}
	return values
}

func updatesFromRequest(req UpdateCustomerRequest) (map[string]any, error) {
	updates := make(map[string]any)
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.EmailVerified != nil {
		updates["email_verified"] = *req.EmailVerified
	}
	if req.PhoneVerified != nil {
		updates["phone_verified"] = *req.PhoneVerified
	}
	if req.DomainVerified != nil {
		updates["domain_verified"] = *req.DomainVerified
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if req.Date != nil {
		if *req.Date == "" {
			updates["date"] = nil
		} else {
			d, ok := shared.ParseDate(*req.Date)
			if !ok {
				return nil, ErrInvalidDate
			}
			updates["date"] = d
		}
	}
	return updates, nil
}
