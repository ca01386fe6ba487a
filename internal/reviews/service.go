package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/scentdesk/scentdesk/internal/shared"
)

// ErrInvalidDate is returned when a date field does not parse as DD/MM/YYYY.
var ErrInvalidDate = errors.New("date must be a valid DD/MM/YYYY value")

// Store is the persistence contract the service depends on.
type Store interface {
	Get(ctx context.Context, id int64) (*Review, error)
	List(ctx context.Context) ([]Review, error)
	Create(ctx context.Context, rv Review) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	Transfer(ctx context.Context, id int64) (int64, error)
}

// Service wraps staged-review rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

func (s *Service) Get(ctx context.Context, id int64) (*Review, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Review, error) {
	return s.store.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateReviewRequest) (*Review, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate review: %w", err)
	}
	rv := Review{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		EmailVerified:  req.EmailVerified,
		PhoneVerified:  req.PhoneVerified,
		DomainVerified: req.DomainVerified,
		Country:        req.Country,
		City:           req.City,
		Address:        req.Address,
		Reference:      req.Reference,
		Rating:         req.Rating,
		Comment:        req.Comment,
		Source:         req.Source,
	}
	if req.Date != nil && *req.Date != "" {
		t, ok := shared.ParseDate(*req.Date)
		if !ok {
			return nil, ErrInvalidDate
		}
		rv.Date = &t
	}
	if req.ReviewAt != nil && *req.ReviewAt != "" {
		t, ok := shared.ParseDate(*req.ReviewAt)
		if !ok {
			return nil, ErrInvalidDate
		}
		rv.ReviewAt = &t
	}
	id, err := s.store.Create(ctx, rv)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Update writes only the fields present in the request.
func (s *Service) Update(ctx context.Context, id int64, req UpdateReviewRequest) (*Review, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate review: %w", err)
	}
	updates := make(map[string]any)
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("email", req.Email)
	set("phone", req.Phone)
	set("company", req.Company)
	set("country", req.Country)
	set("city", req.City)
	set("address", req.Address)
	set("reference", req.Reference)
	set("comment", req.Comment)
	set("source", req.Source)
	setFlag := func(col string, v *bool) {
		if v != nil {
			updates[col] = *v
		}
	}
	setFlag("email_verified", req.EmailVerified)
	setFlag("phone_verified", req.PhoneVerified)
	setFlag("domain_verified", req.DomainVerified)
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Date != nil {
		if *req.Date == "" {
			updates["date"] = nil
		} else {
			t, ok := shared.ParseDate(*req.Date)
			if !ok {
				return nil, ErrInvalidDate
			}
			updates["date"] = t
		}
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Transfer promotes the staged review into the customer base.
func (s *Service) Transfer(ctx context.Context, id int64) (*TransferResult, error) {
	customerID, err := s.store.Transfer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TransferResult{CustomerID: customerID, ReviewID: id}, nil
}
