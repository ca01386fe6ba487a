package reviews

import (
	"time"

	"github.com/scentdesk/scentdesk/internal/customers"
)

// Review is a staged customer record waiting to be promoted into the
// customer base. It mirrors every customer field so nothing is lost on
// transfer, plus the review metadata that put the record here. Staged rows
// live in their own table and never show up in customer listings until
// transferred.
type Review struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Company        *string    `json:"company,omitempty"`
	EmailVerified  bool       `json:"email_verified"`
	PhoneVerified  bool       `json:"phone_verified"`
	DomainVerified bool       `json:"domain_verified"`
	Country        *string    `json:"country,omitempty"`
	City           *string    `json:"city,omitempty"`
	Address        *string    `json:"address,omitempty"`
	Reference      *string    `json:"reference,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	Rating         *int       `json:"rating,omitempty"`
	Comment        string     `json:"comment"`
	Source         string     `json:"source"`
	ReviewAt       *time.Time `json:"review_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CustomerRecord maps the staged row onto the customer it becomes on
// transfer. Every mirrored field carries over.
func (rv *Review) CustomerRecord() customers.Customer {
	return customers.Customer{
		FirstName:      rv.FirstName,
		LastName:       rv.LastName,
		Email:          rv.Email,
		Phone:          rv.Phone,
		Company:        rv.Company,
		EmailVerified:  rv.EmailVerified,
		PhoneVerified:  rv.PhoneVerified,
		DomainVerified: rv.DomainVerified,
		Country:        rv.Country,
		City:           rv.City,
		Address:        rv.Address,
		Reference:      rv.Reference,
		Date:           rv.Date,
	}
}

// CreateReviewRequest stages a new review.
type CreateReviewRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company        *string `json:"company,omitempty" validate:"omitempty,max=200"`
	EmailVerified  bool    `json:"email_verified"`
	PhoneVerified  bool    `json:"phone_verified"`
	DomainVerified bool    `json:"domain_verified"`
	Country        *string `json:"country,omitempty"`
	City           *string `json:"city,omitempty"`
	Address        *string `json:"address,omitempty"`
	Reference      *string `json:"reference,omitempty" validate:"omitempty,max=200"`
	Date           *string `json:"date,omitempty"`
	Rating         *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment        string  `json:"comment"`
	Source         string  `json:"source" validate:"max=200"`
	ReviewAt       *string `json:"review_at,omitempty"`
}

// UpdateReviewRequest patches a staged review; nil fields stay untouched.
// An empty date clears it.
type UpdateReviewRequest struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company        *string `json:"company,omitempty" validate:"omitempty,max=200"`
	EmailVerified  *bool   `json:"email_verified,omitempty"`
	PhoneVerified  *bool   `json:"phone_verified,omitempty"`
	DomainVerified *bool   `json:"domain_verified,omitempty"`
	Country        *string `json:"country,omitempty"`
	City           *string `json:"city,omitempty"`
	Address        *string `json:"address,omitempty"`
	Reference      *string `json:"reference,omitempty" validate:"omitempty,max=200"`
	Date           *string `json:"date,omitempty"`
	Rating         *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment        *string `json:"comment,omitempty"`
	Source         *string `json:"source,omitempty" validate:"omitempty,max=200"`
}

// TransferResult reports the customer created from a staged review.
type TransferResult struct {
	CustomerID int64 `json:"customer_id"`
	ReviewID   int64 `json:"review_id"`
}
