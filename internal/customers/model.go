package customers

import "time"

// Customer mirrors the customer record owned by the admin backend.
type Customer struct {
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
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// File is a scanned document attached to one of the customer's formulas.
type File struct {
	FormulaID int64     `json:"formula_id"`
	Name      string    `json:"name"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}
