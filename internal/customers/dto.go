package customers

// CreateCustomerRequest carries fields for a new customer. Date, when present,
// must be a calendar-correct DD/MM/YYYY string.
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company   *string `json:"company,omitempty" validate:"omitempty,max=200"`
	Country   *string `json:"country,omitempty" validate:"omitempty,max=100"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Reference *string `json:"reference,omitempty"`
	Date      *string `json:"date,omitempty"`
}

// UpdateCustomerRequest carries partial updates; nil fields are untouched so
// the handler can forward exactly the diffed subset the client sends.
type UpdateCustomerRequest struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company        *string `json:"company,omitempty" validate:"omitempty,max=200"`
	EmailVerified  *bool   `json:"email_verified,omitempty"`
	PhoneVerified  *bool   `json:"phone_verified,omitempty"`
	DomainVerified *bool   `json:"domain_verified,omitempty"`
	Country        *string `json:"country,omitempty" validate:"omitempty,max=100"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Address        *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Reference      *string `json:"reference,omitempty"`
	Date           *string `json:"date,omitempty"`
}

// ListCustomersRequest captures server-side search and filters. All filtering
// happens in the query so totals are exact, not estimated.
type ListCustomersRequest struct {
	Search   string
	Country  string
	Year     int  `validate:"omitempty,gte=1900,lte=2100"`
	Month    int  `validate:"omitempty,gte=1,lte=12"`
	Verified *bool
	Page     int
	PerPage  int `validate:"omitempty,lte=500"`
}

// BulkUpdateRequest applies the same field changes to a set of customers.
type BulkUpdateRequest struct {
	IDs    []int64               `json:"ids" validate:"required,min=1"`
	Fields UpdateCustomerRequest `json:"fields"`
}
