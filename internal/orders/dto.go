package orders

import "github.com/scentdesk/scentdesk/internal/shared"

// CreateOrderRequest opens a new order in the pending state.
type CreateOrderRequest struct {
	CustomerID    int64       `json:"customer_id" validate:"required,gt=0"`
	FormulaID     *int64      `json:"formula_id,omitempty" validate:"omitempty,gt=0"`
	Reference     string      `json:"reference" validate:"max=100"`
	Comment       string      `json:"comment"`
	AllergyNote   string      `json:"allergy_note"`
	ResponsibleID *int64      `json:"responsible_id,omitempty" validate:"omitempty,gt=0"`
	DesiredDate   *string     `json:"desired_date,omitempty"`
	Items         []ItemInput `json:"items" validate:"dive"`
}

// UpdateOrderRequest patches header fields; status moves through its own
// endpoint so transitions stay validated. An empty desired_date clears it.
type UpdateOrderRequest struct {
	FormulaID     *int64  `json:"formula_id,omitempty" validate:"omitempty,gt=0"`
	Reference     *string `json:"reference,omitempty" validate:"omitempty,max=100"`
	Comment       *string `json:"comment,omitempty"`
	AllergyNote   *string `json:"allergy_note,omitempty"`
	ResponsibleID *int64  `json:"responsible_id,omitempty" validate:"omitempty,gt=0"`
	DesiredDate   *string `json:"desired_date,omitempty"`
}

// ItemInput is one line of an order payload.
type ItemInput struct {
	Label     string  `json:"label" validate:"required,max=200"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// ReplaceItemsRequest swaps the full line-item set.
type ReplaceItemsRequest struct {
	Items []ItemInput `json:"items" validate:"dive"`
}

// StatusRequest asks for a status transition.
type StatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// ListOrdersRequest carries list filters. Filtering runs in the database so
// pagination totals stay exact.
type ListOrdersRequest struct {
	CustomerID  int64
	Responsible int64
	Status      Status
	Search      string
	Page        int
	PerPage     int `validate:"gte=0,lte=500"`
}

// ListOrdersResponse is a page of orders plus pagination metadata.
type ListOrdersResponse struct {
	Orders     []Order           `json:"orders"`
	Pagination shared.Pagination `json:"pagination"`
}
