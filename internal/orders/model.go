package orders

import "time"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending       Status = "pending"
	StatusConfirmed     Status = "confirmed"
	StatusInPreparation Status = "in_preparation"
	StatusShipped       Status = "shipped"
	StatusCancelled     Status = "cancelled"
)

// Statuses lists every state in lifecycle order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusInPreparation, StatusShipped, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusShipped || s == StatusCancelled
}

// transitions maps each status to the states it may move to. Cancellation is
// allowed from any non-terminal state; nothing leaves a terminal state.
var transitions = map[Status][]Status{
	StatusPending:       {StatusConfirmed, StatusCancelled},
	StatusConfirmed:     {StatusInPreparation, StatusCancelled},
	StatusInPreparation: {StatusShipped, StatusCancelled},
	StatusShipped:       {},
	StatusCancelled:     {},
}

// CanTransition reports whether an order may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Order is a customer purchase with its line items.
type Order struct {
	ID            int64      `json:"id"`
	CustomerID    int64      `json:"customer_id"`
	FormulaID     *int64     `json:"formula_id,omitempty"`
	Reference     string     `json:"reference"`
	Status        Status     `json:"status"`
	Comment       string     `json:"comment"`
	AllergyNote   string     `json:"allergy_note,omitempty"`
	ResponsibleID *int64     `json:"responsible_id,omitempty"`
	DesiredDate   *time.Time `json:"desired_date,omitempty"`
	Total         float64    `json:"total"`
	CreatedBy     int64      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Items         []Item     `json:"items,omitempty"`
}

// Item is a single order line.
type Item struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	Label     string  `json:"label"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// LineTotal is quantity times unit price.
func (i Item) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
