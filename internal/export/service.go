package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/scentdesk/scentdesk/internal/customers"
	"github.com/scentdesk/scentdesk/internal/orders"
	"github.com/scentdesk/scentdesk/internal/quotas"
	"github.com/scentdesk/scentdesk/internal/shared"
)

// Entity names an exportable record type.
type Entity string

const (
	EntityCustomers Entity = "customers"
	EntityOrders    Entity = "orders"
)

// ErrUnknownEntity is returned when a request names something not exportable.
var ErrUnknownEntity = errors.New("unknown export entity")

// ErrEmptySelection is returned when no IDs are sent.
var ErrEmptySelection = errors.New("export selection is empty")

// CustomerSource loads customers for export.
type CustomerSource interface {
	ListByIDs(ctx context.Context, ids []int64) ([]customers.Customer, error)
}

// OrderSource loads orders for export.
type OrderSource interface {
	ListByIDs(ctx context.Context, ids []int64) ([]orders.Order, error)
}

// QuotaConsumer meters export usage.
type QuotaConsumer interface {
	Consume(ctx context.Context, userID int64, kind quotas.Kind) error
}

// Request selects what to export. IDs are the caller's selection, typically
// built with the select-all action across every filtered page.
type Request struct {
	Entity Entity  `json:"entity"`
	IDs    []int64 `json:"ids"`
}

// Service produces CSV exports, charging one quota unit per file.
type Service struct {
	customers CustomerSource
	orders    OrderSource
	quotas    QuotaConsumer
}

// NewService constructs a Service.
func NewService(customerSource CustomerSource, orderSource OrderSource, quotaConsumer QuotaConsumer) *Service {
	return &Service{customers: customerSource, orders: orderSource, quotas: quotaConsumer}
}

// WriteCSV checks the user's quota, then streams the selection to w.
// The quota is charged before writing so an exhausted user never receives
// partial output.
func (s *Service) WriteCSV(ctx context.Context, userID int64, req Request, w io.Writer) error {
	if req.Entity != EntityCustomers && req.Entity != EntityOrders {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, req.Entity)
	}
	ids := shared.NewSelection(req.IDs).IDs()
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	if err := s.quotas.Consume(ctx, userID, quotas.KindCSVExport); err != nil {
		return err
	}

	switch req.Entity {
	case EntityCustomers:
		list, err := s.customers.ListByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		return WriteCustomersCSV(w, list)
	default:
		list, err := s.orders.ListByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		return WriteOrdersCSV(w, list)
	}
}

// Filename suggests a download name for the entity.
func Filename(entity Entity) string {
	return string(entity) + ".csv"
}
