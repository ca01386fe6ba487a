package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdesk/scentdesk/internal/customers"
	"github.com/scentdesk/scentdesk/internal/orders"
	"github.com/scentdesk/scentdesk/internal/platform/httpx"
	"github.com/scentdesk/scentdesk/internal/quotas"
)

type fakeCustomerSource struct {
	list []customers.Customer
}

func (f fakeCustomerSource) ListByIDs(_ context.Context, ids []int64) ([]customers.Customer, error) {
	var out []customers.Customer
	for _, c := range f.list {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

type fakeOrderSource struct {
	list []orders.Order
}

func (f fakeOrderSource) ListByIDs(_ context.Context, ids []int64) ([]orders.Order, error) {
	return f.list, nil
}

type countingQuota struct {
	consumed int
	limit    int
}

func (c *countingQuota) Consume(_ context.Context, _ int64, _ quotas.Kind) error {
	if c.limit > 0 && c.consumed >= c.limit {
		return httpx.ErrQuotaExceeded
	}
	c.consumed++
	return nil
}

func TestWriteCustomersCSVFormatsDates(t *testing.T) {
	email := "anna@example.com"
	date := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	source := fakeCustomerSource{list: []customers.Customer{
		{ID: 1, FirstName: "Anna", LastName: "Laine", Email: &email, Date: &date},
	}}
	svc := NewService(source, fakeOrderSource{}, &countingQuota{})

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), 1, Request{Entity: EntityCustomers, IDs: []int64{1}}, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, customerHeader, records[0])
	assert.Equal(t, "Anna", records[1][1])
	assert.Equal(t, "anna@example.com", records[1][3])
	assert.Equal(t, "29/02/2024", records[1][10])
}

func TestWriteCSVChargesQuotaOncePerFile(t *testing.T) {
	quota := &countingQuota{}
	svc := NewService(fakeCustomerSource{list: []customers.Customer{{ID: 1}}}, fakeOrderSource{}, quota)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), 1, Request{Entity: EntityCustomers, IDs: []int64{1, 1, 1}}, &buf))
	assert.Equal(t, 1, quota.consumed)
}

func TestWriteCSVStopsWhenQuotaExhausted(t *testing.T) {
	exhausted := &countingQuota{limit: 1, consumed: 1}
	svc := NewService(fakeCustomerSource{}, fakeOrderSource{}, exhausted)

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), 1, Request{Entity: EntityCustomers, IDs: []int64{1}}, &buf)
	assert.ErrorIs(t, err, httpx.ErrQuotaExceeded)
	assert.Zero(t, buf.Len())
}

func TestWriteCSVRejectsUnknownEntityAndEmptySelection(t *testing.T) {
	svc := NewService(fakeCustomerSource{}, fakeOrderSource{}, &countingQuota{})

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), 1, Request{Entity: "formulas", IDs: []int64{1}}, &buf)
	assert.ErrorIs(t, err, ErrUnknownEntity)

	err = svc.WriteCSV(context.Background(), 1, Request{Entity: EntityOrders}, &buf)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestWriteOrdersCSV(t *testing.T) {
	source := fakeOrderSource{list: []orders.Order{
		{ID: 3, CustomerID: 7, Reference: "ORD-3", Status: orders.StatusShipped, Total: 99.5, CreatedAt: time.Date(2026, time.January, 2, 9, 30, 0, 0, time.UTC)},
	}}
	svc := NewService(fakeCustomerSource{}, source, &countingQuota{})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), 1, Request{Entity: EntityOrders, IDs: []int64{3}}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "shipped", records[1][3])
	assert.Equal(t, "99.50", records[1][4])
	assert.Equal(t, "02/01/2026 09:30", records[1][6])
}
