package orders

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	orders map[int64]*Order
	nextID int64
}

func newMockStore() *mockStore {
	return &mockStore{orders: make(map[int64]*Order), nextID: 1}
}

func (m *mockStore) Get(_ context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockStore) matches(req ListOrdersRequest) []Order {
	var list []Order
	for _, o := range m.orders {
		if req.CustomerID > 0 && o.CustomerID != req.CustomerID {
			continue
		}
		if req.Status != "" && o.Status != req.Status {
			continue
		}
		list = append(list, *o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (m *mockStore) Count(_ context.Context, req ListOrdersRequest) (int, error) {
	return len(m.matches(req)), nil
}

func (m *mockStore) List(_ context.Context, req ListOrdersRequest, limit, offset int) ([]Order, error) {
	list := m.matches(req)
	if offset >= len(list) {
		return nil, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (m *mockStore) Create(_ context.Context, o Order) (int64, error) {
	o.ID = m.nextID
	m.nextID++
	m.orders[o.ID] = &o
	return o.ID, nil
}

func (m *mockStore) Update(_ context.Context, id int64, updates map[string]any) error {
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	return nil
}

func (m *mockStore) SetStatus(_ context.Context, id int64, status Status) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *mockStore) ReplaceItems(_ context.Context, orderID int64, items []Item, total float64) error {
	o, ok := m.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Items = items
	o.Total = total
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	delete(m.orders, id)
	return nil
}

func createOrder(t *testing.T, svc *Service) *Order {
	t.Helper()
	o, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		CustomerID: 7,
		Items: []ItemInput{
			{Label: "Eau de parfum 50ml", Quantity: 2, UnitPrice: 45},
			{Label: "Sample kit", Quantity: 1, UnitPrice: 10},
		},
	})
	require.NoError(t, err)
	return o
}

func TestCreateStartsPendingWithComputedTotal(t *testing.T) {
	svc := NewService(newMockStore())
	o := createOrder(t, svc)

	assert.Equal(t, StatusPending, o.Status)
	assert.InDelta(t, 100, o.Total, 1e-9)
}

func TestTransitionFollowsLifecycle(t *testing.T) {
	svc := NewService(newMockStore())
	o := createOrder(t, svc)

	for _, next := range []Status{StatusConfirmed, StatusInPreparation, StatusShipped} {
		var err error
		o, err = svc.Transition(context.Background(), o.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, o.Status)
	}
}

func TestTransitionRejectsSkippingStates(t *testing.T) {
	svc := NewService(newMockStore())
	o := createOrder(t, svc)

	_, err := svc.Transition(context.Background(), o.ID, StatusShipped)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, StatusPending, terr.From)
	assert.Equal(t, StatusShipped, terr.To)
}

func TestTerminalStatesNeverChange(t *testing.T) {
	svc := NewService(newMockStore())

	for _, terminal := range []Status{StatusShipped, StatusCancelled} {
		o := createOrder(t, svc)
		path := []Status{StatusConfirmed, StatusInPreparation, StatusShipped}
		if terminal == StatusCancelled {
			path = []Status{StatusCancelled}
		}
		for _, next := range path {
			var err error
			o, err = svc.Transition(context.Background(), o.ID, next)
			require.NoError(t, err)
		}
		for _, next := range Statuses {
			_, err := svc.Transition(context.Background(), o.ID, next)
			assert.Error(t, err, "from %s to %s", terminal, next)
		}
	}
}

func TestCancelAllowedFromAnyNonTerminalState(t *testing.T) {
	svc := NewService(newMockStore())

	paths := [][]Status{
		{},
		{StatusConfirmed},
		{StatusConfirmed, StatusInPreparation},
	}
	for _, path := range paths {
		o := createOrder(t, svc)
		for _, next := range path {
			var err error
			o, err = svc.Transition(context.Background(), o.ID, next)
			require.NoError(t, err)
		}
		o, err := svc.Transition(context.Background(), o.ID, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, o.Status)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockStore())
	o := createOrder(t, svc)

	_, err := svc.Transition(context.Background(), o.ID, Status("archived"))
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCreateRejectsInvalidDesiredDate(t *testing.T) {
	svc := NewService(newMockStore())

	bad := "31/02/2026"
	_, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		CustomerID:  7,
		DesiredDate: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDeleteOnlyWhilePending(t *testing.T) {
	svc := NewService(newMockStore())

	o := createOrder(t, svc)
	require.NoError(t, svc.Delete(context.Background(), o.ID))

	o = createOrder(t, svc)
	_, err := svc.Transition(context.Background(), o.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(context.Background(), o.ID), ErrNotDeletable)
}

func TestReplaceItemsRecomputesTotal(t *testing.T) {
	svc := NewService(newMockStore())
	o := createOrder(t, svc)

	o, err := svc.ReplaceItems(context.Background(), o.ID, ReplaceItemsRequest{
		Items: []ItemInput{{Label: "Discovery set", Quantity: 3, UnitPrice: 15}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 45, o.Total, 1e-9)
	require.Len(t, o.Items, 1)
}

func TestListClampsPageToLastPage(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	for i := 0; i < 45; i++ {
		createOrder(t, svc)
	}

	resp, err := svc.List(context.Background(), ListOrdersRequest{Page: 9, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 3, resp.Pagination.Page)
	assert.Len(t, resp.Orders, 5)
}
