package customers

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	customers map[int64]*Customer
	nextID    int64

	updateCalls     int
	bulkUpdateCalls int
	lastUpdates     map[string]any
	listCalls       []struct{ limit, offset int }
}

func newMockStore() *mockStore {
	return &mockStore{customers: make(map[int64]*Customer), nextID: 1}
}

func (m *mockStore) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockStore) matches(c *Customer, req ListCustomersRequest) bool {
	if req.Country != "" && (c.Country == nil || *c.Country != req.Country) {
		return false
	}
	if req.Verified != nil && c.EmailVerified != *req.Verified {
		return false
	}
	if q := NormalizeSearch(req.Search); q != "" {
		if !strings.Contains(SearchText(*c), q) {
			return false
		}
	}
	return true
}

func (m *mockStore) sortedMatches(req ListCustomersRequest) []Customer {
	var all []Customer
	for _, c := range m.customers {
		if m.matches(c, req) {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (m *mockStore) List(_ context.Context, req ListCustomersRequest, limit, offset int) ([]Customer, int, error) {
	m.listCalls = append(m.listCalls, struct{ limit, offset int }{limit, offset})
	all := m.sortedMatches(req)
	if limit == 0 {
		return nil, len(all), nil
	}
	if offset >= len(all) {
		return []Customer{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (m *mockStore) ListIDs(_ context.Context, req ListCustomersRequest) ([]int64, error) {
	var ids []int64
	for _, c := range m.sortedMatches(req) {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (m *mockStore) Create(_ context.Context, c Customer) (int64, error) {
	c.ID = m.nextID
	m.nextID++
	m.customers[c.ID] = &c
	return c.ID, nil
}

func (m *mockStore) Update(_ context.Context, id int64, updates map[string]any) error {
	c, ok := m.customers[id]
	if !ok {
		return ErrNotFound
	}
	m.updateCalls++
	m.lastUpdates = updates
	if v, ok := updates["email"].(string); ok {
		c.Email = &v
	}
	if v, ok := updates["country"].(string); ok {
		c.Country = &v
	}
	if v, ok := updates["email_verified"].(bool); ok {
		c.EmailVerified = v
	}
	return nil
}

func (m *mockStore) BulkUpdate(_ context.Context, ids []int64, updates map[string]any) error {
	m.bulkUpdateCalls++
	m.lastUpdates = updates
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.customers[id]; !ok {
		return ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *mockStore) ListFiles(context.Context, int64) ([]File, error) {
	return nil, nil
}

func seed(t *testing.T, store *mockStore, n int) {
	t.Helper()
	svc := NewService(store)
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), CreateCustomerRequest{
			FirstName: "Test",
			LastName:  "Customer",
		})
		require.NoError(t, err)
	}
}

func TestListPaginationBounds(t *testing.T) {
	store := newMockStore()
	seed(t, store, 45)
	svc := NewService(store)

	_, p, err := svc.List(context.Background(), ListCustomersRequest{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 45, p.Total)

	// A past-the-end page is clamped; the repository never sees page 4.
	items, p, err := svc.List(context.Background(), ListCustomersRequest{Page: 4, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Len(t, items, 5)

	// Page 0 is clamped to 1.
	_, p, err = svc.List(context.Background(), ListCustomersRequest{Page: 0, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)

	for _, call := range store.listCalls {
		assert.GreaterOrEqual(t, call.offset, 0)
		assert.LessOrEqual(t, call.offset, 40)
	}
}

func TestUpdateNoopSkipsWrite(t *testing.T) {
	store := newMockStore()
	seed(t, store, 1)
	svc := NewService(store)

	got, err := svc.Update(context.Background(), 1, UpdateCustomerRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, 0, store.updateCalls, "empty update must not issue a write")
}

func TestUpdateWritesOnlyChangedFields(t *testing.T) {
	store := newMockStore()
	seed(t, store, 1)
	svc := NewService(store)

	email := "new@scentdesk.test"
	verified := true
	_, err := svc.Update(context.Background(), 1, UpdateCustomerRequest{
		Email:         &email,
		EmailVerified: &verified,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.updateCalls)
	assert.Equal(t, map[string]any{"email": email, "email_verified": true}, store.lastUpdates)
}

func TestUpdateIdenticalValuesSkipsWrite(t *testing.T) {
	store := newMockStore()
	seed(t, store, 1)
	svc := NewService(store)

	email := "same@scentdesk.test"
	_, err := svc.Update(context.Background(), 1, UpdateCustomerRequest{Email: &email})
	require.NoError(t, err)
	require.Equal(t, 1, store.updateCalls)

	// Resubmitting the unchanged form must not touch the row again.
	_, err = svc.Update(context.Background(), 1, UpdateCustomerRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, 1, store.updateCalls)
}

func TestUpdateRejectsBadDate(t *testing.T) {
	store := newMockStore()
	seed(t, store, 1)
	svc := NewService(store)

	for _, bad := range []string{"31/04/2024", "29/02/2023", "15/13/2024"} {
		date := bad
		_, err := svc.Update(context.Background(), 1, UpdateCustomerRequest{Date: &date})
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}

	good := "29/02/2024"
	_, err := svc.Update(context.Background(), 1, UpdateCustomerRequest{Date: &good})
	assert.NoError(t, err)
}

func TestBulkUpdateDeduplicatesIDs(t *testing.T) {
	store := newMockStore()
	seed(t, store, 3)
	svc := NewService(store)

	country := "FR"
	err := svc.BulkUpdate(context.Background(), BulkUpdateRequest{
		IDs:    []int64{1, 1, 2},
		Fields: UpdateCustomerRequest{Country: &country},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.bulkUpdateCalls)
	assert.Equal(t, map[string]any{"country": "FR"}, store.lastUpdates)
}

func TestBulkUpdateEmptyFieldsIsNoop(t *testing.T) {
	store := newMockStore()
	seed(t, store, 2)
	svc := NewService(store)

	err := svc.BulkUpdate(context.Background(), BulkUpdateRequest{IDs: []int64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, 0, store.bulkUpdateCalls)
}

func TestSelectAllMatchesFilters(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	fr, de := "FR", "DE"
	for _, country := range []*string{&fr, &fr, &de} {
		_, err := svc.Create(context.Background(), CreateCustomerRequest{
			FirstName: "A", LastName: "B", Country: country,
		})
		require.NoError(t, err)
	}

	ids, err := svc.SelectAllIDs(context.Background(), ListCustomersRequest{Country: "FR"}, nil)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestSelectAllClearsWhenSomethingIsSelected(t *testing.T) {
	store := newMockStore()
	seed(t, store, 3)
	svc := NewService(store)

	ids, err := svc.SelectAllIDs(context.Background(), ListCustomersRequest{}, []int64{2})
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = svc.SelectAllIDs(context.Background(), ListCustomersRequest{}, nil)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestNormalizeSearch(t *testing.T) {
	assert.Equal(t, "helene dubois", NormalizeSearch("  Hélène DUBOIS "))
	assert.Equal(t, "creme", NormalizeSearch("Crème"))
}
