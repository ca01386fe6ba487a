package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdesk/scentdesk/internal/customers"
)

type mockStore struct {
	reviews        map[int64]*Review
	nextID         int64
	takenEmails    map[string]struct{}
	nextCustomerID int64
}

func newMockStore() *mockStore {
	return &mockStore{
		reviews:        make(map[int64]*Review),
		nextID:         1,
		takenEmails:    map[string]struct{}{},
		nextCustomerID: 100,
	}
}

func (m *mockStore) Get(_ context.Context, id int64) (*Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rv, nil
}

func (m *mockStore) List(_ context.Context) ([]Review, error) {
	var list []Review
	for _, rv := range m.reviews {
		list = append(list, *rv)
	}
	return list, nil
}

func (m *mockStore) Create(_ context.Context, rv Review) (int64, error) {
	rv.ID = m.nextID
	m.nextID++
	m.reviews[rv.ID] = &rv
	return rv.ID, nil
}

func (m *mockStore) Update(_ context.Context, id int64, updates map[string]any) error {
	rv, ok := m.reviews[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["comment"]; ok {
		rv.Comment = v.(string)
	}
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockStore) Transfer(_ context.Context, id int64) (int64, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return 0, ErrNotFound
	}
	if rv.Email != nil {
		if _, taken := m.takenEmails[*rv.Email]; taken {
			return 0, ErrCustomerExists
		}
	}
	delete(m.reviews, id)
	m.nextCustomerID++
	return m.nextCustomerID, nil
}

func strPtr(s string) *string { return &s }

func TestCreateParsesReviewDate(t *testing.T) {
	svc := NewService(newMockStore())

	rv, err := svc.Create(context.Background(), CreateReviewRequest{
		FirstName: "Claire",
		LastName:  "Dubois",
		ReviewAt:  strPtr("29/02/2024"),
	})
	require.NoError(t, err)
	require.NotNil(t, rv.ReviewAt)
	assert.Equal(t, 2024, rv.ReviewAt.Year())

	_, err = svc.Create(context.Background(), CreateReviewRequest{
		FirstName: "Claire",
		LastName:  "Dubois",
		ReviewAt:  strPtr("29/02/2023"),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCustomerRecordCarriesEveryStagedField(t *testing.T) {
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	rv := &Review{
		FirstName:      "Claire",
		LastName:       "Dubois",
		Email:          strPtr("claire@scentdesk.test"),
		Phone:          strPtr("+33 6 00 00 00 00"),
		Company:        strPtr("Maison Dubois"),
		EmailVerified:  true,
		PhoneVerified:  true,
		DomainVerified: true,
		Country:        strPtr("FR"),
		City:           strPtr("Grasse"),
		Address:        strPtr("1 rue des Parfumeurs"),
		Reference:      strPtr("REF-42"),
		Date:           &date,
	}

	want := customers.Customer{
		FirstName:      rv.FirstName,
		LastName:       rv.LastName,
		Email:          rv.Email,
		Phone:          rv.Phone,
		Company:        rv.Company,
		EmailVerified:  true,
		PhoneVerified:  true,
		DomainVerified: true,
		Country:        rv.Country,
		City:           rv.City,
		Address:        rv.Address,
		Reference:      rv.Reference,
		Date:           rv.Date,
	}
	assert.Equal(t, want, rv.CustomerRecord())
}

func TestCreateStagesFullCustomerMirror(t *testing.T) {
	svc := NewService(newMockStore())

	rv, err := svc.Create(context.Background(), CreateReviewRequest{
		FirstName:     "Claire",
		LastName:      "Dubois",
		Phone:         strPtr("+33 6 00 00 00 00"),
		Company:       strPtr("Maison Dubois"),
		City:          strPtr("Grasse"),
		Address:       strPtr("1 rue des Parfumeurs"),
		Reference:     strPtr("REF-42"),
		EmailVerified: true,
		Date:          strPtr("15/03/2024"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Maison Dubois", *rv.Company)
	assert.Equal(t, "Grasse", *rv.City)
	assert.Equal(t, "1 rue des Parfumeurs", *rv.Address)
	assert.Equal(t, "REF-42", *rv.Reference)
	assert.True(t, rv.EmailVerified)
	require.NotNil(t, rv.Date)
	assert.Equal(t, time.March, rv.Date.Month())
}

func TestTransferRemovesStagedReview(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	rv, err := svc.Create(context.Background(), CreateReviewRequest{FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	result, err := svc.Transfer(context.Background(), rv.ID)
	require.NoError(t, err)
	assert.Equal(t, rv.ID, result.ReviewID)
	assert.NotZero(t, result.CustomerID)

	_, err = svc.Get(context.Background(), rv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransferConflictsOnExistingEmail(t *testing.T) {
	store := newMockStore()
	store.takenEmails["dup@example.com"] = struct{}{}
	svc := NewService(store)

	rv, err := svc.Create(context.Background(), CreateReviewRequest{
		FirstName: "A",
		LastName:  "B",
		Email:     strPtr("dup@example.com"),
	})
	require.NoError(t, err)

	_, err = svc.Transfer(context.Background(), rv.ID)
	assert.ErrorIs(t, err, ErrCustomerExists)

	_, err = svc.Get(context.Background(), rv.ID)
	assert.NoError(t, err)
}
