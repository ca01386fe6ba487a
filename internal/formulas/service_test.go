package formulas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	formulas     map[int64]*Formula
	notes        map[int64][]Note
	nextID       int64
	replaceCalls int
}

func newMockStore() *mockStore {
	return &mockStore{formulas: make(map[int64]*Formula), notes: make(map[int64][]Note), nextID: 1}
}

func (m *mockStore) Get(_ context.Context, id int64) (*Formula, error) {
	f, ok := m.formulas[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func (m *mockStore) ListByCustomer(_ context.Context, customerID int64) ([]Formula, error) {
	var list []Formula
	for _, f := range m.formulas {
		if f.CustomerID == customerID {
			list = append(list, *f)
		}
	}
	return list, nil
}

func (m *mockStore) Notes(_ context.Context, formulaID int64) ([]Note, error) {
	return m.notes[formulaID], nil
}

func (m *mockStore) Create(_ context.Context, f Formula) (int64, error) {
	f.ID = m.nextID
	m.nextID++
	m.formulas[f.ID] = &f
	return f.ID, nil
}

func (m *mockStore) Update(_ context.Context, id int64, updates map[string]any) error {
	if _, ok := m.formulas[id]; !ok {
		return ErrNotFound
	}
	return nil
}

func (m *mockStore) ReplaceNotes(_ context.Context, formulaID int64, notes []Note) error {
	m.replaceCalls++
	m.notes[formulaID] = notes
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	delete(m.formulas, id)
	return nil
}

func TestReplaceNotesKeepsCategoryOrder(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	detail, err := svc.Create(context.Background(), CreateFormulaRequest{CustomerID: 1, Reference: "F-1"})
	require.NoError(t, err)

	detail, err = svc.ReplaceNotes(context.Background(), detail.Formula.ID, ReplaceNotesRequest{
		Top:   []NoteInput{{Name: "Bergamot", Quantity: "10ml"}, {Name: "Lemon", Quantity: "5ml"}},
		Heart: []NoteInput{{Name: "Rose", Quantity: "2,5ml"}},
		Base:  []NoteInput{{Name: "Musk", Quantity: "2.5"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, store.replaceCalls)

	top := detail.Notes[CategoryTop]
	require.Len(t, top, 2)
	assert.Equal(t, "Bergamot", top[0].Name)
	assert.Equal(t, 0, top[0].Position)
	assert.Equal(t, "Lemon", top[1].Name)
	assert.Equal(t, 1, top[1].Position)

	require.NotNil(t, detail.Totals)
	assert.InDelta(t, 20, detail.Totals.Grand, 1e-9)
	assert.Empty(t, detail.InvalidNotes)
}

func TestDetailSuppressesTotalsOnInvalidNote(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	detail, err := svc.Create(context.Background(), CreateFormulaRequest{CustomerID: 1})
	require.NoError(t, err)

	detail, err = svc.ReplaceNotes(context.Background(), detail.Formula.ID, ReplaceNotesRequest{
		Top: []NoteInput{{Name: "Bergamot", Quantity: "1 + 2"}},
	})
	require.NoError(t, err)

	assert.Nil(t, detail.Totals)
	assert.Equal(t, []string{"Bergamot"}, detail.InvalidNotes)
}

func TestReplaceNotesUnknownFormula(t *testing.T) {
	svc := NewService(newMockStore())
	_, err := svc.ReplaceNotes(context.Background(), 99, ReplaceNotesRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}
