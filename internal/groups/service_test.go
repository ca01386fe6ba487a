package groups

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	groups  map[int64]*Group
	members map[int64]map[int64]struct{}
	nextID  int64
}

func newMockStore() *mockStore {
	return &mockStore{groups: make(map[int64]*Group), members: make(map[int64]map[int64]struct{}), nextID: 1}
}

func (m *mockStore) seed(name string, customerIDs ...int64) int64 {
	id := m.nextID
	m.nextID++
	m.groups[id] = &Group{ID: id, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.members[id] = make(map[int64]struct{})
	for _, cid := range customerIDs {
		m.members[id][cid] = struct{}{}
	}
	return id
}

func (m *mockStore) Get(_ context.Context, id int64) (*Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (m *mockStore) List(_ context.Context) ([]Group, error) {
	var list []Group
	for _, g := range m.groups {
		list = append(list, *g)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockStore) MemberCounts(_ context.Context) (map[int64]int, error) {
	counts := make(map[int64]int)
	for id, set := range m.members {
		if _, ok := m.groups[id]; ok {
			counts[id] = len(set)
		}
	}
	return counts, nil
}

func (m *mockStore) Create(_ context.Context, g Group) (int64, error) {
	return m.seed(g.Name), nil
}

func (m *mockStore) Update(_ context.Context, id int64, updates map[string]any) error {
	g, ok := m.groups[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		g.Name = v.(string)
	}
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.groups[id]; !ok {
		return ErrNotFound
	}
	delete(m.groups, id)
	delete(m.members, id)
	return nil
}

func (m *mockStore) AddMembers(_ context.Context, groupID int64, customerIDs []int64) error {
	for _, cid := range customerIDs {
		m.members[groupID][cid] = struct{}{}
	}
	return nil
}

func (m *mockStore) RemoveMembers(_ context.Context, groupID int64, customerIDs []int64) error {
	for _, cid := range customerIDs {
		delete(m.members[groupID], cid)
	}
	return nil
}

func (m *mockStore) ListByCustomer(_ context.Context, customerID int64) ([]Group, error) {
	var list []Group
	for id, set := range m.members {
		if _, ok := set[customerID]; ok {
			list = append(list, *m.groups[id])
		}
	}
	return list, nil
}

func (m *mockStore) Merge(_ context.Context, sourceIDs []int64, targetID int64) error {
	if _, ok := m.groups[targetID]; !ok {
		return ErrNotFound
	}
	for _, src := range sourceIDs {
		for cid := range m.members[src] {
			m.members[targetID][cid] = struct{}{}
		}
		delete(m.members, src)
		delete(m.groups, src)
	}
	return nil
}

func TestListAttachesMemberCounts(t *testing.T) {
	store := newMockStore()
	store.seed("VIP", 1, 2, 3)
	store.seed("Wholesale")
	svc := NewService(store)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "VIP", list[0].Name)
	assert.Equal(t, 3, list[0].MemberCount)
	assert.Equal(t, 0, list[1].MemberCount)
}

func TestMergeDeduplicatesAndDeletesSources(t *testing.T) {
	store := newMockStore()
	a := store.seed("A", 1, 2)
	b := store.seed("B", 2, 3)
	target := store.seed("Target", 3)
	svc := NewService(store)

	merged, err := svc.Merge(context.Background(), MergeRequest{SourceIDs: []int64{a, b, a}, TargetID: target})
	require.NoError(t, err)
	assert.Equal(t, 3, merged.MemberCount)

	_, err = svc.Get(context.Background(), a)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(context.Background(), b)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeRejectsTargetInSources(t *testing.T) {
	store := newMockStore()
	a := store.seed("A", 1)
	svc := NewService(store)

	_, err := svc.Merge(context.Background(), MergeRequest{SourceIDs: []int64{a}, TargetID: a})
	assert.ErrorIs(t, err, ErrMergeIntoSource)
}

func TestAddMembersUnknownGroup(t *testing.T) {
	svc := NewService(newMockStore())
	err := svc.AddMembers(context.Background(), 42, MembersRequest{CustomerIDs: []int64{1}})
	assert.ErrorIs(t, err, ErrNotFound)
}
