package shared

// Selection tracks a set of selected record IDs for bulk actions.
type Selection map[int64]struct{}

// NewSelection builds a selection from a list of IDs, deduplicating.
func NewSelection(ids []int64) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add marks an ID as selected.
func (s Selection) Add(id int64) { s[id] = struct{}{} }

// Remove unmarks an ID.
func (s Selection) Remove(id int64) { delete(s, id) }

// Count returns the number of selected IDs.
func (s Selection) Count() int { return len(s) }

// Contains reports whether an ID is selected.
func (s Selection) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the selected IDs in unspecified order.
func (s Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// ToggleAll implements the select-all rule: any existing selection is cleared,
// otherwise the full filtered ID set (across all pages, not just the current
// one) becomes the selection.
func (s Selection) ToggleAll(all []int64) Selection {
	if len(s) > 0 {
		return make(Selection)
	}
	return NewSelection(all)
}
