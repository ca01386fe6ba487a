package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangedFields(t *testing.T) {
	original := map[string]any{"a": 1, "b": 2}
	form := map[string]any{"a": 1, "b": 3}

	changed := ChangedFields(original, form)
	assert.Equal(t, map[string]any{"b": 3}, changed)
}

func TestChangedFieldsNoop(t *testing.T) {
	original := map[string]any{"name": "Iris", "country": "FR"}
	form := map[string]any{"name": "Iris", "country": "FR"}

	assert.Empty(t, ChangedFields(original, form))
}

func TestChangedFieldsNewKey(t *testing.T) {
	changed := ChangedFields(map[string]any{}, map[string]any{"reference": "R-12"})
	assert.Equal(t, map[string]any{"reference": "R-12"}, changed)
}
