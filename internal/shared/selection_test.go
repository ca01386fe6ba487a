package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggleAll(t *testing.T) {
	all := []int64{1, 2, 3, 4, 5}

	sel := NewSelection(nil).ToggleAll(all)
	assert.Equal(t, len(all), sel.Count())

	// Deselecting one leaves total-1 selected.
	sel.Remove(3)
	assert.Equal(t, len(all)-1, sel.Count())

	// Toggling with a non-empty selection clears it, it does not re-select.
	sel = sel.ToggleAll(all)
	assert.Equal(t, 0, sel.Count())

	sel = sel.ToggleAll(all)
	assert.Equal(t, len(all), sel.Count())
}

func TestSelectionDeduplicates(t *testing.T) {
	sel := NewSelection([]int64{7, 7, 8})
	assert.Equal(t, 2, sel.Count())
	sel.Add(8)
	assert.Equal(t, 2, sel.Count())
	assert.ElementsMatch(t, []int64{7, 8}, sel.IDs())
}
