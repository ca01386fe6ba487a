package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"10ml", 10, true},
		{"1,5ml", 1.5, true},
		{"1.5ml", 1.5, true},
		{"10 ml", 10, true},
		{" 2,25 g ", 2.25, true},
		{"7", 7, true},
		{"0,5", 0.5, true},

		{"1 + 2", 0, false},
		{"10-20", 0, false},
		{"2×3", 0, false},
		{"4÷2", 0, false},
		{"3x", 0, false},
		{"3X", 0, false},
		{"5*2", 0, false},
		{"1/2", 0, false},
		{"✓", 0, false},
		{"✗", 0, false},

		{"1 2", 0, false},
		{"1, 5", 0, false},
		{"10ml 20ml", 0, false},

		{"", 0, false},
		{"ml", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseQuantity(tc.input)
		assert.Equal(t, tc.ok, ok, "validity of %q", tc.input)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "value of %q", tc.input)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	notes := []Note{
		{Category: CategoryTop, Name: "Bergamot", Quantity: "10ml"},
		{Category: CategoryTop, Name: "Lemon", Quantity: "5ml"},
		{Category: CategoryHeart, Name: "Rose", Quantity: "2,5ml"},
		{Category: CategoryBase, Name: "Musk", Quantity: "2.5"},
	}
	totals, invalid := ComputeTotals(notes)
	assert.Empty(t, invalid)
	assert.InDelta(t, 20, totals.Grand, 1e-9)
	assert.InDelta(t, 15, totals.Category[CategoryTop], 1e-9)
	assert.InDelta(t, 2.5, totals.Category[CategoryHeart], 1e-9)
	assert.InDelta(t, 2.5, totals.Category[CategoryBase], 1e-9)
	assert.InDelta(t, 50, totals.Shares[0].Percent, 1e-9)
}

func TestComputeTotalsWithInvalidNote(t *testing.T) {
	notes := []Note{
		{Category: CategoryTop, Name: "Bergamot", Quantity: "10ml"},
		{Category: CategoryHeart, Name: "Rose", Quantity: "1 + 2"},
		{Category: CategoryBase, Name: "Musk", Quantity: "2 3"},
	}
	totals, invalid := ComputeTotals(notes)
	// One invalid note suppresses all totals, not just its own.
	assert.Nil(t, totals)
	assert.Equal(t, []string{"Rose", "Musk"}, invalid)
}
