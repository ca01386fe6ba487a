package formulas

import (
	"strconv"
	"strings"
	"unicode"
)

// Characters whose presence marks a quantity as arithmetic or annotation
// rather than a plain amount.
const rejectedQuantityRunes = "+-×÷✓✗xX*/"

// ParseQuantity parses a free-text note quantity such as "10ml" or "1,5 g".
// The string must hold exactly one decimal number (comma or period separator),
// optionally followed by a unit suffix. Strings containing arithmetic signs or
// two whitespace-separated numeric groups are invalid.
func ParseQuantity(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.ContainsAny(s, rejectedQuantityRunes) {
		return 0, false
	}
	if countNumericGroups(s) > 1 {
		return 0, false
	}

	// Leading run of digits, separators and spaces; the rest is the unit.
	end := 0
	for _, r := range s {
		if !unicode.IsDigit(r) && r != ',' && r != '.' && r != ' ' {
			break
		}
		end += len(string(r))
	}
	lead := strings.ReplaceAll(s[:end], " ", "")
	lead = strings.ReplaceAll(lead, ",", ".")
	if lead == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(lead, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// countNumericGroups counts whitespace-separated tokens containing digits.
// "10 ml" has one; "1 2" and "1, 5" have two.
func countNumericGroups(s string) int {
	groups := 0
	for _, token := range strings.Fields(s) {
		if strings.ContainsFunc(token, unicode.IsDigit) {
			groups++
		}
	}
	return groups
}

// Totals aggregates parsed note quantities per category.
type Totals struct {
	Category map[Category]float64 `json:"category"`
	Grand    float64              `json:"grand"`
	Shares   []NoteShare          `json:"shares"`
}

// NoteShare is one note's parsed value and share of the grand total.
type NoteShare struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Value    float64  `json:"value"`
	Percent  float64  `json:"percent"`
}

// ComputeTotals parses every note quantity. Totals are produced only when all
// notes parse; otherwise the offending note names are returned and no totals
// or percentages are shown.
func ComputeTotals(notes []Note) (*Totals, []string) {
	var invalid []string
	values := make([]float64, len(notes))
	for i, n := range notes {
		v, ok := ParseQuantity(n.Quantity)
		if !ok {
			invalid = append(invalid, n.Name)
			continue
		}
		values[i] = v
	}
	if len(invalid) > 0 {
		return nil, invalid
	}

	totals := &Totals{Category: make(map[Category]float64, len(Categories))}
	for i, n := range notes {
		totals.Category[n.Category] += values[i]
		totals.Grand += values[i]
	}
	for i, n := range notes {
		percent := 0.0
		if totals.Grand > 0 {
			percent = values[i] / totals.Grand * 100
		}
		totals.Shares = append(totals.Shares, NoteShare{
			Category: n.Category,
			Name:     n.Name,
			Value:    values[i],
			Percent:  percent,
		})
	}
	return totals, nil
}
