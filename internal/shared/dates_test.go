package shared

import "testing"

func TestValidDate(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"29/02/2024", true},  // leap year
		{"29/02/2023", false}, // not a leap year
		{"31/04/2024", false}, // April has 30 days
		{"15/13/2024", false}, // month out of range
		{"01/01/2000", true},
		{"00/01/2024", false},
		{"31/12/1999", true},
		{"2024-02-29", false},
		{"1/1/2024", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidDate(tc.value); got != tc.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("05/07/2026")
	if !ok {
		t.Fatal("expected valid date")
	}
	if d.Day() != 5 || d.Month() != 7 || d.Year() != 2026 {
		t.Fatalf("unexpected date %v", d)
	}
}
