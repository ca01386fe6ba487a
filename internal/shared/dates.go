package shared

import (
	"regexp"
	"time"
)

var dateFormRegex = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// ParseDate parses a DD/MM/YYYY string into a UTC time. Calendar-impossible
// dates (31/04, 29/02 outside leap years, month 13) are rejected, not
// normalised the way time.Parse would.
func ParseDate(value string) (time.Time, bool) {
	m := dateFormRegex.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, false
	}
	day := atoi2(m[1])
	month := atoi2(m[2])
	year := atoi4(m[3])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// ValidDate reports whether value is a calendar-correct DD/MM/YYYY date.
func ValidDate(value string) bool {
	_, ok := ParseDate(value)
	return ok
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

func atoi4(s string) int {
	n := 0
	for i := 0; i < 4; i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
