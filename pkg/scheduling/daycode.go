package scheduling

import (
	"strings"
	"time"
	"unicode"
)

// WeekdaySet is a set of weekdays stored as a bitmask (bit 0 = Sunday).
type WeekdaySet uint8

// NewWeekdaySet builds a set from the given days; out-of-range values are ignored.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// Add returns the set with d included.
func (s WeekdaySet) Add(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

// Has reports membership.
func (s WeekdaySet) Has(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

// Len returns the number of days in the set.
func (s WeekdaySet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

func (s WeekdaySet) Empty() bool { return s == 0 }

// Days returns members in ascending order.
func (s WeekdaySet) Days() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Names returns English weekday names in ascending order.
func (s WeekdaySet) Names() []string {
	days := s.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

var dayCodes = [7]string{
	time.Sunday:    "U",
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "TH",
	time.Friday:    "F",
	time.Saturday:  "S",
}

// String renders the canonical day-code form, e.g. "MWF" or "TTHS".
func (s WeekdaySet) String() string {
	var b strings.Builder
	for _, d := range s.Days() {
		b.WriteString(dayCodes[d])
	}
	return b.String()
}

// ParseDays converts a compact day-code string ("MWF", "TTH", "tths") into a
// WeekdaySet. "TH" is a single Thursday token and wins over "T" followed by "H";
// "R" is accepted for Thursday and "U" for Sunday. Unknown characters are skipped.
func ParseDays(raw string) WeekdaySet {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	code := b.String()
	for strings.Contains(code, "THTH") {
		code = strings.ReplaceAll(code, "THTH", "TH")
	}

	var set WeekdaySet
	for i := 0; i < len(code); i++ {
		if code[i] == 'T' && i+1 < len(code) && code[i+1] == 'H' {
			set = set.Add(time.Thursday)
			i++
			continue
		}
		switch code[i] {
		case 'M':
			set = set.Add(time.Monday)
		case 'T':
			set = set.Add(time.Tuesday)
		case 'W':
			set = set.Add(time.Wednesday)
		case 'R':
			set = set.Add(time.Thursday)
		case 'F':
			set = set.Add(time.Friday)
		case 'S':
			set = set.Add(time.Saturday)
		case 'U':
			set = set.Add(time.Sunday)
		}
	}
	return set
}

// ParseWeekdayNames builds a set from backend weekday names ("Wednesday", "fri").
// Unrecognised names are skipped.
func ParseWeekdayNames(names []string) WeekdaySet {
	var set WeekdaySet
	for _, n := range names {
		if d, ok := ParseWeekdayName(n); ok {
			set = set.Add(d)
		}
	}
	return set
}
