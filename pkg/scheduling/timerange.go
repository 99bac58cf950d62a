package scheduling

import (
	"regexp"
	"strings"
)

var clockToken = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})\s*([ap]\.?m\.?)?`)

type clockMatch struct {
	clock    TimeOfDay
	meridiem string
}

// ParseTimeRange reads the first two clock tokens of a schedule time string such
// as "13:15-14:30", "1:15 PM - 2:30 PM" or "1:15-2:30pm". A bare first token
// inherits the second token's meridiem when that keeps the range ordered.
// It reports false when fewer than two tokens are found or end <= start.
func ParseTimeRange(raw string) (TimeRange, bool) {
	matches := clockToken.FindAllStringSubmatch(raw, -1)
	if len(matches) < 2 {
		return TimeRange{}, false
	}

	tokens := make([]clockMatch, 0, 2)
	for _, m := range matches[:2] {
		clock, err := ParseTimeOfDay(m[1])
		if err != nil {
			return TimeRange{}, false
		}
		meridiem := strings.ToLower(strings.ReplaceAll(m[2], ".", ""))
		tokens = append(tokens, clockMatch{clock: clock, meridiem: meridiem})
	}

	end, err := rangeMeridiem(tokens[1].clock, tokens[1].meridiem)
	if err != nil {
		return TimeRange{}, false
	}

	start := tokens[0].clock
	switch {
	case tokens[0].meridiem != "":
		start, err = rangeMeridiem(start, tokens[0].meridiem)
		if err != nil {
			return TimeRange{}, false
		}
	case tokens[1].meridiem != "":
		if inherited, err := applyMeridiem(start, tokens[1].meridiem); err == nil && inherited < end {
			start = inherited
		}
	}

	r := TimeRange{Start: start, End: end}
	if r.Validate() != nil {
		return TimeRange{}, false
	}
	return r, true
}

// rangeMeridiem is applyMeridiem that tolerates a redundant suffix on a
// 24-hour clock such as "14:30pm".
func rangeMeridiem(t TimeOfDay, meridiem string) (TimeOfDay, error) {
	if meridiem != "" && t.Hour() > 12 {
		return t, nil
	}
	return applyMeridiem(t, meridiem)
}
