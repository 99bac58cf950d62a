package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// MinutesPerDay bounds TimeOfDay values.
const MinutesPerDay = 24 * 60

// DateKey identifies a local calendar date. It is the join key between course
// policy and per-date overrides and round-trips exactly through its string form.
type DateKey struct {
	year  int
	month time.Month
	day   int
}

// ParseDateKey parses a "YYYY-MM-DD" string.
func ParseDateKey(raw string) (DateKey, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return DateKey{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return DateKeyOf(t), nil
}

// MustDateKey is ParseDateKey for literals; it panics on malformed input.
func MustDateKey(raw string) DateKey {
	d, err := ParseDateKey(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// DateKeyOf returns the calendar date of t in t's own location.
func DateKeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{year: y, month: m, day: d}
}

// IsZero reports whether the key was never set.
func (d DateKey) IsZero() bool { return d.year == 0 && d.month == 0 && d.day == 0 }

func (d DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// In returns local midnight of the date in loc.
func (d DateKey) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func (d DateKey) utc() time.Time { return d.In(time.UTC) }

// Weekday returns the day of week of the date.
func (d DateKey) Weekday() time.Weekday { return d.utc().Weekday() }

// WeekdayName returns the English weekday name ("Monday").
func (d DateKey) WeekdayName() string { return d.Weekday().String() }

// Year, Month and Day expose the calendar fields.
func (d DateKey) Year() int { return d.year }
func (d DateKey) Month() time.Month { return d.month }
func (d DateKey) Day() int { return d.day }

// AddDays shifts the date by n calendar days.
func (d DateKey) AddDays(n int) DateKey { return DateKeyOf(d.utc().AddDate(0, 0, n)) }

// Compare returns -1, 0 or +1.
func (d DateKey) Compare(other DateKey) int {
	a, b := d.utc(), other.utc()
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func (d DateKey) Before(other DateKey) bool { return d.Compare(other) < 0 }
func (d DateKey) After(other DateKey) bool { return d.Compare(other) > 0 }

// MarshalText implements encoding.TextMarshaler.
func (d DateKey) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DateKey) UnmarshalText(b []byte) error {
	parsed, err := ParseDateKey(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekOf returns the Sunday and Saturday bounding the week that contains d.
func WeekOf(d DateKey) (DateKey, DateKey) {
	sunday := d.AddDays(-int(d.Weekday()))
	return sunday, sunday.AddDays(6)
}

// InSameWeek reports whether a and b fall in the same Sunday–Saturday week.
func InSameWeek(a, b DateKey) bool {
	sa, _ := WeekOf(a)
	sb, _ := WeekOf(b)
	return sa == sb
}

// TimeOfDay is a count of minutes since midnight in [0, 1439].
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" (or "H:MM") string.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	if !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return TimeOfDay(h*60 + m), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustTimeOfDay is ParseTimeOfDay for literals.
func MustTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseClock12h converts "1:15 pm" / "1:15PM" / "01:15 am" to minutes since midnight.
func ParseClock12h(raw string) (TimeOfDay, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	var meridiem string
	switch {
	case strings.HasSuffix(s, "am"):
		meridiem, s = "am", strings.TrimSuffix(s, "am")
	case strings.HasSuffix(s, "pm"):
		meridiem, s = "pm", strings.TrimSuffix(s, "pm")
	default:
		return 0, fmt.Errorf("invalid 12-hour time %q", raw)
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return 0, fmt.Errorf("invalid 12-hour time %q", raw)
	}
	return applyMeridiem(t, meridiem)
}

func applyMeridiem(t TimeOfDay, meridiem string) (TimeOfDay, error) {
	h, m := t.Hour(), t.Minute()
	if meridiem == "" {
		return t, nil
	}
	if h < 1 || h > 12 {
		return 0, fmt.Errorf("hour %d out of range for %s", h, meridiem)
	}
	switch {
	case meridiem == "am" && h == 12:
		h = 0
	case meridiem == "pm" && h != 12:
		h += 12
	}
	return TimeOfDay(h*60 + m), nil
}

// Valid reports whether t is within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < MinutesPerDay }

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Add returns t shifted by minutes; the result may fall outside the day.
func (t TimeOfDay) Add(minutes int) TimeOfDay { return t + TimeOfDay(minutes) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Format12h renders "1:15 PM".
func (t TimeOfDay) Format12h() string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}

// On returns the instant at wall-clock time t on date d in loc.
func (t TimeOfDay) On(d DateKey, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, t.Hour(), t.Minute(), 0, 0, loc)
}

// TimeRange is a half-open interval [Start, End) within a day.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// ParseHHMMRange builds a range from two 24-hour strings.
func ParseHHMMRange(start, end string) (TimeRange, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: s, End: e}, nil
}

// Minutes returns the length of the range.
func (r TimeRange) Minutes() int { return int(r.End - r.Start) }

// Overlaps uses half-open semantics: touching ranges do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Contains reports whether o lies within r.
func (r TimeRange) Contains(o TimeRange) bool {
	return o.Start >= r.Start && o.End <= r.End
}

// Validate checks end > start and that both ends lie within the day.
func (r TimeRange) Validate() error {
	if !r.Start.Valid() || r.End < 0 || r.End > MinutesPerDay {
		return ErrTimeOutOfRange
	}
	if r.End <= r.Start {
		return ErrEndBeforeStart
	}
	return nil
}

// ValidateMentoring additionally enforces the minimum mentoring duration.
func (r TimeRange) ValidateMentoring() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Minutes() < MinMentoringMinutes {
		return ErrBlockTooShort
	}
	return nil
}

func (r TimeRange) String() string { return r.Start.String() + "-" + r.End.String() }

// ParseWeekdayName accepts "monday", "Mon", "thu", "thurs" and numeric "0".."6"
// (Sunday=0), or "7" for Sunday.
func ParseWeekdayName(raw string) (time.Weekday, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		switch {
		case n >= 0 && n <= 6:
			return time.Weekday(n), true
		case n == 7:
			return time.Sunday, true
		default:
			return 0, false
		}
	}
	switch s {
	case "sun", "sunday", "u":
		return time.Sunday, true
	case "mon", "monday", "m":
		return time.Monday, true
	case "tue", "tues", "tuesday":
		return time.Tuesday, true
	case "wed", "wednesday", "w":
		return time.Wednesday, true
	case "thu", "thur", "thurs", "thursday", "th", "r":
		return time.Thursday, true
	case "fri", "friday", "f":
		return time.Friday, true
	case "sat", "saturday":
		return time.Saturday, true
	default:
		return 0, false
	}
}
