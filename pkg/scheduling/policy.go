package scheduling

import (
	"strings"
	"time"
)

// MinMentoringMinutes is the shortest mentoring block a course may configure.
const MinMentoringMinutes = 75

var (
	classMWF = NewWeekdaySet(time.Monday, time.Wednesday, time.Friday)
	classTS  = NewWeekdaySet(time.Thursday, time.Saturday)
	classTTS = NewWeekdaySet(time.Tuesday, time.Thursday, time.Saturday)

	// PresetWedFri and PresetThuSat are the two canonical mentoring-day patterns.
	PresetWedFri = NewWeekdaySet(time.Wednesday, time.Friday)
	PresetThuSat = NewWeekdaySet(time.Thursday, time.Saturday)
)

// DefaultPreset maps a class-day pattern to its default mentoring days.
// Any other pattern has no fixed days; only explicit opens apply.
func DefaultPreset(classDays WeekdaySet) WeekdaySet {
	switch classDays {
	case classMWF:
		return PresetWedFri
	case classTS, classTTS:
		return PresetThuSat
	default:
		return 0
	}
}

var (
	afternoonStart = TimeOfDay(13*60 + 15)
	eveningStart   = TimeOfDay(18*60 + 15)
	morningStart   = TimeOfDay(7 * 60)
)

// SectionDefaultStart picks the mentoring start band from the section code's
// first letter: H or B → 13:15, S → 18:15, anything else → 07:00.
func SectionDefaultStart(section string) TimeOfDay {
	s := strings.ToUpper(strings.TrimSpace(section))
	if s == "" {
		return morningStart
	}
	switch s[0] {
	case 'H', 'B':
		return afternoonStart
	case 'S':
		return eveningStart
	default:
		return morningStart
	}
}

// DefaultMentoringBlock resolves the mentoring block for a course. The first
// valid override (course-level block, then course-level default) wins; the
// section heuristic is only a fallback.
func DefaultMentoringBlock(section string, overrides ...*TimeRange) TimeRange {
	for _, o := range overrides {
		if o != nil && o.ValidateMentoring() == nil {
			return *o
		}
	}
	start := SectionDefaultStart(section)
	return TimeRange{Start: start, End: start.Add(MinMentoringMinutes)}
}
