package scheduling

import (
	"sort"
	"time"
)

// DefaultFixedClosureQuota is how many fixed days a mentor may close per course.
const DefaultFixedClosureQuota = 3

// DateSet is a set of calendar dates.
type DateSet map[DateKey]struct{}

// NewDateSet builds a set from keys.
func NewDateSet(keys ...DateKey) DateSet {
	s := make(DateSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// ParseDateSet parses "YYYY-MM-DD" strings, skipping malformed entries.
func ParseDateSet(raw []string) DateSet {
	s := make(DateSet, len(raw))
	for _, r := range raw {
		if k, err := ParseDateKey(r); err == nil {
			s[k] = struct{}{}
		}
	}
	return s
}

func (s DateSet) Has(d DateKey) bool {
	_, ok := s[d]
	return ok
}

// Clone returns an independent copy.
func (s DateSet) Clone() DateSet {
	out := make(DateSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the deduplicated dates in ascending order.
func (s DateSet) Sorted() []DateKey {
	out := make([]DateKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Strings returns Sorted rendered as "YYYY-MM-DD".
func (s DateSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, k := range sorted {
		out[i] = k.String()
	}
	return out
}

// BlockedRange carves a busy period out of an otherwise open date.
type BlockedRange struct {
	Date  DateKey
	Range TimeRange
}

// Policy is a course's availability as served by the backend.
type Policy struct {
	AllowedDays    WeekdaySet
	OpenDates      DateSet
	ClosedDates    DateSet
	MentoringBlock TimeRange
	BlockedRanges  []BlockedRange
}

// Clone deep-copies the date sets and blocked ranges.
func (p Policy) Clone() Policy {
	out := p
	out.OpenDates = p.OpenDates.Clone()
	out.ClosedDates = p.ClosedDates.Clone()
	out.BlockedRanges = append([]BlockedRange(nil), p.BlockedRanges...)
	return out
}

// BlockedOn returns the blocked sub-ranges for a single date.
func (p Policy) BlockedOn(date DateKey) []TimeRange {
	var out []TimeRange
	for _, b := range p.BlockedRanges {
		if b.Date == date {
			out = append(out, b.Range)
		}
	}
	return out
}

// IsOpen resolves a date: explicit close wins, then explicit open, then the
// weekday default. The sets may overlap in storage; the order keeps the result
// deterministic.
func IsOpen(date DateKey, p Policy) bool {
	if p.ClosedDates.Has(date) {
		return false
	}
	if p.OpenDates.Has(date) {
		return true
	}
	return p.AllowedDays.Has(date.Weekday())
}

// IsFixedDay reports whether the date falls on a default mentoring weekday.
func IsFixedDay(date DateKey, p Policy) bool {
	return p.AllowedDays.Has(date.Weekday())
}

// FixedClosuresUsed counts closed dates that land on fixed weekdays.
func FixedClosuresUsed(p Policy) int {
	n := 0
	for d := range p.ClosedDates {
		if IsFixedDay(d, p) {
			n++
		}
	}
	return n
}

// Guard applies the date rules that sit on top of IsOpen: no past dates, a
// read-only current week, and the fixed-day closure quota.
type Guard struct {
	clock Clock
	loc   *time.Location
	quota int
}

// NewGuard builds a guard. A nil clock uses the wall clock, a nil location the
// process local zone, and a non-positive quota the default of 3.
func NewGuard(clock Clock, loc *time.Location, quota int) *Guard {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	if quota <= 0 {
		quota = DefaultFixedClosureQuota
	}
	return &Guard{clock: clock, loc: loc, quota: quota}
}

// Today returns the local date according to the guard's clock.
func (g *Guard) Today() DateKey { return DateKeyOf(g.clock.Now().In(g.loc)) }

// Location returns the zone used to resolve local dates.
func (g *Guard) Location() *time.Location { return g.loc }

// Quota returns the fixed-day closure limit.
func (g *Guard) Quota() int { return g.quota }

// Selectable is false for dates strictly before today.
func (g *Guard) Selectable(date DateKey) bool {
	return !date.Before(g.Today())
}

// Editable is false for past dates and for any date in the current
// Sunday–Saturday week.
func (g *Guard) Editable(date DateKey) bool {
	return g.checkEditable(date) == nil
}

// QuotaRemaining returns how many fixed days may still be closed.
func (g *Guard) QuotaRemaining(p Policy) int {
	left := g.quota - FixedClosuresUsed(p)
	if left < 0 {
		return 0
	}
	return left
}

// CheckEditable applies the date-only rules (past, current week). It needs no
// policy and runs before anything is fetched.
func (g *Guard) CheckEditable(date DateKey) error {
	if pe := g.checkEditable(date); pe != nil {
		return pe
	}
	return nil
}

func (g *Guard) checkEditable(date DateKey) *PolicyError {
	today := g.Today()
	if date.Before(today) {
		return policyError(ReasonPastDate, date, "date is in the past")
	}
	if InSameWeek(date, today) {
		return policyError(ReasonCurrentWeek, date, "dates in the current week cannot be changed")
	}
	return nil
}

// Open marks a date open. Closed entries are cleared; non-fixed dates gain an
// explicit open.
func (g *Guard) Open(p Policy, date DateKey) (Policy, error) {
	if err := g.checkEditable(date); err != nil {
		return p, err
	}
	if IsOpen(date, p) && !p.ClosedDates.Has(date) {
		return p, policyError(ReasonNoChange, date, "date is already open")
	}
	next := p.Clone()
	delete(next.ClosedDates, date)
	if !IsFixedDay(date, next) {
		next.OpenDates[date] = struct{}{}
	}
	return next, nil
}

// Close marks a date closed. Closing a fixed day consumes one unit of quota;
// closing an explicitly opened non-fixed day only drops the explicit open.
func (g *Guard) Close(p Policy, date DateKey) (Policy, error) {
	if err := g.checkEditable(date); err != nil {
		return p, err
	}
	if !IsOpen(date, p) {
		return p, policyError(ReasonNoChange, date, "date is already closed")
	}
	next := p.Clone()
	if !IsFixedDay(date, next) {
		delete(next.OpenDates, date)
		return next, nil
	}
	if FixedClosuresUsed(p) >= g.quota {
		return p, policyError(ReasonQuotaExceeded, date, "fixed-day closure limit of %d reached", g.quota)
	}
	delete(next.OpenDates, date)
	next.ClosedDates[date] = struct{}{}
	return next, nil
}

// Reopen clears an explicit closure, returning a quota unit when the date is fixed.
func (g *Guard) Reopen(p Policy, date DateKey) (Policy, error) {
	if err := g.checkEditable(date); err != nil {
		return p, err
	}
	if !p.ClosedDates.Has(date) {
		return p, policyError(ReasonNoChange, date, "date is not closed")
	}
	next := p.Clone()
	delete(next.ClosedDates, date)
	return next, nil
}
