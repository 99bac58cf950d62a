package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2024-06-12, 10:00 UTC. Current week is 2024-06-09..2024-06-15.
var guardNow = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

func newTestGuard() *Guard {
	return NewGuard(FixedClock(guardNow), time.UTC, 3)
}

func wedFriPolicy() Policy {
	return Policy{
		AllowedDays:    PresetWedFri,
		OpenDates:      NewDateSet(),
		ClosedDates:    NewDateSet(),
		MentoringBlock: TimeRange{Start: MustTimeOfDay("13:15"), End: MustTimeOfDay("14:30")},
	}
}

func TestIsOpenPrecedence(t *testing.T) {
	wed := MustDateKey("2024-06-19")
	tue := MustDateKey("2024-06-18")

	p := wedFriPolicy()
	assert.True(t, IsOpen(wed, p))
	assert.False(t, IsOpen(tue, p))

	p.OpenDates = NewDateSet(tue)
	assert.True(t, IsOpen(tue, p))

	// closed wins even when the date is also explicitly open
	p.ClosedDates = NewDateSet(tue, wed)
	p.OpenDates = NewDateSet(tue, wed)
	assert.False(t, IsOpen(tue, p))
	assert.False(t, IsOpen(wed, p))
	assert.Equal(t, IsOpen(tue, p), IsOpen(tue, p))
}

func TestIsOpenProperties(t *testing.T) {
	start := MustDateKey("2024-01-01")
	p := Policy{
		AllowedDays: PresetThuSat,
		OpenDates:   NewDateSet(),
		ClosedDates: NewDateSet(),
	}
	for i := 0; i < 60; i++ {
		d := start.AddDays(i)
		switch i % 3 {
		case 0:
			p.ClosedDates[d] = struct{}{}
		case 1:
			p.OpenDates[d] = struct{}{}
		}
		if i%6 == 0 {
			p.OpenDates[d] = struct{}{}
		}
	}
	for i := 0; i < 60; i++ {
		d := start.AddDays(i)
		if p.ClosedDates.Has(d) {
			assert.False(t, IsOpen(d, p), d.String())
			continue
		}
		if p.OpenDates.Has(d) {
			assert.True(t, IsOpen(d, p), d.String())
			continue
		}
		assert.Equal(t, p.AllowedDays.Has(d.Weekday()), IsOpen(d, p), d.String())
	}
}

func TestDateSetSorted(t *testing.T) {
	s := ParseDateSet([]string{"2024-06-21", "2024-06-19", "bad", "2024-06-19", "2023-12-31"})
	assert.Equal(t, []string{"2023-12-31", "2024-06-19", "2024-06-21"}, s.Strings())
}

func TestGuardSelectableAndEditable(t *testing.T) {
	g := newTestGuard()
	assert.Equal(t, "2024-06-12", g.Today().String())

	assert.False(t, g.Selectable(MustDateKey("2024-06-11")))
	assert.True(t, g.Selectable(MustDateKey("2024-06-12")))
	assert.True(t, g.Selectable(MustDateKey("2024-06-14")))

	assert.False(t, g.Editable(MustDateKey("2024-06-11")))
	assert.False(t, g.Editable(MustDateKey("2024-06-12")))
	assert.False(t, g.Editable(MustDateKey("2024-06-15")))
	assert.True(t, g.Editable(MustDateKey("2024-06-16")))
}

func TestGuardTodayUsesLocation(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	// 20:00 UTC Saturday is already Sunday in UTC+8.
	g := NewGuard(FixedClock(time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)), manila, 0)
	assert.Equal(t, "2024-06-16", g.Today().String())
	assert.Equal(t, DefaultFixedClosureQuota, g.Quota())
}

func TestGuardRejectsCurrentWeek(t *testing.T) {
	g := newTestGuard()
	p := wedFriPolicy()
	fri := MustDateKey("2024-06-14")

	_, err := g.Close(p, fri)
	require.Error(t, err)
	assert.True(t, IsPolicyError(err, ReasonCurrentWeek))

	// state does not matter: an already-closed or explicitly opened date is just as frozen
	p.ClosedDates = NewDateSet(fri)
	_, err = g.Reopen(p, fri)
	assert.True(t, IsPolicyError(err, ReasonCurrentWeek))
	_, err = g.Open(p, MustDateKey("2024-06-13"))
	assert.True(t, IsPolicyError(err, ReasonCurrentWeek))

	_, err = g.Close(p, MustDateKey("2024-06-05"))
	assert.True(t, IsPolicyError(err, ReasonPastDate))
}

func TestGuardFixedClosureQuota(t *testing.T) {
	g := newTestGuard()
	p := wedFriPolicy()

	var err error
	for _, raw := range []string{"2024-06-19", "2024-06-21", "2024-06-26"} {
		p, err = g.Close(p, MustDateKey(raw))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, FixedClosuresUsed(p))
	assert.Equal(t, 0, g.QuotaRemaining(p))

	fourth := MustDateKey("2024-06-28")
	_, err = g.Close(p, fourth)
	require.Error(t, err)
	assert.True(t, IsPolicyError(err, ReasonQuotaExceeded))

	p, err = g.Reopen(p, MustDateKey("2024-06-19"))
	require.NoError(t, err)
	assert.Equal(t, 2, FixedClosuresUsed(p))

	p, err = g.Close(p, fourth)
	require.NoError(t, err)
	assert.False(t, IsOpen(fourth, p))
	assert.Equal(t, 3, FixedClosuresUsed(p))
}

func TestGuardExplicitOpenDoesNotUseQuota(t *testing.T) {
	g := newTestGuard()
	p := wedFriPolicy()
	tue := MustDateKey("2024-06-18")

	opened, err := g.Open(p, tue)
	require.NoError(t, err)
	assert.True(t, IsOpen(tue, opened))
	assert.True(t, opened.OpenDates.Has(tue))
	assert.False(t, p.OpenDates.Has(tue), "input policy must not change")

	closed, err := g.Close(opened, tue)
	require.NoError(t, err)
	assert.False(t, IsOpen(tue, closed))
	assert.False(t, closed.OpenDates.Has(tue))
	assert.False(t, closed.ClosedDates.Has(tue))
	assert.Equal(t, 0, FixedClosuresUsed(closed))
}

func TestGuardNoChange(t *testing.T) {
	g := newTestGuard()
	p := wedFriPolicy()
	wed := MustDateKey("2024-06-19")
	tue := MustDateKey("2024-06-18")

	_, err := g.Open(p, wed)
	assert.True(t, IsPolicyError(err, ReasonNoChange))
	_, err = g.Close(p, tue)
	assert.True(t, IsPolicyError(err, ReasonNoChange))
	_, err = g.Reopen(p, wed)
	assert.True(t, IsPolicyError(err, ReasonNoChange))
}

func TestGuardOpenClearsClosedFixedDay(t *testing.T) {
	g := newTestGuard()
	p := wedFriPolicy()
	wed := MustDateKey("2024-06-19")
	p.ClosedDates = NewDateSet(wed)

	next, err := g.Open(p, wed)
	require.NoError(t, err)
	assert.True(t, IsOpen(wed, next))
	assert.False(t, next.ClosedDates.Has(wed))
	assert.False(t, next.OpenDates.Has(wed))
	assert.True(t, p.ClosedDates.Has(wed))
}

func TestPolicyBlockedOn(t *testing.T) {
	wed := MustDateKey("2024-06-19")
	r := TimeRange{Start: MustTimeOfDay("13:30"), End: MustTimeOfDay("14:00")}
	p := wedFriPolicy()
	p.BlockedRanges = []BlockedRange{{Date: wed, Range: r}, {Date: wed.AddDays(2), Range: r}}
	assert.Equal(t, []TimeRange{r}, p.BlockedOn(wed))
	assert.Empty(t, p.BlockedOn(wed.AddDays(1)))
}
