package scheduling

import (
	"iter"
	"time"
)

const (
	// DefaultStep is the booking granularity.
	DefaultStep = 15 * time.Minute
	// DefaultLeadTime is the minimum notice for booking, rescheduling or cancelling.
	DefaultLeadTime = 24 * time.Hour
)

// NoSlotsReason explains an empty slot list.
type NoSlotsReason string

const (
	NoSlotsPolicy      NoSlotsReason = "NO_SLOTS_POLICY"
	NoSlotsOwnConflict NoSlotsReason = "NO_SLOTS_OWN_CONFLICT"
)

// Window is an absolute busy interval, typically one of the viewer's own sessions.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open semantics on absolute instants.
func (w Window) Overlaps(start, end time.Time) bool {
	return w.Start.Before(end) && start.Before(w.End)
}

// SlotRequest carries everything needed to enumerate start times for one date.
type SlotRequest struct {
	Date     DateKey
	Location *time.Location
	Block    TimeRange
	Duration time.Duration
	Step     time.Duration
	Blocked  []TimeRange
	MinLead  time.Duration
	Now      time.Time
	Busy     []Window
}

type verdict int

const (
	accepted verdict = iota
	rejectedPolicy
	rejectedConflict
)

func (r SlotRequest) normalized() SlotRequest {
	if r.Step <= 0 {
		r.Step = DefaultStep
	}
	if r.MinLead < 0 {
		r.MinLead = 0
	}
	if r.Location == nil {
		r.Location = time.Local
	}
	return r
}

func (r SlotRequest) minutes(d time.Duration) int { return int(d / time.Minute) }

// candidates yields every start time whose slot fits in the block, with its verdict.
func (r SlotRequest) candidates() iter.Seq2[TimeOfDay, verdict] {
	r = r.normalized()
	dur := r.minutes(r.Duration)
	step := r.minutes(r.Step)
	return func(yield func(TimeOfDay, verdict) bool) {
		if dur <= 0 || step <= 0 || r.Block.Validate() != nil {
			return
		}
		earliest := r.Now.Add(r.MinLead)
		for t := r.Block.Start; t.Add(dur) <= r.Block.End; t = t.Add(step) {
			if !yield(t, r.judge(t, dur, earliest)) {
				return
			}
		}
	}
}

func (r SlotRequest) judge(t TimeOfDay, dur int, earliest time.Time) verdict {
	slot := TimeRange{Start: t, End: t.Add(dur)}
	for _, b := range r.Blocked {
		if slot.Overlaps(b) {
			return rejectedPolicy
		}
	}
	start := t.On(r.Date, r.Location)
	if start.Before(earliest) {
		return rejectedPolicy
	}
	end := start.Add(time.Duration(dur) * time.Minute)
	for _, w := range r.Busy {
		if w.Overlaps(start, end) {
			return rejectedConflict
		}
	}
	return accepted
}

// Slots lazily yields bookable start times in ascending order. The sequence is
// finite and may be ranged over more than once.
func Slots(req SlotRequest) iter.Seq[TimeOfDay] {
	cands := req.candidates()
	return func(yield func(TimeOfDay) bool) {
		for t, v := range cands {
			if v != accepted {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// SlotResult is the eager form of Slots plus rejection counts.
type SlotResult struct {
	Slots              []TimeOfDay
	Candidates         int
	RejectedByPolicy   int
	RejectedByConflict int
}

// Reason reports why no slot survived. It is empty when slots exist. Own-session
// conflicts are reported only when they alone emptied the list.
func (r SlotResult) Reason() NoSlotsReason {
	if len(r.Slots) > 0 {
		return ""
	}
	if r.RejectedByConflict > 0 {
		return NoSlotsOwnConflict
	}
	return NoSlotsPolicy
}

// Generate collects Slots and counts why candidates were rejected.
func Generate(req SlotRequest) SlotResult {
	var res SlotResult
	for t, v := range req.candidates() {
		res.Candidates++
		switch v {
		case accepted:
			res.Slots = append(res.Slots, t)
		case rejectedPolicy:
			res.RejectedByPolicy++
		case rejectedConflict:
			res.RejectedByConflict++
		}
	}
	return res
}
