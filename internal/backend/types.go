package backend

import "time"

// TimeBlock is the backend's "HH:MM" pair.
type TimeBlock struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CourseSchedule is the class meeting pattern, e.g. {"days":"MWF","time":"1:15-2:30pm"}.
type CourseSchedule struct {
	Days string `json:"days"`
	Time string `json:"time"`
}

// Course is the read-only course metadata.
type Course struct {
	ID                    string         `json:"id"`
	SubjectCode           string         `json:"subjectCode"`
	Section               string         `json:"section"`
	MentorID              string         `json:"mentorId,omitempty"`
	Schedule              CourseSchedule `json:"schedule"`
	MentoringBlock        *TimeBlock     `json:"mentoringBlock,omitempty"`
	DefaultMentoringBlock *TimeBlock     `json:"defaultMentoringBlock,omitempty"`
}

// BlockedRange is a mentor-declared busy range on one date.
type BlockedRange struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability is the stored per-course policy.
type Availability struct {
	AllowedDays    []string       `json:"allowedDays,omitempty"`
	OpenDates      []string       `json:"openDates"`
	ClosedDates    []string       `json:"closedDates"`
	MentoringBlock *TimeBlock     `json:"mentoringBlock,omitempty"`
	BlockedRanges  []BlockedRange `json:"blockedRanges,omitempty"`
}

// PatchField names one of the two date lists in an availability patch.
type PatchField string

const (
	FieldOpenDates   PatchField = "openDates"
	FieldClosedDates PatchField = "closedDates"
)

// AvailabilityPatch is the full PATCH body. Both lists must be deduplicated and sorted.
type AvailabilityPatch struct {
	OpenDates   []string `json:"openDates"`
	ClosedDates []string `json:"closedDates"`
}

// reduced keeps only the list that the action changed.
func (p AvailabilityPatch) reduced(field PatchField) map[PatchField][]string {
	list := p.OpenDates
	if field == FieldClosedDates {
		list = p.ClosedDates
	}
	if list == nil {
		list = []string{}
	}
	return map[PatchField][]string{field: list}
}

// Session is the backend representation of a booked session.
type Session struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	MentorID  string    `json:"mentorId,omitempty"`
	StudentID string    `json:"studentId,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	Topic     string    `json:"topic,omitempty"`
}

// CreateSessionInput books a new session.
type CreateSessionInput struct {
	CourseID string    `json:"courseId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Topic    string    `json:"topic,omitempty"`
}

// RescheduleSessionInput moves an existing session.
type RescheduleSessionInput struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CancelSessionInput cancels an existing session.
type CancelSessionInput struct {
	Reason string `json:"reason,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
