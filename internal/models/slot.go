package models

// SlotOption is one bookable start time.
type SlotOption struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// SlotList answers "when can I book on this date".
type SlotList struct {
	CourseID           string       `json:"course_id"`
	Date               string       `json:"date"`
	DurationMinutes    int          `json:"duration_minutes"`
	Slots              []SlotOption `json:"slots"`
	Reason             string       `json:"reason,omitempty"`
	Candidates         int          `json:"candidates"`
	RejectedByPolicy   int          `json:"rejected_by_policy"`
	RejectedByConflict int          `json:"rejected_by_conflict"`
}

// SchedulePreview shows how a course schedule string resolves into defaults.
type SchedulePreview struct {
	Days           string     `json:"days"`
	ClassDays      []string   `json:"class_days"`
	DayCode        string     `json:"day_code"`
	PresetDays     []string   `json:"preset_days"`
	ClassTime      *TimeBlock `json:"class_time,omitempty"`
	Section        string     `json:"section"`
	MentoringBlock TimeBlock  `json:"mentoring_block"`
}
