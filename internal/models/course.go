package models

// TimeBlock is a 24-hour "HH:MM" start/end pair as exchanged with clients.
type TimeBlock struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BlockedRange is a busy sub-range inside an open date.
type BlockedRange struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// FixedClosureQuota reports how many fixed days have been closed for a course.
type FixedClosureQuota struct {
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// CoursePolicy is the resolved availability policy of one course. It is the
// cached unit and the body of every availability response.
type CoursePolicy struct {
	CourseID       string            `json:"course_id"`
	SubjectCode    string            `json:"subject_code"`
	Section        string            `json:"section"`
	ClassDays      string            `json:"class_days"`
	AllowedDays    []string          `json:"allowed_days"`
	DayCode        string            `json:"day_code"`
	AllowedSource  string            `json:"allowed_source"`
	OpenDates      []string          `json:"open_dates"`
	ClosedDates    []string          `json:"closed_dates"`
	MentoringBlock TimeBlock         `json:"mentoring_block"`
	BlockSource    string            `json:"block_source"`
	BlockedRanges  []BlockedRange    `json:"blocked_ranges,omitempty"`
	FixedClosures  FixedClosureQuota `json:"fixed_closures"`
}

// Sources reported in CoursePolicy.
const (
	SourceBackend        = "backend"
	SourcePreset         = "preset"
	SourceCourseDefault  = "course_default"
	SourceSectionDefault = "section_default"
)
