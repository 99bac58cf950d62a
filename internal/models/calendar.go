package models

// CalendarCell is one day of the month grid.
type CalendarCell struct {
	Date         string `json:"date"`
	Day          int    `json:"day"`
	Weekday      string `json:"weekday"`
	InMonth      bool   `json:"in_month"`
	Open         bool   `json:"open"`
	Fixed        bool   `json:"fixed"`
	ExplicitOpen bool   `json:"explicit_open"`
	Closed       bool   `json:"closed"`
	Selectable   bool   `json:"selectable"`
	Editable     bool   `json:"editable"`
	Today        bool   `json:"today"`
}

// CalendarMonth is a Sunday-first grid covering a whole month.
type CalendarMonth struct {
	CourseID       string            `json:"course_id"`
	Month          string            `json:"month"`
	Today          string            `json:"today"`
	Weeks          [][]CalendarCell  `json:"weeks"`
	MentoringBlock TimeBlock         `json:"mentoring_block"`
	FixedClosures  FixedClosureQuota `json:"fixed_closures"`
}
