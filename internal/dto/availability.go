package dto

// DateActionRequest targets one calendar date for open, close or reopen.
type DateActionRequest struct {
	Date string `json:"date" validate:"required,datekey"`
}

// MentoringBlockRequest replaces the course mentoring block.
type MentoringBlockRequest struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

// CalendarQuery selects a month grid.
type CalendarQuery struct {
	Month string `form:"month" validate:"omitempty,month"`
}

// ExportQuery selects a month grid and output format.
type ExportQuery struct {
	Month  string `form:"month" validate:"omitempty,month"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// SchedulePreviewQuery resolves a raw course schedule into its defaults.
type SchedulePreviewQuery struct {
	Days    string `form:"days"`
	Time    string `form:"time"`
	Section string `form:"section"`
}

// AuditQuery filters the availability audit feed.
type AuditQuery struct {
	CourseID string `form:"course_id"`
	ActorID  string `form:"actor_id"`
	Action   string `form:"action" validate:"omitempty,oneof=OPEN_DATE CLOSE_DATE REOPEN_DATE UPDATE_MENTORING_BLOCK"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}
