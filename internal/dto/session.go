package dto

// SlotQuery asks for bookable start times on one date.
type SlotQuery struct {
	Date            string `form:"date" validate:"required,datekey"`
	DurationMinutes int    `form:"duration" validate:"omitempty,min=15,max=240"`
}

// BookSessionRequest books a slot returned by the slot listing.
type BookSessionRequest struct {
	CourseID        string `json:"courseId" validate:"required"`
	Date            string `json:"date" validate:"required,datekey"`
	Start           string `json:"start" validate:"required,hhmm"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=15,max=240"`
	Topic           string `json:"topic" validate:"omitempty,max=200"`
}

// RescheduleSessionRequest moves a session to another slot of the same course.
type RescheduleSessionRequest struct {
	Date  string `json:"date" validate:"required,datekey"`
	Start string `json:"start" validate:"required,hhmm"`
}

// CancelSessionRequest cancels a session.
type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}
