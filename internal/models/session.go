package models

import "time"

// SessionStatus is the lifecycle state reported by the backend.
type SessionStatus string

const (
	SessionScheduled   SessionStatus = "SCHEDULED"
	SessionRescheduled SessionStatus = "RESCHEDULED"
	SessionCancelled   SessionStatus = "CANCELLED"
	SessionCompleted   SessionStatus = "COMPLETED"
)

// Session is a booked mentoring session.
type Session struct {
	ID        string        `json:"id"`
	CourseID  string        `json:"course_id"`
	MentorID  string        `json:"mentor_id,omitempty"`
	StudentID string        `json:"student_id,omitempty"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Status    SessionStatus `json:"status"`
	Topic     string        `json:"topic,omitempty"`
}

// Active reports whether the session still occupies its time window.
func (s Session) Active() bool {
	return s.Status != SessionCancelled
}

// NotificationEvent names a session lifecycle change pushed to participants.
type NotificationEvent string

const (
	NotifySessionBooked      NotificationEvent = "SESSION_BOOKED"
	NotifySessionRescheduled NotificationEvent = "SESSION_RESCHEDULED"
	NotifySessionCancelled   NotificationEvent = "SESSION_CANCELLED"
)

// Notification is the payload sent to the backend notification endpoint.
type Notification struct {
	Event     NotificationEvent `json:"event"`
	SessionID string            `json:"session_id"`
	CourseID  string            `json:"course_id"`
	ActorID   string            `json:"actor_id"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Message   string            `json:"message,omitempty"`
}
