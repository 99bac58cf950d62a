package models

import (
	"encoding/json"
	"time"
)

// AuditAction names a recorded availability mutation.
type AuditAction string

const (
	AuditActionOpenDate             AuditAction = "OPEN_DATE"
	AuditActionCloseDate            AuditAction = "CLOSE_DATE"
	AuditActionReopenDate           AuditAction = "REOPEN_DATE"
	AuditActionUpdateMentoringBlock AuditAction = "UPDATE_MENTORING_BLOCK"
)

// AvailabilityAuditLog is one row of availability_audit_logs.
type AvailabilityAuditLog struct {
	ID         string          `db:"id" json:"id"`
	CourseID   string          `db:"course_id" json:"course_id"`
	ActorID    string          `db:"actor_id" json:"actor_id"`
	ActorRole  UserRole        `db:"actor_role" json:"actor_role"`
	Action     AuditAction     `db:"action" json:"action"`
	TargetDate *time.Time      `db:"target_date" json:"target_date,omitempty"`
	OldValues  json.RawMessage `db:"old_values" json:"old_values,omitempty"`
	NewValues  json.RawMessage `db:"new_values" json:"new_values,omitempty"`
	RequestID  string          `db:"request_id" json:"request_id,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// AuditFilter narrows audit listings.
type AuditFilter struct {
	CourseID string
	ActorID  string
	Action   AuditAction
	Page     int
	PageSize int
}
