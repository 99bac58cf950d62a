package scheduling

import (
	"errors"
	"fmt"
)

var (
	ErrTimeOutOfRange = errors.New("time of day out of range")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrBlockTooShort  = fmt.Errorf("mentoring block must be at least %d minutes", MinMentoringMinutes)
)

// Reason classifies why a policy action was refused.
type Reason string

const (
	ReasonPastDate      Reason = "PAST_DATE"
	ReasonCurrentWeek   Reason = "CURRENT_WEEK"
	ReasonQuotaExceeded Reason = "FIXED_CLOSURE_QUOTA"
	ReasonNoChange      Reason = "NO_CHANGE"
	ReasonClosedDate    Reason = "DATE_CLOSED"
	ReasonLeadTime      Reason = "LEAD_TIME"
	ReasonSlotTaken     Reason = "SLOT_UNAVAILABLE"
)

// PolicyError is returned when an action violates an availability rule. It is
// raised before any network call.
type PolicyError struct {
	Reason  Reason
	Date    DateKey
	Message string
}

func (e *PolicyError) Error() string {
	if e.Date.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Date, e.Message)
}

func policyError(reason Reason, date DateKey, format string, args ...any) *PolicyError {
	return &PolicyError{Reason: reason, Date: date, Message: fmt.Sprintf(format, args...)}
}

// IsPolicyError reports whether err is a *PolicyError with the given reason.
// An empty reason matches any policy error.
func IsPolicyError(err error, reason Reason) bool {
	var pe *PolicyError
	if !errors.As(err, &pe) {
		return false
	}
	return reason == "" || pe.Reason == reason
}
