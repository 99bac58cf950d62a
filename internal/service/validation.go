package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
)

// NewValidator returns a validator with the scheduling tags registered:
// datekey (YYYY-MM-DD), hhmm (24-hour HH:MM) and month (YYYY-MM).
func NewValidator() *validator.Validate {
	v := validator.New()
	registerSchedulingTags(v)
	return v
}

func registerSchedulingTags(v *validator.Validate) {
	_ = v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		_, err := scheduling.ParseDateKey(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := scheduling.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	})
}

// ensureValidator registers the custom tags on a caller-supplied validator.
func ensureValidator(v *validator.Validate) *validator.Validate {
	if v == nil {
		return NewValidator()
	}
	registerSchedulingTags(v)
	return v
}

func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message).
			WithDetail("fields", strings.Join(fields, ","))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// policyViolation converts a rule refusal into a 422 carrying the reason code.
func policyViolation(err error) error {
	var pe *scheduling.PolicyError
	if !errors.As(err, &pe) {
		return err
	}
	out := appErrors.Clone(appErrors.ErrPolicyViolation, pe.Message).
		WithDetail("reason", string(pe.Reason))
	if !pe.Date.IsZero() {
		out = out.WithDetail("date", pe.Date.String())
	}
	return out
}
