package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
)

const monthLayout = "2006-01"

type policyResolver interface {
	Resolve(ctx context.Context, courseID string) (*ResolvedPolicy, bool, error)
}

// CalendarService renders the month grid shown to mentors and students.
type CalendarService struct {
	policies  policyResolver
	guard     *scheduling.Guard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the calendar service.
func NewCalendarService(policies policyResolver, guard *scheduling.Guard, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{policies: policies, guard: guard, validator: ensureValidator(validate), logger: logger}
}

// Month builds a Sunday-first grid for the requested month, defaulting to the
// current one. Leading and trailing days from adjacent months fill whole weeks.
func (s *CalendarService) Month(ctx context.Context, courseID string, query dto.CalendarQuery) (*models.CalendarMonth, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, validationError(err, "invalid month")
	}
	resolved, hit, err := s.policies.Resolve(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	today := s.guard.Today()
	year, month := today.Year(), today.Month()
	if query.Month != "" {
		parsed, _ := time.Parse(monthLayout, query.Month)
		year, month = parsed.Year(), parsed.Month()
	}

	first := scheduling.DateKeyOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	last := scheduling.DateKeyOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
	start := first.AddDays(-int(first.Weekday()))
	end := last.AddDays(int(time.Saturday - last.Weekday()))

	rules := resolved.Rules
	var weeks [][]models.CalendarCell
	week := make([]models.CalendarCell, 0, 7)
	for d := start; !d.After(end); d = d.AddDays(1) {
		week = append(week, s.cell(rules, d, month, today))
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]models.CalendarCell, 0, 7)
		}
	}

	return &models.CalendarMonth{
		CourseID:       courseID,
		Month:          first.In(time.UTC).Format(monthLayout),
		Today:          today.String(),
		Weeks:          weeks,
		MentoringBlock: resolved.View.MentoringBlock,
		FixedClosures:  resolved.View.FixedClosures,
	}, hit, nil
}

func (s *CalendarService) cell(rules scheduling.Policy, d scheduling.DateKey, month time.Month, today scheduling.DateKey) models.CalendarCell {
	closed := rules.ClosedDates.Has(d)
	return models.CalendarCell{
		Date:         d.String(),
		Day:          d.Day(),
		Weekday:      d.WeekdayName(),
		InMonth:      d.Month() == month,
		Open:         scheduling.IsOpen(d, rules),
		Fixed:        scheduling.IsFixedDay(d, rules),
		ExplicitOpen: rules.OpenDates.Has(d) && !closed,
		Closed:       closed,
		Selectable:   s.guard.Selectable(d),
		Editable:     s.guard.Editable(d),
		Today:        d == today,
	}
}
