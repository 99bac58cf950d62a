package service

import (
	"context"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
	"github.com/noah-isme/mentor-scheduling-api/pkg/tracing"
)

type sessionLister interface {
	ListMySessions(ctx context.Context, from, to time.Time) ([]models.Session, error)
}

// SlotConfig carries the slot generation constants.
type SlotConfig struct {
	Step            time.Duration
	LeadTime        time.Duration
	DefaultDuration time.Duration
}

// SlotService lists bookable start times for a course date.
type SlotService struct {
	policies  policyResolver
	sessions  sessionLister
	guard     *scheduling.Guard
	clock     scheduling.Clock
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SlotConfig
}

// NewSlotService constructs the slot service.
func NewSlotService(policies policyResolver, sessions sessionLister, guard *scheduling.Guard, clock scheduling.Clock, validate *validator.Validate, logger *zap.Logger, cfg SlotConfig) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = scheduling.SystemClock{}
	}
	if cfg.Step <= 0 {
		cfg.Step = scheduling.DefaultStep
	}
	if cfg.LeadTime <= 0 {
		cfg.LeadTime = scheduling.DefaultLeadTime
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 30 * time.Minute
	}
	return &SlotService{
		policies:  policies,
		sessions:  sessions,
		guard:     guard,
		clock:     clock,
		validator: ensureValidator(validate),
		logger:    logger,
		cfg:       cfg,
	}
}

// List returns the slots of one date. A past or closed date yields an empty
// list with the reason set rather than an error.
func (s *SlotService) List(ctx context.Context, courseID string, query dto.SlotQuery, actor models.Actor) (*models.SlotList, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err, "invalid slot query")
	}
	date, _ := scheduling.ParseDateKey(query.Date)
	duration := s.duration(query.DurationMinutes)
	ctx = withActor(ctx, actor)

	out := &models.SlotList{
		CourseID:        courseID,
		Date:            date.String(),
		DurationMinutes: int(duration / time.Minute),
		Slots:           []models.SlotOption{},
	}

	resolved, _, err := s.policies.Resolve(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if reason := s.dateReason(resolved.Rules, date); reason != "" {
		out.Reason = string(reason)
		return out, nil
	}

	result, err := s.evaluate(ctx, resolved.Rules, date, duration, "")
	if err != nil {
		return nil, err
	}
	for _, t := range result.Slots {
		out.Slots = append(out.Slots, models.SlotOption{
			Start: t.String(),
			End:   t.Add(out.DurationMinutes).String(),
			Label: t.Format12h(),
		})
	}
	out.Reason = string(result.Reason())
	out.Candidates = result.Candidates
	out.RejectedByPolicy = result.RejectedByPolicy
	out.RejectedByConflict = result.RejectedByConflict
	return out, nil
}

// admit checks that start is one of the generated slots. excludeSession keeps
// a session being moved from conflicting with itself.
func (s *SlotService) admit(ctx context.Context, courseID string, date scheduling.DateKey, start scheduling.TimeOfDay, duration time.Duration, excludeSession string) error {
	resolved, _, err := s.policies.Resolve(ctx, courseID)
	if err != nil {
		return err
	}
	if reason := s.dateReason(resolved.Rules, date); reason != "" {
		return policyViolation(&scheduling.PolicyError{Reason: reason, Date: date, Message: "date is not bookable"})
	}
	result, err := s.evaluate(ctx, resolved.Rules, date, duration, excludeSession)
	if err != nil {
		return err
	}
	if !slices.Contains(result.Slots, start) {
		return policyViolation(&scheduling.PolicyError{
			Reason:  scheduling.ReasonSlotTaken,
			Date:    date,
			Message: "requested start " + start.String() + " is not an available slot",
		})
	}
	return nil
}

func (s *SlotService) dateReason(rules scheduling.Policy, date scheduling.DateKey) scheduling.Reason {
	if !s.guard.Selectable(date) {
		return scheduling.ReasonPastDate
	}
	if !scheduling.IsOpen(date, rules) {
		return scheduling.ReasonClosedDate
	}
	return ""
}

func (s *SlotService) evaluate(ctx context.Context, rules scheduling.Policy, date scheduling.DateKey, duration time.Duration, excludeSession string) (scheduling.SlotResult, error) {
	loc := s.guard.Location()
	dayStart := date.In(loc)
	sessions, err := s.sessions.ListMySessions(ctx, dayStart, date.AddDays(1).In(loc))
	if err != nil {
		return scheduling.SlotResult{}, err
	}
	busy := make([]scheduling.Window, 0, len(sessions))
	for _, sess := range sessions {
		if !sess.Active() || sess.ID == excludeSession {
			continue
		}
		busy = append(busy, scheduling.Window{Start: sess.Start, End: sess.End})
	}

	_, span := tracing.Tracer("slots").Start(ctx, "slots.generate", trace.WithAttributes(
		attribute.String("slots.date", date.String()),
		attribute.Int("slots.busy", len(busy)),
		attribute.Int64("slots.duration_minutes", int64(duration/time.Minute)),
	))
	defer span.End()

	return scheduling.Generate(scheduling.SlotRequest{
		Date:     date,
		Location: loc,
		Block:    rules.MentoringBlock,
		Duration: duration,
		Step:     s.cfg.Step,
		Blocked:  rules.BlockedOn(date),
		MinLead:  s.cfg.LeadTime,
		Now:      s.clock.Now(),
		Busy:     busy,
	}), nil
}

func (s *SlotService) duration(minutes int) time.Duration {
	if minutes <= 0 {
		return s.cfg.DefaultDuration
	}
	return time.Duration(minutes) * time.Minute
}
