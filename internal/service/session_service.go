package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/backend"
	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
)

type sessionBackend interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	CreateSession(ctx context.Context, input backend.CreateSessionInput) (*models.Session, error)
	RescheduleSession(ctx context.Context, sessionID string, input backend.RescheduleSessionInput) (*models.Session, error)
	CancelSession(ctx context.Context, sessionID string, input backend.CancelSessionInput) (*models.Session, error)
}

type sessionNotifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// SessionService books, moves and cancels mentoring sessions. Every booking
// must land on a slot the slot service would offer.
type SessionService struct {
	backend   sessionBackend
	slots     *SlotService
	notifier  sessionNotifier
	clock     scheduling.Clock
	validator *validator.Validate
	logger    *zap.Logger
	leadTime  time.Duration
}

// NewSessionService constructs the session service.
func NewSessionService(client sessionBackend, slots *SlotService, notifier sessionNotifier, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		backend:   client,
		slots:     slots,
		notifier:  notifier,
		clock:     slots.clock,
		validator: ensureValidator(validate),
		logger:    logger,
		leadTime:  slots.cfg.LeadTime,
	}
}

// Book creates a session on a generated slot.
func (s *SessionService) Book(ctx context.Context, req dto.BookSessionRequest, actor models.Actor) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid booking")
	}
	date, _ := scheduling.ParseDateKey(req.Date)
	start, _ := scheduling.ParseTimeOfDay(req.Start)
	duration := s.slots.duration(req.DurationMinutes)
	ctx = withActor(ctx, actor)

	if err := s.slots.admit(ctx, req.CourseID, date, start, duration, ""); err != nil {
		return nil, err
	}

	begin := start.On(date, s.slots.guard.Location())
	session, err := s.backend.CreateSession(ctx, backend.CreateSessionInput{
		CourseID: req.CourseID,
		Start:    begin,
		End:      begin.Add(duration),
		Topic:    req.Topic,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("session booked",
		zap.String("session_id", session.ID),
		zap.String("course_id", session.CourseID),
		zap.String("actor_id", actor.ID),
		zap.Time("start", session.Start),
	)
	s.notify(ctx, models.NotifySessionBooked, session, actor, "")
	return session, nil
}

// Reschedule moves a session to another slot. Both the current and the new
// start must respect the lead time.
func (s *SessionService) Reschedule(ctx context.Context, sessionID string, req dto.RescheduleSessionRequest, actor models.Actor) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid reschedule request")
	}
	ctx = withActor(ctx, actor)
	current, err := s.changeable(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	date, _ := scheduling.ParseDateKey(req.Date)
	start, _ := scheduling.ParseTimeOfDay(req.Start)
	duration := current.End.Sub(current.Start)
	if err := s.slots.admit(ctx, current.CourseID, date, start, duration, current.ID); err != nil {
		return nil, err
	}

	begin := start.On(date, s.slots.guard.Location())
	session, err := s.backend.RescheduleSession(ctx, sessionID, backend.RescheduleSessionInput{
		Start: begin,
		End:   begin.Add(duration),
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, models.NotifySessionRescheduled, session, actor,
		fmt.Sprintf("moved from %s", current.Start.In(s.slots.guard.Location()).Format("2006-01-02 15:04")))
	return session, nil
}

// Cancel cancels a session that is still outside the lead-time window.
func (s *SessionService) Cancel(ctx context.Context, sessionID string, req dto.CancelSessionRequest, actor models.Actor) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid cancel request")
	}
	ctx = withActor(ctx, actor)
	if _, err := s.changeable(ctx, sessionID); err != nil {
		return nil, err
	}
	session, err := s.backend.CancelSession(ctx, sessionID, backend.CancelSessionInput{Reason: req.Reason})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, models.NotifySessionCancelled, session, actor, req.Reason)
	return session, nil
}

func (s *SessionService) changeable(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session id is required")
	}
	current, err := s.backend.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !current.Active() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "session is already cancelled")
	}
	if current.Start.Before(s.clock.Now().Add(s.leadTime)) {
		return nil, policyViolation(&scheduling.PolicyError{
			Reason:  scheduling.ReasonLeadTime,
			Date:    scheduling.DateKeyOf(current.Start.In(s.slots.guard.Location())),
			Message: fmt.Sprintf("sessions can only be changed at least %s before they start", s.leadTime),
		})
	}
	return current, nil
}

func (s *SessionService) notify(ctx context.Context, event models.NotificationEvent, session *models.Session, actor models.Actor, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.Notification{
		Event:     event,
		SessionID: session.ID,
		CourseID:  session.CourseID,
		ActorID:   actor.ID,
		Start:     session.Start,
		End:       session.End,
		Message:   message,
	})
}
