package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
)

func TestSessionBookOnGeneratedSlot(t *testing.T) {
	fx := newBookingFixture(t)

	session, err := fx.sessions.Book(context.Background(), dto.BookSessionRequest{
		CourseID: "c-1",
		Date:     "2024-06-14",
		Start:    "13:15",
		Topic:    "recursion",
	}, student())
	require.NoError(t, err)
	assert.True(t, session.Start.Equal(at(14, 13, 15)))
	assert.True(t, session.End.Equal(at(14, 13, 45)))

	require.Len(t, fx.backend.created, 1)
	assert.Equal(t, "recursion", fx.backend.created[0].Topic)
	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, models.NotifySessionBooked, fx.notifier.sent[0].Event)
	assert.Equal(t, "student-1", fx.notifier.sent[0].ActorID)
}

func TestSessionBookRejectsUnofferedStart(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	_, err := fx.sessions.Book(ctx, dto.BookSessionRequest{CourseID: "c-1", Date: "2024-06-14", Start: "13:20"}, student())
	appErr := requireAppError(t, err, appErrors.ErrPolicyViolation.Code)
	assert.Equal(t, "SLOT_UNAVAILABLE", appErr.Details["reason"])

	_, err = fx.sessions.Book(ctx, dto.BookSessionRequest{CourseID: "c-1", Date: "2024-06-13", Start: "13:15"}, student())
	appErr = requireAppError(t, err, appErrors.ErrPolicyViolation.Code)
	assert.Equal(t, "DATE_CLOSED", appErr.Details["reason"])

	fx.backend.sessions["s-1"] = models.Session{ID: "s-1", CourseID: "c-1", Start: at(14, 13, 0), End: at(14, 13, 30), Status: models.SessionScheduled}
	_, err = fx.sessions.Book(ctx, dto.BookSessionRequest{CourseID: "c-1", Date: "2024-06-14", Start: "13:15"}, student())
	requireAppError(t, err, appErrors.ErrPolicyViolation.Code)

	assert.Empty(t, fx.backend.created)
	assert.Empty(t, fx.notifier.sent)
}

func TestSessionRescheduleExcludesItself(t *testing.T) {
	fx := newBookingFixture(t)
	fx.backend.sessions["s-1"] = models.Session{ID: "s-1", CourseID: "c-1", Start: at(14, 13, 30), End: at(14, 14, 0), Status: models.SessionScheduled}

	session, err := fx.sessions.Reschedule(context.Background(), "s-1", dto.RescheduleSessionRequest{Date: "2024-06-14", Start: "13:45"}, student())
	require.NoError(t, err)
	assert.True(t, session.Start.Equal(at(14, 13, 45)))
	assert.True(t, session.End.Equal(at(14, 14, 15)))
	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, models.NotifySessionRescheduled, fx.notifier.sent[0].Event)
	assert.Contains(t, fx.notifier.sent[0].Message, "2024-06-14 13:30")
}

func TestSessionChangesRespectLeadTime(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()
	fx.backend.sessions["soon"] = models.Session{ID: "soon", CourseID: "c-1", Start: at(13, 9, 0), End: at(13, 9, 30), Status: models.SessionScheduled}
	fx.backend.sessions["gone"] = models.Session{ID: "gone", CourseID: "c-1", Start: at(21, 13, 15), End: at(21, 13, 45), Status: models.SessionCancelled}
	fx.backend.sessions["later"] = models.Session{ID: "later", CourseID: "c-1", Start: at(21, 13, 15), End: at(21, 13, 45), Status: models.SessionScheduled}

	_, err := fx.sessions.Cancel(ctx, "soon", dto.CancelSessionRequest{}, student())
	appErr := requireAppError(t, err, appErrors.ErrPolicyViolation.Code)
	assert.Equal(t, "LEAD_TIME", appErr.Details["reason"])

	_, err = fx.sessions.Reschedule(ctx, "soon", dto.RescheduleSessionRequest{Date: "2024-06-14", Start: "13:15"}, student())
	requireAppError(t, err, appErrors.ErrPolicyViolation.Code)

	_, err = fx.sessions.Cancel(ctx, "gone", dto.CancelSessionRequest{}, student())
	requireAppError(t, err, appErrors.ErrConflict.Code)

	session, err := fx.sessions.Cancel(ctx, "later", dto.CancelSessionRequest{Reason: "exam clash"}, student())
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, session.Status)
	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, "exam clash", fx.notifier.sent[0].Message)
}
