package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

type sessionService interface {
	Book(ctx context.Context, req dto.BookSessionRequest, actor models.Actor) (*models.Session, error)
	Reschedule(ctx context.Context, sessionID string, req dto.RescheduleSessionRequest, actor models.Actor) (*models.Session, error)
	Cancel(ctx context.Context, sessionID string, req dto.CancelSessionRequest, actor models.Actor) (*models.Session, error)
}

// SessionHandler books and changes mentoring sessions.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Book godoc
// @Summary Book a mentoring session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.BookSessionRequest true "Booking"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Book(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.BookSessionRequest
	if !bindJSON(c, &req, "invalid booking payload") {
		return
	}
	session, err := h.service.Book(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Reschedule godoc
// @Summary Move a session to another slot
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.RescheduleSessionRequest true "New slot"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/{id}/reschedule [post]
func (h *SessionHandler) Reschedule(c *gin.Context) {
	sessionID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RescheduleSessionRequest
	if !bindJSON(c, &req, "invalid reschedule payload") {
		return
	}
	session, err := h.service.Reschedule(c.Request.Context(), sessionID, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// Cancel godoc
// @Summary Cancel a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.CancelSessionRequest false "Cancellation reason"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/cancel [post]
func (h *SessionHandler) Cancel(c *gin.Context) {
	sessionID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CancelSessionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid cancel payload") {
		return
	}
	session, err := h.service.Cancel(c.Request.Context(), sessionID, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}
