package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/middleware"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

type availabilityService interface {
	Policy(ctx context.Context, courseID string) (*models.CoursePolicy, bool, error)
	Open(ctx context.Context, courseID string, req dto.DateActionRequest, actor models.Actor) (*models.CoursePolicy, error)
	Close(ctx context.Context, courseID string, req dto.DateActionRequest, actor models.Actor) (*models.CoursePolicy, error)
	Reopen(ctx context.Context, courseID string, req dto.DateActionRequest, actor models.Actor) (*models.CoursePolicy, error)
	UpdateMentoringBlock(ctx context.Context, courseID string, req dto.MentoringBlockRequest, actor models.Actor) (*models.CoursePolicy, error)
}

// AvailabilityHandler exposes course availability endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Get godoc
// @Summary Get the resolved availability policy of a course
// @Tags Availability
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	courseID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	policy, hit, err := h.service.Policy(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, policy, middleware.ExtractMeta(c))
}

// Open godoc
// @Summary Open an extra mentoring date
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.DateActionRequest true "Date to open"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /courses/{id}/availability/open [post]
func (h *AvailabilityHandler) Open(c *gin.Context) {
	h.dateAction(c, h.service.Open)
}

// Close godoc
// @Summary Close a mentoring date
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.DateActionRequest true "Date to close"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /courses/{id}/availability/close [post]
func (h *AvailabilityHandler) Close(c *gin.Context) {
	h.dateAction(c, h.service.Close)
}

// Reopen godoc
// @Summary Reopen a previously closed date
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.DateActionRequest true "Date to reopen"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /courses/{id}/availability/reopen [post]
func (h *AvailabilityHandler) Reopen(c *gin.Context) {
	h.dateAction(c, h.service.Reopen)
}

type dateActionFunc func(ctx context.Context, courseID string, req dto.DateActionRequest, actor models.Actor) (*models.CoursePolicy, error)

func (h *AvailabilityHandler) dateAction(c *gin.Context, action dateActionFunc) {
	courseID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.DateActionRequest
	if !bindJSON(c, &req, "invalid date payload") {
		return
	}
	policy, err := action(c.Request.Context(), courseID, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, policy, middleware.ExtractMeta(c))
}

// UpdateMentoringBlock godoc
// @Summary Replace the course mentoring block
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.MentoringBlockRequest true "Mentoring block"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/mentoring-block [put]
func (h *AvailabilityHandler) UpdateMentoringBlock(c *gin.Context) {
	courseID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.MentoringBlockRequest
	if !bindJSON(c, &req, "invalid mentoring block payload") {
		return
	}
	policy, err := h.service.UpdateMentoringBlock(c.Request.Context(), courseID, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, policy, middleware.ExtractMeta(c))
}
