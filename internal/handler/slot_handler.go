package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

type slotService interface {
	List(ctx context.Context, courseID string, query dto.SlotQuery, actor models.Actor) (*models.SlotList, error)
}

// SlotHandler lists bookable start times.
type SlotHandler struct {
	service slotService
}

// NewSlotHandler constructs the handler.
func NewSlotHandler(service slotService) *SlotHandler {
	return &SlotHandler{service: service}
}

// List godoc
// @Summary List bookable mentoring slots for a date
// @Description An empty slot list carries a reason code explaining why nothing is bookable.
// @Tags Sessions
// @Produce json
// @Param id path string true "Course ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query int false "Session length in minutes" default(30)
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	courseID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var query dto.SlotQuery
	if !bindQuery(c, &query, "invalid slot query") {
		return
	}
	slots, err := h.service.List(c.Request.Context(), courseID, query, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slots)
}
