package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

type schedulePreviewer interface {
	Preview(query dto.SchedulePreviewQuery) (*models.SchedulePreview, error)
}

// ScheduleHandler previews how a course schedule string resolves.
type ScheduleHandler struct {
	service schedulePreviewer
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service schedulePreviewer) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Parse godoc
// @Summary Parse a course schedule into mentoring defaults
// @Tags Schedule
// @Produce json
// @Param days query string false "Day code, e.g. MWF or TTHS"
// @Param time query string false "Class time, e.g. 1:15-2:30pm"
// @Param section query string false "Section code"
// @Success 200 {object} response.Envelope
// @Router /schedule/parse [get]
func (h *ScheduleHandler) Parse(c *gin.Context) {
	var query dto.SchedulePreviewQuery
	if !bindQuery(c, &query, "invalid schedule query") {
		return
	}
	preview, err := h.service.Preview(query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, preview)
}
