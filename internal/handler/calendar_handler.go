package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/middleware"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/internal/service"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

type calendarService interface {
	Month(ctx context.Context, courseID string, query dto.CalendarQuery) (*models.CalendarMonth, bool, error)
}

type exportService interface {
	MonthExport(ctx context.Context, courseID string, query dto.ExportQuery) (*service.ExportResult, error)
}

// CalendarHandler serves the month grid and its downloadable export.
type CalendarHandler struct {
	calendar calendarService
	export   exportService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(calendar calendarService, export exportService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, export: export}
}

// Month godoc
// @Summary Month calendar of mentoring availability
// @Tags Calendar
// @Produce json
// @Param id path string true "Course ID"
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/calendar [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	courseID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var query dto.CalendarQuery
	if !bindQuery(c, &query, "invalid calendar query") {
		return
	}
	month, hit, err := h.calendar.Month(c.Request.Context(), courseID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, month, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the month availability as CSV or PDF
// @Tags Calendar
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Param month query string false "Month (YYYY-MM)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /courses/{id}/calendar/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	courseID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var query dto.ExportQuery
	if !bindQuery(c, &query, "invalid export query") {
		return
	}
	result, err := h.export.MonthExport(c.Request.Context(), courseID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}
