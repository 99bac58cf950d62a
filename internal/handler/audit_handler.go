package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

type auditService interface {
	List(ctx context.Context, query dto.AuditQuery) ([]models.AvailabilityAuditLog, *models.Pagination, error)
}

// AuditHandler exposes the availability audit trail to admins.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service auditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @Summary List availability audit entries
// @Tags Admin
// @Produce json
// @Param course_id query string false "Course ID"
// @Param actor_id query string false "Actor ID"
// @Param action query string false "Action"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /admin/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query dto.AuditQuery
	if !bindQuery(c, &query, "invalid audit query") {
		return
	}
	entries, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}
