package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/internal/service"
)

// ReadinessCheck pings one dependency.
type ReadinessCheck func(ctx context.Context) error

type queueStatsReader interface {
	Stats() models.QueueStats
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	checks  map[string]ReadinessCheck
	queue   queueStatsReader
	timeout time.Duration
}

// NewMetricsHandler constructs a metrics handler. Checks are run by Ready;
// queue may be nil.
func NewMetricsHandler(metrics *service.MetricsService, checks map[string]ReadinessCheck, queue queueStatsReader) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, checks: checks, queue: queue, timeout: 2 * time.Second}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness check with runtime and queue counters
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	status := models.HealthStatus{Status: "ok"}
	if h.metrics != nil {
		snapshot := h.metrics.Snapshot()
		status.Runtime = &snapshot
	}
	if h.queue != nil {
		stats := h.queue.Stats()
		status.Notifications = &stats
	}
	c.JSON(http.StatusOK, status)
}

// Ready godoc
// @Summary Readiness check over configured dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Failure 503 {object} models.HealthStatus
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := models.HealthStatus{Status: "ok", Dependencies: make(map[string]string, len(names))}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status.Dependencies[name] = err.Error()
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Dependencies[name] = "ok"
	}
	c.JSON(code, status)
}
