package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/handler"
	"github.com/noah-isme/mentor-scheduling-api/internal/middleware"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/internal/service"
	"github.com/noah-isme/mentor-scheduling-api/pkg/config"
	"github.com/noah-isme/mentor-scheduling-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mentor-scheduling-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mentor-scheduling-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	availability *handler.AvailabilityHandler
	calendar     *handler.CalendarHandler
	slots        *handler.SlotHandler
	sessions     *handler.SessionHandler
	audit        *handler.AuditHandler
	schedule     *handler.ScheduleHandler
	metrics      *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/schedule/parse", h.schedule.Parse)

	secured := api.Group("", middleware.JWT(auth))

	courses := secured.Group("/courses/:id")
	courses.GET("/availability", h.availability.Get)
	courses.GET("/slots", h.slots.List)
	courses.GET("/calendar", h.calendar.Month)

	editors := courses.Group("", middleware.Editors())
	editors.POST("/availability/open", h.availability.Open)
	editors.POST("/availability/close", h.availability.Close)
	editors.POST("/availability/reopen", h.availability.Reopen)
	editors.PUT("/mentoring-block", h.availability.UpdateMentoringBlock)
	editors.GET("/calendar/export", h.calendar.Export)

	sessions := secured.Group("/sessions")
	sessions.POST("", h.sessions.Book)
	sessions.POST("/:id/reschedule", h.sessions.Reschedule)
	sessions.POST("/:id/cancel", h.sessions.Cancel)

	admin := secured.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/audit", h.audit.List)

	return r
}
