package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AvailabilityAuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AvailabilityAuditLog, int, error)
}

// AuditService records availability changes. Without a repository it only logs.
type AuditService struct {
	repo      auditRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuditService constructs the audit service; repo may be nil.
func NewAuditService(repo auditRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, metrics: metrics, validator: ensureValidator(validate), logger: logger}
}

// Enabled reports whether entries are persisted.
func (s *AuditService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record persists an entry. Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, entry models.AvailabilityAuditLog) {
	fields := []zap.Field{
		zap.String("course_id", entry.CourseID),
		zap.String("actor_id", entry.ActorID),
		zap.String("action", string(entry.Action)),
		zap.String("request_id", entry.RequestID),
	}
	if !s.Enabled() {
		s.logger.Info("availability audit", fields...)
		return
	}
	start := time.Now()
	err := s.repo.Create(ctx, &entry)
	s.metrics.ObserveDBQuery("audit_create", time.Since(start))
	if err != nil {
		s.logger.Error("failed to record audit log", append(fields, zap.Error(err))...)
	}
}

// List returns a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, query dto.AuditQuery) ([]models.AvailabilityAuditLog, *models.Pagination, error) {
	if !s.Enabled() {
		return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "audit log storage is not configured")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, validationError(err, "invalid audit query")
	}
	filter := models.AuditFilter{
		CourseID: query.CourseID,
		ActorID:  query.ActorID,
		Action:   models.AuditAction(query.Action),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	start := time.Now()
	entries, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("audit_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	if entries == nil {
		entries = []models.AvailabilityAuditLog{}
	}
	return entries, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
