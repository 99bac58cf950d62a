package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-scheduling-api/internal/models"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

// AuditRepository persists availability audit entries.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit entry, filling id and timestamp when empty.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AvailabilityAuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO availability_audit_logs
	(id, course_id, actor_id, actor_role, action, target_date, old_values, new_values, request_id, created_at)
	VALUES (:id, :course_id, :actor_id, :actor_role, :action, :target_date, :old_values, :new_values, :request_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns entries matching the filter, newest first, with the total count.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AvailabilityAuditLog, int, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM availability_audit_logs"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	size := filter.PageSize
	if size <= 0 {
		size = defaultAuditPageSize
	}
	if size > maxAuditPageSize {
		size = maxAuditPageSize
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT id, course_id, actor_id, actor_role, action, target_date, old_values, new_values, request_id, created_at
	FROM availability_audit_logs` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", size, (page-1)*size)

	var entries []models.AvailabilityAuditLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, total, nil
}
