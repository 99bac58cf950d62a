package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-scheduling-api/internal/models"
)

var auditColumns = []string{"id", "course_id", "actor_id", "actor_role", "action", "target_date", "old_values", "new_values", "request_id", "created_at"}

func newAuditRepoMock(t *testing.T) (*AuditRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuditRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestAuditRepositoryCreateFillsIdentity(t *testing.T) {
	repo, mock := newAuditRepoMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_audit_logs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	target := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	entry := &models.AvailabilityAuditLog{
		CourseID:   "c-1",
		ActorID:    "mentor-1",
		ActorRole:  models.RoleMentor,
		Action:     models.AuditActionCloseDate,
		TargetDate: &target,
		NewValues:  json.RawMessage(`{"closed_dates":["2024-06-21"]}`),
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListPaginates(t *testing.T) {
	repo, mock := newAuditRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM availability_audit_logs WHERE course_id = $1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT 20 OFFSET 20")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(auditColumns).
			AddRow("a-1", "c-1", "mentor-1", "MENTOR", "OPEN_DATE", time.Now(), nil, []byte(`{}`), "req-1", time.Now()))

	entries, total, err := repo.List(context.Background(), models.AuditFilter{CourseID: "c-1", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 41, total)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionOpenDate, entries[0].Action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListCapsPageSize(t *testing.T) {
	repo, mock := newAuditRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM availability_audit_logs")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 100 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(auditColumns))

	entries, total, err := repo.List(context.Background(), models.AuditFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}
