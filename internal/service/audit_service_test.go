package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
)

type auditRepoStub struct {
	created   []models.AvailabilityAuditLog
	filter    models.AuditFilter
	createErr error
}

func (s *auditRepoStub) Create(_ context.Context, entry *models.AvailabilityAuditLog) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *entry)
	return nil
}

func (s *auditRepoStub) List(_ context.Context, filter models.AuditFilter) ([]models.AvailabilityAuditLog, int, error) {
	s.filter = filter
	return s.created, len(s.created), nil
}

func TestAuditServiceRecordsAndLists(t *testing.T) {
	repo := &auditRepoStub{}
	svc := NewAuditService(repo, nil, nil, nil)
	require.True(t, svc.Enabled())

	svc.Record(context.Background(), models.AvailabilityAuditLog{CourseID: "c-1", Action: models.AuditActionOpenDate})
	entries, page, err := svc.List(context.Background(), dto.AuditQuery{CourseID: "c-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, page)
	assert.Equal(t, "c-1", repo.filter.CourseID)

	_, _, err = svc.List(context.Background(), dto.AuditQuery{Action: "DELETE_COURSE"})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestAuditServiceSwallowsWriteErrors(t *testing.T) {
	svc := NewAuditService(&auditRepoStub{createErr: errors.New("db down")}, nil, nil, nil)
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), models.AvailabilityAuditLog{CourseID: "c-1"})
	})
}

func TestAuditServiceWithoutStorage(t *testing.T) {
	svc := NewAuditService(nil, nil, nil, nil)
	assert.False(t, svc.Enabled())
	svc.Record(context.Background(), models.AvailabilityAuditLog{CourseID: "c-1"})

	_, _, err := svc.List(context.Background(), dto.AuditQuery{})
	requireAppError(t, err, appErrors.ErrPreconditionFailed.Code)
}
