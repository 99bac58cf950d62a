package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
)

// ScheduleService explains how a raw course schedule resolves into mentoring
// defaults without touching the backend.
type ScheduleService struct {
	logger *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{logger: logger}
}

// Preview parses the day code and time string of a course schedule.
func (s *ScheduleService) Preview(query dto.SchedulePreviewQuery) (*models.SchedulePreview, error) {
	if strings.TrimSpace(query.Days) == "" && strings.TrimSpace(query.Time) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "days or time is required")
	}

	classDays := scheduling.ParseDays(query.Days)
	preset := scheduling.DefaultPreset(classDays)

	preview := &models.SchedulePreview{
		Days:       query.Days,
		ClassDays:  classDays.Names(),
		DayCode:    classDays.String(),
		PresetDays: preset.Names(),
		Section:    strings.ToUpper(strings.TrimSpace(query.Section)),
	}

	if r, ok := scheduling.ParseTimeRange(query.Time); ok {
		preview.ClassTime = &models.TimeBlock{Start: r.Start.String(), End: r.End.String()}
	} else if strings.TrimSpace(query.Time) != "" {
		s.logger.Debug("schedule time not recognised", zap.String("time", query.Time))
	}

	block := scheduling.DefaultMentoringBlock(preview.Section)
	preview.MentoringBlock = models.TimeBlock{Start: block.Start.String(), End: block.End.String()}
	return preview, nil
}
