package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
)

func TestSchedulePreviewResolvesPresetAndBlock(t *testing.T) {
	svc := NewScheduleService(nil)

	preview, err := svc.Preview(dto.SchedulePreviewQuery{Days: "tths", Time: "1:15-2:30pm", Section: "h1"})
	require.NoError(t, err)
	assert.Equal(t, "TTHS", preview.DayCode)
	assert.Equal(t, []string{"Tuesday", "Thursday", "Saturday"}, preview.ClassDays)
	assert.Equal(t, []string{"Thursday", "Saturday"}, preview.PresetDays)
	require.NotNil(t, preview.ClassTime)
	assert.Equal(t, "13:15", preview.ClassTime.Start)
	assert.Equal(t, "14:30", preview.ClassTime.End)
	assert.Equal(t, "13:15", preview.MentoringBlock.Start)
	assert.Equal(t, "14:30", preview.MentoringBlock.End)
}

func TestSchedulePreviewWithoutPreset(t *testing.T) {
	svc := NewScheduleService(nil)

	preview, err := svc.Preview(dto.SchedulePreviewQuery{Days: "MW", Time: "TBA", Section: "A2"})
	require.NoError(t, err)
	assert.Empty(t, preview.PresetDays)
	assert.Nil(t, preview.ClassTime)
	assert.Equal(t, "07:00", preview.MentoringBlock.Start)
	assert.Equal(t, "08:15", preview.MentoringBlock.End)
}

func TestSchedulePreviewRequiresInput(t *testing.T) {
	_, err := NewScheduleService(nil).Preview(dto.SchedulePreviewQuery{Section: "H1"})
	require.Error(t, err)
}
