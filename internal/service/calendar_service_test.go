package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
)

func findCell(month *models.CalendarMonth, date string) models.CalendarCell {
	for _, week := range month.Weeks {
		for _, cell := range week {
			if cell.Date == date {
				return cell
			}
		}
	}
	return models.CalendarCell{}
}

func TestCalendarMonthGrid(t *testing.T) {
	fx := newAvailabilityFixture(t)
	fx.backend.availability.OpenDates = []string{"2024-06-20"}
	fx.backend.availability.ClosedDates = []string{"2024-06-21"}
	svc := NewCalendarService(fx.svc, fx.svc.Guard(), nil, zap.NewNop())

	month, hit, err := svc.Month(context.Background(), "c-1", dto.CalendarQuery{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "2024-06", month.Month)
	assert.Equal(t, "2024-06-12", month.Today)

	// June 2024 starts on a Saturday and ends on a Sunday: six weeks.
	require.Len(t, month.Weeks, 6)
	for _, week := range month.Weeks {
		require.Len(t, week, 7)
		assert.Equal(t, "Sunday", week[0].Weekday)
	}
	assert.Equal(t, "2024-05-26", month.Weeks[0][0].Date)
	assert.False(t, month.Weeks[0][0].InMonth)
	assert.Equal(t, "2024-07-06", month.Weeks[5][6].Date)

	today := findCell(month, "2024-06-12")
	assert.True(t, today.Today)
	assert.True(t, today.Open)
	assert.True(t, today.Fixed)
	assert.True(t, today.Selectable)
	assert.False(t, today.Editable)

	assert.False(t, findCell(month, "2024-06-11").Selectable)

	explicit := findCell(month, "2024-06-20")
	assert.True(t, explicit.Open)
	assert.True(t, explicit.ExplicitOpen)
	assert.False(t, explicit.Fixed)
	assert.True(t, explicit.Editable)

	closed := findCell(month, "2024-06-21")
	assert.False(t, closed.Open)
	assert.True(t, closed.Closed)
	assert.True(t, closed.Fixed)

	assert.Equal(t, 1, month.FixedClosures.Used)
	assert.Equal(t, "13:15", month.MentoringBlock.Start)
}

func TestCalendarMonthRejectsBadMonth(t *testing.T) {
	fx := newAvailabilityFixture(t)
	svc := NewCalendarService(fx.svc, fx.svc.Guard(), nil, nil)

	_, _, err := svc.Month(context.Background(), "c-1", dto.CalendarQuery{Month: "June"})
	requireAppError(t, err, "VALIDATION_ERROR")

	month, _, err := svc.Month(context.Background(), "c-1", dto.CalendarQuery{Month: "2024-02"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-28", month.Weeks[0][0].Date)
	assert.Len(t, month.Weeks, 5)
}

func TestExportServiceRendersMonth(t *testing.T) {
	fx := newAvailabilityFixture(t)
	fx.backend.availability.ClosedDates = []string{"2024-06-21"}
	calendar := NewCalendarService(fx.svc, fx.svc.Guard(), nil, nil)
	svc := NewExportService(calendar, nil, zap.NewNop())

	out, err := svc.MonthExport(context.Background(), "c-1", dto.ExportQuery{Month: "2024-06"})
	require.NoError(t, err)
	assert.Equal(t, "availability-c-1-2024-06.csv", out.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", out.ContentType)

	lines := strings.Split(strings.TrimSpace(string(out.Body)), "\n")
	require.Len(t, lines, 31)
	assert.Equal(t, "Date,Weekday,Status,Source,Mentoring Block", lines[0])
	assert.Contains(t, lines, "2024-06-14,Friday,open,fixed day,13:15-14:30")
	assert.Contains(t, lines, "2024-06-21,Friday,closed,fixed day closed,")
	assert.Contains(t, lines, "2024-06-13,Thursday,unavailable,,")

	pdf, err := svc.MonthExport(context.Background(), "c-1", dto.ExportQuery{Month: "2024-06", Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Body), "%PDF"))

	_, err = svc.MonthExport(context.Background(), "c-1", dto.ExportQuery{Format: "xlsx"})
	requireAppError(t, err, "VALIDATION_ERROR")
}
