package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/export"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var exportHeaders = []string{"Date", "Weekday", "Status", "Source", "Mentoring Block"}

type monthRenderer interface {
	Month(ctx context.Context, courseID string, query dto.CalendarQuery) (*models.CalendarMonth, bool, error)
}

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a course month as a downloadable table.
type ExportService struct {
	calendar  monthRenderer
	exporters map[string]export.Exporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(calendar monthRenderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	pdf := export.NewPDFExporter()
	pdf.Highlight = func(row map[string]string) bool { return row["Status"] == "closed" }
	return &ExportService{
		calendar: calendar,
		exporters: map[string]export.Exporter{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: pdf,
		},
		validator: ensureValidator(validate),
		logger:    logger,
	}
}

// MonthExport renders the in-month days of the calendar grid.
func (s *ExportService) MonthExport(ctx context.Context, courseID string, query dto.ExportQuery) (*ExportResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err, "invalid export request")
	}
	format := strings.ToLower(query.Format)
	if format == "" {
		format = ExportFormatCSV
	}
	exporter := s.exporters[format]

	month, _, err := s.calendar.Month(ctx, courseID, dto.CalendarQuery{Month: query.Month})
	if err != nil {
		return nil, err
	}

	block := month.MentoringBlock.Start + "-" + month.MentoringBlock.End
	data := export.Dataset{
		Title:   fmt.Sprintf("Mentoring availability %s, %s", courseID, month.Month),
		Headers: exportHeaders,
		Notes: []string{
			"Mentoring block " + block,
			fmt.Sprintf("Fixed-day closures used %d of %d", month.FixedClosures.Used, month.FixedClosures.Limit),
		},
	}
	for _, week := range month.Weeks {
		for _, cell := range week {
			if !cell.InMonth {
				continue
			}
			row := map[string]string{
				"Date":    cell.Date,
				"Weekday": cell.Weekday,
				"Status":  cellStatus(cell),
				"Source":  cellSource(cell),
			}
			if cell.Open {
				row["Mentoring Block"] = block
			}
			data.Rows = append(data.Rows, row)
		}
	}

	body, err := exporter.Render(data)
	if err != nil {
		s.logger.Error("render export failed", zap.String("course_id", courseID), zap.String("format", format), zap.Error(err))
		return nil, err
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("availability-%s-%s.%s", courseID, month.Month, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Body:        body,
	}, nil
}

func cellStatus(cell models.CalendarCell) string {
	if cell.Open {
		return "open"
	}
	if cell.Closed {
		return "closed"
	}
	return "unavailable"
}

func cellSource(cell models.CalendarCell) string {
	switch {
	case cell.Closed && cell.Fixed:
		return "fixed day closed"
	case cell.Closed:
		return "closed"
	case cell.ExplicitOpen:
		return "opened by mentor"
	case cell.Fixed:
		return "fixed day"
	default:
		return ""
	}
}
