package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendarDataset(rows int) Dataset {
	data := Dataset{
		Title:   "MATH101 H1 availability, June 2024",
		Notes:   []string{"Mentoring block 13:15-14:30"},
		Headers: []string{"Date", "Weekday", "Status"},
	}
	for i := 1; i <= rows; i++ {
		status := "open"
		if i%5 == 0 {
			status = "closed"
		}
		data.Rows = append(data.Rows, map[string]string{
			"Date":    fmt.Sprintf("2024-06-%02d", i),
			"Weekday": "Wednesday",
			"Status":  status,
		})
	}
	return data
}

func TestCSVExporterOrdersColumnsByHeader(t *testing.T) {
	out, err := NewCSVExporter().Render(calendarDataset(2))
	require.NoError(t, err)
	assert.Equal(t, "Date,Weekday,Status\n2024-06-01,Wednesday,open\n2024-06-02,Wednesday,open\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterPaginates(t *testing.T) {
	exp := NewPDFExporter()
	exp.Highlight = func(row map[string]string) bool { return row["Status"] == "closed" }

	out, err := exp.Render(calendarDataset(60))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", exp.ContentType())
	assert.Equal(t, "pdf", exp.Extension())
}
