package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"code", "name", "time"},
		Rows: []map[string]string{
			{"code": "CS101", "name": "Intro to CS", "time": "09:00~10:15"},
			{"code": "MATH201", "name": "Linear Algebra"},
		},
	}
}

func TestCSVExporterOrdersColumnsByHeader(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	body := strings.TrimPrefix(string(out), "\ufeff")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "code,name,time", lines[0])
	assert.Equal(t, "CS101,Intro to CS,09:00~10:15", lines[1])
	assert.Equal(t, "MATH201,Linear Algebra,", lines[2])
}

func TestExportersRejectEmptyHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.ErrorIs(t, err, errNoHeaders)
	_, err = NewPDFExporter().Render(Dataset{}, "x")
	assert.ErrorIs(t, err, errNoHeaders)
	_, err = NewXLSXExporter().Render(Dataset{}, "x")
	assert.ErrorIs(t, err, errNoHeaders)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Spring plan")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterPaginatesLongTables(t *testing.T) {
	data := Dataset{Headers: []string{"code", "name"}}
	for i := 0; i < 120; i++ {
		data.Rows = append(data.Rows, map[string]string{"code": "CS101", "name": "Intro to CS"})
	}
	out, err := NewPDFExporter().Render(data, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidthsFollowWidestCell(t *testing.T) {
	widths := columnWidths(sampleDataset(), 320)
	require.Len(t, widths, 3)
	assert.InDelta(t, 70, widths[0], 0.001)
	assert.InDelta(t, 140, widths[1], 0.001)
	assert.InDelta(t, 110, widths[2], 0.001)
}

func TestXLSXExporterWritesRows(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(), "Plan")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Plan", "A1")
	require.NoError(t, err)
	assert.Equal(t, "code", header)
	name, err := f.GetCellValue("Plan", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", name)
}

func TestICSExporterWritesWeeklyRecurrence(t *testing.T) {
	exporter := NewICSExporter()
	exporter.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out, err := exporter.Render([]Event{{
		UID:      "CS101-1@timetable",
		Summary:  "CS101 Intro to CS",
		Location: "Hall A",
		Start:    start,
		End:      start.Add(75 * time.Minute),
		Weeks:    16,
	}})
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:CS101 Intro to CS")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;COUNT=16")
	assert.Contains(t, body, "DTSTART:20260302T090000Z")
}

func TestICSExporterRejectsInvertedEvent(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	_, err := NewICSExporter().Render([]Event{{UID: "x", Start: start, End: start}})
	assert.Error(t, err)
}
