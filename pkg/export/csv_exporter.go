package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var errNoHeaders = errors.New("dataset has no headers")

// utf8BOM lets spreadsheet tools detect UTF-8 for Korean course names.
const utf8BOM = "\ufeff"

// Dataset is a table whose rows are keyed by header name. Missing keys render empty.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Record projects row onto the header order.
func (d Dataset) Record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

// CSVExporter renders datasets as BOM-prefixed CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render returns the whole document in memory.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the document to w.
func (e *CSVExporter) Write(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("csv: %w", errNoHeaders)
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("csv: %w", err)
	}

	cw := csv.NewWriter(w)
	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		records = append(records, data.Record(row))
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	return nil
}
