package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Column describes one field of a Dataset. Width is a relative weight used
// by the PDF layout; zero means 1.
type Column struct {
	Key   string
	Label string
	Width float64
}

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// Labels returns the column headings in order.
func (d Dataset) Labels() []string {
	labels := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		labels[i] = c.Label
		if labels[i] == "" {
			labels[i] = c.Key
		}
	}
	return labels
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		record[i] = row[c.Key]
	}
	return record
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset. The title is not written.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Labels()); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		if err := writer.Write(data.record(row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
