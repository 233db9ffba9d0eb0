package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 297.0
	pageMargin  = 10.0
	headerFont  = 9.0
	bodyFont    = 8.0
	rowHeight   = 6.0
	ellipsis    = "..."
	tableHeight = 7.0
)

// PDFExporter renders datasets into a landscape tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the dataset title and a table body.
// Cells wider than their column are truncated.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	widths := columnWidths(data.Columns, pageWidth-2*pageMargin)

	header := func() {
		pdf.SetFont("Arial", "B", headerFont)
		for i, label := range data.Labels() {
			pdf.CellFormat(widths[i], tableHeight, tr(label), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", bodyFont)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(data.Title)), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	header()

	for _, row := range data.Rows {
		for i, value := range data.record(row) {
			text := fit(pdf, tr(value), widths[i]-2)
			pdf.CellFormat(widths[i], rowHeight, text, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns []Column, total float64) []float64 {
	weights := make([]float64, len(columns))
	sum := 0.0
	for i, c := range columns {
		weights[i] = c.Width
		if weights[i] <= 0 {
			weights[i] = 1
		}
		sum += weights[i]
	}
	for i := range weights {
		weights[i] = total * weights[i] / sum
	}
	return weights
}

// fit shortens text until it fits within width millimetres.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
