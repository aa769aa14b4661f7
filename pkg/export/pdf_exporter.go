package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidthLandscape = 277.0
	pageWidthPortrait  = 190.0
)

// Document describes a titled PDF table.
type Document struct {
	Title     string
	Subtitles []string
	Data      Dataset
	// Widths are relative column weights; empty means equal width.
	Widths []float64
}

// PDFExporter renders documents into a tabular PDF.
type PDFExporter struct {
	landscape bool
}

// NewPDFExporter constructs a landscape PDF exporter, which fits a weekly timetable.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{landscape: true}
}

// NewPortraitPDFExporter constructs a portrait PDF exporter.
func NewPortraitPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with the document title, subtitle lines and table body.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Data.Headers) == 0 {
		return nil, ErrNoHeaders
	}
	orientation, usable := "P", pageWidthPortrait
	if e.landscape {
		orientation, usable = "L", pageWidthLandscape
	}
	widths := columnWidths(len(doc.Data.Headers), doc.Widths, usable)

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(doc.Title)), "", 1, "C", false, 0, "")
	}
	if len(doc.Subtitles) > 0 {
		pdf.SetFont("Arial", "", 9)
		for _, line := range doc.Subtitles {
			pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range doc.Data.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for r := range doc.Data.Rows {
		for i, cell := range doc.Data.Record(r) {
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns int, weights []float64, usable float64) []float64 {
	widths := make([]float64, columns)
	if len(weights) != columns {
		for i := range widths {
			widths[i] = usable / float64(columns)
		}
		return widths
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	for i, w := range weights {
		if total <= 0 || w <= 0 {
			widths[i] = usable / float64(columns)
			continue
		}
		widths[i] = usable * w / total
	}
	return widths
}
