package infra

// pdf.go: report rendering with go-pdf/fpdf.
// Produces an A4 landscape table: title block, generation stamp, a header row
// and one line per data row, repeating the header on every page.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// ReportDocument is the engine-neutral content of a report.
type ReportDocument struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Columns     []string
	// Widths are relative; they are scaled to the printable width.
	Widths  []float64
	Rows    [][]string
	Summary []string
}

// RenderReportPDF writes doc to dir/name and returns the full path.
func RenderReportPDF(doc ReportDocument, dir, name string) (string, error) {
	if len(doc.Columns) == 0 || len(doc.Columns) != len(doc.Widths) {
		return "", fmt.Errorf("pdf: %d columns but %d widths", len(doc.Columns), len(doc.Widths))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(dir, name)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20
	var total float64
	for _, w := range doc.Widths {
		total += w
	}
	widths := make([]float64, len(doc.Widths))
	for i, w := range doc.Widths {
		widths[i] = contentW * w / total
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range doc.Columns {
			pdf.CellFormat(widths[i], 6, tr(col), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Pagina %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// ── Title block ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(doc.Title), "", 1, "L", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, tr(doc.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 5, "Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Table ────────────────────────────────────────────────────────────────
	header()
	if len(doc.Rows) == 0 {
		pdf.CellFormat(contentW, 6, "Sin registros para los filtros seleccionados", "1", 1, "C", false, 0, "")
	}
	for _, row := range doc.Rows {
		for i := range doc.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], 5, tr(truncate(cell, widths[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(doc.Summary) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 8)
		for _, line := range doc.Summary {
			pdf.CellFormat(contentW, 5, tr(line), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// truncate keeps a cell on one line; ~1.6mm per character at 8pt.
func truncate(s string, widthMM float64) string {
	max := int(widthMM / 1.6)
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
