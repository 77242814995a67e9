package infra

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReportPDF(t *testing.T) {
	dir := t.TempDir()
	doc := ReportDocument{
		Title:       "Informe de Produccion",
		Subtitle:    "Proyecto: Mina Norte",
		GeneratedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Columns:     []string{"Fecha", "Material", "Cantidad"},
		Widths:      []float64{1, 2, 1},
		Rows: [][]string{
			{"2025-02-01", "Carbon termico", "12.50 t"},
			{"2025-02-02", "Carbon coquizable de alta calidad con nombre largo", "8.00 t"},
		},
		Summary: []string{"Total: 20.50"},
	}

	path, err := RenderReportPDF(doc, dir, "r.pdf")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderReportPDF_ColumnMismatch(t *testing.T) {
	_, err := RenderReportPDF(ReportDocument{Columns: []string{"a"}, Widths: []float64{1, 2}}, t.TempDir(), "x.pdf")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 40))
	assert.Equal(t, "abcd…", truncate("abcdefghij", 9))
}
