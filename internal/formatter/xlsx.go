package formatter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tealeg/xlsx/v2"

	"github.com/desertthunder/lyrx/internal/models"
)

// DefaultSheetName is the worksheet records are written to.
const DefaultSheetName = "Songs"

// maxCellChars is the largest text a spreadsheet cell holds.
const maxCellChars = 32767

// lyricsColumn is the index of the lyrics column in [models.Columns].
const lyricsColumn = 3

// columnWidths follows the order of [models.Columns].
var columnWidths = []float64{20, 25, 30, 80, 50, 50, 25}

// XLSXExporter writes records to a single-sheet workbook.
type XLSXExporter struct {
	SheetName string
}

// Export implements [Exporter].
func (x XLSXExporter) Export(records []models.Record, path string) error {
	f, err := BuildWorkbook(records, x.SheetName)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// BuildWorkbook lays records out as a header row plus one row per record.
//
// Lyrics cells wrap and align to the top so multi-line text stays readable.
func BuildWorkbook(records []models.Record, sheetName string) (*xlsx.File, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, name := range models.Columns {
		header.AddCell().SetString(name)
	}

	wrap := xlsx.NewStyle()
	wrap.Alignment.WrapText = true
	wrap.Alignment.Vertical = "top"
	wrap.ApplyAlignment = true

	for _, rec := range records {
		row := sheet.AddRow()
		for i, value := range rec.Normalize().Row() {
			cell := row.AddCell()
			cell.SetString(truncate(value, maxCellChars))
			if i == lyricsColumn {
				cell.SetStyle(wrap)
			}
		}
	}

	// Column numbers are 1-based.
	for i, w := range columnWidths {
		sheet.SetColWidth(i+1, i+1, w)
	}

	return f, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
