// package formatter provides exporters that write resolved song records to spreadsheets, CSV, JSON and SQLite
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/repositories"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Supported export formats.
const (
	FormatXLSX   = "xlsx"
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Exporter writes records to path, replacing any existing file.
type Exporter interface {
	Export(records []models.Record, path string) error
}

// RunExporter is implemented by exporters that can also record run metadata and failures.
type RunExporter interface {
	ExportRun(res *models.BatchResult, path string) error
}

// Write exports res with exp, using [RunExporter] when exp supports it.
func Write(exp Exporter, res *models.BatchResult, path string) error {
	if re, ok := exp.(RunExporter); ok {
		return re.ExportRun(res, path)
	}
	return exp.Export(res.Records, path)
}

// ForPath picks an exporter by explicit format, falling back to the file extension of path.
//
// An empty format with an unknown extension selects XLSX.
func ForPath(path, format string) (Exporter, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatFromPath(path)
	}

	switch format {
	case FormatXLSX, "xls", "excel":
		return &XLSXExporter{SheetName: DefaultSheetName}, nil
	case FormatCSV:
		return &CSVExporter{}, nil
	case FormatJSON:
		return &JSONExporter{Pretty: true}, nil
	case FormatSQLite, "db", "sqlite3":
		return repositories.NewSQLiteExporter(), nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// FormatFromPath infers an export format from the extension of path.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatXLSX
	}
}

// ExportToCSV converts records to CSV with a header row of [models.Columns].
func ExportToCSV(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(models.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write(rec.Normalize().Row()); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// CSVExporter writes records as CSV.
type CSVExporter struct{}

// Export implements [Exporter].
func (CSVExporter) Export(records []models.Record, path string) error {
	data, err := ExportToCSV(records)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	return writeFile(path, data)
}

// JSONExporter writes records as a JSON array, or a run report through [JSONExporter.ExportRun].
type JSONExporter struct {
	Pretty bool
}

// RunReport is the JSON shape of a batch run.
type RunReport struct {
	RunID       string          `json:"run_id"`
	Total       int             `json:"total"`
	Matched     int             `json:"matched"`
	Failed      int             `json:"failed"`
	Interrupted bool            `json:"interrupted"`
	Records     []models.Record `json:"records"`
	Failures    []FailureReport `json:"failures"`
}

// FailureReport is the JSON shape of one failed query.
type FailureReport struct {
	Index  int    `json:"index"`
	Query  string `json:"query"`
	Reason string `json:"reason"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewRunReport builds the serializable report for res.
func NewRunReport(res *models.BatchResult) RunReport {
	report := RunReport{
		RunID:       res.RunID,
		Total:       res.Total,
		Matched:     res.SuccessCount,
		Failed:      res.FailureCount,
		Interrupted: res.Interrupted,
		Records:     normalizeAll(res.Records),
		Failures:    make([]FailureReport, 0, len(res.Failures)),
	}
	for _, f := range res.Failures {
		fr := FailureReport{Index: f.Index, Query: f.Query, Reason: f.Reason.String()}
		if f.Err != nil {
			fr.Kind = shared.FailureKind(f.Err)
			fr.Error = f.Err.Error()
		}
		report.Failures = append(report.Failures, fr)
	}
	return report
}

// Export implements [Exporter].
func (j JSONExporter) Export(records []models.Record, path string) error {
	data, err := shared.MarshalJSON(normalizeAll(records), j.Pretty)
	if err != nil {
		return fmt.Errorf("JSON marshal failed: %w", err)
	}
	return writeFile(path, data)
}

// ExportRun implements [RunExporter].
func (j JSONExporter) ExportRun(res *models.BatchResult, path string) error {
	data, err := shared.MarshalJSON(NewRunReport(res), j.Pretty)
	if err != nil {
		return fmt.Errorf("JSON marshal failed: %w", err)
	}
	return writeFile(path, data)
}

func normalizeAll(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Normalize()
	}
	return out
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
