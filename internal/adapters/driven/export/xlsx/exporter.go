// Package xlsx exports extraction results as an Excel workbook with a
// Verdicts sheet and a Summary sheet.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Sheet names.
const (
	SheetVerdicts = "Verdicts"
	SheetSummary  = "Summary"
)

// cellLimit is the most characters Excel stores in one cell.
const cellLimit = 32767

// Exporter writes .xlsx workbooks.
type Exporter struct{}

// New creates an xlsx exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns "xlsx".
func (e *Exporter) Format() string {
	return "xlsx"
}

// Export writes one row per record plus the summary sheet.
func (e *Exporter) Export(ctx context.Context, w io.Writer, records []domain.ExtractionRecord, summary *domain.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default workbook starts with Sheet1; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", SheetVerdicts); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeVerdicts(ctx, f, records); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}

	idx, _ := f.GetSheetIndex(SheetVerdicts)
	f.SetActiveSheet(idx)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	logger.Debug("exported %d verdicts as xlsx", len(records))
	return nil
}

func verdictHeaders() []string {
	headers := []string{"Verdict", "Mode", "Strategy", "Confidence", "Extracted At"}
	for _, field := range domain.AllFields() {
		headers = append(headers, field.Label())
	}
	return headers
}

func writeVerdicts(ctx context.Context, f *excelize.File, records []domain.ExtractionRecord) error {
	if err := writeRow(f, SheetVerdicts, 1, toAny(verdictHeaders())); err != nil {
		return err
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []any{
			rec.VerdictID,
			string(rec.Mode),
			string(rec.Strategy),
			rec.Confidence,
			rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for _, field := range domain.AllFields() {
			value := ""
			if rec.Result != nil {
				value = truncate(rec.Result.Value(field), cellLimit)
			}
			row = append(row, value)
		}
		if err := writeRow(f, SheetVerdicts, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetVerdicts, "A", "A", 36)
	_ = f.SetColWidth(SheetVerdicts, "B", "E", 14)
	last, _ := excelize.ColumnNumberToName(len(verdictHeaders()))
	_ = f.SetColWidth(SheetVerdicts, "F", last, 28)
	_ = f.SetPanes(SheetVerdicts, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

func writeSummary(f *excelize.File, s *domain.Summary) error {
	if s == nil {
		s = domain.NewSummary()
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Documents", s.Documents},
		{"Average confidence", s.AvgConfidence},
		{"Low confidence", s.LowConfidence},
	}
	rows = append(rows, []any{})
	rows = append(rows, countRows("Court", s.ByCourt)...)
	rows = append(rows, []any{})
	rows = append(rows, countRows("Verdict type", s.ByVerdictType)...)
	rows = append(rows, []any{})
	rows = append(rows, countRows("Strategy", s.ByStrategy)...)
	rows = append(rows, []any{}, []any{"Field", "Coverage"})
	for _, field := range domain.AllFields() {
		rows = append(rows, []any{field.Label(), s.FieldCoverage[field]})
	}

	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 40)
	_ = f.SetColWidth(SheetSummary, "B", "B", 14)
	return nil
}

// countRows renders a header plus one row per key, largest count first.
func countRows(title string, counts map[string]int) [][]any {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	rows := [][]any{{title, "Count"}}
	for _, k := range keys {
		rows = append(rows, []any{k, counts[k]})
	}
	return rows
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
