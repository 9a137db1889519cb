package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

var (
	exportFormat string
	exportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the aggregate report over all stored results",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored results",
	Long: `Writes the latest extraction of every verdict to a file.

Formats:
  jsonl - one JSON result per line
  xlsx  - workbook with a Verdicts sheet and a Summary sheet`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "export format")
	exportCmd.Flags().StringVar(&exportOutput, "out", "", "output file (default verdicts.<format>, - for stdout)")
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if services.Results == nil {
		return errors.New("result service not configured")
	}

	if wantJSON(cmd) {
		summary, err := services.Results.Summary(cmd.Context())
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return printJSON(cmd, summaryOutput{
			Documents:     summary.Documents,
			AvgConfidence: summary.AvgConfidence,
			LowConfidence: summary.LowConfidence,
			ByCourt:       summary.ByCourt,
			ByVerdictType: summary.ByVerdictType,
			ByStrategy:    summary.ByStrategy,
			FieldCoverage: summary.FieldCoverage,
		})
	}

	report, err := services.Results.Report(cmd.Context())
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	cmd.Print(report)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	if services.Results == nil {
		return errors.New("result service not configured")
	}

	path := exportOutput
	if path == "" {
		path = "verdicts." + exportFormat
	}
	if path == "-" {
		return services.Results.Export(cmd.Context(), exportFormat, cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := services.Results.Export(cmd.Context(), exportFormat, f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	cmd.Printf("Exported to %s\n", path)
	return nil
}

type summaryOutput struct {
	Documents     int                      `json:"documents"`
	AvgConfidence float64                  `json:"avg_confidence"`
	LowConfidence int                      `json:"low_confidence"`
	ByCourt       map[string]int           `json:"by_court"`
	ByVerdictType map[string]int           `json:"by_verdict_type"`
	ByStrategy    map[string]int           `json:"by_strategy"`
	FieldCoverage map[domain.FieldName]int `json:"field_coverage"`
}

// jsonRaw passes stored JSON through unchanged, or as a string when invalid.
func jsonRaw(data []byte) any {
	if json.Valid(data) {
		return json.RawMessage(data)
	}
	return string(data)
}
