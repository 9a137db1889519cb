package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

var extractSourceID string

var extractCmd = &cobra.Command{
	Use:   "extract <file>... | -",
	Short: "Extract fields from verdict files",
	Long: `Parses each file, extracts its fields and stores the result.
Files already stored with the same content are skipped.

Pass "-" to read plain text from stdin instead; the result is printed
but not stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractSourceID, "source-id", "", "identifier echoed in the result when reading stdin")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && args[0] == "-" {
		return extractStdin(cmd)
	}
	if services.Ingest == nil {
		return errors.New("ingest service not configured")
	}

	reports := make([]driving.IngestReport, 0, len(args))
	failed := 0
	for _, path := range args {
		report, err := services.Ingest.IngestFile(cmd.Context(), path)
		if report == nil {
			report = &driving.IngestReport{SourceID: path, Status: domain.StatusFailed, Err: err}
		}
		if report.Err != nil {
			failed++
		}
		reports = append(reports, *report)
	}

	if wantJSON(cmd) {
		if err := printJSON(cmd, reportsOutput(reports)); err != nil {
			return err
		}
	} else {
		for i := range reports {
			printReport(cmd, &reports[i])
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func extractStdin(cmd *cobra.Command) error {
	if services.Extraction == nil {
		return errors.New("extraction service not configured")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	result, err := services.Extraction.Extract(cmd.Context(), extractSourceID, string(data))
	if wantJSON(cmd) && err == nil {
		return printJSON(cmd, result)
	}
	cmd.Println(services.Extraction.Summary(result, err))
	return err
}

// reportOutput is the JSON form of an ingest report.
type reportOutput struct {
	SourceID  string                   `json:"source_id"`
	VerdictID string                   `json:"verdict_id,omitempty"`
	Status    domain.VerdictStatus     `json:"status"`
	Skipped   bool                     `json:"skipped,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Result    *domain.ExtractionResult `json:"result,omitempty"`
}

func reportsOutput(reports []driving.IngestReport) []reportOutput {
	out := make([]reportOutput, len(reports))
	for i, r := range reports {
		out[i] = reportOutput{
			SourceID:  r.SourceID,
			VerdictID: r.VerdictID,
			Status:    r.Status,
			Skipped:   r.Skipped,
			Result:    r.Result,
		}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

func printReport(cmd *cobra.Command, r *driving.IngestReport) {
	switch {
	case r.Err != nil:
		cmd.Printf("✗ %s: %v\n", r.SourceID, r.Err)
	case r.Skipped:
		cmd.Printf("- %s: already stored as %s\n", r.SourceID, r.VerdictID)
	default:
		cmd.Printf("✓ %s\n", r.SourceID)
		if r.Result != nil {
			cmd.Printf("  %s\n", services.Extraction.Summary(r.Result, nil))
		}
	}
}

// elapsed formats a duration for progress lines.
func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
