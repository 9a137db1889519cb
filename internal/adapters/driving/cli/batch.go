package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract every document of the configured source",
	Long: `Lists the configured source (a local directory or an S3 bucket), then
parses, extracts and stores every supported document in parallel.

A failing document is reported and never stops the batch.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	if services.Ingest == nil {
		return errors.New("ingest service not configured")
	}

	start := time.Now()
	reports, err := services.Ingest.IngestAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	var stored, skipped, failed int
	for i := range reports {
		switch {
		case reports[i].Err != nil:
			failed++
		case reports[i].Skipped:
			skipped++
		default:
			stored++
		}
	}

	if wantJSON(cmd) {
		return printJSON(cmd, reportsOutput(reports))
	}

	for i := range reports {
		printReport(cmd, &reports[i])
	}
	cmd.Println()
	cmd.Printf("%d documents in %s: %d extracted, %d skipped, %d failed\n",
		len(reports), elapsed(start), stored, skipped, failed)
	return nil
}
