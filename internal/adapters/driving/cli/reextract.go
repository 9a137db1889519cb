package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

var reextractCmd = &cobra.Command{
	Use:   "reextract <verdict-id>...",
	Short: "Extract stored verdicts again from their parsed text",
	Long: `Runs the configured extraction mode over the text kept when each
verdict was first parsed. The source is not fetched or parsed again,
so this is the way to apply new patterns or a new mode to old verdicts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReextract,
}

func init() {
	rootCmd.AddCommand(reextractCmd)
}

func runReextract(cmd *cobra.Command, args []string) error {
	if services.Ingest == nil {
		return errors.New("ingest service not configured")
	}

	reports := make([]driving.IngestReport, 0, len(args))
	failed := 0
	for _, id := range args {
		report, err := services.Ingest.Reextract(cmd.Context(), id)
		if report == nil {
			report = &driving.IngestReport{SourceID: id, VerdictID: id, Status: domain.StatusFailed}
		}
		if err != nil {
			report.Err = err
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
		return fmt.Errorf("%d of %d verdicts failed", failed, len(args))
	}
	return nil
}
