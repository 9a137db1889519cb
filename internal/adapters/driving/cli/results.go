package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

var (
	resultsLimit  int
	resultsOffset int
	resultsStatus string
)

var resultsCmd = &cobra.Command{
	Use:   "results [verdict-id]",
	Short: "List stored results or show one verdict",
	Long: `Without an argument, lists the latest extraction of every stored verdict.
With a verdict id, shows the verdict, its latest extraction and the
analyses stored for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVarP(&resultsLimit, "limit", "n", 20, "maximum number of results")
	resultsCmd.Flags().IntVar(&resultsOffset, "offset", 0, "number of results to skip")
	resultsCmd.Flags().StringVar(&resultsStatus, "status", "", "only verdicts with this status")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	if services.Results == nil {
		return errors.New("result service not configured")
	}
	if len(args) == 1 {
		return showVerdict(cmd, args[0])
	}

	recs, err := services.Results.List(cmd.Context(), domain.ListOptions{
		Limit:  resultsLimit,
		Offset: resultsOffset,
		Status: domain.VerdictStatus(resultsStatus),
	})
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	if wantJSON(cmd) {
		return printJSON(cmd, recordsOutput(recs))
	}
	if len(recs) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	threshold := services.Config.Extractor.ConfidenceThreshold
	for i := range recs {
		flag := ""
		if recs[i].Confidence < threshold {
			flag = " (low confidence)"
		}
		cmd.Printf("  [%d] %s  %s %.2f%s\n", resultsOffset+i+1, recs[i].VerdictID, recs[i].Mode, recs[i].Confidence, flag)
		if recs[i].Result != nil {
			cmd.Printf("      %s\n", services.Extraction.Summary(recs[i].Result, nil))
		}
	}
	return nil
}

func showVerdict(cmd *cobra.Command, id string) error {
	details, err := services.Results.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get %s: %w", id, err)
	}

	if wantJSON(cmd) {
		return printJSON(cmd, detailsOutput(details))
	}

	v := details.Verdict
	cmd.Printf("Verdict:  %s\n", v.ID)
	cmd.Printf("Source:   %s\n", v.SourceID)
	cmd.Printf("URI:      %s\n", v.URI)
	cmd.Printf("Type:     %s (%d bytes)\n", v.FileType, v.Size)
	cmd.Printf("Status:   %s\n", v.Status)
	if v.Error != "" {
		cmd.Printf("Error:    %s\n", v.Error)
	}

	if details.Extraction != nil && details.Extraction.Result != nil {
		rec := details.Extraction
		cmd.Println()
		cmd.Printf("Extraction (%s", rec.Mode)
		if rec.Strategy != "" {
			cmd.Printf(", %s", rec.Strategy)
		}
		cmd.Printf(") confidence %.2f\n", rec.Confidence)
		for _, f := range domain.AllFields() {
			if val := rec.Result.Value(f); val != "" {
				cmd.Printf("  %-15s %s\n", f.Label()+":", val)
			}
		}
		if len(rec.Scores) > 0 {
			cmd.Println("  Strategy scores:")
			for name, score := range rec.Scores {
				cmd.Printf("    %s: %d\n", name, score)
			}
		}
	}

	if len(details.Analyses) > 0 {
		cmd.Println()
		cmd.Print("Analyses:")
		for _, a := range details.Analyses {
			cmd.Printf(" %s", a.Kind)
		}
		cmd.Println()
	}
	return nil
}

type recordOutput struct {
	VerdictID  string                   `json:"verdict_id"`
	Mode       domain.ExtractionMode    `json:"mode"`
	Strategy   domain.StrategyName      `json:"strategy,omitempty"`
	Confidence float64                  `json:"confidence"`
	Scores     map[string]int           `json:"scores,omitempty"`
	Result     *domain.ExtractionResult `json:"result"`
}

func recordsOutput(recs []domain.ExtractionRecord) []recordOutput {
	out := make([]recordOutput, len(recs))
	for i := range recs {
		out[i] = toRecordOutput(&recs[i])
	}
	return out
}

func toRecordOutput(r *domain.ExtractionRecord) recordOutput {
	return recordOutput{
		VerdictID:  r.VerdictID,
		Mode:       r.Mode,
		Strategy:   r.Strategy,
		Confidence: r.Confidence,
		Scores:     r.Scores,
		Result:     r.Result,
	}
}

func detailsOutput(d *driving.VerdictDetails) map[string]any {
	out := map[string]any{
		"id":        d.Verdict.ID,
		"source_id": d.Verdict.SourceID,
		"uri":       d.Verdict.URI,
		"file_type": d.Verdict.FileType,
		"size":      d.Verdict.Size,
		"status":    d.Verdict.Status,
	}
	if d.Verdict.Error != "" {
		out["error"] = d.Verdict.Error
	}
	if d.Extraction != nil {
		out["extraction"] = toRecordOutput(d.Extraction)
	}
	if len(d.Analyses) > 0 {
		analyses := make(map[string]any, len(d.Analyses))
		for _, a := range d.Analyses {
			analyses[a.Kind] = jsonRaw(a.Data)
		}
		out["analyses"] = analyses
	}
	return out
}
