package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui"
)

// runProgram starts the interactive program; replaced in tests.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse extracted verdicts interactively",
	Long: `Launch the interactive terminal UI.

The TUI lists stored extractions with their confidence, shows every field
of a verdict, runs extraction over pasted text and renders the summary
report.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open verdict
  /        - Filter
  e        - Extract pasted text
  s        - Summary report
  Esc      - Back
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(services.Results, services.Extraction))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).
		WithThreshold(services.Config.Extractor.ConfidenceThreshold)

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
