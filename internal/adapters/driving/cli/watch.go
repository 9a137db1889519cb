package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Extract new verdict files as they appear",
	Long: `Watches a directory (default: the configured local source path) and
ingests every supported file that is created or rewritten, until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if services.Ingest == nil || services.NewWatcher == nil {
		return errors.New("watch not configured")
	}

	dir := services.Config.Source.Path
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("%w: no directory to watch", domain.ErrInvalidInput)
	}

	w, err := services.NewWatcher(dir)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := cmd.Context()
	events, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	for id := range events {
		raw, err := w.Fetch(ctx, id)
		if err != nil {
			// The file may have been removed again before we read it.
			logger.Warn("fetch %s: %v", id, err)
			continue
		}
		report, err := services.Ingest.IngestRaw(ctx, raw)
		if report == nil {
			cmd.Printf("✗ %s: %v\n", id, err)
			continue
		}
		printReport(cmd, report)
	}
	return nil
}
