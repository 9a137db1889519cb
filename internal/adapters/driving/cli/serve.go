package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API",
	Long: `Starts the HTTP API.

Endpoints:
  POST /api/v1/extract        extract fields from {"source_id", "text"}
  POST /api/v1/select         run every declared strategy and show scores
  GET  /api/v1/verdicts       list stored results (?limit, ?offset, ?status)
  GET  /api/v1/verdicts/:id   one verdict with its latest extraction
  GET  /api/v1/stats          store statistics
  GET  /api/v1/report         aggregate report as text
  GET  /api/v1/export         export (?format=jsonl|xlsx)
  GET  /healthz               liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if services.Extraction == nil || services.Results == nil {
		return errors.New("services not configured")
	}

	server, err := httpapi.NewServer(httpapi.Ports{
		Extraction: services.Extraction,
		Results:    services.Results,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = services.Config.Server.Addr
	}
	cmd.Printf("API listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
