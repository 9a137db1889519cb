// Package cli is the verdict command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

// version is set at build time.
var version = "dev"

// skipBootstrap marks commands that run without building services.
const skipBootstrap = "skip-bootstrap"

// Output modes for --output.
const (
	outputAuto = "auto"
	outputJSON = "json"
	outputText = "text"
)

// Watcher streams ids of new or changed documents in a directory.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
	Fetch(ctx context.Context, sourceID string) (*domain.RawDocument, error)
	Close() error
}

// Services holds everything commands call into. Optional fields are nil
// when not configured.
type Services struct {
	Config     domain.Config
	ConfigPath string
	Patterns   *patterns.Registry

	Extraction driving.ExtractionService
	Ingest     driving.IngestService
	Results    driving.ResultService
	Validator  driven.AIConfigValidator

	// NewWatcher opens a watcher on a local directory.
	NewWatcher func(dir string) (Watcher, error)

	// Close releases stores and clients.
	Close func()
}

// ConfigIO reads and writes configuration files for the commands that
// run before services exist.
type ConfigIO struct {
	Load        func(path string) (domain.Config, error)
	Save        func(path string, cfg domain.Config) error
	DefaultPath func() (string, error)
}

// Bootstrap builds services from the config file at path; empty means
// the default location.
type Bootstrap func(ctx context.Context, configPath string) (*Services, error)

var (
	bootstrap  Bootstrap
	configIO   ConfigIO
	services   *Services
	configPath string
	verbose    bool
	outputMode string
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Extract structured fields from Hebrew court verdicts",
	Long: `verdict parses Hebrew court verdicts (docx, pdf, txt) and extracts court,
judge, case number, date, parties and related fields, with a confidence
score for every result.

Results are stored and can be listed, reported on, exported, served over
HTTP or exposed to AI assistants over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if services != nil && services.Close != nil {
			services.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.verdict/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputMode, "output", "o", outputAuto, "output format: auto, json or text")
}

// Execute runs the root command.
func Execute(ctx context.Context, v string, boot Bootstrap, cio ConfigIO) error {
	version = v
	bootstrap = boot
	configIO = cio
	// cmd.Print* falls back to stderr when no output is set.
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	switch outputMode {
	case outputAuto, outputJSON, outputText:
	default:
		return fmt.Errorf("%w: --output must be auto, json or text", domain.ErrInvalidInput)
	}

	if skips(cmd) || services != nil {
		return nil
	}
	if bootstrap == nil {
		return errors.New("services not configured")
	}

	svc, err := bootstrap(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	services = svc
	return nil
}

// skips reports whether cmd or a parent opted out of bootstrap.
func skips(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipBootstrap] == "true" {
			return true
		}
	}
	return false
}

func noBootstrap() map[string]string {
	return map[string]string{skipBootstrap: "true"}
}

// wantJSON resolves --output. In auto mode JSON is written whenever
// stdout is not a terminal, so pipes get machine-readable output.
func wantJSON(cmd *cobra.Command) bool {
	switch outputMode {
	case outputJSON:
		return true
	case outputText:
		return false
	}
	return !isTerminal(cmd.OutOrStdout())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
