package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View, create and validate the verdict configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the effective configuration",
	Annotations: noBootstrap(),
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Interactive setup wizard",
	Long:        `Run an interactive wizard that writes the config file step by step.`,
	Annotations: noBootstrap(),
	RunE:        runConfigInit,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that configured AI services are reachable",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (domain.Config, error) {
	if configIO.Load == nil {
		return domain.Config{}, errors.New("config loader not configured")
	}
	return configIO.Load(configPath)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	ex := cfg.Extractor
	cmd.Println("[Extractor]")
	cmd.Printf("  Mode: %s\n", ex.Mode)
	strategies := make([]string, len(ex.Strategies))
	for i, s := range ex.Strategies {
		strategies[i] = string(s)
	}
	cmd.Printf("  Strategies: %s\n", strings.Join(strategies, ", "))
	cmd.Printf("  Scan window: %d lines\n", ex.ScanWindow)
	cmd.Printf("  Max value length: %d\n", ex.MaxValueLength)
	cmd.Printf("  Timeout: %s\n", ex.Timeout)
	cmd.Printf("  Workers: %d\n", ex.Workers)
	cmd.Printf("  Confidence threshold: %.2f\n", ex.ConfidenceThreshold)
	if len(cfg.Fields) > 0 {
		cmd.Printf("  Fields: %d configured\n", len(cfg.Fields))
	} else {
		cmd.Println("  Fields: built-in")
	}
	cmd.Println()

	cmd.Println("[NER]")
	if cfg.NER.IsConfigured() {
		cmd.Printf("  Endpoint: %s\n", cfg.NER.Endpoint)
		cmd.Printf("  Timeout: %s\n", cfg.NER.Timeout)
	} else {
		cmd.Println("  Status: not configured")
	}
	cmd.Println()

	cmd.Println("[LLM]")
	if len(cfg.LLM) == 0 {
		cmd.Println("  Status: not configured")
	}
	for _, p := range domain.AllLLMProviders() {
		if _, ok := cfg.LLM[p]; !ok {
			continue
		}
		s := cfg.LLMFor(p)
		cmd.Printf("  %s\n", p.Description())
		cmd.Printf("    Model: %s\n", s.Model)
		if s.BaseURL != "" {
			cmd.Printf("    Base URL: %s\n", s.BaseURL)
		}
		if p.RequiresAPIKey() {
			if s.APIKey != "" {
				cmd.Printf("    API Key: %s\n", maskAPIKey(s.APIKey))
			} else {
				cmd.Println("    API Key: (not set)")
			}
		}
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case domain.StorageSQLite:
		path := cfg.Storage.Path
		if path == "" {
			path = "(default)"
		}
		cmd.Printf("  Path: %s\n", path)
	case domain.StoragePostgres:
		cmd.Printf("  DSN: %s\n", maskDSN(cfg.Storage.DSN))
	}
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Kind: %s\n", cfg.Source.Kind)
	if cfg.Source.Kind == domain.SourceS3 {
		cmd.Printf("  Bucket: %s\n", cfg.Source.Bucket)
		cmd.Printf("  Prefix: %s\n", cfg.Source.Prefix)
		cmd.Printf("  Region: %s\n", cfg.Source.Region)
	} else {
		cmd.Printf("  Path: %s\n", cfg.Source.Path)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if configIO.Save == nil {
		return errors.New("config writer not configured")
	}

	path := configPath
	if path == "" && configIO.DefaultPath != nil {
		p, err := configIO.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg := domain.DefaultConfig()
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Verdict Setup Wizard")
	cmd.Println("====================")
	cmd.Println()

	modes := domain.AllExtractionModes()
	cmd.Println("Select extraction mode")
	for i, m := range modes {
		cmd.Printf("  %d. %s\n", i+1, m.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	cfg.Extractor.Mode = modes[parseChoice(readLine(reader), len(modes), 1)-1]
	cmd.Println()

	if cfg.Extractor.Mode != domain.ModePipeline {
		cmd.Print("NER endpoint (empty to skip): ")
		cfg.NER.Endpoint = readLine(reader)
		cmd.Println()
	}

	if cfg.Extractor.Mode == domain.ModeSelect {
		if cfg.NER.IsConfigured() {
			cfg.Extractor.Strategies = append(cfg.Extractor.Strategies, domain.StrategyNER)
		}
		cmd.Print("Configure an LLM provider? [y/N]: ")
		if strings.EqualFold(readLine(reader), "y") {
			settings, err := configureLLMProvider(cmd, reader)
			if err != nil {
				return err
			}
			cfg.LLM[settings.Provider] = settings
			name, _ := domain.StrategyForProvider(settings.Provider)
			cfg.Extractor.Strategies = append(cfg.Extractor.Strategies, name)
		}
		cmd.Println()
	}

	cmd.Printf("Documents directory [%s]: ", cfg.Source.Path)
	if dir := readLine(reader); dir != "" {
		cfg.Source.Path = dir
	}

	if err := configIO.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("\nConfiguration written to %s\n", path)
	cmd.Println("Run 'verdict config check' to validate AI services.")
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) (domain.LLMSettings, error) {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	selected := providers[parseChoice(readLine(reader), len(providers), 1)-1]

	defaultModel := domain.DefaultLLMModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	settings := domain.LLMSettings{Provider: selected, Model: model}
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		settings.APIKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if settings.APIKey == "" {
			return settings, errors.New("API key is required for this provider")
		}
	}
	return settings, nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if services.Validator == nil {
		return errors.New("validator not configured")
	}
	cfg := services.Config
	failed := 0

	check := func(name string, fn func() error) {
		cmd.Printf("%-12s ", name)
		if err := fn(); err != nil {
			failed++
			cmd.Printf("FAILED: %v\n", err)
			return
		}
		cmd.Println("OK")
	}

	if len(cfg.LLM) == 0 && !cfg.NER.IsConfigured() {
		cmd.Println("No AI services configured; pipeline mode needs none.")
		return nil
	}
	for _, p := range domain.AllLLMProviders() {
		if _, ok := cfg.LLM[p]; !ok {
			continue
		}
		settings := cfg.LLMFor(p)
		check(string(p), func() error { return services.Validator.ValidateLLM(&settings) })
	}
	if cfg.NER.IsConfigured() {
		check("ner", func() error { return services.Validator.ValidateNER(&cfg.NER) })
	}

	if failed > 0 {
		return fmt.Errorf("%d service(s) unreachable", failed)
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return dsn[:scheme+3] + creds[:colon] + ":****" + dsn[at:]
	}
	return dsn
}
