package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect field extraction patterns",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the active pattern registry",
	Args:  cobra.NoArgs,
	RunE:  runPatternsList,
}

var patternsCheckCmd = &cobra.Command{
	Use:   "check [config-file]",
	Short: "Compile the patterns of a config file",
	Long: `Loads a config file (default: --config or ~/.verdict/config.toml) and
compiles its field patterns, reporting the first invalid one.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: noBootstrap(),
	RunE:        runPatternsCheck,
}

func init() {
	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsCheckCmd)
	rootCmd.AddCommand(patternsCmd)
}

func runPatternsList(cmd *cobra.Command, _ []string) error {
	if services.Patterns == nil {
		return errors.New("pattern registry not configured")
	}

	specs := services.Patterns.Specs()
	if wantJSON(cmd) {
		out := make([]map[string]any, len(specs))
		for i, s := range specs {
			out[i] = map[string]any{
				"name":       s.Name,
				"primary":    s.Primary,
				"fallback":   s.Fallback,
				"keywords":   s.Keywords,
				"multi":      s.Multi,
				"first_line": s.FirstLine,
				"probe":      s.Probe,
			}
		}
		return printJSON(cmd, out)
	}

	for _, s := range specs {
		var flags []string
		if s.Multi {
			flags = append(flags, "multi")
		}
		if s.FirstLine {
			flags = append(flags, "first-line")
		}
		if s.Probe {
			flags = append(flags, "probe")
		}
		cmd.Printf("%s (%s)", s.Name, s.Name.Label())
		if len(flags) > 0 {
			cmd.Printf(" [%s]", strings.Join(flags, ", "))
		}
		cmd.Println()
		for i, p := range s.Primary {
			cmd.Printf("  primary[%d]  %s\n", i, p)
		}
		for i, p := range s.Fallback {
			cmd.Printf("  fallback[%d] %s\n", i, p)
		}
		if len(s.Keywords) > 0 {
			cmd.Printf("  keywords    %s\n", strings.Join(s.Keywords, ", "))
		}
	}
	return nil
}

func runPatternsCheck(cmd *cobra.Command, args []string) error {
	if configIO.Load == nil {
		return errors.New("config loader not configured")
	}
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := configIO.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	reg, err := patterns.ForSpecs(cfg.Fields)
	if err != nil {
		return err
	}

	source := "built-in"
	if len(cfg.Fields) > 0 {
		source = "configured"
	}
	cmd.Printf("OK: %d %s fields compiled\n", reg.Len(), source)
	return nil
}
