// Command verdict extracts structured fields from Hebrew court verdicts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := file.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cio := cli.ConfigIO{
		Load:        file.Load,
		Save:        file.Save,
		DefaultPath: file.DefaultPath,
	}
	if err := cli.Execute(ctx, version, bootstrap, cio); err != nil {
		stop()
		os.Exit(1)
	}
}
