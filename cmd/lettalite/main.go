// Command lettalite is a demonstration shell wiring the letta-lite packages
// together for manual exercise from a terminal: create an agent, step it,
// export/import its document, and push/pull it against a remote service.
// It is not a product surface — see internal/agent, internal/storage and
// internal/sync for the actual runtime.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information, populated by ldflags during release builds.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lettalite",
		Short:   "letta-lite demo CLI",
		Long:    "Create, step, export/import and sync letta-lite agents against a local SQLite store.",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		// Silence usage on a returned error; only show it on bad flags.
		SilenceUsage: true,
	}
	cmd.AddCommand(
		buildCreateCmd(),
		buildStepCmd(),
		buildExportCmd(),
		buildImportCmd(),
		buildSyncCmd(),
	)
	return cmd
}
