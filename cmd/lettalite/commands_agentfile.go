package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/letta-lite/internal/agentfile"
)

func buildExportCmd() *cobra.Command {
	var (
		configPath string
		agentID    string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an agent to an agent-file document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			store, err := openStore(cliCfg)
			if err != nil {
				return err
			}
			defer store.Close()

			row, ok, err := store.GetAgent(agentID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("agent not found: %s", agentID)
			}

			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), row.State)
				return nil
			}
			return os.WriteFile(outPath, []byte(row.State), 0o644)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id to export")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")
	return cmd
}

func buildImportCmd() *cobra.Command {
	var (
		configPath string
		inPath     string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an agent-file document into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			store, err := openStore(cliCfg)
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read agent file: %w", err)
			}
			af, err := agentfile.FromJSON(string(data))
			if err != nil {
				return err
			}
			cfg, state, err := agentfile.Import(af)
			if err != nil {
				return err
			}

			a := newAgentFromState(cfg, state)
			if err := saveAgentFile(store, a); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported agent %s (%s)\n", a.State.ID, a.State.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&inPath, "in", "", "input agent-file document")
	return cmd
}
