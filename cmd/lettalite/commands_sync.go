package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/letta-lite/internal/agentfile"
	"github.com/haasonsaas/letta-lite/internal/sync"
)

func buildSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push or pull an agent against a remote Letta-compatible service",
	}
	cmd.AddCommand(buildSyncPushCmd(), buildSyncPullCmd())
	return cmd
}

func syncClient(cliCfg CLIConfig, endpoint, apiKey string) *sync.Client {
	cfg := cliCfg.Sync
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	return sync.New(cfg)
}

func buildSyncPushCmd() *cobra.Command {
	var (
		configPath string
		agentID    string
		endpoint   string
		apiKey     string
	)
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push a stored agent's document to the remote",
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
			af, err := agentfile.FromJSON(row.State)
			if err != nil {
				return err
			}

			client := syncClient(cliCfg, endpoint, apiKey)
			if err := client.Push(cmd.Context(), af); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed agent %s\n", agentID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id to push")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "remote endpoint (overrides config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "bearer API key (overrides config)")
	return cmd
}

func buildSyncPullCmd() *cobra.Command {
	var (
		configPath string
		agentID    string
		endpoint   string
		apiKey     string
	)
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull an agent's document from the remote into the store",
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

			client := syncClient(cliCfg, endpoint, apiKey)
			af, err := client.Pull(cmd.Context(), agentID)
			if err != nil {
				return err
			}
			if af == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no remote document for agent %s\n", agentID)
				return nil
			}

			cfg, state, err := agentfile.Import(*af)
			if err != nil {
				return err
			}
			a := newAgentFromState(cfg, state)
			if err := saveAgentFile(store, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pulled agent %s\n", a.State.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id to pull")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "remote endpoint (overrides config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "bearer API key (overrides config)")
	return cmd
}
