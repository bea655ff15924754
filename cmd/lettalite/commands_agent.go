package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/letta-lite/internal/agent"
	"github.com/haasonsaas/letta-lite/internal/agentfile"
	"github.com/haasonsaas/letta-lite/internal/storage"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// wireState gives an agent's state access to the store it was loaded
// from and, if the CLI config names one, an embedder — so archival_insert
// can persist chunks (and their embeddings) as well as mutate in-memory
// archival entries.
func wireState(cliCfg CLIConfig, a *agent.Agent, store *storage.Store) error {
	embedder, err := buildEmbedder(cliCfg.Embeddings)
	if err != nil {
		return err
	}
	a.State.Store = store
	a.State.Embedder = embedder
	return nil
}

// newAgentFromState builds an Agent around config and state already
// reconstructed by agentfile.Import, rather than the fresh state agent.New
// would otherwise seed.
func newAgentFromState(cfg models.AgentConfig, state *agent.State) *agent.Agent {
	a := agent.New(cfg, nil)
	a.State = state
	return a
}

// openStore opens the configured store, creating the file if absent.
func openStore(cfg CLIConfig) (*storage.Store, error) {
	return storage.New(cfg.Storage)
}

// loadAgentFile reconstructs an Agent from the document snapshot stored in
// an agent row's State column.
func loadAgentFile(store *storage.Store, agentID string) (*agent.Agent, error) {
	row, ok, err := store.GetAgent(agentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("agent not found: %s", agentID)
	}

	af, err := agentfile.FromJSON(row.State)
	if err != nil {
		return nil, err
	}
	cfg, state, err := agentfile.Import(af)
	if err != nil {
		return nil, err
	}
	return newAgentFromState(cfg, state), nil
}

// saveAgentFile snapshots an Agent into its agent row, creating the row on
// first save.
func saveAgentFile(store *storage.Store, a *agent.Agent) error {
	af := agentfile.Export(a.Config, a.State, a.Tools.Schemas())
	doc, err := agentfile.ToJSON(af)
	if err != nil {
		return err
	}

	_, exists, err := store.GetAgent(a.State.ID)
	if err != nil {
		return err
	}
	row := storage.StoredAgent{
		ID:           a.State.ID,
		Name:         a.State.Name,
		SystemPrompt: a.Config.SystemPrompt,
		Config:       "{}",
		State:        doc,
		CreatedAt:    a.State.CreatedAt,
		UpdatedAt:    a.State.UpdatedAt,
	}
	if exists {
		return store.UpdateAgent(row)
	}
	return store.CreateAgent(row)
}

func buildCreateCmd() *cobra.Command {
	var (
		configPath string
		name       string
		system     string
		model      string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new agent and persist it to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg := cliCfg.Agent
			if name != "" {
				cfg.Name = name
			}
			if system != "" {
				cfg.SystemPrompt = system
			}
			if model != "" {
				cfg.Model = model
			}

			store, err := openStore(cliCfg)
			if err != nil {
				return err
			}
			defer store.Close()

			a := agent.New(cfg, nil)
			if err := saveAgentFile(store, a); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created agent %s (%s)\n", a.State.ID, a.State.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&name, "name", "", "agent name (overrides config)")
	cmd.Flags().StringVar(&system, "system", "", "system prompt (overrides config)")
	cmd.Flags().StringVar(&model, "model", "", "model backend name (overrides config)")
	return cmd
}

func buildStepCmd() *cobra.Command {
	var (
		configPath string
		agentID    string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "step <message>",
		Short: "Send a message to an agent and print its reply",
		Args:  cobra.ExactArgs(1),
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

			a, err := loadAgentFile(store, agentID)
			if err != nil {
				return err
			}
			if err := wireState(cliCfg, a, store); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			result, err := a.Step(ctx, args[0])
			if err != nil {
				return err
			}

			if err := saveAgentFile(store, a); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Text)
			for _, entry := range result.ToolTrace {
				fmt.Fprintf(out, "  [tool] %s(%s) -> %s\n", entry.Tool, entry.Args, entry.Result)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id to step")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "step timeout")
	return cmd
}
