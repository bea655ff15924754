// Package agentfile implements the versioned, self-describing interchange
// document used to move an agent between hosts and to feed the sync
// client: export a running agent into a document, or import a document
// back into a fresh config + state pair.
package agentfile

import (
	"encoding/json"
	"time"

	"github.com/haasonsaas/letta-lite/internal/agent"
	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/internal/memory"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// Version is the agent-file format version this codec reads and writes.
const Version = "0.1.0"

// ExportSource identifies this runtime as the producer of a document.
const ExportSource = "letta-lite"

// letta_version stamped into exported documents' metadata. Not a release
// number of this repo; it names the compatible Letta agent-file dialect.
const lettaVersion = "0.1.0"

// AgentFileV1 is the top-level interchange document.
type AgentFileV1 struct {
	Version    string            `json:"version"`
	Agents     []AgentExport     `json:"agents"`
	Groups     []GroupExport     `json:"groups,omitempty"`
	Blocks     []BlockExport     `json:"blocks"`
	Files      []FileExport      `json:"files,omitempty"`
	Sources    []SourceExport    `json:"sources,omitempty"`
	Tools      []ToolExport      `json:"tools,omitempty"`
	McpServers []McpServerExport `json:"mcp_servers,omitempty"`
	Metadata   Metadata          `json:"metadata"`
}

// AgentExport carries everything needed to reconstruct one agent.
type AgentExport struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	SystemPrompt      string           `json:"system_prompt"`
	MessageBufferSize int              `json:"message_buffer_size"`
	AgentState        AgentStateExport `json:"agent_state"`
	Messages          []models.Message `json:"messages"`
	Model             ModelConfig      `json:"model"`
}

// AgentStateExport is the mutable-state subrecord of an AgentExport.
type AgentStateExport struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Tools     []string       `json:"tools"`
	ToolRules []ToolRule     `json:"tool_rules,omitempty"`
	Memory    MemoryExport   `json:"memory"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// MemoryExport references the flat blocks[] array by id rather than
// nesting block records under the agent.
type MemoryExport struct {
	MemoryClass string   `json:"memory_class"`
	Blocks      []string `json:"blocks"`
	Template    string   `json:"template,omitempty"`
}

// BlockExport is a memory block record living in the top-level blocks[].
type BlockExport struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Limit       int    `json:"limit"`
}

// GroupExport names a set of agent ids sharing a group; unused by this
// runtime's own agents but preserved for round-tripping foreign documents.
type GroupExport struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// FileExport carries an attached file's content inline.
type FileExport struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SourceExport names an external data source an agent is attached to.
type SourceExport struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	SourceType string         `json:"source_type"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ToolExport carries one tool's schema and optional source.
type ToolExport struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Schema     models.ToolSchema `json:"schema"`
	SourceCode string            `json:"source_code,omitempty"`
	SourceType string            `json:"source_type"`
}

// McpServerExport names an MCP server and its opaque config.
type McpServerExport struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Config any    `json:"config"`
}

// ToolRule constrains which tools may follow another in a single turn.
type ToolRule struct {
	ToolName string   `json:"tool_name"`
	Children []string `json:"children"`
}

// ModelConfig names the model backend an agent was configured with.
type ModelConfig struct {
	ModelEndpoint string   `json:"model_endpoint"`
	ContextWindow int      `json:"context_window"`
	Temperature   *float64 `json:"temperature,omitempty"`
	MaxTokens     *int     `json:"max_tokens,omitempty"`
}

// Metadata describes provenance of the document itself.
type Metadata struct {
	LettaVersion string         `json:"letta_version"`
	ExportTime   time.Time      `json:"export_time"`
	ExportSource string         `json:"export_source"`
	Additional   map[string]any `json:"additional,omitempty"`
}

// Export serializes a running agent's config, state and tool schemas into
// a document carrying exactly one agent.
func Export(cfg models.AgentConfig, state *agent.State, toolSchemas []models.ToolSchema) AgentFileV1 {
	blocks := make([]BlockExport, 0, len(state.Memory.Blocks()))
	blockIDs := make([]string, 0, len(state.Memory.Blocks()))
	for label, b := range state.Memory.Blocks() {
		id := "block_" + label
		blocks = append(blocks, BlockExport{
			ID:          id,
			Label:       b.Label,
			Description: b.Description,
			Value:       b.Value,
			Limit:       b.Limit,
		})
		blockIDs = append(blockIDs, id)
	}

	memoryClass := "BasicMemory"
	if state.Memory.Kind == memory.KindChat {
		memoryClass = "ChatMemory"
	}

	toolNames := make([]string, 0, len(toolSchemas))
	for _, s := range toolSchemas {
		toolNames = append(toolNames, s.Name)
	}

	var tools []ToolExport
	if len(toolSchemas) > 0 {
		tools = make([]ToolExport, 0, len(toolSchemas))
		for _, s := range toolSchemas {
			tools = append(tools, ToolExport{
				ID:         "tool_" + s.Name,
				Name:       s.Name,
				Schema:     s,
				SourceType: "builtin",
			})
		}
	}

	temperature := cfg.Temperature
	agentExport := AgentExport{
		ID:                state.ID,
		Name:              state.Name,
		SystemPrompt:      cfg.SystemPrompt,
		MessageBufferSize: cfg.MaxMessages,
		AgentState: AgentStateExport{
			CreatedAt: state.CreatedAt,
			UpdatedAt: state.UpdatedAt,
			Tools:     toolNames,
			Memory: MemoryExport{
				MemoryClass: memoryClass,
				Blocks:      blockIDs,
				Template:    state.Memory.Template,
			},
			Metadata: state.Metadata,
		},
		Messages: state.Messages.Messages(),
		Model: ModelConfig{
			ModelEndpoint: cfg.Model,
			ContextWindow: cfg.MaxContextTokens,
			Temperature:   &temperature,
		},
	}

	return AgentFileV1{
		Version: Version,
		Agents:  []AgentExport{agentExport},
		Blocks:  blocks,
		Tools:   tools,
		Metadata: Metadata{
			LettaVersion: lettaVersion,
			ExportTime:   time.Now(),
			ExportSource: ExportSource,
		},
	}
}

// Import reconstructs a config and state from a document's first agent.
// Unknown top-level fields were already dropped by JSON unmarshalling;
// optional fields absent from the document are left at their zero value,
// except a missing model temperature, which defaults to 0.7.
func Import(af AgentFileV1) (models.AgentConfig, *agent.State, error) {
	if len(af.Agents) == 0 {
		return models.AgentConfig{}, nil, lettaerr.New(lettaerr.KindInvalidConfig, "agent file has no agents")
	}
	export := af.Agents[0]

	temperature := 0.7
	if export.Model.Temperature != nil {
		temperature = *export.Model.Temperature
	}

	cfg := models.AgentConfig{
		Name:             export.Name,
		SystemPrompt:     export.SystemPrompt,
		Model:            export.Model.ModelEndpoint,
		MaxMessages:      export.MessageBufferSize,
		MaxContextTokens: export.Model.ContextWindow,
		Temperature:      temperature,
		ToolsEnabled:     len(export.AgentState.Tools) > 0,
	}

	state := agent.NewState(cfg)
	state.ID = export.ID
	state.Name = export.Name
	state.CreatedAt = export.AgentState.CreatedAt
	state.UpdatedAt = export.AgentState.UpdatedAt
	if export.AgentState.Metadata != nil {
		state.Metadata = export.AgentState.Metadata
	}

	if export.AgentState.Memory.MemoryClass == "ChatMemory" {
		state.Memory.Kind = memory.KindChat
	} else {
		state.Memory.Kind = memory.KindBasic
	}
	state.Memory.Template = export.AgentState.Memory.Template

	blocksByID := make(map[string]BlockExport, len(af.Blocks))
	for _, b := range af.Blocks {
		blocksByID[b.ID] = b
	}
	for label := range state.Memory.Blocks() {
		delete(state.Memory.Blocks(), label)
	}
	for _, blockID := range export.AgentState.Memory.Blocks {
		b, ok := blocksByID[blockID]
		if !ok {
			continue
		}
		state.Memory.Blocks()[b.Label] = memory.NewBlock(b.Label, b.Description, b.Value)
		state.Memory.Blocks()[b.Label].Limit = b.Limit
	}

	for _, m := range export.Messages {
		state.Messages.Push(m)
	}

	return cfg, state, nil
}

// ToJSON pretty-prints a document. Marshal failures surface as a
// Serialization error.
func ToJSON(af AgentFileV1) (string, error) {
	b, err := json.MarshalIndent(af, "", "  ")
	if err != nil {
		return "", lettaerr.Wrap(lettaerr.KindSerialization, err)
	}
	return string(b), nil
}

// FromJSON parses a document. Parse failures surface as a Serialization
// error.
func FromJSON(data string) (AgentFileV1, error) {
	var af AgentFileV1
	if err := json.Unmarshal([]byte(data), &af); err != nil {
		return AgentFileV1{}, lettaerr.Wrap(lettaerr.KindSerialization, err)
	}
	return af, nil
}
