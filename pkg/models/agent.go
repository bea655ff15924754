package models

import "time"

// AgentConfig is the immutable configuration an agent is created with.
type AgentConfig struct {
	Name             string  `json:"name" yaml:"name"`
	SystemPrompt     string  `json:"system_prompt" yaml:"system_prompt"`
	Model            string  `json:"model" yaml:"model"`
	MaxMessages      int     `json:"max_messages" yaml:"max_messages"`
	MaxContextTokens int     `json:"max_context_tokens" yaml:"max_context_tokens"`
	Temperature      float64 `json:"temperature" yaml:"temperature"`
	ToolsEnabled     bool    `json:"tools_enabled" yaml:"tools_enabled"`
}

// DefaultAgentConfig returns the configuration a bare `AgentConfig{}` yields
// in the original implementation: a generically helpful assistant running
// on the deterministic test provider.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Name:             "assistant",
		SystemPrompt:     "You are a helpful AI assistant with persistent memory.",
		Model:            "toy",
		MaxMessages:      100,
		MaxContextTokens: 8192,
		Temperature:      0.7,
		ToolsEnabled:     true,
	}
}

// ArchivalEntry is an append-only opaque text record kept on an agent's
// state, optionally backed by a full-text index and an embedding once
// persisted to the store.
type ArchivalEntry struct {
	Folder    string    `json:"folder"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
