// Package providers implements the LLM completion contract and a handful
// of concrete backends: a deterministic test provider used throughout the
// test suite, and thin wrappers over the Anthropic and OpenAI SDKs.
package providers

import (
	"context"

	"github.com/haasonsaas/letta-lite/pkg/models"
)

// DefaultMaxTokens is the max-tokens value a provider falls back to when a
// request doesn't specify one.
const DefaultMaxTokens = 8192

// CompletionRequest is the single call shape every provider accepts.
// Stream is carried for interchange-format parity with the original
// implementation but is unused by the core step loop.
type CompletionRequest struct {
	Prompt      string
	Tools       []models.ToolSchema
	Temperature float64
	MaxTokens   int
	Stream      bool
}

// Usage reports the token accounting for a single completion call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is a provider's response to a CompletionRequest. A provider
// may return text only, tool calls only (with empty Text), or both.
type Completion struct {
	Text             string
	ToolCalls        []models.ToolCall
	RequestHeartbeat bool
	Usage            Usage
}

// WithHeartbeat sets RequestHeartbeat and returns the completion for
// chaining, matching the builder style the original core exposes.
func (c Completion) WithHeartbeat(v bool) Completion {
	c.RequestHeartbeat = v
	return c
}

// TextCompletion builds a text-only completion.
func TextCompletion(text string) Completion {
	return Completion{Text: text}
}

// Provider is the contract every LLM backend implements: a single
// request/response completion call plus an optional embedder.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
	MaxTokens() int
}

// Embedder is implemented by providers that can turn text into vectors for
// archival chunks. A provider need not implement it; callers should type-
// assert and fall back to storing chunks without an embedding.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ZeroEmbed is the default embed() behavior the contract permits: one
// zero vector of the given dimension per input text.
func ZeroEmbed(texts []string, dimension int) [][]float32 {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, dimension)
	}
	return out
}
