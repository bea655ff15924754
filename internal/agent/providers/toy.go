package providers

import (
	"context"
	"strings"

	"github.com/haasonsaas/letta-lite/pkg/models"
)

// Toy is the deterministic test backend used throughout this module's own
// tests and as the default model for a bare AgentConfig. It never calls
// out to the network; its behavior is a fixed set of triggers matched
// against the rendered prompt, letting step-loop and tool-dispatch tests
// exercise real control flow without a live LLM.
type Toy struct {
	// Deterministic selects the fallback response when no trigger
	// matches: a fixed sentence when true, a "this is a test response"
	// sentence when false. Tests that assert on literal text should set
	// this to true.
	Deterministic bool
}

var _ Provider = (*Toy)(nil)

// NewToy constructs a deterministic Toy provider.
func NewToy() *Toy {
	return &Toy{Deterministic: true}
}

func (t *Toy) Name() string { return "toy" }

func (t *Toy) MaxTokens() int { return DefaultMaxTokens }

// Complete matches the rendered prompt against a small set of literal
// triggers, checked in order:
//
//   - "Tool ["         -> text summarizing a prior tool result
//   - "#DO_SEARCH"     -> a single archival_search tool call, heartbeat set
//   - "#MEMORY_UPDATE" -> a single memory_replace tool call
//   - otherwise        -> a fixed acknowledgement sentence
//
// "Tool [" is checked first: once a tool call has run, its result message
// carries that marker into every later iteration's prompt alongside the
// original trigger word, and a prompt that already holds a tool result
// should summarize rather than re-issue the same call.
func (t *Toy) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	switch {
	case strings.Contains(req.Prompt, "Tool ["):
		return TextCompletion("Based on the search results, here's a summary of what was found."), nil

	case strings.Contains(req.Prompt, "#DO_SEARCH"):
		return Completion{
			ToolCalls: []models.ToolCall{{
				ID:        "toy-call-1",
				Name:      "archival_search",
				Arguments: `{"query":"latest readings","top_k":3}`,
			}},
			RequestHeartbeat: true,
		}, nil

	case strings.Contains(req.Prompt, "#MEMORY_UPDATE"):
		return Completion{
			ToolCalls: []models.ToolCall{{
				ID:        "toy-call-1",
				Name:      "memory_replace",
				Arguments: `{"label":"human","value":"Updated via memory_replace."}`,
			}},
		}, nil

	default:
		if t.Deterministic {
			return TextCompletion("I understand your request. How can I help you further?"), nil
		}
		return TextCompletion("This is a test response from the toy provider."), nil
	}
}

// Embed returns a zero vector of dimension 768 per input text, matching
// the contract's documented default.
func (t *Toy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return ZeroEmbed(texts, 768), nil
}
