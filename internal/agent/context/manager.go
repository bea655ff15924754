// Package context provides the agent's context manager: prompt assembly
// from system prompt, memory and message buffer, token-budget tracking,
// and the rolling summary used once a conversation reaches the
// summarization threshold of its token budget.
package context

import (
	"fmt"
	"strings"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/internal/memory"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// DefaultSummarizationThreshold is the fraction of max_tokens at which
// ShouldSummarize begins reporting true.
const DefaultSummarizationThreshold = 0.8

// Manager tracks the token budget for one agent's conversation and
// assembles prompts from its current memory and message buffer.
type Manager struct {
	MaxTokens              int
	CurrentTokens          int
	SummarizationThreshold float64
}

// NewManager constructs a Manager for the given token budget.
func NewManager(maxTokens int) *Manager {
	return &Manager{
		MaxTokens:              maxTokens,
		SummarizationThreshold: DefaultSummarizationThreshold,
	}
}

// BuildPrompt assembles the single prompt string sent to a provider,
// updates CurrentTokens from the assembled pieces, and returns
// lettaerr.KindContextOverflow when the estimate exceeds MaxTokens.
func (m *Manager) BuildPrompt(systemPrompt string, mem *memory.Memory, messages []models.Message, maxMessages int) (string, error) {
	rendered, err := mem.Render()
	if err != nil {
		return "", err
	}

	recent := messages
	if maxMessages >= 0 && len(recent) > maxMessages {
		recent = recent[len(recent)-maxMessages:]
	}

	var conv strings.Builder
	for _, msg := range recent {
		conv.WriteString(renderMessageLine(msg))
		conv.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("System: %s", systemPrompt))
	sb.WriteString("\n\n<memory>\n")
	sb.WriteString(rendered)
	sb.WriteString("</memory>")
	sb.WriteString("\n\n<conversation>\n")
	sb.WriteString(conv.String())
	sb.WriteString("</conversation>")

	tokens := ceilDiv(len(systemPrompt), 4) + mem.TokenEstimate()
	for _, msg := range recent {
		tokens += msg.TokenEstimate()
	}
	m.CurrentTokens = tokens

	if err := m.CheckOverflow(0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderMessageLine(msg models.Message) string {
	switch msg.Role {
	case models.RoleSystem:
		return fmt.Sprintf("System: %s", msg.Content)
	case models.RoleUser:
		return fmt.Sprintf("User: %s", msg.Content)
	case models.RoleAssistant:
		return fmt.Sprintf("Assistant: %s", msg.Content)
	case models.RoleTool:
		id := msg.ToolCallID
		if id == "" {
			id = "unknown"
		}
		return fmt.Sprintf("Tool [%s]: %s", id, msg.Content)
	default:
		return msg.Content
	}
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// CheckOverflow returns a ContextOverflow error when CurrentTokens plus
// extra exceeds MaxTokens.
func (m *Manager) CheckOverflow(extra int) error {
	if m.CurrentTokens+extra > m.MaxTokens {
		return lettaerr.Overflow(m.CurrentTokens+extra, m.MaxTokens)
	}
	return nil
}

// UpdateUsage overwrites CurrentTokens, e.g. from a provider's reported
// usage instead of the local estimate.
func (m *Manager) UpdateUsage(tokens int) {
	m.CurrentTokens = tokens
}

// ShouldSummarize reports whether the current usage ratio has crossed
// SummarizationThreshold.
func (m *Manager) ShouldSummarize() bool {
	if m.MaxTokens <= 0 {
		return false
	}
	return float64(m.CurrentTokens)/float64(m.MaxTokens) >= m.SummarizationThreshold
}

// SummarizeMessages produces a plain-text rolling summary of every
// user/assistant message except the most recent keepRecent, skipping
// system and tool messages. Each bullet truncates its content to 100
// characters with an ellipsis when longer.
func SummarizeMessages(messages []models.Message, keepRecent int) string {
	if keepRecent < 0 {
		keepRecent = 0
	}
	cut := len(messages) - keepRecent
	if cut < 0 {
		cut = 0
	}
	older := messages[:cut]

	var sb strings.Builder
	sb.WriteString("Previous conversation summary:\n")
	for _, msg := range older {
		var role string
		switch msg.Role {
		case models.RoleUser:
			role = "User"
		case models.RoleAssistant:
			role = "Assistant"
		default:
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", role, truncateContent(msg.Content)))
	}
	return sb.String()
}

func truncateContent(s string) string {
	runes := []rune(s)
	if len(runes) <= 100 {
		return s
	}
	return string(runes[:100]) + "…"
}
