// Package models holds the wire types shared across the agent, memory,
// context, storage and sync packages.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who (or what) produced a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCallInfo is the subset of a tool call carried on an assistant message:
// enough for the context manager to render it and for a later tool message
// to reference it by ID.
type ToolCallInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one turn of a conversation. Content must be valid UTF-8.
// ToolCalls is only populated on assistant messages that invoke tools.
// ToolCallID is only set when Role is RoleTool, naming the call it answers.
type Message struct {
	ID         string         `json:"id"`
	Role       Role           `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []ToolCallInfo `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage builds a system-role message.
func NewSystemMessage(content string) Message {
	return newMessage(RoleSystem, content)
}

// NewUserMessage builds a user-role message.
func NewUserMessage(content string) Message {
	return newMessage(RoleUser, content)
}

// NewAssistantMessage builds an assistant-role message.
func NewAssistantMessage(content string) Message {
	return newMessage(RoleAssistant, content)
}

// NewToolMessage builds a tool-role message answering toolCallID.
func NewToolMessage(content, toolCallID string) Message {
	m := newMessage(RoleTool, content)
	m.ToolCallID = toolCallID
	return m
}

// WithToolCalls attaches tool calls to an assistant message and returns it.
func (m Message) WithToolCalls(calls []ToolCallInfo) Message {
	m.ToolCalls = calls
	return m
}

// TokenEstimate is the cheap, provider-agnostic token count used by the
// context manager's budget accounting: one token per four content bytes.
func (m Message) TokenEstimate() int {
	return len(m.Content) / 4
}

// MessageBuffer is a fixed-capacity, insertion-ordered window over recent
// messages. Push evicts the oldest message once MaxSize is exceeded.
type MessageBuffer struct {
	messages []Message
	maxSize  int
}

// NewMessageBuffer creates a buffer holding at most maxSize messages; a
// maxSize below 1 is treated as 1.
func NewMessageBuffer(maxSize int) *MessageBuffer {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &MessageBuffer{maxSize: maxSize}
}

// Push appends a message, dropping the oldest entries once over capacity.
func (b *MessageBuffer) Push(m Message) {
	b.messages = append(b.messages, m)
	for len(b.messages) > b.maxSize {
		b.messages = b.messages[1:]
	}
}

// Messages returns the buffer's contents in insertion order. The returned
// slice is owned by the caller.
func (b *MessageBuffer) Messages() []Message {
	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len reports the number of messages currently held.
func (b *MessageBuffer) Len() int {
	return len(b.messages)
}

// GetRecent returns the last n messages, oldest first. If n exceeds the
// buffer's length the whole buffer is returned.
func (b *MessageBuffer) GetRecent(n int) []Message {
	if n <= 0 {
		return nil
	}
	if n > len(b.messages) {
		n = len(b.messages)
	}
	start := len(b.messages) - n
	out := make([]Message, n)
	copy(out, b.messages[start:])
	return out
}

// Search returns up to limit messages whose content contains query,
// case-insensitively, in insertion order.
func (b *MessageBuffer) Search(query string, limit int) []Message {
	if limit <= 0 {
		return nil
	}
	q := strings.ToLower(query)
	var out []Message
	for _, m := range b.messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Clear empties the buffer.
func (b *MessageBuffer) Clear() {
	b.messages = nil
}
