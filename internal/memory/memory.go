package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
)

// Kind distinguishes the two memory variants: Chat (seeded with default
// conversational blocks) and Basic (empty).
type Kind string

const (
	KindChat  Kind = "chat"
	KindBasic Kind = "basic"
)

// Memory is a tagged variant holding a label -> Block mapping. Either
// variant may additionally carry a text/template string for custom
// rendering; Render uses it whenever it is set.
type Memory struct {
	Kind     Kind
	blocks   map[string]*Block
	Template string
}

// New creates an empty Basic memory.
func New() *Memory {
	return &Memory{Kind: KindBasic, blocks: make(map[string]*Block)}
}

// NewChat creates a Chat memory seeded with the two default blocks letta
// agents converse with out of the box.
func NewChat() *Memory {
	m := &Memory{Kind: KindChat, blocks: make(map[string]*Block)}
	m.blocks["persona"] = NewBlock("persona", "Agent's personality and behavior", "I am a helpful AI assistant.")
	m.blocks["human"] = NewBlock("human", "Information about the user", "User preferences and context will be stored here.")
	return m
}

// GetBlock returns the block with the given label, or nil if absent.
func (m *Memory) GetBlock(label string) *Block {
	return m.blocks[label]
}

// Blocks returns the underlying label -> Block map. Callers must not
// mutate the map itself; block values may be mutated through their own
// methods.
func (m *Memory) Blocks() map[string]*Block {
	return m.blocks
}

// SetBlock creates the block on first use, with description "User-defined
// block" and the default limit; otherwise it replaces the existing
// block's value, failing with a Memory error if the value is oversize.
func (m *Memory) SetBlock(label, value string) error {
	if b, ok := m.blocks[label]; ok {
		return b.Replace(value)
	}
	b := NewBlock(label, "User-defined block", "")
	if err := b.Replace(value); err != nil {
		return err
	}
	m.blocks[label] = b
	return nil
}

// AppendBlock appends text to an existing block, failing with a Memory
// error if the block doesn't exist.
func (m *Memory) AppendBlock(label, text string) error {
	b, ok := m.blocks[label]
	if !ok {
		return lettaerr.New(lettaerr.KindMemory, fmt.Sprintf("block %q does not exist", label))
	}
	b.Append(text)
	return nil
}

// TokenEstimate sums the per-block token estimate across all blocks.
func (m *Memory) TokenEstimate() int {
	total := 0
	for _, b := range m.blocks {
		total += b.TokenEstimate()
	}
	return total
}

// Render renders the memory's blocks. With no template set, each block is
// emitted as "<{label}_block>\n{value}\n</{label}_block>\n\n" in
// label-sorted order. With a template set, renderTemplate is used instead
// and failures surface as a Memory error.
func (m *Memory) Render() (string, error) {
	if m.Template != "" {
		return m.renderTemplate()
	}
	return m.renderDefault(), nil
}

func (m *Memory) renderDefault() string {
	labels := make([]string, 0, len(m.blocks))
	for l := range m.blocks {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	var sb strings.Builder
	for _, label := range labels {
		b := m.blocks[label]
		sb.WriteString(fmt.Sprintf("<%s_block>\n%s\n</%s_block>\n\n", label, b.Value, label))
	}
	return sb.String()
}

func (m *Memory) renderTemplate() (string, error) {
	vars := make(map[string]any, len(m.blocks))
	for label, b := range m.blocks {
		vars[label] = b.Value
	}
	out, err := renderTemplateString(m.Template, vars)
	if err != nil {
		return "", lettaerr.Wrap(lettaerr.KindMemory, err)
	}
	return out, nil
}
