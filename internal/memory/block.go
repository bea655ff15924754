// Package memory implements the typed, size-bounded text blocks rendered
// into every prompt, and the render pipeline (plain or templated) the
// context manager consumes.
package memory

import (
	"unicode/utf8"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
)

// DefaultBlockLimit is the byte limit a block gets when none is specified.
const DefaultBlockLimit = 2000

// Block is a labelled, size-bounded piece of text memory. The invariant
// len(Value) <= Limit holds after every successful mutation.
type Block struct {
	Label       string
	Description string
	Value       string
	Limit       int
}

// NewBlock creates a block with the given label, description and initial
// value, defaulting Limit to DefaultBlockLimit.
func NewBlock(label, description, value string) *Block {
	return &Block{Label: label, Description: description, Value: value, Limit: DefaultBlockLimit}
}

// Replace overwrites the block's value. It fails with a Memory error if v
// exceeds the block's limit.
func (b *Block) Replace(v string) error {
	if len(v) > b.Limit {
		return lettaerr.New(lettaerr.KindMemory, "value exceeds block limit")
	}
	b.Value = v
	return nil
}

// Append concatenates value + "\n" + text. If the result exceeds the
// block's limit, it is truncated from the front to at most Limit bytes
// (fewer when the cut would otherwise split a UTF-8 scalar), preserving
// the most recent content.
func (b *Block) Append(text string) {
	combined := b.Value + "\n" + text
	if len(combined) <= b.Limit {
		b.Value = combined
		return
	}
	b.Value = truncateFront(combined, b.Limit)
}

// truncateFront keeps the trailing limit bytes of s, advancing forward
// until it lands on a UTF-8 scalar boundary so no rune is split.
func truncateFront(s string, limit int) string {
	start := len(s) - limit
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

// TokenEstimate is the cheap per-block token count: one token per four
// content bytes.
func (b *Block) TokenEstimate() int {
	return len(b.Value) / 4
}
