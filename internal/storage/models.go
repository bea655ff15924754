package storage

import (
	"math"
	"time"
)

// StoredAgent is the row shape of the agents table: config and state are
// kept as opaque JSON documents so the store never needs to track the
// shape of the in-memory types it persists.
type StoredAgent struct {
	ID           string
	Name         string
	SystemPrompt string
	Config       string // JSON
	State        string // JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StoredBlock is one memory block row, unique per (AgentID, Label).
type StoredBlock struct {
	ID          string
	AgentID     string
	Label       string
	Description string
	Value       string
	Limit       int
	UpdatedAt   time.Time
}

// StoredMessage is one conversation-buffer row.
type StoredMessage struct {
	ID         string
	AgentID    string
	Role       string
	Content    string
	ToolCalls  string // JSON, empty when absent
	ToolCallID string
	Metadata   string // JSON
	Timestamp  time.Time
}

// StoredChunk is one archival-entry row, optionally carrying a packed
// little-endian f32 embedding alongside the full-text-indexed text.
type StoredChunk struct {
	ID        string
	AgentID   string
	Folder    string
	Text      string
	Metadata  string // JSON
	Embedding []byte
	CreatedAt time.Time
}

// SyncMetadata tracks one entity's local/cloud version pair, keyed by
// (EntityType, EntityID).
type SyncMetadata struct {
	EntityType   string
	EntityID     string
	LocalVersion int64
	CloudVersion int64
	LastSyncAt   time.Time
	SyncStatus   string
}

// EncodeEmbedding packs a float32 vector into a little-endian byte blob
// for the chunks.embedding column.
func EncodeEmbedding(v []float32) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v)*4)
	for i, f := range v {
		bits := math.Float32bits(f)
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

// DecodeEmbedding unpacks a little-endian byte blob back into a float32
// vector, or returns nil when b is empty.
func DecodeEmbedding(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
