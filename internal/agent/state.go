package agent

import (
	"time"

	"github.com/google/uuid"
	"github.com/haasonsaas/letta-lite/internal/memory"
	"github.com/haasonsaas/letta-lite/internal/memory/embeddings"
	"github.com/haasonsaas/letta-lite/internal/storage"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// State is an agent's mutable state: its identity, memory, message
// buffer, archival entries and free-form metadata. It is mutated
// exclusively through the step loop and direct memory/archival setters;
// every mutating operation stamps UpdatedAt.
type State struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Memory    *memory.Memory
	Messages  *models.MessageBuffer
	Archival  []models.ArchivalEntry
	Metadata  map[string]any

	// Store and Embedder are both optional. When Store is set,
	// archival_insert additionally persists each entry as a chunk row;
	// when Embedder is also set, that chunk carries a computed
	// embedding. Neither is populated by NewState — a caller (the CLI)
	// wires them in once a store and an embedder provider are
	// available.
	Store    *storage.Store
	Embedder embeddings.Provider
}

// NewState constructs a fresh state for cfg: a new UUID, now timestamps, a
// Chat memory, an empty message buffer sized to cfg.MaxMessages, no
// archival entries and an empty metadata document.
func NewState(cfg models.AgentConfig) *State {
	now := time.Now()
	return &State{
		ID:        uuid.New().String(),
		Name:      cfg.Name,
		CreatedAt: now,
		UpdatedAt: now,
		Memory:    memory.NewChat(),
		Messages:  models.NewMessageBuffer(cfg.MaxMessages),
		Metadata:  make(map[string]any),
	}
}

// Touch stamps UpdatedAt to now. Every mutation to the state must call it.
func (s *State) Touch() {
	s.UpdatedAt = time.Now()
}

// AddArchival appends an entry to the archival log, timestamped now.
func (s *State) AddArchival(folder, text string) models.ArchivalEntry {
	entry := models.ArchivalEntry{Folder: folder, Text: text, Timestamp: time.Now()}
	s.Archival = append(s.Archival, entry)
	s.Touch()
	return entry
}
