package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/internal/storage"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	return NewState(models.DefaultAgentConfig())
}

func TestRegistry_UnknownToolFails(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)
	_, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "does_not_exist", Arguments: "{}"})
	if !lettaerr.Is(err, lettaerr.KindToolExecution) {
		t.Fatalf("error = %v, want ToolExecution", err)
	}
}

func TestMemoryReplace(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)
	args, _ := json.Marshal(map[string]string{"label": "persona", "value": "a pirate"})

	res, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "memory_replace", Arguments: string(args)})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if state.Memory.GetBlock("persona").Value != "a pirate" {
		t.Errorf("persona = %q", state.Memory.GetBlock("persona").Value)
	}
}

func TestMemoryReplace_MissingLabel(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)
	args, _ := json.Marshal(map[string]string{"value": "x"})

	_, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "memory_replace", Arguments: string(args)})
	if !lettaerr.Is(err, lettaerr.KindToolExecution) {
		t.Fatalf("error = %v, want ToolExecution for missing label", err)
	}
}

func TestMemoryAppend_MissingBlockFails(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)
	args, _ := json.Marshal(map[string]string{"label": "nope", "text": "x"})

	_, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "memory_append", Arguments: string(args)})
	if err == nil {
		t.Fatal("memory_append on a missing block should fail")
	}
}

func TestArchivalInsertAndSearch(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)

	insertArgs, _ := json.Marshal(map[string]string{"text": "sensor reading: 42C"})
	if _, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "archival_insert", Arguments: string(insertArgs)}); err != nil {
		t.Fatalf("archival_insert error = %v", err)
	}
	if len(state.Archival) != 1 || state.Archival[0].Folder != "default" {
		t.Fatalf("Archival = %+v, want one entry in folder 'default'", state.Archival)
	}

	searchArgs, _ := json.Marshal(map[string]string{"query": "SENSOR"})
	res, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "archival_search", Arguments: string(searchArgs)})
	if err != nil {
		t.Fatalf("archival_search error = %v", err)
	}
	if !res.RequestHeartbeat {
		t.Error("archival_search should request a heartbeat")
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(res.Result), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if payload.Count != 1 {
		t.Errorf("Count = %d, want 1", payload.Count)
	}
}

func TestArchivalSearch_NoMatches(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)
	args, _ := json.Marshal(map[string]string{"query": "nothing here"})

	res, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "archival_search", Arguments: string(args)})
	if err != nil {
		t.Fatalf("archival_search error = %v", err)
	}
	var payload struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal([]byte(res.Result), &payload)
	if payload.Count != 0 {
		t.Errorf("Count = %d, want 0", payload.Count)
	}
}

func TestConversationSearch(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)
	state.Messages.Push(models.NewUserMessage("the quick brown fox"))
	state.Messages.Push(models.NewAssistantMessage("jumped over the lazy dog"))

	args, _ := json.Marshal(map[string]string{"query": "fox"})
	res, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "conversation_search", Arguments: string(args)})
	if err != nil {
		t.Fatalf("conversation_search error = %v", err)
	}
	if res.RequestHeartbeat {
		t.Error("conversation_search should not request a heartbeat")
	}
}

// stubEmbedder returns a fixed-dimension vector for every input, letting
// tests assert on the packed embedding without a network round trip.
type stubEmbedder struct{ dim int }

func (s stubEmbedder) Name() string      { return "stub" }
func (s stubEmbedder) Dimension() int    { return s.dim }
func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, s.dim)
		out[i][0] = 1
	}
	return out, nil
}

func TestArchivalInsert_PersistsChunkWithEmbeddingWhenConfigured(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)

	store, err := storage.Memory()
	if err != nil {
		t.Fatalf("storage.Memory() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	now := time.Now().UTC()
	if err := store.CreateAgent(storage.StoredAgent{ID: state.ID, Name: state.Name, SystemPrompt: "p", Config: "{}", State: "{}", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateAgent error = %v", err)
	}
	state.Store = store
	state.Embedder = stubEmbedder{dim: 4}

	args, _ := json.Marshal(map[string]string{"text": "sensor reading: 42C", "folder": "sensors"})
	if _, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "archival_insert", Arguments: string(args)}); err != nil {
		t.Fatalf("archival_insert error = %v", err)
	}

	chunks, err := store.SearchChunksFTS(state.ID, "sensor", 5)
	if err != nil {
		t.Fatalf("SearchChunksFTS error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("chunks = %+v, want one persisted chunk", chunks)
	}
	if len(chunks[0].Embedding) != 4*4 {
		t.Errorf("Embedding length = %d, want %d bytes for a 4-float vector", len(chunks[0].Embedding), 4*4)
	}
}

func TestArchivalInsert_NoStoreStaysInMemoryOnly(t *testing.T) {
	r := NewToolRegistry()
	state := newTestState(t)

	args, _ := json.Marshal(map[string]string{"text": "no store configured"})
	if _, err := r.Dispatch(context.Background(), state, models.ToolCall{Name: "archival_insert", Arguments: string(args)}); err != nil {
		t.Fatalf("archival_insert error = %v", err)
	}
	if len(state.Archival) != 1 {
		t.Fatalf("Archival = %+v, want one in-memory entry", state.Archival)
	}
}

func TestSchemas_IncludesAllBuiltins(t *testing.T) {
	r := NewToolRegistry()
	schemas := r.Schemas()
	want := map[string]bool{
		"memory_replace": false, "memory_append": false, "archival_insert": false,
		"archival_search": false, "conversation_search": false,
	}
	for _, s := range schemas {
		want[s.Name] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("schema %q missing from Schemas()", name)
		}
	}
}
