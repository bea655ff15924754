package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/internal/storage"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

func registerBuiltins(r *ToolRegistry) {
	r.Register(memoryReplaceSchema, memoryReplaceHandler)
	r.Register(memoryAppendSchema, memoryAppendHandler)
	r.Register(archivalInsertSchema, archivalInsertHandler)
	r.Register(archivalSearchSchema, archivalSearchHandler)
	r.Register(conversationSearchSchema, conversationSearchHandler)
}

func missingParam(name string) error {
	return lettaerr.New(lettaerr.KindToolExecution, fmt.Sprintf("Missing '%s' parameter", name))
}

func writeResult(status, message string) (models.ToolResult, error) {
	payload, _ := json.Marshal(map[string]string{"status": status, "message": message})
	return models.OkResult(string(payload)), nil
}

func readResult(results any, count int) (models.ToolResult, error) {
	payload, _ := json.Marshal(map[string]any{"results": results, "count": count})
	return models.OkResult(string(payload)), nil
}

// stringField extracts a required string field from raw args; an empty
// string is accepted.
func stringField(args json.RawMessage, name string) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal(args, &obj); err != nil {
		return "", missingParam(name)
	}
	v, ok := obj[name]
	if !ok {
		return "", missingParam(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", missingParam(name)
	}
	return s, nil
}

func optionalStringField(args json.RawMessage, name, def string) string {
	var obj map[string]any
	if err := json.Unmarshal(args, &obj); err != nil {
		return def
	}
	v, ok := obj[name]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func optionalIntField(args json.RawMessage, name string, def int) int {
	var obj map[string]any
	if err := json.Unmarshal(args, &obj); err != nil {
		return def
	}
	v, ok := obj[name]
	if !ok {
		return def
	}
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return def
}

var memoryReplaceSchema = models.ToolSchema{
	Name:        "memory_replace",
	Description: "Replace the value of a named memory block.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"label": map[string]any{"type": "string", "description": "Block label to replace."},
			"value": map[string]any{"type": "string", "description": "New block value."},
		},
	},
	Required: []string{"label", "value"},
}

func memoryReplaceHandler(_ context.Context, state *State, args json.RawMessage) (models.ToolResult, error) {
	label, err := stringField(args, "label")
	if err != nil {
		return models.ToolResult{}, err
	}
	value, err := stringField(args, "value")
	if err != nil {
		return models.ToolResult{}, err
	}
	if err := state.Memory.SetBlock(label, value); err != nil {
		return models.ToolResult{}, lettaerr.Wrap(lettaerr.KindToolExecution, err)
	}
	state.Touch()
	return writeResult("ok", fmt.Sprintf("block %q replaced", label))
}

var memoryAppendSchema = models.ToolSchema{
	Name:        "memory_append",
	Description: "Append text to an existing memory block.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"label": map[string]any{"type": "string", "description": "Block label to append to."},
			"text":  map[string]any{"type": "string", "description": "Text to append."},
		},
	},
	Required: []string{"label", "text"},
}

func memoryAppendHandler(_ context.Context, state *State, args json.RawMessage) (models.ToolResult, error) {
	label, err := stringField(args, "label")
	if err != nil {
		return models.ToolResult{}, err
	}
	text, err := stringField(args, "text")
	if err != nil {
		return models.ToolResult{}, err
	}
	if err := state.Memory.AppendBlock(label, text); err != nil {
		return models.ToolResult{}, lettaerr.Wrap(lettaerr.KindToolExecution, err)
	}
	state.Touch()
	return writeResult("ok", fmt.Sprintf("appended to block %q", label))
}

var archivalInsertSchema = models.ToolSchema{
	Name:        "archival_insert",
	Description: "Append an entry to the agent's archival memory.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"folder": map[string]any{"type": "string", "description": "Folder label, defaults to 'default'."},
			"text":   map[string]any{"type": "string", "description": "Entry text."},
		},
	},
	Required: []string{"text"},
}

func archivalInsertHandler(ctx context.Context, state *State, args json.RawMessage) (models.ToolResult, error) {
	text, err := stringField(args, "text")
	if err != nil {
		return models.ToolResult{}, err
	}
	folder := optionalStringField(args, "folder", "default")
	entry := state.AddArchival(folder, text)

	if state.Store != nil {
		if err := persistChunk(ctx, state, folder, text, entry); err != nil {
			return models.ToolResult{}, err
		}
	}
	return writeResult("ok", "archival entry inserted")
}

// persistChunk mirrors an in-memory archival entry into the store's chunks
// table, computing and packing an embedding when state.Embedder is set.
func persistChunk(ctx context.Context, state *State, folder, text string, entry models.ArchivalEntry) error {
	chunk := storage.StoredChunk{
		ID:        uuid.New().String(),
		AgentID:   state.ID,
		Folder:    folder,
		Text:      text,
		CreatedAt: entry.Timestamp,
	}
	if state.Embedder != nil {
		vectors, err := state.Embedder.Embed(ctx, []string{text})
		if err != nil {
			return lettaerr.Wrap(lettaerr.KindProvider, err)
		}
		if len(vectors) > 0 {
			chunk.Embedding = storage.EncodeEmbedding(vectors[0])
		}
	}
	if err := state.Store.AddChunk(chunk); err != nil {
		return lettaerr.Wrap(lettaerr.KindStorage, err)
	}
	return nil
}

var archivalSearchSchema = models.ToolSchema{
	Name:        "archival_search",
	Description: "Search archival entries by case-insensitive substring.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "Substring to search for."},
			"top_k": map[string]any{"type": "integer", "description": "Maximum results to return, defaults to 5."},
		},
	},
	Required: []string{"query"},
}

func archivalSearchHandler(_ context.Context, state *State, args json.RawMessage) (models.ToolResult, error) {
	query, err := stringField(args, "query")
	if err != nil {
		return models.ToolResult{}, err
	}
	topK := optionalIntField(args, "top_k", 5)

	q := strings.ToLower(query)
	var matches []models.ArchivalEntry
	for _, e := range state.Archival {
		if strings.Contains(strings.ToLower(e.Text), q) {
			matches = append(matches, e)
			if len(matches) >= topK {
				break
			}
		}
	}
	result, _ := readResult(matches, len(matches))
	result.RequestHeartbeat = true
	return result, nil
}

var conversationSearchSchema = models.ToolSchema{
	Name:        "conversation_search",
	Description: "Search the conversation buffer by case-insensitive substring.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "Substring to search for."},
			"top_k": map[string]any{"type": "integer", "description": "Maximum results to return, defaults to 5."},
		},
	},
	Required: []string{"query"},
}

func conversationSearchHandler(_ context.Context, state *State, args json.RawMessage) (models.ToolResult, error) {
	query, err := stringField(args, "query")
	if err != nil {
		return models.ToolResult{}, err
	}
	topK := optionalIntField(args, "top_k", 5)

	matches := state.Messages.Search(query, topK)
	return readResult(matches, len(matches))
}
