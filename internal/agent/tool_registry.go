package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// Handler is any function that, given raw JSON arguments and a mutable
// borrow of an agent's state, produces a ToolResult or fails with a
// ToolExecution error. ctx bounds handlers that make outbound calls, such
// as archival_insert's optional embedding request.
type Handler func(ctx context.Context, state *State, args json.RawMessage) (models.ToolResult, error)

// ToolRegistry is a thread-safe name -> Handler mapping, seeded at
// construction with the five built-in handlers.
type ToolRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	schemas  map[string]models.ToolSchema
}

// NewToolRegistry creates a registry pre-populated with the built-in
// handlers.
func NewToolRegistry() *ToolRegistry {
	r := &ToolRegistry{
		handlers: make(map[string]Handler),
		schemas:  make(map[string]models.ToolSchema),
	}
	registerBuiltins(r)
	return r
}

// Register adds or replaces a handler under name, along with the schema
// describing it to a provider.
func (r *ToolRegistry) Register(schema models.ToolSchema, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[schema.Name] = handler
	r.schemas[schema.Name] = schema
}

// Unregister removes a handler by name.
func (r *ToolRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
	delete(r.schemas, name)
}

// Get returns the handler registered under name, if any.
func (r *ToolRegistry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Dispatch looks up call.Name and executes it against state. An unknown
// tool name fails with a ToolExecution error naming the tool.
func (r *ToolRegistry) Dispatch(ctx context.Context, state *State, call models.ToolCall) (models.ToolResult, error) {
	handler, ok := r.Get(call.Name)
	if !ok {
		return models.ToolResult{}, lettaerr.New(lettaerr.KindToolExecution, fmt.Sprintf("Unknown tool: %s", call.Name))
	}
	return handler(ctx, state, json.RawMessage(call.Arguments))
}

// Schemas returns the JSON-schema descriptors for every registered tool,
// for inclusion in a provider's CompletionRequest.
func (r *ToolRegistry) Schemas() []models.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ToolSchema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	return out
}
