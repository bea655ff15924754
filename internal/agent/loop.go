// Package agent implements the step loop: the fixed point that
// interleaves provider completions and tool dispatch until a turn
// produces final text or the iteration cap trips.
package agent

import (
	"context"
	"strings"
	"unicode"

	agentcontext "github.com/haasonsaas/letta-lite/internal/agent/context"
	"github.com/haasonsaas/letta-lite/internal/agent/providers"
	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// MaxIterations bounds a single step: exceeding it without reaching final
// text is an unrecoverable ToolExecution error.
const MaxIterations = 10

// KeepRecentOnSummarize is the keep_recent window used when a step
// injects a rolling context summary.
const KeepRecentOnSummarize = 10

// emptyCompletionFallback substitutes for a genuinely empty final
// assistant message — a provider violating the documented contract by
// sending text == "" with no tool calls and no heartbeat.
const emptyCompletionFallback = "I have no response to share."

// ToolTraceEntry records one executed tool call for the caller-visible
// trace of a step.
type ToolTraceEntry struct {
	Tool   string `json:"tool"`
	Args   string `json:"args"`
	Result string `json:"result"`
}

// StepResult is the output of a successful step, send_only or reply_only
// call.
type StepResult struct {
	Text      string           `json:"text"`
	ToolTrace []ToolTraceEntry `json:"tool_trace"`
	Usage     providers.Usage  `json:"usage"`
}

// Agent binds an immutable configuration to mutable state, a provider, a
// tool registry and a context manager, and runs the step loop over them.
type Agent struct {
	Config   models.AgentConfig
	State    *State
	Provider providers.Provider
	Tools    *ToolRegistry
	Context  *agentcontext.Manager
}

// New constructs an Agent with fresh state from cfg. provider defaults to
// the deterministic test provider when nil, matching the original
// implementation's "toy" model default.
func New(cfg models.AgentConfig, provider providers.Provider) *Agent {
	if provider == nil {
		provider = providers.NewToy()
	}
	return &Agent{
		Config:   cfg,
		State:    NewState(cfg),
		Provider: provider,
		Tools:    NewToolRegistry(),
		Context:  agentcontext.NewManager(cfg.MaxContextTokens),
	}
}

// isTrivial reports whether input, after trimming ASCII and Unicode
// whitespace, is empty, a single ASCII full stop, or a single ideographic
// full stop.
func isTrivial(input string) bool {
	trimmed := trimWhitespace(input)
	return trimmed == "" || trimmed == "." || trimmed == "。"
}

func trimWhitespace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// Step runs the full preprocessing + loop sequence for a user turn:
// substantive input is appended to the buffer before the loop runs;
// trivial input enters the loop directly so the agent can still emit an
// autonomous follow-up.
func (a *Agent) Step(ctx context.Context, input string) (*StepResult, error) {
	if !isTrivial(input) {
		a.State.Messages.Push(models.NewUserMessage(input))
		a.State.Touch()
	}
	return a.runLoop(ctx)
}

// SendOnly appends a user message iff input is substantive, and never
// invokes the loop.
func (a *Agent) SendOnly(input string) {
	if !isTrivial(input) {
		a.State.Messages.Push(models.NewUserMessage(input))
		a.State.Touch()
	}
}

// ReplyOnly runs the loop without any input filter or user-message step;
// it is used for autonomous follow-ups and as the trivial-input fallback.
func (a *Agent) ReplyOnly(ctx context.Context) (*StepResult, error) {
	return a.runLoop(ctx)
}

func (a *Agent) runLoop(ctx context.Context) (*StepResult, error) {
	var trace []ToolTraceEntry
	var usage providers.Usage

	for iteration := 0; iteration < MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prompt, err := a.Context.BuildPrompt(a.Config.SystemPrompt, a.State.Memory, a.State.Messages.Messages(), a.Config.MaxMessages)
		if err != nil {
			return nil, err
		}

		if a.Context.ShouldSummarize() {
			summary := agentcontext.SummarizeMessages(a.State.Messages.Messages(), KeepRecentOnSummarize)
			a.State.Messages.Push(models.NewSystemMessage("Context summary: " + summary))
		}

		var schemas []models.ToolSchema
		if a.Config.ToolsEnabled {
			schemas = a.Tools.Schemas()
		}

		completion, err := a.Provider.Complete(ctx, providers.CompletionRequest{
			Prompt:      prompt,
			Tools:       schemas,
			Temperature: a.Config.Temperature,
			MaxTokens:   a.Config.MaxContextTokens,
		})
		if err != nil {
			return nil, lettaerr.Wrap(lettaerr.KindProvider, err)
		}
		usage = completion.Usage

		if len(completion.ToolCalls) > 0 {
			heartbeat := completion.RequestHeartbeat
			for _, call := range completion.ToolCalls {
				result, err := a.Tools.Dispatch(ctx, a.State, call)
				if err != nil {
					return nil, err
				}
				a.State.Messages.Push(models.NewToolMessage(result.Result, call.ID))
				trace = append(trace, ToolTraceEntry{Tool: call.Name, Args: call.Arguments, Result: result.Result})
				if result.RequestHeartbeat {
					heartbeat = true
				}
			}

			toolCallInfos := make([]models.ToolCallInfo, 0, len(completion.ToolCalls))
			for _, c := range completion.ToolCalls {
				toolCallInfos = append(toolCallInfos, models.ToolCallInfo{ID: c.ID, Name: c.Name, Arguments: c.Arguments})
			}
			a.State.Messages.Push(models.NewAssistantMessage("").WithToolCalls(toolCallInfos))

			if heartbeat {
				continue
			}
		}

		if completion.Text != "" {
			a.State.Messages.Push(models.NewAssistantMessage(completion.Text))
			a.State.Touch()
			return &StepResult{Text: completion.Text, ToolTrace: trace, Usage: usage}, nil
		}

		// A provider that sends empty text with no tool calls and no
		// heartbeat on the final permitted iteration would otherwise
		// surface an empty reply; substitute the documented fallback
		// instead of burning the iteration cap on a no-op completion.
		if len(completion.ToolCalls) == 0 && iteration == MaxIterations-1 {
			a.State.Messages.Push(models.NewAssistantMessage(emptyCompletionFallback))
			a.State.Touch()
			return &StepResult{Text: emptyCompletionFallback, ToolTrace: trace, Usage: usage}, nil
		}
	}

	return nil, lettaerr.New(lettaerr.KindToolExecution, "Maximum iterations exceeded")
}
