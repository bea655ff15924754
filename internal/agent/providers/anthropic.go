package providers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// Anthropic implements Provider over the Claude messages API.
type Anthropic struct {
	retrier
	client anthropic.Client
	model  anthropic.Model
}

var _ Provider = (*Anthropic)(nil)

// NewAnthropic constructs a provider bound to the given model (e.g.
// anthropic.ModelClaudeSonnet4_5). apiKey must be non-empty.
func NewAnthropic(apiKey string, model anthropic.Model) (*Anthropic, error) {
	if apiKey == "" {
		return nil, lettaerr.New(lettaerr.KindInvalidConfig, "Anthropic API key is required")
	}
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_5
	}
	return &Anthropic{
		retrier: newRetrier(3, time.Second),
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
	}, nil
}

func (p *Anthropic) Name() string { return "anthropic" }

func (p *Anthropic) MaxTokens() int { return DefaultMaxTokens }

// Complete sends a single message-turn request carrying the rendered
// prompt as the sole user message, and the registry's schemas as
// Anthropic tool definitions.
func (p *Anthropic) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = int64(p.MaxTokens())
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Tools: toAnthropicTools(req.Tools),
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	var msg *anthropic.Message
	err := p.Retry(ctx, isRetryableAnthropicError, func() error {
		var callErr error
		msg, callErr = p.client.Messages.New(ctx, params)
		return callErr
	})
	if err != nil {
		return Completion{}, lettaerr.Wrap(lettaerr.KindProvider, err)
	}

	completion := Completion{
		Usage: Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}

	var text strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			completion.ToolCalls = append(completion.ToolCalls, models.ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: string(b.Input),
			})
		}
	}
	completion.Text = text.String()
	return completion, nil
}

func toAnthropicTools(schemas []models.ToolSchema) []anthropic.ToolUnionParam {
	if len(schemas) == 0 {
		return nil
	}
	tools := make([]anthropic.ToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		props, _ := json.Marshal(s.Parameters)
		var schema anthropic.ToolInputSchemaParam
		_ = json.Unmarshal(props, &schema)
		tools = append(tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        s.Name,
				Description: anthropic.String(s.Description),
				InputSchema: schema,
			},
		})
	}
	return tools
}

func isRetryableAnthropicError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "overloaded") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "timeout")
}
