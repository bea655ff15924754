package providers

import (
	"context"
	"strings"
	"time"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
	"github.com/haasonsaas/letta-lite/pkg/models"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements Provider over the OpenAI chat completions API.
type OpenAI struct {
	retrier
	client *openai.Client
	model  string
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI constructs a provider bound to the given model (e.g.
// "gpt-4o"). apiKey must be non-empty.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, lettaerr.New(lettaerr.KindInvalidConfig, "OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAI{
		retrier: newRetrier(3, time.Second),
		client:  openai.NewClient(apiKey),
		model:   model,
	}, nil
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) MaxTokens() int { return DefaultMaxTokens }

// Complete sends a single non-streaming chat completion request carrying
// the rendered prompt as the sole user message, and the registry's
// schemas as OpenAI function-tool definitions.
func (p *OpenAI) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.MaxTokens()
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   maxTokens,
		Tools:       toOpenAITools(req.Tools),
	}

	var resp openai.ChatCompletionResponse
	err := p.Retry(ctx, isRetryableOpenAIError, func() error {
		var callErr error
		resp, callErr = p.client.CreateChatCompletion(ctx, chatReq)
		return callErr
	})
	if err != nil {
		return Completion{}, lettaerr.Wrap(lettaerr.KindProvider, err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, lettaerr.New(lettaerr.KindProvider, "openai returned no choices")
	}

	choice := resp.Choices[0].Message
	return Completion{
		Text:      choice.Content,
		ToolCalls: fromOpenAIToolCalls(choice.ToolCalls),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Embed generates embeddings via the OpenAI embeddings endpoint.
func (p *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindProvider, err)
	}
	out := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func toOpenAITools(schemas []models.ToolSchema) []openai.Tool {
	if len(schemas) == 0 {
		return nil
	}
	tools := make([]openai.Tool, 0, len(schemas))
	for _, s := range schemas {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return tools
}

func fromOpenAIToolCalls(calls []openai.ToolCall) []models.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]models.ToolCall, 0, len(calls))
	for _, c := range calls {
		out = append(out, models.ToolCall{
			ID:        c.ID,
			Name:      c.Function.Name,
			Arguments: c.Function.Arguments,
		})
	}
	return out
}

func isRetryableOpenAIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "timeout") || strings.Contains(msg, "503")
}
