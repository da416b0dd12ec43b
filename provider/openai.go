package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/orlevii/agent-prism/model"
	"github.com/orlevii/agent-prism/prism"
	"github.com/orlevii/agent-prism/tools"
)

// OpenAIProvider adapts OpenAI and OpenAI-compatible servers to the event
// stream protocol using the official SDK's streaming accumulator.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
// An empty baseURL uses the official API.
func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		model:   modelName,
		baseURL: baseURL,
	}, nil
}

// ChatStream implements model.Provider.ChatStream.
func (p *OpenAIProvider) ChatStream(ctx context.Context, params model.ChatParams) (prism.EventStream, error) {
	completionParams := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(params.Messages),
		Model:    openai.ChatModel(p.model),
	}
	if len(params.Tools) > 0 {
		completionParams.Tools = tools.ToOpenAI(params.Tools)
	}

	client := p.client
	stream := newCallbackStream(ctx, func(ctx context.Context, emit func(prism.Event) error) error {
		completion := client.Chat.Completions.NewStreaming(ctx, completionParams)
		defer completion.Close()

		acc := openai.ChatCompletionAccumulator{}

		for completion.Next() {
			chunk := completion.Current()
			acc.AddChunk(chunk)

			if tool, ok := acc.JustFinishedToolCall(); ok {
				ev := prism.ToolCallExecutingEvent{
					ToolCallID: tool.ID,
					ToolName:   tool.Name,
					Arguments:  ParseToolArguments(tool.Arguments),
				}
				if err := emit(ev); err != nil {
					return err
				}
			}

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if err := emit(prism.TextDeltaEvent{Delta: chunk.Choices[0].Delta.Content}); err != nil {
					return err
				}
			}
		}

		if err := completion.Err(); err != nil {
			return fmt.Errorf("OpenAI streaming error: %w", err)
		}
		return emit(prism.DoneEvent{Status: prism.DoneStatusComplete})
	})

	return stream, nil
}

// ListTargets implements model.Provider.ListTargets with the models the
// endpoint offers.
func (p *OpenAIProvider) ListTargets(ctx context.Context) ([]model.TargetInfo, error) {
	modelsPage, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list OpenAI models: %w", err)
	}

	targets := make([]model.TargetInfo, 0, len(modelsPage.Data))
	for _, m := range modelsPage.Data {
		targets = append(targets, model.TargetInfo{Name: m.ID})
	}
	return targets, nil
}

// GetTarget implements model.Provider.GetTarget.
func (p *OpenAIProvider) GetTarget() string {
	return p.model
}

// SetTarget implements model.Provider.SetTarget.
func (p *OpenAIProvider) SetTarget(name string) {
	p.model = name
}

// Ping implements model.Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}

// Name implements model.Provider.Name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}
