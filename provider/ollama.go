package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"

	"github.com/orlevii/agent-prism/model"
	"github.com/orlevii/agent-prism/ollama"
	"github.com/orlevii/agent-prism/prism"
	"github.com/orlevii/agent-prism/tools"
)

// OllamaProvider adapts a local Ollama server to the event stream protocol.
// Ollama streams role-based chunks through a callback, so the provider
// synthesizes delta and tool call events from them.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a provider for the Ollama server at baseURL.
func NewOllamaProvider(baseURL, modelName string, temperature float64, think bool) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	client.SetTemperature(temperature)
	client.SetThink(think)

	return &OllamaProvider{client: client}, nil
}

// ChatStream implements model.Provider.ChatStream. Tool calls requested by
// the model are surfaced as executing events; with no local executor they
// stay unresolved in the transcript.
func (p *OllamaProvider) ChatStream(ctx context.Context, params model.ChatParams) (prism.EventStream, error) {
	messages := ConvertToOllamaMessages(params.Messages)

	var ollamaTools []api.Tool
	if len(params.Tools) > 0 && p.client.SupportsToolCalling() {
		ollamaTools = tools.ToOllama(params.Tools)
	}

	client := p.client
	stream := newCallbackStream(ctx, func(ctx context.Context, emit func(prism.Event) error) error {
		err := client.ChatWithTools(ctx, messages, ollamaTools, func(content, thinking string, toolCalls []api.ToolCall) error {
			if thinking != "" {
				if err := emit(prism.ThinkingDeltaEvent{Delta: thinking}); err != nil {
					return err
				}
			}
			if content != "" {
				if err := emit(prism.TextDeltaEvent{Delta: content}); err != nil {
					return err
				}
			}
			for _, call := range toolCalls {
				// Ollama does not assign call ids.
				ev := prism.ToolCallExecutingEvent{
					ToolCallID: uuid.NewString(),
					ToolName:   call.Function.Name,
					Arguments:  ArgsAsMap(map[string]any(call.Function.Arguments)),
				}
				if err := emit(ev); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		return emit(prism.DoneEvent{Status: prism.DoneStatusComplete})
	})

	return stream, nil
}

// ListTargets implements model.Provider.ListTargets with the models on the
// server.
func (p *OllamaProvider) ListTargets(ctx context.Context) ([]model.TargetInfo, error) {
	models, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]model.TargetInfo, len(models))
	for i, m := range models {
		targets[i] = model.TargetInfo{Name: m.Name}
	}
	return targets, nil
}

// GetTarget implements model.Provider.GetTarget.
func (p *OllamaProvider) GetTarget() string {
	return p.client.GetModel()
}

// SetTarget implements model.Provider.SetTarget.
func (p *OllamaProvider) SetTarget(name string) {
	p.client.SetModel(name)
}

// Ping implements model.Provider.Ping.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Name implements model.Provider.Name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}
