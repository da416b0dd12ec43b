// Package provider implements the chat backends behind the model.Provider
// interface: the native playground agent backend, plus Ollama and OpenAI
// compatible servers adapted to the same event stream protocol.
package provider

import (
	"context"
	"fmt"

	"github.com/orlevii/agent-prism/model"
	"github.com/orlevii/agent-prism/prism"
)

// AgentProvider talks to a playground server, which speaks the event
// protocol natively. Requests pass through without adaptation.
type AgentProvider struct {
	client *prism.Client
	agent  string
}

// NewAgentProvider creates a provider for the playground server at baseURL.
func NewAgentProvider(baseURL, agent string) (*AgentProvider, error) {
	client, err := prism.NewClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create playground client: %w", err)
	}

	return &AgentProvider{
		client: client,
		agent:  agent,
	}, nil
}

// ChatStream implements model.Provider.ChatStream.
func (p *AgentProvider) ChatStream(ctx context.Context, params model.ChatParams) (prism.EventStream, error) {
	req := &prism.ChatRequest{
		Agent:               p.agent,
		Messages:            params.Messages,
		Dependencies:        params.Dependencies,
		UseTools:            params.ToolMode,
		DeferredToolResults: params.Deferred,
	}
	return p.client.Chat(ctx, req)
}

// ListTargets implements model.Provider.ListTargets by listing the agents
// registered on the server, with their dependency presets.
func (p *AgentProvider) ListTargets(ctx context.Context) ([]model.TargetInfo, error) {
	agents, err := p.client.ListAgents(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]model.TargetInfo, len(agents))
	for i, agent := range agents {
		targets[i] = model.TargetInfo{
			Name:         agent.Name,
			Dependencies: agent.Dependencies,
		}
	}
	return targets, nil
}

// GetTarget implements model.Provider.GetTarget.
func (p *AgentProvider) GetTarget() string {
	return p.agent
}

// SetTarget implements model.Provider.SetTarget.
func (p *AgentProvider) SetTarget(name string) {
	p.agent = name
}

// Ping implements model.Provider.Ping by listing agents.
func (p *AgentProvider) Ping(ctx context.Context) error {
	if _, err := p.client.ListAgents(ctx); err != nil {
		return fmt.Errorf("playground ping failed: %w", err)
	}
	return nil
}

// Name implements model.Provider.Name.
func (p *AgentProvider) Name() string {
	return "agent"
}
