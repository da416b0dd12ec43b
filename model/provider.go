package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"github.com/orlevii/agent-prism/prism"
)

// TargetInfo describes one selectable chat target: an agent registered on a
// playground backend, or a model on a direct LLM backend.
type TargetInfo struct {
	Name string
	// Dependencies holds the agent's published dependency presets. Empty for
	// model backends.
	Dependencies []prism.DependencyInfo
}

// ChatParams carries everything one chat request needs beyond the provider's
// own configuration.
type ChatParams struct {
	// Messages is the full conversation to send, oldest first.
	Messages []prism.Message
	// Dependencies is the agent dependency override, already parsed.
	Dependencies map[string]any
	// ToolMode selects between automatic tool execution and pausing for
	// human approval. Providers without server-side tools ignore it.
	ToolMode string
	// Deferred carries approval decisions when resuming a paused turn.
	Deferred *prism.DeferredToolResults
	// Tools are client-supplied tool definitions for direct LLM backends.
	Tools []mcptypes.Tool
}

// Provider abstracts chat backends (playground agents, Ollama, OpenAI
// compatible servers) behind one streaming interface.
//
// The interface lives in the model package rather than the provider package
// so implementations can import model without creating an import cycle.
type Provider interface {
	// ChatStream opens one streaming chat request. Every backend is adapted
	// to the same event stream, so the folding logic never branches on the
	// provider in use.
	ChatStream(ctx context.Context, params ChatParams) (prism.EventStream, error)

	// ListTargets returns the agents or models selectable on this backend.
	ListTargets(ctx context.Context) ([]TargetInfo, error)

	// GetTarget returns the currently selected agent or model name.
	GetTarget() string

	// SetTarget changes the active agent or model.
	SetTarget(name string)

	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend kind ("agent", "ollama", "openai").
	Name() string
}
