// Package testutil provides mock implementations for provider tests.
package testutil

import (
	"context"

	"github.com/orlevii/agent-prism/model"
	"github.com/orlevii/agent-prism/prism"
)

// ScriptedStream replays a fixed event sequence as a prism.EventStream.
type ScriptedStream struct {
	Events   []prism.Event
	FinalErr error

	pos     int
	current prism.Event
	err     error
	Closed  bool
}

func (s *ScriptedStream) Next() bool {
	if s.pos >= len(s.Events) {
		s.err = s.FinalErr
		return false
	}
	s.current = s.Events[s.pos]
	s.pos++
	return true
}

func (s *ScriptedStream) Current() prism.Event { return s.current }
func (s *ScriptedStream) Err() error           { return s.err }
func (s *ScriptedStream) Close() error         { s.Closed = true; return nil }

// MockProvider implements model.Provider for testing.
type MockProvider struct {
	ChatStreamFunc  func(ctx context.Context, params model.ChatParams) (prism.EventStream, error)
	ListTargetsFunc func(ctx context.Context) ([]model.TargetInfo, error)
	PingFunc        func(ctx context.Context) error

	// LastParams records the parameters of the most recent ChatStream call.
	LastParams model.ChatParams

	target string
}

// NewMockProvider creates a mock provider with default implementations that
// stream a short canned response.
func NewMockProvider(target string) *MockProvider {
	mock := &MockProvider{target: target}
	mock.ChatStreamFunc = mock.defaultChatStream
	mock.ListTargetsFunc = mock.defaultListTargets
	mock.PingFunc = func(ctx context.Context) error { return nil }
	return mock
}

func (m *MockProvider) defaultChatStream(ctx context.Context, params model.ChatParams) (prism.EventStream, error) {
	return &ScriptedStream{Events: []prism.Event{
		prism.TextDeltaEvent{Delta: "Mock response"},
		prism.DoneEvent{Status: prism.DoneStatusComplete},
	}}, nil
}

func (m *MockProvider) defaultListTargets(ctx context.Context) ([]model.TargetInfo, error) {
	return []model.TargetInfo{
		{Name: "mock-target-1"},
		{Name: "mock-target-2"},
	}, nil
}

func (m *MockProvider) ChatStream(ctx context.Context, params model.ChatParams) (prism.EventStream, error) {
	m.LastParams = params
	return m.ChatStreamFunc(ctx, params)
}

func (m *MockProvider) ListTargets(ctx context.Context) ([]model.TargetInfo, error) {
	return m.ListTargetsFunc(ctx)
}

func (m *MockProvider) GetTarget() string     { return m.target }
func (m *MockProvider) SetTarget(name string) { m.target = name }

func (m *MockProvider) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *MockProvider) Name() string                   { return "mock" }
