package prism

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message kinds
const (
	MessageKindRequest  = "request"
	MessageKindResponse = "response"
)

// Part kinds (the part_kind discriminator on the wire)
const (
	PartKindSystemPrompt = "system-prompt"
	PartKindUserPrompt   = "user-prompt"
	PartKindText         = "text"
	PartKindToolCall     = "tool-call"
	PartKindToolReturn   = "tool-return"
	PartKindThinking     = "thinking"
)

// Part is one typed element of a message. Concrete parts are pointer types
// so the folding engine can update them in place.
type Part interface {
	PartKind() string
}

// SystemPromptPart carries the system prompt text of a request message.
type SystemPromptPart struct {
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
	DynamicRef string    `json:"dynamic_ref,omitempty"`
}

func (p *SystemPromptPart) PartKind() string { return PartKindSystemPrompt }

// UserPromptPart carries one user turn of a request message.
type UserPromptPart struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

func (p *UserPromptPart) PartKind() string { return PartKindUserPrompt }

// TextPart accumulates the assistant's visible output across text_delta events.
type TextPart struct {
	Content string `json:"content"`
	ID      string `json:"id,omitempty"`
}

func (p *TextPart) PartKind() string { return PartKindText }

// ToolCallPart records one tool invocation requested by the model.
// Args is either a decoded JSON object or the raw argument string when the
// backend sends arguments still encoded.
type ToolCallPart struct {
	ToolName   string `json:"tool_name"`
	Args       any    `json:"args"`
	ToolCallID string `json:"tool_call_id"`
	ID         string `json:"id,omitempty"`
}

func (p *ToolCallPart) PartKind() string { return PartKindToolCall }

// ToolReturnPart records the result of one tool invocation.
type ToolReturnPart struct {
	ToolName   string         `json:"tool_name"`
	Content    any            `json:"content"`
	ToolCallID string         `json:"tool_call_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp,omitzero"`
}

func (p *ToolReturnPart) PartKind() string { return PartKindToolReturn }

// ThinkingPart accumulates the model's reasoning trace across thinking_delta events.
type ThinkingPart struct {
	Content      string `json:"content"`
	ID           string `json:"id,omitempty"`
	Signature    string `json:"signature,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

func (p *ThinkingPart) PartKind() string { return PartKindThinking }

// Usage holds token accounting reported on a response message.
type Usage struct {
	InputTokens      int `json:"input_tokens"`
	CacheWriteTokens int `json:"cache_write_tokens,omitempty"`
	CacheReadTokens  int `json:"cache_read_tokens,omitempty"`
	OutputTokens     int `json:"output_tokens"`
}

// Message is one element of the conversation transcript: either a request
// (user/tool side) or a response (assistant side) holding an ordered part list.
type Message struct {
	Kind         string
	Parts        []Part
	Instructions string

	// Response metadata (unset on requests)
	Usage              *Usage
	ModelName          string
	Timestamp          time.Time
	ProviderName       string
	ProviderResponseID string
	FinishReason       string
}

// NewUserRequest builds a request message holding a single user prompt.
func NewUserRequest(content string) Message {
	return Message{
		Kind:  MessageKindRequest,
		Parts: []Part{&UserPromptPart{Content: content, Timestamp: time.Now().UTC()}},
	}
}

// NewOpenResponse builds an empty response message ready to receive stream events.
func NewOpenResponse() Message {
	return Message{
		Kind:      MessageKindResponse,
		Timestamp: time.Now().UTC(),
	}
}

// IsResponse reports whether this is an assistant-side message.
func (m *Message) IsResponse() bool { return m.Kind == MessageKindResponse }

type messageJSON struct {
	Kind               string            `json:"kind"`
	Parts              []json.RawMessage `json:"parts"`
	Instructions       string            `json:"instructions,omitempty"`
	Usage              *Usage            `json:"usage,omitempty"`
	ModelName          string            `json:"model_name,omitempty"`
	Timestamp          time.Time         `json:"timestamp,omitzero"`
	ProviderName       string            `json:"provider_name,omitempty"`
	ProviderResponseID string            `json:"provider_response_id,omitempty"`
	FinishReason       string            `json:"finish_reason,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	out := messageJSON{
		Kind:               m.Kind,
		Parts:              make([]json.RawMessage, 0, len(m.Parts)),
		Instructions:       m.Instructions,
		Usage:              m.Usage,
		ModelName:          m.ModelName,
		Timestamp:          m.Timestamp,
		ProviderName:       m.ProviderName,
		ProviderResponseID: m.ProviderResponseID,
		FinishReason:       m.FinishReason,
	}
	for _, part := range m.Parts {
		raw, err := marshalPart(part)
		if err != nil {
			return nil, err
		}
		out.Parts = append(out.Parts, raw)
	}
	return json.Marshal(out)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var in messageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	parts := make([]Part, 0, len(in.Parts))
	for _, raw := range in.Parts {
		part, err := unmarshalPart(raw)
		if err != nil {
			return err
		}
		parts = append(parts, part)
	}
	*m = Message{
		Kind:               in.Kind,
		Parts:              parts,
		Instructions:       in.Instructions,
		Usage:              in.Usage,
		ModelName:          in.ModelName,
		Timestamp:          in.Timestamp,
		ProviderName:       in.ProviderName,
		ProviderResponseID: in.ProviderResponseID,
		FinishReason:       in.FinishReason,
	}
	return nil
}

// marshalPart wraps a part with its part_kind discriminator.
func marshalPart(part Part) (json.RawMessage, error) {
	inner, err := json.Marshal(part)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(part.PartKind())
	if err != nil {
		return nil, err
	}
	fields["part_kind"] = kind
	return json.Marshal(fields)
}

// unmarshalPart dispatches on the part_kind discriminator.
func unmarshalPart(raw json.RawMessage) (Part, error) {
	var envelope struct {
		PartKind string `json:"part_kind"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	var part Part
	switch envelope.PartKind {
	case PartKindSystemPrompt:
		part = &SystemPromptPart{}
	case PartKindUserPrompt:
		part = &UserPromptPart{}
	case PartKindText:
		part = &TextPart{}
	case PartKindToolCall:
		part = &ToolCallPart{}
	case PartKindToolReturn:
		part = &ToolReturnPart{}
	case PartKindThinking:
		part = &ThinkingPart{}
	default:
		return nil, fmt.Errorf("unknown part kind %q", envelope.PartKind)
	}

	if err := json.Unmarshal(raw, part); err != nil {
		return nil, err
	}
	return part, nil
}

// DeferredToolResults aggregates human decisions for tool calls that paused
// the stream: an approve/reject verdict per tool_call_id, plus substituted
// return values for mocked calls.
type DeferredToolResults struct {
	Calls     map[string]any  `json:"calls"`
	Approvals map[string]bool `json:"approvals"`
}

// NewDeferredToolResults returns an empty aggregate with both maps allocated.
func NewDeferredToolResults() DeferredToolResults {
	return DeferredToolResults{
		Calls:     make(map[string]any),
		Approvals: make(map[string]bool),
	}
}

// Empty reports whether no decision has been recorded.
func (d DeferredToolResults) Empty() bool {
	return len(d.Calls) == 0 && len(d.Approvals) == 0
}
