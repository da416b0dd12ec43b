package prism

import (
	"encoding/json"
	"fmt"
)

// EventType identifies one variant of the chat stream protocol.
type EventType string

const (
	EventTextDelta           EventType = "text_delta"
	EventThinkingDelta       EventType = "thinking_delta"
	EventToolCallExecuting   EventType = "tool_call_executing"
	EventToolResult          EventType = "tool_result"
	EventToolApprovalRequest EventType = "tool_approval_request"
	EventMessageHistory      EventType = "message_history"
	EventError               EventType = "error"
	EventDone                EventType = "done"
)

// Done statuses
const (
	DoneStatusComplete        = "complete"
	DoneStatusPendingApproval = "pending_approval"
)

// Event is one decoded chat stream event. The set of variants is closed:
// only the types in this package implement it, so a type switch over all
// eight concrete events is exhaustive.
type Event interface {
	Type() EventType
	isEvent()
}

// TextDeltaEvent carries an incremental fragment of the assistant's text.
type TextDeltaEvent struct {
	Delta string `json:"delta"`
}

// ThinkingDeltaEvent carries an incremental fragment of the reasoning trace.
type ThinkingDeltaEvent struct {
	Delta string `json:"delta"`
}

// ToolCallExecutingEvent announces that the backend started executing a tool.
type ToolCallExecutingEvent struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Arguments  map[string]any `json:"arguments"`
}

// ToolResultEvent carries the result of a previously announced tool call.
type ToolResultEvent struct {
	ToolCallID string `json:"tool_call_id"`
	Result     any    `json:"result"`
}

// ToolApprovalRequestEvent asks the client for a human decision on a tool call.
type ToolApprovalRequestEvent struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Arguments  map[string]any `json:"arguments"`
}

// MessageHistoryEvent carries the server's authoritative transcript, which
// supersedes all state accumulated locally during the stream.
type MessageHistoryEvent struct {
	MessageHistory []Message `json:"message_history"`
}

// ErrorEvent reports a backend-side failure. The stream may continue after it.
type ErrorEvent struct {
	Error string `json:"error"`
}

// DoneEvent terminates a turn, either completely or paused for tool approval.
type DoneEvent struct {
	Status string `json:"status"`
}

func (TextDeltaEvent) Type() EventType           { return EventTextDelta }
func (ThinkingDeltaEvent) Type() EventType       { return EventThinkingDelta }
func (ToolCallExecutingEvent) Type() EventType   { return EventToolCallExecuting }
func (ToolResultEvent) Type() EventType          { return EventToolResult }
func (ToolApprovalRequestEvent) Type() EventType { return EventToolApprovalRequest }
func (MessageHistoryEvent) Type() EventType      { return EventMessageHistory }
func (ErrorEvent) Type() EventType               { return EventError }
func (DoneEvent) Type() EventType                { return EventDone }

func (TextDeltaEvent) isEvent()           {}
func (ThinkingDeltaEvent) isEvent()       {}
func (ToolCallExecutingEvent) isEvent()   {}
func (ToolResultEvent) isEvent()          {}
func (ToolApprovalRequestEvent) isEvent() {}
func (MessageHistoryEvent) isEvent()      {}
func (ErrorEvent) isEvent()               {}
func (DoneEvent) isEvent()                {}

// decodeEvent parses one NDJSON line into its event variant. Unknown type
// tags return an error so the stream can skip them defensively instead of
// crashing on protocol additions.
func decodeEvent(line []byte) (Event, error) {
	var envelope struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(line, &envelope); err != nil {
		return nil, err
	}

	switch envelope.Type {
	case EventTextDelta:
		return decodeAs[TextDeltaEvent](line)
	case EventThinkingDelta:
		return decodeAs[ThinkingDeltaEvent](line)
	case EventToolCallExecuting:
		return decodeAs[ToolCallExecutingEvent](line)
	case EventToolResult:
		return decodeAs[ToolResultEvent](line)
	case EventToolApprovalRequest:
		return decodeAs[ToolApprovalRequestEvent](line)
	case EventMessageHistory:
		return decodeAs[MessageHistoryEvent](line)
	case EventError:
		return decodeAs[ErrorEvent](line)
	case EventDone:
		return decodeAs[DoneEvent](line)
	default:
		return nil, fmt.Errorf("unknown event type %q", envelope.Type)
	}
}

func decodeAs[T Event](line []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(line, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}
