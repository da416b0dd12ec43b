package model

import (
	"context"
	"strings"
	"time"

	"github.com/orlevii/agent-prism/config"
	"github.com/orlevii/agent-prism/prism"
)

// FoldResult describes how a stream ended.
type FoldResult struct {
	// Completed is true after done{complete} or a clean end of stream.
	Completed bool
	// PendingApproval is true after done{pending_approval}: the turn is
	// paused and must be resumed with approval decisions.
	PendingApproval bool
}

// StreamHooks are callbacks a folder raises for events that need handling
// outside the transcript. They run on the caller's goroutine, inside Apply.
type StreamHooks struct {
	// OnApprovalRequest fires for each tool_approval_request event.
	OnApprovalRequest func(toolCallID, toolName string, arguments map[string]any)
	// OnError fires for each error event. The stream continues after it.
	OnError func(message string)
}

type streamCall struct {
	name      string
	executing bool
}

// StreamFolder folds a chat event stream into a transcript, one event at a
// time. It keeps the running text and thinking accumulators and the tool
// calls seen so far, so a fresh folder is needed per stream.
type StreamFolder struct {
	text     strings.Builder
	thinking strings.Builder
	calls    map[string]*streamCall

	historyReplaced bool
	hooks           StreamHooks
}

// NewStreamFolder returns a folder for one stream.
func NewStreamFolder(hooks StreamHooks) *StreamFolder {
	return &StreamFolder{
		calls: make(map[string]*streamCall),
		hooks: hooks,
	}
}

// HistoryReplaced reports whether a message_history snapshot replaced the
// transcript during this stream. After that the optimistic placeholder is
// gone and must not be rolled back on failure.
func (f *StreamFolder) HistoryReplaced() bool {
	return f.historyReplaced
}

// Apply folds one event into the transcript. It returns done=true on a done
// event, with the result describing how the turn ended. Delta and tool events
// that arrive without an open response message are logged and dropped rather
// than guessed at.
func (f *StreamFolder) Apply(t *Transcript, ev prism.Event) (result FoldResult, done bool) {
	switch e := ev.(type) {
	case prism.TextDeltaEvent:
		f.text.WriteString(e.Delta)
		resp := t.OpenResponse()
		if resp == nil {
			f.logDesync(ev)
			return FoldResult{}, false
		}
		if part := findTextPart(resp); part != nil {
			part.Content = f.text.String()
		} else {
			resp.Parts = append(resp.Parts, &prism.TextPart{Content: f.text.String()})
		}

	case prism.ThinkingDeltaEvent:
		f.thinking.WriteString(e.Delta)
		resp := t.OpenResponse()
		if resp == nil {
			f.logDesync(ev)
			return FoldResult{}, false
		}
		if part := findThinkingPart(resp); part != nil {
			part.Content = f.thinking.String()
		} else {
			resp.Parts = append(resp.Parts, &prism.ThinkingPart{Content: f.thinking.String()})
		}

	case prism.ToolCallExecutingEvent:
		if _, seen := f.calls[e.ToolCallID]; seen {
			// Replayed announcement, the call part already exists.
			return FoldResult{}, false
		}
		f.calls[e.ToolCallID] = &streamCall{name: e.ToolName, executing: true}
		resp := t.OpenResponse()
		if resp == nil {
			f.logDesync(ev)
			return FoldResult{}, false
		}
		resp.Parts = append(resp.Parts, &prism.ToolCallPart{
			ToolName:   e.ToolName,
			Args:       e.Arguments,
			ToolCallID: e.ToolCallID,
		})

	case prism.ToolResultEvent:
		var name string
		if call, ok := f.calls[e.ToolCallID]; ok {
			name = call.name
			call.executing = false
		}
		resp := t.OpenResponse()
		if resp == nil {
			f.logDesync(ev)
			return FoldResult{}, false
		}
		resp.Parts = append(resp.Parts, &prism.ToolReturnPart{
			ToolName:   name,
			Content:    e.Result,
			ToolCallID: e.ToolCallID,
			Timestamp:  time.Now(),
		})

	case prism.ToolApprovalRequestEvent:
		if _, seen := f.calls[e.ToolCallID]; !seen {
			f.calls[e.ToolCallID] = &streamCall{name: e.ToolName}
		}
		if f.hooks.OnApprovalRequest != nil {
			f.hooks.OnApprovalRequest(e.ToolCallID, e.ToolName, e.Arguments)
		}

	case prism.MessageHistoryEvent:
		t.Replace(e.MessageHistory)
		f.historyReplaced = true
		// The snapshot supersedes everything accumulated so far. New deltas
		// start over against whatever response the snapshot ends with.
		f.text.Reset()
		f.thinking.Reset()

	case prism.ErrorEvent:
		if f.hooks.OnError != nil {
			f.hooks.OnError(e.Error)
		}

	case prism.DoneEvent:
		if e.Status == prism.DoneStatusPendingApproval {
			return FoldResult{PendingApproval: true}, true
		}
		return FoldResult{Completed: true}, true
	}

	return FoldResult{}, false
}

func (f *StreamFolder) logDesync(ev prism.Event) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Stream] dropped %s event, no open response message", ev.Type())
	}
}

// findTextPart returns the response's text part, if any. A response carries
// at most one, which deltas keep rewriting.
func findTextPart(msg *prism.Message) *prism.TextPart {
	for _, part := range msg.Parts {
		if p, ok := part.(*prism.TextPart); ok {
			return p
		}
	}
	return nil
}

func findThinkingPart(msg *prism.Message) *prism.ThinkingPart {
	for _, part := range msg.Parts {
		if p, ok := part.(*prism.ThinkingPart); ok {
			return p
		}
	}
	return nil
}

// FoldStream drains an event stream into the transcript. It returns when a
// done event arrives, the stream ends, or ctx is cancelled. A stream that
// ends without a done event counts as complete; backends are not required to
// send one before closing.
func FoldStream(ctx context.Context, es prism.EventStream, t *Transcript, hooks StreamHooks) (FoldResult, error) {
	folder := NewStreamFolder(hooks)

	for es.Next() {
		if ctx.Err() != nil {
			return FoldResult{}, prism.ErrCancelled
		}
		if result, done := folder.Apply(t, es.Current()); done {
			return result, nil
		}
	}

	if err := es.Err(); err != nil {
		return FoldResult{}, err
	}
	return FoldResult{Completed: true}, nil
}
