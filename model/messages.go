package model

import (
	"github.com/orlevii/agent-prism/prism"
)

// StreamStartedMsg delivers the event stream of a freshly opened request.
type StreamStartedMsg struct {
	Stream prism.EventStream
}

// StreamEventMsg delivers one decoded event read off the active stream.
type StreamEventMsg struct {
	Event prism.Event
}

// StreamClosedMsg reports that the active stream ended without a done event.
// Err is nil on a clean close.
type StreamClosedMsg struct {
	Err error
}

// TargetsListMsg delivers the result of a target list fetch.
type TargetsListMsg struct {
	Targets      []TargetInfo
	Err          error
	ShowSelector bool
}

// PingResultMsg reports backend reachability.
type PingResultMsg struct {
	Err error
}

// MarkdownRenderedMsg delivers an asynchronously rendered message body.
type MarkdownRenderedMsg struct {
	PartIndex int
	Rendered  string
}

// EditorContentMsg returns the text composed in an external editor.
type EditorContentMsg struct {
	Content string
}

// EditorErrorMsg reports a failure launching or reading the external editor.
type EditorErrorMsg struct {
	Err error
}
