package model

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orlevii/agent-prism/config"
	"github.com/orlevii/agent-prism/prism"
)

// SendMessage validates and sends one user turn. It appends the turn and an
// optimistic open response to the transcript, then opens the stream in the
// background. Validation failures set m.Err and return nil.
func (m *Model) SendMessage(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		m.Err = "Please enter a message"
		return nil
	}
	if m.Provider == nil || m.Provider.GetTarget() == "" {
		m.Err = "No agent selected"
		return nil
	}
	if m.Busy() {
		m.Err = "A request is already in flight"
		return nil
	}

	m.Transcript.Append(prism.NewUserRequest(text))
	history := m.Transcript.Clone()
	m.Transcript.Append(prism.NewOpenResponse())

	return m.startStream(ChatParams{
		Messages:     history,
		Dependencies: m.ParsedDependencies(),
		ToolMode:     m.ToolMode,
	})
}

// ContinueWithApprovals resumes a turn paused for tool approval, carrying the
// collected decisions. It refuses to resume until every request is decided.
func (m *Model) ContinueWithApprovals() tea.Cmd {
	if !m.Approvals.AllHandled() {
		m.Err = "Decide every pending tool call first"
		return nil
	}
	if m.Busy() {
		m.Err = "A request is already in flight"
		return nil
	}

	deferred := m.Approvals.Decisions()
	m.Approvals.Clear()
	m.PendingApproval = false

	history := m.Transcript.Clone()
	m.Transcript.Append(prism.NewOpenResponse())

	return m.startStream(ChatParams{
		Messages:     history,
		Dependencies: m.ParsedDependencies(),
		ToolMode:     m.ToolMode,
		Deferred:     &deferred,
	})
}

// EditPartAndResend replaces the addressed part's content, truncates the
// conversation after it, and replays the truncated history as a new request.
func (m *Model) EditPartAndResend(loc PartLocator, content string) tea.Cmd {
	content = strings.TrimSpace(content)
	if content == "" {
		m.Err = "Please enter a message"
		return nil
	}
	if m.Busy() {
		m.Err = "A request is already in flight"
		return nil
	}

	if err := m.Transcript.EditPart(loc, content); err != nil {
		m.Err = err.Error()
		return nil
	}

	// The edit invalidates everything downstream of it.
	m.Approvals.Clear()
	m.PendingApproval = false

	history := m.Transcript.Clone()
	m.Transcript.Append(prism.NewOpenResponse())

	return m.startStream(ChatParams{
		Messages:     history,
		Dependencies: m.ParsedDependencies(),
		ToolMode:     m.ToolMode,
	})
}

// startStream opens the request in the background and hands the stream back
// to the update loop. The folder and cancel handle are installed before the
// goroutine starts so CancelRequest works immediately.
func (m *Model) startStream(params ChatParams) tea.Cmd {
	params.Tools = m.Tools

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelActive = cancel
	m.Streaming = true
	m.PendingApproval = false
	m.Err = ""

	m.folder = NewStreamFolder(StreamHooks{
		OnApprovalRequest: func(toolCallID, toolName string, arguments map[string]any) {
			m.Approvals.Add(toolCallID, toolName, arguments)
		},
		OnError: func(message string) {
			m.Err = message
		},
	})

	provider := m.Provider
	return func() tea.Msg {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] opening chat stream, target=%s messages=%d", provider.GetTarget(), len(params.Messages))
		}

		stream, err := provider.ChatStream(ctx, params)
		if err != nil {
			return StreamClosedMsg{Err: err}
		}
		return StreamStartedMsg{Stream: stream}
	}
}

// ReadStreamEvent pulls the next event off the active stream. The update
// loop re-issues it after folding each event, so the transcript only ever
// mutates on the update goroutine.
func (m *Model) ReadStreamEvent() tea.Cmd {
	stream := m.stream
	if stream == nil {
		return nil
	}
	return func() tea.Msg {
		if stream.Next() {
			return StreamEventMsg{Event: stream.Current()}
		}
		return StreamClosedMsg{Err: stream.Err()}
	}
}
