package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	appmodel "github.com/orlevii/agent-prism/model"
)

// handleStreamingMessage handles all streaming-related messages. Events are
// pumped one per command so every fold happens on the update loop.
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd) {
	switch msg := msg.(type) {
	case streamStartedMsg:
		debugf("[UI] stream opened")
		a.dataModel.AttachStream(msg.Stream)
		a.updateViewportContent(true)
		return a, a.dataModel.ReadStreamEvent()

	case streamEventMsg:
		result, done := a.dataModel.ApplyStreamEvent(msg.Event)
		if done {
			a.dataModel.FinishStream(result)
			a.invalidateRendered(-1)
			a.updateViewportContent(true)

			var cmds []tea.Cmd
			if cmd := a.renderFinishedResponse(); cmd != nil {
				cmds = append(cmds, cmd)
			}
			if result.PendingApproval && a.dataModel.Approvals.Len() > 0 {
				a.showApprovals = true
				a.selectedToolIdx = 0
			}
			return a, tea.Batch(cmds...)
		}

		a.invalidateRendered(a.dataModel.Transcript.Len() - 1)
		a.updateViewportContent(true)
		return a, a.dataModel.ReadStreamEvent()

	case streamClosedMsg:
		if msg.Err != nil {
			debugf("[UI] stream failed: %v", msg.Err)
			a.dataModel.FailStream(msg.Err)
			a.invalidateRendered(-1)
			a.updateViewportContent(true)
			return a, nil
		}

		// Clean end of stream without a done event. Treat as a completed
		// turn; the server simply closed the connection.
		debugf("[UI] stream ended without done event")
		if a.dataModel.Streaming {
			a.dataModel.FinishStream(appmodel.FoldResult{Completed: true})
		}
		a.updateViewportContent(true)
		return a, a.renderFinishedResponse()

	case markdownRenderedMsg:
		a.renderedMarkdown[msg.PartIndex] = msg.Rendered
		a.updateViewportContent(true)
		return a, nil
	}

	return a, nil
}
