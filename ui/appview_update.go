package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/orlevii/agent-prism/prism"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Animate the spinner while the open response is still empty
	if a.dataModel.Streaming {
		if open := a.dataModel.Transcript.OpenResponse(); open != nil && len(open.Parts) == 0 {
			a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
			cmds = append(cmds, cmd)
			a.updateViewportContent(true)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title (1), separator (1), error line (1), textarea (3), status bar (1)
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 7
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.invalidateRendered(-1)
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case streamStartedMsg, streamEventMsg, streamClosedMsg, markdownRenderedMsg:
		a, cmd = a.handleStreamingMessage(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case targetsListMsg:
		if msg.Err != nil {
			a.dataModel.Err = fmt.Sprintf("Failed to list agents: %v", msg.Err)
			return a, tea.Batch(cmds...)
		}
		a.dataModel.Targets = msg.Targets

		// Auto-select when nothing is configured yet
		if a.currentTarget() == "" && len(msg.Targets) > 0 {
			a.dataModel.SelectTarget(msg.Targets[0].Name)
		}

		if msg.ShowSelector {
			a.showTargetSelector = true
			a.selectedTargetIdx = 0
			a.targetFilterMode = false
			a.targetFilterInput.SetValue("")
		}
		return a, tea.Batch(cmds...)

	case pingResultMsg:
		if msg.Err != nil {
			a.dataModel.Err = fmt.Sprintf("Backend unreachable: %v", msg.Err)
		}
		return a, tea.Batch(cmds...)

	case editorContentMsg:
		content := strings.TrimRight(msg.Content, "\n")
		if a.editorFor == editorTargetPart && a.pendingPartEdit != nil {
			loc := *a.pendingPartEdit
			a.pendingPartEdit = nil
			a.editorFor = editorTargetCompose
			editCmd := a.dataModel.EditPartAndResend(loc, content)
			a.invalidateRendered(-1)
			a.updateViewportContent(true)
			return a, editCmd
		}
		a.textarea.SetValue(content)
		return a, nil

	case editorErrorMsg:
		a.pendingPartEdit = nil
		a.editorFor = editorTargetCompose
		a.dataModel.Err = fmt.Sprintf("Editor failed: %v", msg.Err)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg, cmds)
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	// Modal key handling first; each handler owns its own dismissal
	switch {
	case a.showHelp:
		switch msg.String() {
		case "esc", "alt+h", "enter", "q":
			a.showHelp = false
		}
		return a, nil

	case a.showAbout:
		switch msg.String() {
		case "esc", "enter", "q":
			a.showAbout = false
		}
		return a, nil

	case a.showSettings:
		return a.handleSettingsKeys(msg)

	case a.showTargetSelector:
		return a.handleTargetSelectorKeys(msg)

	case a.showApprovals:
		return a.handleApprovalKeys(msg)

	case a.showPartPicker:
		return a.handlePartPickerKeys(msg)
	}

	switch msg.String() {
	case "ctrl+c", "alt+q":
		a.dataModel.CancelRequest()
		a.dataModel.Quitting = true
		return a, tea.Quit

	case "enter":
		sendCmd := a.dataModel.SendMessage(a.textarea.Value())
		if sendCmd != nil {
			a.textarea.Reset()
			a.updateViewportContent(true)
			cmds = append(cmds, sendCmd, a.loadingSpinner.Tick)
		}
		return a, tea.Batch(cmds...)

	case "esc":
		if a.dataModel.Streaming {
			a.dataModel.CancelRequest()
			return a, nil
		}
		a.dataModel.Err = ""
		return a, nil

	case "alt+a":
		return a, a.dataModel.FetchTargets(true)

	case "alt+s":
		a.openSettings()
		return a, nil

	case "alt+t":
		if a.dataModel.Approvals.Len() > 0 {
			a.showApprovals = true
			a.selectedToolIdx = 0
			a.mockMode = false
		}
		return a, nil

	case "alt+e":
		a.openPartPicker()
		return a, nil

	case "alt+i":
		if !a.dataModel.Streaming {
			a.editorFor = editorTargetCompose
			return a, a.dataModel.OpenExternalEditor(a.textarea.Value())
		}
		return a, nil

	case "alt+l":
		if !a.dataModel.Streaming {
			a.dataModel.ClearMessages()
			a.invalidateRendered(-1)
			a.updateViewportContent(true)
		}
		return a, nil

	case "alt+h":
		a.showHelp = true
		return a, nil

	case "alt+b":
		a.showAbout = true
		return a, nil

	case "alt+y":
		// Copy last assistant reply
		if text := lastAssistantText(a.dataModel.Transcript.Messages); text != "" {
			clipboard.WriteAll(text)
		}
		return a, nil

	case "alt+c":
		clipboard.WriteAll(transcriptAsText(a.dataModel.Transcript.Messages))
		return a, nil

	case "alt+j", "alt+down":
		a.viewport.HalfPageDown()
		return a, nil

	case "alt+k", "alt+up":
		a.viewport.HalfPageUp()
		return a, nil

	case "pgdown":
		a.viewport.PageDown()
		return a, nil

	case "pgup":
		a.viewport.PageUp()
		return a, nil

	case "alt+g":
		a.viewport.GotoTop()
		return a, nil

	case "alt+G":
		a.viewport.GotoBottom()
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func lastAssistantText(messages []prism.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsResponse() {
			continue
		}
		for _, part := range messages[i].Parts {
			if text, ok := part.(*prism.TextPart); ok && text.Content != "" {
				return text.Content
			}
		}
	}
	return ""
}

func transcriptAsText(messages []prism.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case *prism.SystemPromptPart:
				b.WriteString("System:\n" + p.Content + "\n\n")
			case *prism.UserPromptPart:
				b.WriteString("You:\n" + p.Content + "\n\n")
			case *prism.TextPart:
				b.WriteString("Assistant:\n" + p.Content + "\n\n")
			case *prism.ThinkingPart:
				b.WriteString("Thinking:\n" + p.Content + "\n\n")
			case *prism.ToolCallPart:
				b.WriteString(fmt.Sprintf("Tool call %s(%s)\n\n", p.ToolName, argsPreview(p.Args)))
			case *prism.ToolReturnPart:
				b.WriteString(fmt.Sprintf("Tool result %s: %s\n\n", p.ToolName, argsPreview(p.Content)))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// openPartPicker snapshots the flattened part list for editing.
func (a *AppView) openPartPicker() {
	if a.dataModel.Streaming {
		return
	}
	a.partRefs = a.dataModel.Transcript.FlattenedParts()
	if len(a.partRefs) == 0 {
		return
	}
	a.showPartPicker = true
	a.selectedPartIdx = len(a.partRefs) - 1
}
