package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "github.com/orlevii/agent-prism/model"
)

func (a AppView) handleApprovalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := a.dataModel.Approvals.Pending()
	if len(pending) == 0 {
		a.showApprovals = false
		return a, nil
	}

	if a.selectedToolIdx >= len(pending) {
		a.selectedToolIdx = len(pending) - 1
	}
	selected := pending[a.selectedToolIdx]

	// Mock value entry mode
	if a.mockMode {
		switch msg.String() {
		case "esc":
			a.mockMode = false
			a.mockInput.Blur()
			return a, nil
		case "enter":
			a.dataModel.Approvals.Mock(selected.ToolCallID, parseMockValue(a.mockInput.Value()))
			a.mockMode = false
			a.mockInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.mockInput, cmd = a.mockInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "esc":
		a.showApprovals = false
		a.textarea.Focus()
		return a, nil

	case "j", "down":
		if a.selectedToolIdx < len(pending)-1 {
			a.selectedToolIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedToolIdx > 0 {
			a.selectedToolIdx--
		}
		return a, nil

	case "y", "a":
		a.dataModel.Approvals.Approve(selected.ToolCallID)
		return a, nil

	case "n", "r":
		a.dataModel.Approvals.Reject(selected.ToolCallID)
		return a, nil

	case "m":
		a.mockMode = true
		a.mockInput.SetValue("")
		a.mockInput.Focus()
		return a, textinput.Blink

	case "enter":
		if !a.dataModel.Approvals.AllHandled() {
			a.dataModel.Err = "Decide every pending tool call first"
			return a, nil
		}
		a.showApprovals = false
		a.textarea.Focus()
		resumeCmd := a.dataModel.ContinueWithApprovals()
		if resumeCmd != nil {
			a.updateViewportContent(true)
			return a, tea.Batch(resumeCmd, a.loadingSpinner.Tick)
		}
		return a, nil
	}

	return a, nil
}

// parseMockValue reads the mock input as JSON when possible, keeping the raw
// string otherwise so plain text mocks work without quoting.
func parseMockValue(text string) any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var value any
	if err := json.Unmarshal([]byte(text), &value); err == nil {
		return value
	}
	return text
}

func renderApprovalPanel(approvals *appmodel.ApprovalSet, selectedIdx int, mockMode bool, mockInput textinput.Model, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("🔒 Tool Approval Required")

	pending := approvals.Pending()

	headerText := fmt.Sprintf("%d tool call(s) waiting for a decision", len(pending))
	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(headerText)

	var toolLines []string
	toolLines = append(toolLines, strings.Repeat(" ", modalWidth))

	for i, tool := range pending {
		indicator := "  "
		if i == selectedIdx {
			indicator = "▶ "
		}

		status := formatApprovalStatus(tool.Status)
		args := truncateLine(argsPreview(tool.Arguments), modalWidth-len(tool.ToolName)-20)

		line := fmt.Sprintf("%s%s(%s)  %s", indicator, tool.ToolName, args, status)

		lineStyle := lipgloss.NewStyle()
		if i == selectedIdx {
			lineStyle = lineStyle.Foreground(successColor).Bold(true)
		}

		toolLines = append(toolLines, lipgloss.NewStyle().
			Width(modalWidth).
			Render(lineStyle.Render(truncateLine(line, modalWidth))))
	}

	toolLines = append(toolLines, strings.Repeat(" ", modalWidth))

	if mockMode {
		toolLines = append(toolLines, lipgloss.NewStyle().Width(modalWidth).Render(mockInput.View()))
		toolLines = append(toolLines, strings.Repeat(" ", modalWidth))
	}

	var footerText string
	if mockMode {
		footerText = FormatFooter("Enter", "Set mock value", "Esc", "Cancel")
	} else if approvals.AllHandled() {
		footerText = FormatFooter("Enter", "Continue", "j/k", "Navigate", "Esc", "Close")
	} else {
		footerText = FormatFooter("y", "Approve", "n", "Reject", "m", "Mock", "j/k", "Navigate", "Esc", "Close")
	}

	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	sections := []string{titleSection, headerSection}
	sections = append(sections, toolLines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func formatApprovalStatus(status appmodel.ApprovalStatus) string {
	switch status {
	case appmodel.ApprovalApproved:
		return UserStyle.Render("[approved]")
	case appmodel.ApprovalRejected:
		return ErrorStyle.Render("[rejected]")
	case appmodel.ApprovalMocked:
		return SelectedStyle.Render("[mocked]")
	default:
		return DimStyle.Render("[pending]")
	}
}
