package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "github.com/orlevii/agent-prism/model"
	"github.com/orlevii/agent-prism/prism"
)

func (a AppView) handlePartPickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(a.partRefs) == 0 {
		a.showPartPicker = false
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.showPartPicker = false
		a.textarea.Focus()
		return a, nil

	case "j", "down":
		if a.selectedPartIdx < len(a.partRefs)-1 {
			a.selectedPartIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedPartIdx > 0 {
			a.selectedPartIdx--
		}
		return a, nil

	case "enter":
		ref := a.partRefs[a.selectedPartIdx]
		content, editable := partContent(ref.Part)
		if !editable {
			a.dataModel.Err = "Tool parts cannot be edited"
			return a, nil
		}

		a.showPartPicker = false
		a.editorFor = editorTargetPart
		a.pendingPartEdit = &appmodel.PartLocator{
			ID:    partStableID(ref.Part),
			Index: ref.Index,
		}
		return a, a.dataModel.OpenExternalEditor(content)
	}

	return a, nil
}

// partContent returns the editable text of a part. Tool calls and returns
// are machine state, not prose, so editing them is refused.
func partContent(part prism.Part) (string, bool) {
	switch p := part.(type) {
	case *prism.SystemPromptPart:
		return p.Content, true
	case *prism.UserPromptPart:
		return p.Content, true
	case *prism.TextPart:
		return p.Content, true
	case *prism.ThinkingPart:
		return p.Content, true
	default:
		return "", false
	}
}

func partStableID(part prism.Part) string {
	switch p := part.(type) {
	case *prism.TextPart:
		return p.ID
	case *prism.ThinkingPart:
		return p.ID
	case *prism.ToolCallPart:
		return p.ID
	default:
		return ""
	}
}

func partLabel(part prism.Part) string {
	switch p := part.(type) {
	case *prism.SystemPromptPart:
		return "system  " + firstLine(p.Content)
	case *prism.UserPromptPart:
		return "you     " + firstLine(p.Content)
	case *prism.TextPart:
		return "reply   " + firstLine(p.Content)
	case *prism.ThinkingPart:
		return "thought " + firstLine(p.Content)
	case *prism.ToolCallPart:
		return fmt.Sprintf("call    %s(%s)", p.ToolName, argsPreview(p.Args))
	case *prism.ToolReturnPart:
		return fmt.Sprintf("result  %s: %s", p.ToolName, argsPreview(p.Content))
	default:
		return part.PartKind()
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func renderPartPicker(refs []appmodel.PartRef, selectedIdx int, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}
	modalHeight := height - 6

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Edit Part")

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("Everything after the edited part is discarded and replayed")

	var lines []string
	maxLines := modalHeight - 8

	startIdx := 0
	endIdx := len(refs)
	if len(refs) > maxLines {
		if selectedIdx < maxLines/2 {
			endIdx = maxLines
		} else if selectedIdx >= len(refs)-maxLines/2 {
			startIdx = len(refs) - maxLines
		} else {
			startIdx = selectedIdx - maxLines/2
			endIdx = startIdx + maxLines
		}
	}

	for i := startIdx; i < endIdx && i < len(refs); i++ {
		ref := refs[i]

		indicator := "  "
		if i == selectedIdx {
			indicator = "▶ "
		}

		_, editable := partContent(ref.Part)
		label := fmt.Sprintf("%s%2d  %s", indicator, ref.Index, partLabel(ref.Part))

		lineStyle := lipgloss.NewStyle()
		if i == selectedIdx {
			lineStyle = lineStyle.Foreground(successColor).Bold(true)
		} else if !editable {
			lineStyle = lineStyle.Foreground(dimColor)
		}

		lines = append(lines, lipgloss.NewStyle().
			Width(modalWidth).
			Render(lineStyle.Render(truncateLine(label, modalWidth))))
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	lines = append([]string{emptyLine}, lines...)
	lines = append(lines, emptyLine)

	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(FormatFooter("j/k", "Navigate", "Enter", "Edit", "Esc", "Cancel"))

	var sections []string
	sections = append(sections, titleSection, headerSection)
	sections = append(sections, lines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
