package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	appmodel "github.com/orlevii/agent-prism/model"
)

func (a AppView) handleTargetSelectorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.targetFilterMode {
		switch msg.String() {
		case "esc":
			a.targetFilterMode = false
			a.targetFilterInput.Blur()
			a.targetFilterInput.SetValue("")
			a.filteredTargets = nil
			a.selectedTargetIdx = 0
			return a, nil

		case "enter":
			list := a.getTargetList()
			if a.selectedTargetIdx < len(list) {
				a.selectTarget(list[a.selectedTargetIdx].Name)
			}
			return a, nil

		case "alt+j", "down":
			if a.selectedTargetIdx < len(a.getTargetList())-1 {
				a.selectedTargetIdx++
			}
			return a, nil

		case "alt+k", "up":
			if a.selectedTargetIdx > 0 {
				a.selectedTargetIdx--
			}
			return a, nil
		}

		var cmd tea.Cmd
		a.targetFilterInput, cmd = a.targetFilterInput.Update(msg)

		filterValue := a.targetFilterInput.Value()
		if filterValue == "" {
			a.filteredTargets = a.dataModel.Targets
		} else {
			names := make([]string, len(a.dataModel.Targets))
			for i, t := range a.dataModel.Targets {
				names[i] = t.Name
			}

			matches := fuzzy.Find(filterValue, names)
			a.filteredTargets = make([]appmodel.TargetInfo, len(matches))
			for i, match := range matches {
				a.filteredTargets[i] = a.dataModel.Targets[match.Index]
			}
		}

		if list := a.getTargetList(); a.selectedTargetIdx >= len(list) && len(list) > 0 {
			a.selectedTargetIdx = len(list) - 1
		}

		return a, cmd
	}

	switch msg.String() {
	case "esc":
		a.showTargetSelector = false
		a.textarea.Focus()
		return a, nil

	case "/":
		a.targetFilterMode = true
		a.targetFilterInput.Focus()
		a.targetFilterInput.SetValue("")
		a.filteredTargets = a.dataModel.Targets
		return a, textinput.Blink

	case "j", "down":
		if a.selectedTargetIdx < len(a.getTargetList())-1 {
			a.selectedTargetIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedTargetIdx > 0 {
			a.selectedTargetIdx--
		}
		return a, nil

	case "r":
		return a, a.dataModel.FetchTargets(true)

	case "enter":
		list := a.getTargetList()
		if a.selectedTargetIdx < len(list) {
			a.selectTarget(list[a.selectedTargetIdx].Name)
		}
		return a, nil
	}

	return a, nil
}

// selectTarget switches the agent/model and closes the selector. Selecting
// an agent prefills the dependency editor from its published preset.
func (a *AppView) selectTarget(name string) {
	a.dataModel.SelectTarget(name)
	a.showTargetSelector = false
	a.targetFilterMode = false
	a.targetFilterInput.Blur()
	a.targetFilterInput.SetValue("")
	a.filteredTargets = nil
	a.textarea.Focus()
	debugf("[UI] target selected: %s", name)
}

func renderTargetSelector(targets []appmodel.TargetInfo, selectedIdx int, currentTarget string, filterMode bool, filterInput textinput.Model, filteredTargets []appmodel.TargetInfo, backend string, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}
	modalHeight := height - 6

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(fmt.Sprintf("Select Target (%s)", backend))

	displayList := targets
	if filterMode && filterInput.Value() != "" {
		displayList = filteredTargets
	}

	var header string
	if filterMode {
		header = filterInput.View()
	} else if len(targets) == len(displayList) {
		header = fmt.Sprintf("%d available", len(targets))
	} else {
		header = fmt.Sprintf("%d of %d available", len(displayList), len(targets))
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	var lines []string
	maxLines := modalHeight - 8

	if len(displayList) == 0 {
		emptyMsg := "No agents available"
		if filterMode {
			emptyMsg = "No matches found"
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg))
	} else {
		startIdx := 0
		endIdx := len(displayList)

		if len(displayList) > maxLines {
			if selectedIdx < maxLines/2 {
				endIdx = maxLines
			} else if selectedIdx >= len(displayList)-maxLines/2 {
				startIdx = len(displayList) - maxLines
			} else {
				startIdx = selectedIdx - maxLines/2
				endIdx = startIdx + maxLines
			}
		}

		for i := startIdx; i < endIdx && i < len(displayList); i++ {
			target := displayList[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			currentMarker := ""
			if target.Name == currentTarget {
				currentMarker = " (current)"
			}

			depsMarker := ""
			if len(target.Dependencies) > 0 {
				depsMarker = fmt.Sprintf(" [%d deps]", len(target.Dependencies))
			}

			line := truncateLine(indicator+target.Name+depsMarker+currentMarker, modalWidth-2)

			lineStyle := lipgloss.NewStyle()
			if i == selectedIdx {
				lineStyle = lineStyle.Foreground(successColor).Bold(true)
			} else if target.Name == currentTarget {
				lineStyle = lineStyle.Foreground(accentColor).Bold(true)
			}

			lines = append(lines, lipgloss.NewStyle().
				Width(modalWidth).
				Render(lineStyle.Render(line)))
		}
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	lines = append([]string{emptyLine}, lines...)
	lines = append(lines, emptyLine)

	var footerText string
	if filterMode {
		footerText = FormatFooter("Type", "to filter", "Alt+J/K", "Navigate", "Enter", "Select", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("/", "Filter", "j/k", "Navigate", "r", "Refresh", "Enter", "Select", "Esc", "Exit")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	var sections []string
	sections = append(sections, titleSection, headerSection)
	sections = append(sections, lines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
