package ui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orlevii/agent-prism/config"
	"github.com/orlevii/agent-prism/prism"
)

// Settings field indices. The order here is the display order.
const (
	settingBackend = iota
	settingAgentBaseURL
	settingDefaultAgent
	settingRequireApproval
	settingOllamaHost
	settingOllamaModel
	settingTemperature
	settingThink
	settingOpenAIBaseURL
	settingOpenAIModel
	settingOpenAIKeyEnv
	settingDependencies
	settingToolsFile
	settingCount
)

// openSettings builds the field list from the live config and conversation
// state.
func (a *AppView) openSettings() {
	cfg := a.dataModel.Config

	fields := make([]SettingField, settingCount)
	fields[settingBackend] = SettingField{Label: "Backend (agent/ollama/openai)", Value: cfg.Backend, Type: SettingTypeBackend}
	fields[settingAgentBaseURL] = SettingField{Label: "Agent base URL", Value: cfg.AgentBaseURL, Type: SettingTypeText}
	fields[settingDefaultAgent] = SettingField{Label: "Default agent", Value: cfg.DefaultAgent, Type: SettingTypeText}
	fields[settingRequireApproval] = SettingField{Label: "Require tool approval", Value: formatBool(cfg.RequireApproval), Type: SettingTypeBool}
	fields[settingOllamaHost] = SettingField{Label: "Ollama host", Value: cfg.OllamaHost, Type: SettingTypeText}
	fields[settingOllamaModel] = SettingField{Label: "Ollama model", Value: cfg.OllamaModel, Type: SettingTypeText}
	fields[settingTemperature] = SettingField{Label: "Temperature", Value: strconv.FormatFloat(cfg.Temperature, 'g', -1, 64), Type: SettingTypeNumber}
	fields[settingThink] = SettingField{Label: "Think (reasoning trace)", Value: formatBool(cfg.Think), Type: SettingTypeBool}
	fields[settingOpenAIBaseURL] = SettingField{Label: "OpenAI base URL", Value: cfg.OpenAIBaseURL, Type: SettingTypeText}
	fields[settingOpenAIModel] = SettingField{Label: "OpenAI model", Value: cfg.OpenAIModel, Type: SettingTypeText}
	fields[settingOpenAIKeyEnv] = SettingField{Label: "OpenAI key env var", Value: cfg.OpenAIKeyEnv, Type: SettingTypeText}
	fields[settingDependencies] = SettingField{Label: "Dependencies JSON", Value: a.dataModel.DependenciesJSON, Type: SettingTypeJSON}
	fields[settingToolsFile] = SettingField{Label: "Tools file", Value: cfg.ToolsFile, Type: SettingTypeText}

	a.settingsFields = fields
	a.selectedSettingIdx = 0
	a.settingsEditMode = false
	a.settingsHasChanges = false
	a.settingsConfirmExit = false
	a.settingsSaveError = ""
	a.showSettings = true

	input := textinput.New()
	input.CharLimit = 0
	a.settingsEditInput = input
}

func (a AppView) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.settingsConfirmExit {
		switch msg.String() {
		case "y", "enter":
			a.closeAllModals()
		case "n", "esc":
			a.settingsConfirmExit = false
		}
		return a, nil
	}

	if a.settingsEditMode {
		switch msg.String() {
		case "esc":
			a.settingsEditMode = false
			a.settingsEditInput.Blur()
			return a, nil
		case "enter":
			field := &a.settingsFields[a.selectedSettingIdx]
			value := a.settingsEditInput.Value()
			if err := validateSettingValue(field.Type, value); err != nil {
				field.Validation = FieldValidationError
				field.ErrorMsg = err.Error()
				return a, nil
			}
			field.Value = value
			field.Validation = FieldValidationNone
			field.ErrorMsg = ""
			a.settingsHasChanges = true
			a.settingsEditMode = false
			a.settingsEditInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.settingsEditInput, cmd = a.settingsEditInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "esc":
		if a.settingsHasChanges {
			a.settingsConfirmExit = true
			return a, nil
		}
		a.closeAllModals()
		return a, nil

	case "j", "down":
		if a.selectedSettingIdx < len(a.settingsFields)-1 {
			a.selectedSettingIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedSettingIdx > 0 {
			a.selectedSettingIdx--
		}
		return a, nil

	case "enter":
		field := &a.settingsFields[a.selectedSettingIdx]
		if field.Type == SettingTypeBool {
			field.Value = formatBool(field.Value != "true")
			a.settingsHasChanges = true
			return a, nil
		}
		a.settingsEditMode = true
		a.settingsEditInput.SetValue(field.Value)
		a.settingsEditInput.Focus()
		a.settingsEditInput.CursorEnd()
		return a, textinput.Blink

	case "ctrl+s", "s":
		return a.saveSettings()
	}

	return a, nil
}

// saveSettings applies the edited fields to the runtime config, persists the
// user config, and refreshes conversation state that depends on it.
func (a AppView) saveSettings() (tea.Model, tea.Cmd) {
	cfg := a.dataModel.Config
	fields := a.settingsFields

	backend := strings.TrimSpace(fields[settingBackend].Value)
	switch backend {
	case "agent", "ollama", "openai":
	default:
		a.settingsSaveError = fmt.Sprintf("unknown backend %q", backend)
		return a, nil
	}

	temperature, err := strconv.ParseFloat(strings.TrimSpace(fields[settingTemperature].Value), 64)
	if err != nil {
		a.settingsSaveError = "temperature must be a number"
		return a, nil
	}

	restartNeeded := backend != cfg.Backend

	cfg.Backend = backend
	cfg.AgentBaseURL = strings.TrimSpace(fields[settingAgentBaseURL].Value)
	cfg.DefaultAgent = strings.TrimSpace(fields[settingDefaultAgent].Value)
	cfg.RequireApproval = fields[settingRequireApproval].Value == "true"
	cfg.OllamaHost = strings.TrimSpace(fields[settingOllamaHost].Value)
	cfg.OllamaModel = strings.TrimSpace(fields[settingOllamaModel].Value)
	cfg.Temperature = temperature
	cfg.Think = fields[settingThink].Value == "true"
	cfg.OpenAIBaseURL = strings.TrimSpace(fields[settingOpenAIBaseURL].Value)
	cfg.OpenAIModel = strings.TrimSpace(fields[settingOpenAIModel].Value)
	cfg.OpenAIKeyEnv = strings.TrimSpace(fields[settingOpenAIKeyEnv].Value)
	cfg.ToolsFile = strings.TrimSpace(fields[settingToolsFile].Value)

	a.dataModel.DependenciesJSON = fields[settingDependencies].Value
	a.dataModel.ToolMode = prism.ToolModeAuto
	if cfg.RequireApproval {
		a.dataModel.ToolMode = prism.ToolModeRequestApproval
	}

	if err := config.SaveUserConfig(cfg.UserConfigFromRuntime(), cfg.DataDir()); err != nil {
		a.settingsSaveError = fmt.Sprintf("save failed: %v", err)
		return a, nil
	}

	debugf("[UI] settings saved, backend=%s", cfg.Backend)

	a.settingsHasChanges = false
	if restartNeeded {
		a.settingsSaveError = "Saved. Backend change takes effect on restart."
		return a, nil
	}
	a.closeAllModals()
	return a, a.dataModel.PingBackend()
}

func validateSettingValue(fieldType SettingFieldType, value string) error {
	switch fieldType {
	case SettingTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return fmt.Errorf("must be a number")
		}
	case SettingTypeJSON:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			// Tolerated at send time, but warn here where the user can fix it
			return fmt.Errorf("not a JSON object (will be sent as {})")
		}
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func renderSettings(fields []SettingField, selectedIdx int, editMode bool, editInput textinput.Model, hasChanges bool, saveError string, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}

	title := "Settings"
	if hasChanges {
		title += " *"
	}
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(title)

	var lines []string
	lines = append(lines, strings.Repeat(" ", modalWidth))

	labelWidth := 30
	for i, field := range fields {
		indicator := "  "
		if i == selectedIdx {
			indicator = "▶ "
		}

		value := field.Value
		if i == selectedIdx && editMode {
			value = editInput.View()
		}
		value = strings.ReplaceAll(value, "\n", " ")

		line := fmt.Sprintf("%s%-*s %s", indicator, labelWidth, field.Label, value)
		line = truncateLine(line, modalWidth)

		lineStyle := lipgloss.NewStyle()
		if i == selectedIdx {
			lineStyle = lineStyle.Foreground(successColor).Bold(true)
		}

		lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Render(lineStyle.Render(line)))

		if field.Validation == FieldValidationError && field.ErrorMsg != "" {
			errLine := fmt.Sprintf("  %-*s %s", labelWidth, "", field.ErrorMsg)
			lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Render(ErrorStyle.Render(truncateLine(errLine, modalWidth))))
		}
	}

	lines = append(lines, strings.Repeat(" ", modalWidth))

	if saveError != "" {
		style := ErrorStyle
		if strings.HasPrefix(saveError, "Saved.") {
			style = DimStyle
		}
		lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center).Render(style.Render(saveError)))
		lines = append(lines, strings.Repeat(" ", modalWidth))
	}

	var footerText string
	if editMode {
		footerText = FormatFooter("Enter", "Apply", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("j/k", "Navigate", "Enter", "Edit/Toggle", "s", "Save", "Esc", "Close")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("Persisted to config.toml in the data directory")

	var sections []string
	sections = append(sections, titleSection, headerSection)
	sections = append(sections, lines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// RenderUnsavedChangesModal asks before discarding edited settings.
func RenderUnsavedChangesModal(width, height int) string {
	modalWidth := 50

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Unsaved Changes")

	messageSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("\nDiscard your changes?\n")

	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(FormatFooter("y", "Discard", "n", "Keep editing"))

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
