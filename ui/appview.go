package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orlevii/agent-prism/config"
	appmodel "github.com/orlevii/agent-prism/model"
)

// editorTarget tracks what the external editor result should be applied to.
type editorTarget int

const (
	editorTargetCompose editorTarget = iota
	editorTargetPart
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner shown while the open response is still empty
	loadingSpinner spinner.Model

	showHelp  bool
	showAbout bool

	// Target selector (agents or models, depending on backend)
	showTargetSelector bool
	selectedTargetIdx  int
	targetFilterMode   bool
	targetFilterInput  textinput.Model
	filteredTargets    []appmodel.TargetInfo

	// Tool approval panel
	showApprovals   bool
	selectedToolIdx int
	mockMode        bool
	mockInput       textinput.Model

	// Part editor (pick a transcript part, edit it externally, resend)
	showPartPicker  bool
	partRefs        []appmodel.PartRef
	selectedPartIdx int
	pendingPartEdit *appmodel.PartLocator

	// Settings modal
	showSettings        bool
	settingsFields      []SettingField
	selectedSettingIdx  int
	settingsEditMode    bool
	settingsEditInput   textinput.Model
	settingsHasChanges  bool
	settingsConfirmExit bool
	settingsSaveError   string

	// Where the next editorContentMsg goes
	editorFor editorTarget

	// Rendered markdown per transcript message index. Invalidated whenever
	// the message mutates during streaming.
	renderedMarkdown map[int]string
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type your message here or press Alt+I to use your favorite text editor..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline; Enter sends and is handled separately
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	targetFilterInput := textinput.New()
	targetFilterInput.Prompt = "Filter: "
	targetFilterInput.CharLimit = 64

	mockInput := textinput.New()
	mockInput.Prompt = "Mock value (JSON): "
	mockInput.CharLimit = 0

	return AppView{
		dataModel:         dataModel,
		textarea:          ta,
		viewport:          vp,
		loadingSpinner:    sp,
		targetFilterInput: targetFilterInput,
		mockInput:         mockInput,
		renderedMarkdown:  make(map[int]string),
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.FetchTargets(false),
		a.dataModel.PingBackend(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading prism..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Help (always on top - can peek while in other modals)
	// 2. Settings
	// 3. Target selector
	// 4. Approval panel
	// 5. Part picker
	// 6. About

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showSettings {
		if a.settingsConfirmExit {
			return RenderUnsavedChangesModal(a.width, a.height)
		}
		return renderSettings(a.settingsFields, a.selectedSettingIdx, a.settingsEditMode, a.settingsEditInput, a.settingsHasChanges, a.settingsSaveError, a.width, a.height)
	}

	if a.showTargetSelector {
		return renderTargetSelector(a.dataModel.Targets, a.selectedTargetIdx, a.currentTarget(), a.targetFilterMode, a.targetFilterInput, a.filteredTargets, a.providerLabel(), a.width, a.height)
	}

	if a.showApprovals {
		return renderApprovalPanel(a.dataModel.Approvals, a.selectedToolIdx, a.mockMode, a.mockInput, a.width, a.height)
	}

	if a.showPartPicker {
		return renderPartPicker(a.partRefs, a.selectedPartIdx, a.width, a.height)
	}

	if a.showAbout {
		return renderAboutModal(a.width, a.height, a.dataModel.Version)
	}

	// Title bar - "PRISM - backend - target"
	prismText := AssistantStyle.Render("PRISM")
	backendText := TitleStyle.Render(fmt.Sprintf(" - %s", a.providerLabel()))
	target := a.currentTarget()
	if target == "" {
		target = "no agent selected"
	}
	targetText := UserStyle.Render(fmt.Sprintf(" - %s", target))

	toolText := ""
	if len(a.dataModel.Tools) > 0 {
		toolText = DimStyle.Render(fmt.Sprintf(" | 🔧 %d tools", len(a.dataModel.Tools)))
	}
	if a.dataModel.PendingApproval {
		toolText += SelectedStyle.Render(" | approval pending (Alt+T)")
	}

	title := prismText + backendText + targetText + toolText

	// Error line above the input, empty when clear
	errorLine := ""
	if a.dataModel.Err != "" {
		if a.dataModel.Err == appmodel.ErrRequestCancelled {
			errorLine = DimStyle.Render(a.dataModel.Err)
		} else {
			errorLine = ErrorStyle.Render(a.dataModel.Err)
		}
	}

	viewportView := a.viewport.View()
	inputView := a.textarea.View()

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Alt+A %s  Alt+S %s  Alt+T %s  Alt+E %s  Alt+L %s  Enter %s  Esc %s",
		descStyle.Render("Quit"),
		descStyle.Render("Agents"),
		descStyle.Render("Settings"),
		descStyle.Render("Tools"),
		descStyle.Render("Edit part"),
		descStyle.Render("Clear"),
		descStyle.Render("Send"),
		descStyle.Render("Cancel"),
	)
	statusBar = StatusStyle.Render(statusBar)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		viewportView,
		errorLine,
		inputView,
		statusBar,
	)
}

func (a AppView) currentTarget() string {
	if a.dataModel.Provider == nil {
		return ""
	}
	return a.dataModel.Provider.GetTarget()
}

func (a AppView) providerLabel() string {
	if a.dataModel.Provider == nil {
		return "offline"
	}
	return a.dataModel.Provider.Name()
}

func (a AppView) getTargetList() []appmodel.TargetInfo {
	if a.targetFilterMode && a.targetFilterInput.Value() != "" {
		return a.filteredTargets
	}
	return a.dataModel.Targets
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showAbout = false
	a.showTargetSelector = false
	a.showApprovals = false
	a.showPartPicker = false
	a.showSettings = false

	a.targetFilterMode = false
	a.mockMode = false
	a.settingsEditMode = false
	a.settingsConfirmExit = false

	if a.targetFilterInput.Focused() {
		a.targetFilterInput.Blur()
	}
	if a.mockInput.Focused() {
		a.mockInput.Blur()
	}
	if a.settingsEditInput.Focused() {
		a.settingsEditInput.Blur()
	}
	a.textarea.Focus()
}

// invalidateRendered drops the markdown cache for one message, or for the
// whole transcript when idx is negative.
func (a *AppView) invalidateRendered(idx int) {
	if idx < 0 {
		a.renderedMarkdown = make(map[int]string)
		return
	}
	delete(a.renderedMarkdown, idx)
}

func debugf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf(format, args...)
	}
}
