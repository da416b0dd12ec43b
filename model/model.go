package model

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"github.com/orlevii/agent-prism/config"
	"github.com/orlevii/agent-prism/prism"
)

// ErrRequestCancelled is the user-visible error text shown after a cancel,
// kept distinct from real failures so the UI can style it differently.
const ErrRequestCancelled = "Request cancelled"

// Model holds the core application data and business logic state.
type Model struct {
	// Core dependencies
	Config   *config.Config
	Provider Provider

	// Application data
	Transcript Transcript
	Approvals  *ApprovalSet
	Targets    []TargetInfo

	// Client-side tool definitions handed to direct LLM backends.
	Tools []mcptypes.Tool

	// Per-conversation settings
	DependenciesJSON string
	ToolMode         string

	// Runtime state (not UI)
	Streaming       bool
	PendingApproval bool
	Err             string
	Quitting        bool

	// Application metadata
	Version string

	// Active request handles. Only touched from the update loop.
	stream       prism.EventStream
	folder       *StreamFolder
	cancelActive context.CancelFunc
}

// NewModel creates a new Model with the given configuration and provider.
func NewModel(cfg *config.Config, provider Provider, version string) *Model {
	toolMode := prism.ToolModeAuto
	if cfg.RequireApproval {
		toolMode = prism.ToolModeRequestApproval
	}

	return &Model{
		Config:           cfg,
		Provider:         provider,
		Approvals:        NewApprovalSet(),
		DependenciesJSON: cfg.DefaultDependencies,
		ToolMode:         toolMode,
		Version:          version,
	}
}

// SelectTarget switches the active agent or model and prefills the
// dependency editor from the agent's published presets.
func (m *Model) SelectTarget(name string) {
	if m.Provider == nil {
		return
	}
	m.Provider.SetTarget(name)

	for _, target := range m.Targets {
		if target.Name == name {
			m.DependenciesJSON = DependenciesJSONFor(target)
			return
		}
	}
}

// DependenciesJSONFor renders an agent's first dependency preset as editable
// JSON. Targets without presets get an empty object.
func DependenciesJSONFor(target TargetInfo) string {
	if len(target.Dependencies) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(target.Dependencies[0].Data, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ParsedDependencies parses the dependency editor text. Invalid or blank
// JSON degrades to an empty object instead of blocking the send.
func (m *Model) ParsedDependencies() map[string]any {
	text := strings.TrimSpace(m.DependenciesJSON)
	if text == "" {
		return map[string]any{}
	}

	var deps map[string]any
	if err := json.Unmarshal([]byte(text), &deps); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] invalid dependencies JSON, sending empty object: %v", err)
		}
		return map[string]any{}
	}
	return deps
}

// Busy reports whether a request is in flight. Send, edit, and resume are
// rejected while busy; one turn streams at a time.
func (m *Model) Busy() bool {
	return m.Streaming
}

// AttachStream records the opened stream so events can be pumped off it.
func (m *Model) AttachStream(stream prism.EventStream) {
	m.stream = stream
}

// ApplyStreamEvent folds one event into the transcript. Must be called from
// the update loop; the folder's hooks mutate approval and error state
// directly.
func (m *Model) ApplyStreamEvent(ev prism.Event) (FoldResult, bool) {
	if m.folder == nil {
		return FoldResult{}, false
	}
	return m.folder.Apply(&m.Transcript, ev)
}

// FinishStream closes out a turn that ended with a done event.
func (m *Model) FinishStream(result FoldResult) {
	m.closeStream()
	m.Streaming = false
	m.PendingApproval = result.PendingApproval
	m.folder = nil
	m.cancelActive = nil
}

// FailStream closes out a turn that ended in an error or a cancel. The
// optimistic placeholder is rolled back unless a message_history snapshot
// already replaced it with authoritative state.
func (m *Model) FailStream(err error) {
	m.closeStream()
	m.Streaming = false

	if errors.Is(err, prism.ErrCancelled) {
		m.Err = ErrRequestCancelled
	} else if err != nil {
		m.Err = err.Error()
	}

	if m.folder == nil || !m.folder.HistoryReplaced() {
		m.Transcript.RollbackOpenResponse()
	}

	m.folder = nil
	m.cancelActive = nil
}

func (m *Model) closeStream() {
	if m.stream != nil {
		_ = m.stream.Close()
		m.stream = nil
	}
}

// CancelRequest aborts the in-flight request, if any. The stream reader
// observes the cancellation and reports ErrCancelled.
func (m *Model) CancelRequest() {
	if m.cancelActive != nil {
		m.cancelActive()
	}
}

// ClearMessages resets the conversation. Safe at any time; events still in
// flight for an abandoned stream find no open response and are dropped.
func (m *Model) ClearMessages() {
	m.Transcript.Clear()
	m.Approvals.Clear()
	m.PendingApproval = false
	m.Err = ""
}
