package model

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orlevii/agent-prism/config"
)

// FetchTargets retrieves the agents or models available on the backend.
// showSelector: whether to auto-show the selector after the fetch
// (user-initiated vs background refresh).
func (m *Model) FetchTargets(showSelector bool) tea.Cmd {
	provider := m.Provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		targets, err := provider.ListTargets(ctx)
		if err == nil {
			sort.Slice(targets, func(i, j int) bool {
				return targets[i].Name < targets[j].Name
			})
		}
		return TargetsListMsg{
			Targets:      targets,
			Err:          err,
			ShowSelector: showSelector,
		}
	}
}

// PingBackend checks backend reachability in the background.
func (m *Model) PingBackend() tea.Cmd {
	provider := m.Provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return PingResultMsg{Err: provider.Ping(ctx)}
	}
}

// getDefaultEditor returns the user's preferred editor from environment
// variables, falling back to whatever is installed.
func getDefaultEditor() string {
	if editor := os.Getenv("PRISM_EDITOR"); editor != "" {
		return editor
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor != "" {
		return editor
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}

	for _, ed := range []string{"nano", "nvim", "vim", "vi", "emacs"} {
		if _, err := exec.LookPath(ed); err == nil {
			return ed
		}
	}

	return "vi"
}

// OpenExternalEditor opens the user's preferred text editor to compose a
// message, seeding it with the current input content.
func (m *Model) OpenExternalEditor(currentContent string) tea.Cmd {
	tmpPath := config.GetEditorTempFile()

	tmpFile, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return func() tea.Msg {
			return EditorErrorMsg{Err: err}
		}
	}

	if currentContent != "" {
		if _, err := tmpFile.WriteString(currentContent); err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return func() tea.Msg {
				return EditorErrorMsg{Err: err}
			}
		}
	}
	tmpFile.Close()

	cmd := exec.Command(getDefaultEditor(), tmpPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		content, readErr := os.ReadFile(tmpPath)
		if err != nil {
			return EditorErrorMsg{Err: err}
		}
		if readErr != nil {
			return EditorErrorMsg{Err: readErr}
		}
		return EditorContentMsg{Content: string(content)}
	})
}
