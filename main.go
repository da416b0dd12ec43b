package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orlevii/agent-prism/config"
	"github.com/orlevii/agent-prism/model"
	"github.com/orlevii/agent-prism/provider"
	"github.com/orlevii/agent-prism/tools"
	"github.com/orlevii/agent-prism/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	// Clean up old tmp dir in cache directory (crash recovery)
	if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Warning: failed to cleanup old temp directory: %v", err)
	}

	// Secure temp directory for external editor buffers
	if err := config.CreateTempDir(); err != nil {
		fmt.Printf("Failed to create temp directory: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to cleanup temp directory on exit: %v", err)
		}
	}()

	backend, err := provider.FromAppConfig(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize %s backend: %v\n", cfg.Backend, err)
		os.Exit(1)
	}

	dataModel := model.NewModel(cfg, backend, Version)

	// Client-side tool definitions for direct LLM backends
	if cfg.ToolsFile != "" {
		toolDefs, err := tools.LoadFile(config.ExpandPath(cfg.ToolsFile))
		if err != nil {
			fmt.Printf("Failed to load tools file %s: %v\n", cfg.ToolsFile, err)
			os.Exit(1)
		}
		dataModel.Tools = toolDefs
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] loaded %d tool definitions from %s", len(toolDefs), cfg.ToolsFile)
		}
	}

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running prism: %v\n", err)
		os.Exit(1)
	}
}
