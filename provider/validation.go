package provider

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orlevii/agent-prism/config"
)

// PingProviderMsg is sent when a provider ping completes.
type PingProviderMsg struct {
	Backend string
	Valid   bool
	Err     error
}

// PingProvider validates backend settings by constructing a provider and
// calling Ping. Used by the settings editor before saving.
func PingProvider(cfg Config) tea.Cmd {
	return func() tea.Msg {
		backend := string(cfg.Type)

		p, err := NewProvider(cfg)
		if err != nil {
			return PingProviderMsg{
				Backend: backend,
				Valid:   false,
				Err:     fmt.Errorf("failed to create provider: %w", err),
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			return PingProviderMsg{
				Backend: backend,
				Valid:   false,
				Err:     fmt.Errorf("connection failed: %w", err),
			}
		}

		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Backend %s ping successful", backend)
		}

		return PingProviderMsg{Backend: backend, Valid: true}
	}
}
