package config

import (
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestUserConfigTemplateParses(t *testing.T) {
	var cfg UserConfig
	if _, err := toml.Decode(GenerateUserConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template is not valid TOML: %v", err)
	}
	if cfg.DefaultBackend != "agent" {
		t.Errorf("default_backend: got %q", cfg.DefaultBackend)
	}
	if cfg.Agent.BaseURL != "http://localhost:8000" {
		t.Errorf("agent base_url: got %q", cfg.Agent.BaseURL)
	}
	if !cfg.Agent.RequireApproval {
		t.Error("require_approval should default to true")
	}
}

func TestSystemConfigTemplateParses(t *testing.T) {
	var cfg SystemConfig
	if _, err := toml.Decode(GenerateSystemConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template is not valid TOML: %v", err)
	}
	if cfg.DataDirectory == "" {
		t.Error("data_directory missing from template")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PRISM_BACKEND", "ollama")
	t.Setenv("PRISM_BASE_URL", "http://example:9000")
	t.Setenv("PRISM_AGENT", "support")
	t.Setenv("PRISM_DATA_DIR", "/tmp/prism-test")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Backend != "ollama" {
		t.Errorf("backend: got %q", cfg.Backend)
	}
	if cfg.AgentBaseURL != "http://example:9000" {
		t.Errorf("base url: got %q", cfg.AgentBaseURL)
	}
	if cfg.DefaultAgent != "support" {
		t.Errorf("agent: got %q", cfg.DefaultAgent)
	}
	if cfg.DataDirectory != "/tmp/prism-test" {
		t.Errorf("data dir: got %q", cfg.DataDirectory)
	}
}

func TestDefaultTargetPerBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultAgent = "support"

	tests := []struct {
		backend string
		want    string
	}{
		{"agent", "support"},
		{"ollama", "llama3.1:latest"},
		{"openai", "gpt-4o-mini"},
		{"", "support"},
	}

	for _, tt := range tests {
		cfg.Backend = tt.backend
		if got := cfg.DefaultTarget(); got != tt.want {
			t.Errorf("backend %q: got %q, want %q", tt.backend, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got := ExpandPath("~/data/prism")
	want := filepath.Join("/home/tester", "data", "prism")
	if got != want {
		t.Errorf("ExpandPath: got %q, want %q", got, want)
	}

	if ExpandPath("") != "" {
		t.Error("empty path should stay empty")
	}
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	dataDir := t.TempDir()

	cfg := DefaultUserConfig()
	cfg.Agent.DefaultAgent = "triage"
	cfg.Ollama.Think = true
	cfg.DefaultDependencies = `{"api_key": "test"}`

	if err := SaveUserConfig(cfg, dataDir); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}

	loaded, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}
	if loaded.Agent.DefaultAgent != "triage" {
		t.Errorf("default agent: got %q", loaded.Agent.DefaultAgent)
	}
	if !loaded.Ollama.Think {
		t.Error("think flag lost")
	}
	if loaded.DefaultDependencies != `{"api_key": "test"}` {
		t.Errorf("dependencies: got %q", loaded.DefaultDependencies)
	}
}

func TestUserConfigFromRuntimeRoundTrip(t *testing.T) {
	runtime := DefaultConfig()
	runtime.Backend = "openai"
	runtime.DefaultAgent = "support"
	runtime.Temperature = 0.7

	user := runtime.UserConfigFromRuntime()

	rebuilt := DefaultConfig()
	rebuilt.applyUserConfig(user)

	if rebuilt.Backend != "openai" || rebuilt.DefaultAgent != "support" || rebuilt.Temperature != 0.7 {
		t.Errorf("round trip lost fields: %+v", rebuilt)
	}
}
