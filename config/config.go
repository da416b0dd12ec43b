package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type AgentConfig struct {
	BaseURL         string `toml:"base_url"`
	DefaultAgent    string `toml:"default_agent"`
	RequireApproval bool   `toml:"require_approval"`
}

type OllamaConfig struct {
	Host         string  `toml:"host"`
	DefaultModel string  `toml:"default_model"`
	Temperature  float64 `toml:"temperature"`
	Think        bool    `toml:"think"`
}

type OpenAIConfig struct {
	BaseURL      string `toml:"base_url"`
	DefaultModel string `toml:"default_model"`
	APIKeyEnv    string `toml:"api_key_env"`
}

type UserConfig struct {
	DefaultBackend      string       `toml:"default_backend"`
	Agent               AgentConfig  `toml:"agent"`
	Ollama              OllamaConfig `toml:"ollama"`
	OpenAI              OpenAIConfig `toml:"openai"`
	DefaultDependencies string       `toml:"default_dependencies,omitempty"`
	ToolsFile           string       `toml:"tools_file,omitempty"`
}

// Config is the flattened runtime configuration assembled from the system
// config, the user config, and environment overrides.
type Config struct {
	DataDirectory string
	Backend       string

	AgentBaseURL        string
	DefaultAgent        string
	RequireApproval     bool
	DefaultDependencies string

	OllamaHost  string
	OllamaModel string
	Temperature float64
	Think       bool

	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIKeyEnv  string

	ToolsFile string
}

var Debug = false
var DebugLog *logrus.Logger

func (c *Config) BaseURL() string {
	return c.AgentBaseURL
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// DefaultTarget returns the agent or model the configured backend starts on.
func (c *Config) DefaultTarget() string {
	switch c.Backend {
	case "ollama":
		return c.OllamaModel
	case "openai":
		return c.OpenAIModel
	default:
		return c.DefaultAgent
	}
}

func (c *Config) applyEnvOverrides() {
	if backend := os.Getenv("PRISM_BACKEND"); backend != "" {
		c.Backend = backend
	}
	if baseURL := os.Getenv("PRISM_BASE_URL"); baseURL != "" {
		c.AgentBaseURL = baseURL
	}
	if agent := os.Getenv("PRISM_AGENT"); agent != "" {
		c.DefaultAgent = agent
	}
	if dataDir := os.Getenv("PRISM_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PRISM_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens the debug log when PRISM_DEBUG is set. The log may
// contain message content, so the file is created user-only.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = logrus.New()
	DebugLog.SetOutput(f)
	DebugLog.SetLevel(logrus.DebugLevel)
	DebugLog.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	DebugLog.Printf("=== Debug logging started (PRISM_DEBUG=%s) ===", os.Getenv("PRISM_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// hasAllEnvVars reports whether the environment alone is enough to run
// without a settings file, for containerized use.
func hasAllEnvVars() bool {
	return os.Getenv("PRISM_BASE_URL") != "" &&
		os.Getenv("PRISM_DATA_DIR") != ""
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	settingsPath := GetSettingsFilePath()

	if FileExists(settingsPath) || !hasAllEnvVars() {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg.DefaultBackend != "" {
		c.Backend = userCfg.DefaultBackend
	}
	if userCfg.Agent.BaseURL != "" {
		c.AgentBaseURL = userCfg.Agent.BaseURL
	}
	c.DefaultAgent = userCfg.Agent.DefaultAgent
	c.RequireApproval = userCfg.Agent.RequireApproval
	c.DefaultDependencies = userCfg.DefaultDependencies
	if userCfg.Ollama.Host != "" {
		c.OllamaHost = userCfg.Ollama.Host
	}
	if userCfg.Ollama.DefaultModel != "" {
		c.OllamaModel = userCfg.Ollama.DefaultModel
	}
	c.Temperature = userCfg.Ollama.Temperature
	c.Think = userCfg.Ollama.Think
	c.OpenAIBaseURL = userCfg.OpenAI.BaseURL
	if userCfg.OpenAI.DefaultModel != "" {
		c.OpenAIModel = userCfg.OpenAI.DefaultModel
	}
	if userCfg.OpenAI.APIKeyEnv != "" {
		c.OpenAIKeyEnv = userCfg.OpenAI.APIKeyEnv
	}
	c.ToolsFile = userCfg.ToolsFile
}

// UserConfigFromRuntime rebuilds the persistable user config from the
// flattened runtime config, for saving settings edited in the UI.
func (c *Config) UserConfigFromRuntime() *UserConfig {
	return &UserConfig{
		DefaultBackend: c.Backend,
		Agent: AgentConfig{
			BaseURL:         c.AgentBaseURL,
			DefaultAgent:    c.DefaultAgent,
			RequireApproval: c.RequireApproval,
		},
		Ollama: OllamaConfig{
			Host:         c.OllamaHost,
			DefaultModel: c.OllamaModel,
			Temperature:  c.Temperature,
			Think:        c.Think,
		},
		OpenAI: OpenAIConfig{
			BaseURL:      c.OpenAIBaseURL,
			DefaultModel: c.OpenAIModel,
			APIKeyEnv:    c.OpenAIKeyEnv,
		},
		DefaultDependencies: c.DefaultDependencies,
		ToolsFile:           c.ToolsFile,
	}
}
