package config

func DefaultConfig() *Config {
	return &Config{
		DataDirectory:   "~/.local/share/prism",
		Backend:         "agent",
		AgentBaseURL:    "http://localhost:8000",
		RequireApproval: true,
		OllamaHost:      "http://localhost:11434",
		OllamaModel:     "llama3.1:latest",
		OpenAIModel:     "gpt-4o-mini",
		OpenAIKeyEnv:    "OPENAI_API_KEY",
	}
}

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/prism",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		DefaultBackend: "agent",
		Agent: AgentConfig{
			BaseURL:         "http://localhost:8000",
			RequireApproval: true,
		},
		Ollama: OllamaConfig{
			Host:         "http://localhost:11434",
			DefaultModel: "llama3.1:latest",
		},
		OpenAI: OpenAIConfig{
			DefaultModel: "gpt-4o-mini",
			APIKeyEnv:    "OPENAI_API_KEY",
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Prism System Configuration
# Location: ~/.config/prism/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config and debug logs are stored
data_directory = "~/.local/share/prism"
`
}

func GenerateUserConfigTemplate() string {
	return `# Prism User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Backend to talk to: "agent" (playground server), "ollama", or "openai"
default_backend = "agent"

# Dependency overrides sent with every request, as a JSON object (optional)
# Example: default_dependencies = '{"api_key": "test"}'
default_dependencies = ""

# Client-side tool definitions for direct LLM backends (optional)
# Path to a JSON file with an array of tool documents
tools_file = ""

[agent]
# Playground server URL
base_url = "http://localhost:8000"

# Agent to select on startup (optional, first listed agent otherwise)
default_agent = ""

# Pause tool calls for human approval instead of executing them
require_approval = true

[ollama]
# Ollama server URL
host = "http://localhost:11434"

# Default model for the ollama backend
default_model = "llama3.1:latest"

# Sampling temperature (0 uses the model default)
temperature = 0.0

# Request reasoning traces from models that support them
think = false

[openai]
# OpenAI-compatible endpoint (empty uses the official API)
base_url = ""

# Default model for the openai backend
default_model = "gpt-4o-mini"

# Environment variable holding the API key
api_key_env = "OPENAI_API_KEY"
`
}
