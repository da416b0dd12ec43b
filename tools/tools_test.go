package tools

import (
	"os"
	"path/filepath"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
)

const sampleDefinitions = `[
  {
    "name": "get_weather",
    "description": "Get current weather",
    "input_schema": {
      "type": "object",
      "properties": {
        "city": {"type": "string", "description": "City name"},
        "units": {"type": "string", "enum": ["metric", "imperial"]}
      },
      "required": ["city"]
    }
  },
  {
    "name": "roll_dice",
    "description": "Roll a die"
  }
]`

func TestParse(t *testing.T) {
	tools, err := Parse([]byte(sampleDefinitions))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("tool count: got %d, want 2", len(tools))
	}

	weather := tools[0]
	if weather.Name != "get_weather" {
		t.Errorf("name: got %q", weather.Name)
	}
	if weather.InputSchema.Type != "object" {
		t.Errorf("schema type: got %q", weather.InputSchema.Type)
	}
	if len(weather.InputSchema.Properties) != 2 {
		t.Errorf("properties: got %d, want 2", len(weather.InputSchema.Properties))
	}
	if len(weather.InputSchema.Required) != 1 || weather.InputSchema.Required[0] != "city" {
		t.Errorf("required: got %v", weather.InputSchema.Required)
	}

	// A tool without a schema still gets an object schema.
	if tools[1].InputSchema.Type != "object" {
		t.Errorf("schemaless tool type: got %q", tools[1].InputSchema.Type)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{broken`},
		{"missing name", `[{"description": "x"}]`},
		{"bad schema", `[{"name": "x", "input_schema": "not an object"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	if err := os.WriteFile(path, []byte(sampleDefinitions), 0600); err != nil {
		t.Fatal(err)
	}

	tools, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(tools) != 2 {
		t.Errorf("tool count: got %d, want 2", len(tools))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToOllama(t *testing.T) {
	tests := []struct {
		name     string
		input    []mcptypes.Tool
		validate func(t *testing.T, result []api.Tool)
	}{
		{
			name:  "empty tools",
			input: []mcptypes.Tool{},
			validate: func(t *testing.T, result []api.Tool) {
				if len(result) != 0 {
					t.Errorf("expected empty slice, got %d tools", len(result))
				}
			},
		},
		{
			name: "tool with properties",
			input: []mcptypes.Tool{
				{
					Name:        "calculate",
					Description: "Perform calculation",
					InputSchema: mcptypes.ToolInputSchema{
						Type: "object",
						Properties: map[string]any{
							"operation": map[string]any{
								"type":        "string",
								"description": "The operation to perform",
								"enum":        []any{"add", "subtract"},
							},
							"a": map[string]any{
								"type": "number",
							},
						},
						Required: []string{"operation", "a"},
					},
				},
			},
			validate: func(t *testing.T, result []api.Tool) {
				if result[0].Type != "function" {
					t.Errorf("expected type 'function', got %q", result[0].Type)
				}
				params := result[0].Function.Parameters
				if len(params.Properties) != 2 {
					t.Errorf("expected 2 properties, got %d", len(params.Properties))
				}
				opProp, ok := params.Properties["operation"]
				if !ok {
					t.Fatal("operation property not found")
				}
				if opProp.Description != "The operation to perform" {
					t.Error("operation description mismatch")
				}
				if len(opProp.Enum) != 2 {
					t.Errorf("expected 2 enum values, got %d", len(opProp.Enum))
				}
				if len(opProp.Type) != 1 || opProp.Type[0] != "string" {
					t.Errorf("operation type: got %v", opProp.Type)
				}
			},
		},
		{
			name: "union type property",
			input: []mcptypes.Tool{
				{
					Name: "lookup",
					InputSchema: mcptypes.ToolInputSchema{
						Type: "object",
						Properties: map[string]any{
							"id": map[string]any{
								"type": []any{"string", "number"},
							},
						},
					},
				},
			},
			validate: func(t *testing.T, result []api.Tool) {
				idProp := result[0].Function.Parameters.Properties["id"]
				if len(idProp.Type) != 2 {
					t.Errorf("union type: got %v", idProp.Type)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToOllama(tt.input)
			if len(result) != len(tt.input) {
				t.Fatalf("tool count: got %d, want %d", len(result), len(tt.input))
			}
			tt.validate(t, result)
		})
	}
}

func TestToOpenAI(t *testing.T) {
	tools := []mcptypes.Tool{
		{
			Name:        "get_weather",
			Description: "Get current weather",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"city": map[string]any{"type": "string"},
				},
				Required: []string{"city"},
			},
		},
	}

	result := ToOpenAI(tools)
	if len(result) != 1 {
		t.Fatalf("tool count: got %d, want 1", len(result))
	}
	if result[0].OfFunction == nil {
		t.Fatal("expected function tool")
	}
	fn := result[0].OfFunction.Function
	if fn.Name != "get_weather" {
		t.Errorf("name: got %q", fn.Name)
	}
	if fn.Parameters["required"] == nil {
		t.Error("required fields missing from parameters")
	}

	if ToOpenAI(nil) != nil {
		t.Error("empty input should return nil")
	}
}
