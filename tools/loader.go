// Package tools loads user-supplied tool definitions and converts them to
// the formats the direct LLM backends expect.
package tools

import (
	"encoding/json"
	"fmt"
	"os"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// toolDoc is the on-disk shape of one tool definition. input_schema is a
// plain JSON Schema object.
type toolDoc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// LoadFile reads a JSON file holding an array of tool definitions.
func LoadFile(path string) ([]mcptypes.Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tools file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an array of tool definitions.
func Parse(data []byte) ([]mcptypes.Tool, error) {
	var docs []toolDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse tool definitions: %w", err)
	}

	tools := make([]mcptypes.Tool, 0, len(docs))
	for i, doc := range docs {
		if doc.Name == "" {
			return nil, fmt.Errorf("tool %d has no name", i)
		}

		tool := mcptypes.Tool{
			Name:        doc.Name,
			Description: doc.Description,
		}
		tool.InputSchema.Type = "object"

		if len(doc.InputSchema) > 0 {
			var schema struct {
				Type       string         `json:"type"`
				Properties map[string]any `json:"properties"`
				Required   []string       `json:"required"`
			}
			if err := json.Unmarshal(doc.InputSchema, &schema); err != nil {
				return nil, fmt.Errorf("tool %q has invalid input_schema: %w", doc.Name, err)
			}
			if schema.Type != "" {
				tool.InputSchema.Type = schema.Type
			}
			tool.InputSchema.Properties = schema.Properties
			tool.InputSchema.Required = schema.Required
		}

		tools = append(tools, tool)
	}

	return tools, nil
}
