package provider

import (
	"encoding/json"

	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"github.com/orlevii/agent-prism/prism"
)

// ConvertToOllamaMessages flattens transcript messages into the role-based
// Ollama chat format. Request parts become system/user/tool messages;
// response parts collapse into a single assistant message carrying text,
// thinking, and tool calls.
func ConvertToOllamaMessages(messages []prism.Message) []api.Message {
	var result []api.Message

	for _, msg := range messages {
		if msg.IsResponse() {
			assistant := api.Message{Role: "assistant"}
			for _, part := range msg.Parts {
				switch p := part.(type) {
				case *prism.TextPart:
					assistant.Content = p.Content
				case *prism.ThinkingPart:
					assistant.Thinking = p.Content
				case *prism.ToolCallPart:
					assistant.ToolCalls = append(assistant.ToolCalls, api.ToolCall{
						Function: api.ToolCallFunction{
							Name:      p.ToolName,
							Arguments: api.ToolCallFunctionArguments(ArgsAsMap(p.Args)),
						},
					})
				}
			}
			result = append(result, assistant)
			continue
		}

		for _, part := range msg.Parts {
			switch p := part.(type) {
			case *prism.SystemPromptPart:
				result = append(result, api.Message{Role: "system", Content: p.Content})
			case *prism.UserPromptPart:
				result = append(result, api.Message{Role: "user", Content: p.Content})
			case *prism.ToolReturnPart:
				result = append(result, api.Message{Role: "tool", Content: StringifyContent(p.Content)})
			}
		}
	}

	return result
}

// ConvertToOpenAIMessages flattens transcript messages into the OpenAI chat
// completion format.
func ConvertToOpenAIMessages(messages []prism.Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion

	for _, msg := range messages {
		if msg.IsResponse() {
			result = append(result, convertResponseToOpenAI(msg))
			continue
		}

		for _, part := range msg.Parts {
			switch p := part.(type) {
			case *prism.SystemPromptPart:
				result = append(result, openai.SystemMessage(p.Content))
			case *prism.UserPromptPart:
				result = append(result, openai.UserMessage(p.Content))
			case *prism.ToolReturnPart:
				result = append(result, openai.ToolMessage(StringifyContent(p.Content), p.ToolCallID))
			}
		}
	}

	return result
}

func convertResponseToOpenAI(msg prism.Message) openai.ChatCompletionMessageParamUnion {
	var text string
	var toolCalls []openai.ChatCompletionMessageToolCallUnionParam

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case *prism.TextPart:
			text = p.Content
		case *prism.ToolCallPart:
			args, err := json.Marshal(ArgsAsMap(p.Args))
			if err != nil {
				args = []byte("{}")
			}
			toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnionParam{
				OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
					ID: p.ToolCallID,
					Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
						Name:      p.ToolName,
						Arguments: string(args),
					},
				},
			})
		}
	}

	if len(toolCalls) == 0 {
		return openai.AssistantMessage(text)
	}

	assistant := openai.ChatCompletionAssistantMessageParam{
		ToolCalls: toolCalls,
	}
	if text != "" {
		assistant.Content.OfString = openai.String(text)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

// ArgsAsMap normalizes tool call arguments to a map. Backends deliver them
// as maps, JSON-encoded strings, or arbitrary structures.
func ArgsAsMap(args any) map[string]any {
	switch v := args.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case string:
		return ParseToolArguments(v)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return map[string]any{}
		}
		return ParseToolArguments(string(bytes))
	}
}

// ParseToolArguments parses a JSON arguments string into a map. Parse
// failures return an empty map rather than an error; malformed arguments
// come from the model, not the caller.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return make(map[string]any)
	}
	return args
}

// StringifyContent renders a tool result for backends that only accept
// string content.
func StringifyContent(content any) string {
	if s, ok := content.(string); ok {
		return s
	}
	bytes, err := json.Marshal(content)
	if err != nil {
		return ""
	}
	return string(bytes)
}
