package provider

import (
	"testing"

	"github.com/orlevii/agent-prism/prism"
)

func TestConvertToOllamaMessages(t *testing.T) {
	messages := []prism.Message{
		{
			Kind: prism.MessageKindRequest,
			Parts: []prism.Part{
				&prism.SystemPromptPart{Content: "be helpful"},
				&prism.UserPromptPart{Content: "what is the weather?"},
			},
		},
		{
			Kind: prism.MessageKindResponse,
			Parts: []prism.Part{
				&prism.ThinkingPart{Content: "need the tool"},
				&prism.ToolCallPart{
					ToolName:   "get_weather",
					Args:       map[string]any{"city": "Haifa"},
					ToolCallID: "a1",
				},
				&prism.TextPart{Content: "Let me check."},
			},
		},
		{
			Kind: prism.MessageKindRequest,
			Parts: []prism.Part{
				&prism.ToolReturnPart{ToolName: "get_weather", Content: map[string]any{"temp": 28}, ToolCallID: "a1"},
			},
		},
	}

	result := ConvertToOllamaMessages(messages)

	wantRoles := []string{"system", "user", "assistant", "tool"}
	if len(result) != len(wantRoles) {
		t.Fatalf("message count: got %d, want %d", len(result), len(wantRoles))
	}
	for i, role := range wantRoles {
		if result[i].Role != role {
			t.Errorf("message %d role: got %q, want %q", i, result[i].Role, role)
		}
	}

	assistant := result[2]
	if assistant.Content != "Let me check." {
		t.Errorf("assistant content: got %q", assistant.Content)
	}
	if assistant.Thinking != "need the tool" {
		t.Errorf("assistant thinking: got %q", assistant.Thinking)
	}
	if len(assistant.ToolCalls) != 1 || assistant.ToolCalls[0].Function.Name != "get_weather" {
		t.Errorf("assistant tool calls: got %+v", assistant.ToolCalls)
	}

	if result[3].Content == "" {
		t.Error("tool return content should be stringified, not dropped")
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	messages := []prism.Message{
		prism.NewUserRequest("hello"),
		{
			Kind: prism.MessageKindResponse,
			Parts: []prism.Part{
				&prism.TextPart{Content: "Checking."},
				&prism.ToolCallPart{ToolName: "search", Args: `{"q":"x"}`, ToolCallID: "a1"},
			},
		},
		{
			Kind: prism.MessageKindRequest,
			Parts: []prism.Part{
				&prism.ToolReturnPart{ToolName: "search", Content: "found", ToolCallID: "a1"},
			},
		},
		{
			Kind:  prism.MessageKindResponse,
			Parts: []prism.Part{&prism.TextPart{Content: "Done."}},
		},
	}

	result := ConvertToOpenAIMessages(messages)
	if len(result) != 4 {
		t.Fatalf("message count: got %d, want 4", len(result))
	}

	if result[0].OfUser == nil {
		t.Error("first message should be a user message")
	}

	assistant := result[1].OfAssistant
	if assistant == nil {
		t.Fatal("second message should be an assistant message")
	}
	if len(assistant.ToolCalls) != 1 {
		t.Fatalf("tool calls: got %d, want 1", len(assistant.ToolCalls))
	}
	call := assistant.ToolCalls[0].OfFunction
	if call == nil || call.ID != "a1" || call.Function.Name != "search" {
		t.Errorf("tool call: got %+v", assistant.ToolCalls[0])
	}

	if result[2].OfTool == nil {
		t.Error("third message should be a tool message")
	}
	if result[3].OfAssistant == nil {
		t.Error("fourth message should be an assistant message")
	}
}

func TestArgsAsMap(t *testing.T) {
	tests := []struct {
		name string
		args any
		want int
	}{
		{"nil", nil, 0},
		{"map", map[string]any{"q": "x"}, 1},
		{"json string", `{"q": "x", "n": 2}`, 2},
		{"invalid string", `{broken`, 0},
		{"struct-like", struct {
			Q string `json:"q"`
		}{Q: "x"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ArgsAsMap(tt.args)
			if got == nil {
				t.Fatal("result must never be nil")
			}
			if len(got) != tt.want {
				t.Errorf("length: got %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStringifyContent(t *testing.T) {
	if got := StringifyContent("plain"); got != "plain" {
		t.Errorf("string passthrough: got %q", got)
	}
	if got := StringifyContent(map[string]any{"temp": 28}); got != `{"temp":28}` {
		t.Errorf("map: got %q", got)
	}
}
