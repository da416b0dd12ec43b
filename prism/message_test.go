package prism

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUnmarshalPartDispatch(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind string
	}{
		{"system prompt", `{"part_kind":"system-prompt","content":"be nice"}`, PartKindSystemPrompt},
		{"user prompt", `{"part_kind":"user-prompt","content":"hi"}`, PartKindUserPrompt},
		{"text", `{"part_kind":"text","content":"Hello"}`, PartKindText},
		{"tool call", `{"part_kind":"tool-call","tool_name":"search","args":{"q":"x"},"tool_call_id":"a1"}`, PartKindToolCall},
		{"tool return", `{"part_kind":"tool-return","tool_name":"search","content":"ok","tool_call_id":"a1"}`, PartKindToolReturn},
		{"thinking", `{"part_kind":"thinking","content":"hmm"}`, PartKindThinking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part, err := unmarshalPart([]byte(tt.raw))
			if err != nil {
				t.Fatalf("unmarshalPart: %v", err)
			}
			if part.PartKind() != tt.wantKind {
				t.Errorf("part kind: got %q, want %q", part.PartKind(), tt.wantKind)
			}
		})
	}
}

func TestUnmarshalPartUnknownKind(t *testing.T) {
	if _, err := unmarshalPart([]byte(`{"part_kind":"hologram","content":"x"}`)); err == nil {
		t.Fatal("expected error for unknown part kind")
	}
}

func TestToolCallArgsKeepRawString(t *testing.T) {
	// Backends may send arguments still JSON-encoded as a string.
	raw := `{"part_kind":"tool-call","tool_name":"search","args":"{\"q\":\"x\"}","tool_call_id":"a1"}`
	part, err := unmarshalPart([]byte(raw))
	if err != nil {
		t.Fatalf("unmarshalPart: %v", err)
	}
	call := part.(*ToolCallPart)
	if _, ok := call.Args.(string); !ok {
		t.Errorf("args: expected raw string, got %T", call.Args)
	}
}

func TestMessageMarshalWritesDiscriminators(t *testing.T) {
	msg := Message{
		Kind: MessageKindResponse,
		Parts: []Part{
			&ThinkingPart{Content: "hmm"},
			&TextPart{Content: "Hello"},
			&ToolCallPart{ToolName: "search", Args: map[string]any{"q": "x"}, ToolCallID: "a1"},
		},
		ModelName: "test-model",
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, want := range []string{`"kind":"response"`, `"part_kind":"thinking"`, `"part_kind":"text"`, `"part_kind":"tool-call"`, `"model_name":"test-model"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("marshalled message missing %s: %s", want, data)
		}
	}
}

func TestMessageRoundTripPreservesPartOrder(t *testing.T) {
	original := Message{
		Kind: MessageKindResponse,
		Parts: []Part{
			&ThinkingPart{Content: "plan"},
			&ToolCallPart{ToolName: "search", Args: map[string]any{"q": "x"}, ToolCallID: "a1"},
			&ToolReturnPart{ToolName: "search", Content: "found", ToolCallID: "a1"},
			&TextPart{Content: "done"},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	wantKinds := []string{PartKindThinking, PartKindToolCall, PartKindToolReturn, PartKindText}
	if len(decoded.Parts) != len(wantKinds) {
		t.Fatalf("part count: got %d, want %d", len(decoded.Parts), len(wantKinds))
	}
	for i, kind := range wantKinds {
		if decoded.Parts[i].PartKind() != kind {
			t.Errorf("part %d: got %q, want %q", i, decoded.Parts[i].PartKind(), kind)
		}
	}
}

func TestNewUserRequest(t *testing.T) {
	msg := NewUserRequest("hi")
	if msg.Kind != MessageKindRequest {
		t.Errorf("kind: got %q", msg.Kind)
	}
	if len(msg.Parts) != 1 {
		t.Fatalf("part count: got %d, want 1", len(msg.Parts))
	}
	prompt, ok := msg.Parts[0].(*UserPromptPart)
	if !ok {
		t.Fatalf("expected UserPromptPart, got %T", msg.Parts[0])
	}
	if prompt.Content != "hi" {
		t.Errorf("content: got %q", prompt.Content)
	}
	if prompt.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}
