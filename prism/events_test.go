package prism

import (
	"testing"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, ev Event)
	}{
		{
			name: "text delta",
			line: `{"type":"text_delta","delta":"Hel"}`,
			check: func(t *testing.T, ev Event) {
				td, ok := ev.(TextDeltaEvent)
				if !ok {
					t.Fatalf("expected TextDeltaEvent, got %T", ev)
				}
				if td.Delta != "Hel" {
					t.Errorf("delta: got %q, want %q", td.Delta, "Hel")
				}
			},
		},
		{
			name: "thinking delta",
			line: `{"type":"thinking_delta","delta":"hmm"}`,
			check: func(t *testing.T, ev Event) {
				if _, ok := ev.(ThinkingDeltaEvent); !ok {
					t.Fatalf("expected ThinkingDeltaEvent, got %T", ev)
				}
			},
		},
		{
			name: "tool call executing",
			line: `{"type":"tool_call_executing","tool_call_id":"a1","tool_name":"search","arguments":{"q":"x"}}`,
			check: func(t *testing.T, ev Event) {
				tc, ok := ev.(ToolCallExecutingEvent)
				if !ok {
					t.Fatalf("expected ToolCallExecutingEvent, got %T", ev)
				}
				if tc.ToolCallID != "a1" || tc.ToolName != "search" {
					t.Errorf("unexpected call: %+v", tc)
				}
				if q, _ := tc.Arguments["q"].(string); q != "x" {
					t.Errorf("arguments: got %v", tc.Arguments)
				}
			},
		},
		{
			name: "tool result",
			line: `{"type":"tool_result","tool_call_id":"a1","result":{"hits":3}}`,
			check: func(t *testing.T, ev Event) {
				tr, ok := ev.(ToolResultEvent)
				if !ok {
					t.Fatalf("expected ToolResultEvent, got %T", ev)
				}
				if tr.ToolCallID != "a1" {
					t.Errorf("tool_call_id: got %q", tr.ToolCallID)
				}
			},
		},
		{
			name: "tool approval request",
			line: `{"type":"tool_approval_request","tool_call_id":"b2","tool_name":"delete","arguments":{}}`,
			check: func(t *testing.T, ev Event) {
				if _, ok := ev.(ToolApprovalRequestEvent); !ok {
					t.Fatalf("expected ToolApprovalRequestEvent, got %T", ev)
				}
			},
		},
		{
			name: "message history",
			line: `{"type":"message_history","message_history":[{"kind":"request","parts":[{"part_kind":"user-prompt","content":"hi"}]}]}`,
			check: func(t *testing.T, ev Event) {
				mh, ok := ev.(MessageHistoryEvent)
				if !ok {
					t.Fatalf("expected MessageHistoryEvent, got %T", ev)
				}
				if len(mh.MessageHistory) != 1 {
					t.Fatalf("history length: got %d, want 1", len(mh.MessageHistory))
				}
				if mh.MessageHistory[0].Kind != MessageKindRequest {
					t.Errorf("kind: got %q", mh.MessageHistory[0].Kind)
				}
			},
		},
		{
			name: "error event",
			line: `{"type":"error","error":"boom"}`,
			check: func(t *testing.T, ev Event) {
				ee, ok := ev.(ErrorEvent)
				if !ok {
					t.Fatalf("expected ErrorEvent, got %T", ev)
				}
				if ee.Error != "boom" {
					t.Errorf("error: got %q", ee.Error)
				}
			},
		},
		{
			name: "done pending approval",
			line: `{"type":"done","status":"pending_approval"}`,
			check: func(t *testing.T, ev Event) {
				de, ok := ev.(DoneEvent)
				if !ok {
					t.Fatalf("expected DoneEvent, got %T", ev)
				}
				if de.Status != DoneStatusPendingApproval {
					t.Errorf("status: got %q", de.Status)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := decodeEvent([]byte(tt.line))
			if err != nil {
				t.Fatalf("decodeEvent: %v", err)
			}
			tt.check(t, ev)
		})
	}
}

func TestDecodeEventRejectsUnknownType(t *testing.T) {
	if _, err := decodeEvent([]byte(`{"type":"surprise","delta":"x"}`)); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestDecodeEventRejectsInvalidJSON(t *testing.T) {
	if _, err := decodeEvent([]byte(`{"type":"text_delta",`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
