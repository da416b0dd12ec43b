package model

import (
	"testing"

	"github.com/orlevii/agent-prism/prism"
)

func TestOpenResponse(t *testing.T) {
	var tr Transcript

	if tr.OpenResponse() != nil {
		t.Error("empty transcript should have no open response")
	}

	tr.Append(prism.NewUserRequest("hi"))
	if tr.OpenResponse() != nil {
		t.Error("request-terminated transcript should have no open response")
	}

	tr.Append(prism.NewOpenResponse())
	resp := tr.OpenResponse()
	if resp == nil {
		t.Fatal("expected open response")
	}
	resp.Parts = append(resp.Parts, &prism.TextPart{Content: "hello"})
	if len(tr.Messages[1].Parts) != 1 {
		t.Error("OpenResponse should alias the stored message")
	}
}

func TestRollbackOpenResponse(t *testing.T) {
	var tr Transcript
	tr.Append(prism.NewUserRequest("hi"))
	tr.Append(prism.NewOpenResponse())

	tr.RollbackOpenResponse()
	if tr.Len() != 1 {
		t.Fatalf("length after rollback: got %d, want 1", tr.Len())
	}

	// Nothing to roll back when the last message is a request.
	tr.RollbackOpenResponse()
	if tr.Len() != 1 {
		t.Fatalf("length after second rollback: got %d, want 1", tr.Len())
	}
}

func TestFlattenedParts(t *testing.T) {
	var tr Transcript
	tr.Append(prism.NewUserRequest("first"))
	tr.Append(prism.Message{
		Kind: prism.MessageKindResponse,
		Parts: []prism.Part{
			&prism.ThinkingPart{Content: "plan"},
			&prism.TextPart{Content: "answer"},
		},
	})

	refs := tr.FlattenedParts()
	if len(refs) != 3 {
		t.Fatalf("flattened count: got %d, want 3", len(refs))
	}
	if refs[1].MessageIndex != 1 || refs[1].PartIndex != 0 {
		t.Errorf("ref 1 position: got message %d part %d", refs[1].MessageIndex, refs[1].PartIndex)
	}
	if refs[2].Part.PartKind() != prism.PartKindText {
		t.Errorf("ref 2 kind: got %q", refs[2].Part.PartKind())
	}
}

func TestResolvePartPrefersID(t *testing.T) {
	var tr Transcript
	tr.Append(prism.NewUserRequest("first"))
	tr.Append(prism.Message{
		Kind: prism.MessageKindResponse,
		Parts: []prism.Part{
			&prism.TextPart{Content: "answer", ID: "t1"},
		},
	})

	// Wrong index, correct id: the id wins.
	ref, err := tr.ResolvePart(PartLocator{ID: "t1", Index: 0})
	if err != nil {
		t.Fatalf("ResolvePart: %v", err)
	}
	if ref.Index != 1 {
		t.Errorf("resolved index: got %d, want 1", ref.Index)
	}

	// Stale id falls back to the positional index.
	ref, err = tr.ResolvePart(PartLocator{ID: "gone", Index: 0})
	if err != nil {
		t.Fatalf("ResolvePart with stale id: %v", err)
	}
	if ref.Index != 0 {
		t.Errorf("fallback index: got %d, want 0", ref.Index)
	}

	if _, err := tr.ResolvePart(PartLocator{Index: 99}); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestEditPartTruncates(t *testing.T) {
	var tr Transcript
	tr.Append(prism.NewUserRequest("first question"))
	tr.Append(prism.Message{
		Kind: prism.MessageKindResponse,
		Parts: []prism.Part{
			&prism.TextPart{Content: "first answer"},
		},
	})
	tr.Append(prism.NewUserRequest("second question"))
	tr.Append(prism.Message{
		Kind: prism.MessageKindResponse,
		Parts: []prism.Part{
			&prism.TextPart{Content: "second answer"},
		},
	})

	// Edit the first user prompt (flattened index 0).
	if err := tr.EditPart(PartLocator{Index: 0}, "rewritten question"); err != nil {
		t.Fatalf("EditPart: %v", err)
	}

	if tr.Len() != 1 {
		t.Fatalf("messages after edit: got %d, want 1", tr.Len())
	}
	prompt, ok := tr.Messages[0].Parts[0].(*prism.UserPromptPart)
	if !ok {
		t.Fatalf("expected UserPromptPart, got %T", tr.Messages[0].Parts[0])
	}
	if prompt.Content != "rewritten question" {
		t.Errorf("content: got %q", prompt.Content)
	}
}

func TestEditPartMidMessageKeepsEarlierParts(t *testing.T) {
	var tr Transcript
	tr.Append(prism.Message{
		Kind: prism.MessageKindResponse,
		Parts: []prism.Part{
			&prism.ThinkingPart{Content: "plan"},
			&prism.TextPart{Content: "answer"},
		},
	})
	tr.Append(prism.NewUserRequest("followup"))

	if err := tr.EditPart(PartLocator{Index: 1}, "new answer"); err != nil {
		t.Fatalf("EditPart: %v", err)
	}

	if tr.Len() != 1 {
		t.Fatalf("messages after edit: got %d, want 1", tr.Len())
	}
	if len(tr.Messages[0].Parts) != 2 {
		t.Fatalf("parts after edit: got %d, want 2", len(tr.Messages[0].Parts))
	}
}

func TestEditPartRejectsToolParts(t *testing.T) {
	var tr Transcript
	tr.Append(prism.Message{
		Kind: prism.MessageKindResponse,
		Parts: []prism.Part{
			&prism.ToolCallPart{ToolName: "search", ToolCallID: "a1"},
		},
	})

	if err := tr.EditPart(PartLocator{Index: 0}, "x"); err == nil {
		t.Error("expected error editing a tool-call part")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	var tr Transcript
	tr.Append(prism.NewUserRequest("hi"))

	snapshot := tr.Clone()
	tr.Append(prism.NewOpenResponse())

	if len(snapshot) != 1 {
		t.Errorf("snapshot length: got %d, want 1", len(snapshot))
	}
}
