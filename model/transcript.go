package model

import (
	"fmt"

	"github.com/orlevii/agent-prism/prism"
)

// Transcript is the ordered conversation shown to the user and sent back to
// the backend on every request. All mutation happens on the update loop, so
// none of these methods take locks.
type Transcript struct {
	Messages []prism.Message
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg prism.Message) {
	t.Messages = append(t.Messages, msg)
}

// Replace swaps the whole transcript for the server's authoritative history.
func (t *Transcript) Replace(history []prism.Message) {
	t.Messages = history
}

// Clear drops every message.
func (t *Transcript) Clear() {
	t.Messages = nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// Clone returns a copy of the message slice safe to hand to a goroutine.
// Parts are shared; senders must not mutate them.
func (t *Transcript) Clone() []prism.Message {
	out := make([]prism.Message, len(t.Messages))
	copy(out, t.Messages)
	return out
}

// OpenResponse returns the trailing response message that streaming output
// folds into, or nil when the last message is not a response.
func (t *Transcript) OpenResponse() *prism.Message {
	if len(t.Messages) == 0 {
		return nil
	}
	last := &t.Messages[len(t.Messages)-1]
	if !last.IsResponse() {
		return nil
	}
	return last
}

// RollbackOpenResponse removes the trailing response message. It is used to
// undo the optimistic placeholder when a request fails before producing
// anything authoritative.
func (t *Transcript) RollbackOpenResponse() {
	if t.OpenResponse() != nil {
		t.Messages = t.Messages[:len(t.Messages)-1]
	}
}

// PartRef locates one part inside the transcript. Index is the position in
// the flattened part sequence.
type PartRef struct {
	Index        int
	MessageIndex int
	PartIndex    int
	Part         prism.Part
}

// FlattenedParts returns every part of every message in transcript order,
// which is how the UI addresses parts for display and editing.
func (t *Transcript) FlattenedParts() []PartRef {
	var refs []PartRef
	for mi := range t.Messages {
		for pi, part := range t.Messages[mi].Parts {
			refs = append(refs, PartRef{
				Index:        len(refs),
				MessageIndex: mi,
				PartIndex:    pi,
				Part:         part,
			})
		}
	}
	return refs
}

// PartLocator addresses one part for editing. When ID is set it wins over
// Index, so an edit survives a message_history resync that shifts positions.
type PartLocator struct {
	ID    string
	Index int
}

// ResolvePart maps a locator to a position in the flattened part sequence.
func (t *Transcript) ResolvePart(loc PartLocator) (PartRef, error) {
	refs := t.FlattenedParts()

	if loc.ID != "" {
		for _, ref := range refs {
			if partID(ref.Part) == loc.ID {
				return ref, nil
			}
		}
		// Stale id - fall through to the positional index.
	}

	if loc.Index < 0 || loc.Index >= len(refs) {
		return PartRef{}, fmt.Errorf("part %d out of range (%d parts)", loc.Index, len(refs))
	}
	return refs[loc.Index], nil
}

// EditPart replaces the content of the addressed part and truncates everything
// after it, so the conversation can be replayed from the edit point.
func (t *Transcript) EditPart(loc PartLocator, content string) error {
	ref, err := t.ResolvePart(loc)
	if err != nil {
		return err
	}

	if err := setPartContent(t.Messages[ref.MessageIndex].Parts[ref.PartIndex], content); err != nil {
		return err
	}

	msg := &t.Messages[ref.MessageIndex]
	msg.Parts = msg.Parts[:ref.PartIndex+1]
	t.Messages = t.Messages[:ref.MessageIndex+1]

	return nil
}

func setPartContent(part prism.Part, content string) error {
	switch p := part.(type) {
	case *prism.SystemPromptPart:
		p.Content = content
	case *prism.UserPromptPart:
		p.Content = content
	case *prism.TextPart:
		p.Content = content
	case *prism.ThinkingPart:
		p.Content = content
	default:
		return fmt.Errorf("%s parts are not editable", part.PartKind())
	}
	return nil
}

func partID(part prism.Part) string {
	switch p := part.(type) {
	case *prism.TextPart:
		return p.ID
	case *prism.ToolCallPart:
		return p.ID
	case *prism.ThinkingPart:
		return p.ID
	default:
		return ""
	}
}
