package model

import (
	"testing"
)

func TestApprovalSetAddDeduplicates(t *testing.T) {
	s := NewApprovalSet()
	s.Add("a1", "search", map[string]any{"q": "x"})
	s.Approve("a1")

	// A replayed request must not reset the decision.
	s.Add("a1", "search", map[string]any{"q": "x"})

	pending := s.Pending()
	if len(pending) != 1 {
		t.Fatalf("pending count: got %d, want 1", len(pending))
	}
	if pending[0].Status != ApprovalApproved {
		t.Errorf("status: got %q, want approved", pending[0].Status)
	}
}

func TestApprovalDecisionsAreTerminal(t *testing.T) {
	s := NewApprovalSet()
	s.Add("a1", "search", nil)

	if !s.Reject("a1") {
		t.Fatal("first decision should succeed")
	}
	if s.Approve("a1") {
		t.Error("decided call must not transition again")
	}
	if s.Pending()[0].Status != ApprovalRejected {
		t.Errorf("status: got %q, want rejected", s.Pending()[0].Status)
	}
	if s.Approve("unknown") {
		t.Error("unknown id should not decide")
	}
}

func TestAllHandled(t *testing.T) {
	s := NewApprovalSet()
	if s.AllHandled() {
		t.Error("empty set should not be handled")
	}

	s.Add("a1", "search", nil)
	s.Add("a2", "delete", nil)
	if s.AllHandled() {
		t.Error("undecided set should not be handled")
	}

	s.Approve("a1")
	if s.AllHandled() {
		t.Error("partially decided set should not be handled")
	}

	s.Mock("a2", "mock result")
	if !s.AllHandled() {
		t.Error("fully decided set should be handled")
	}
}

func TestDecisions(t *testing.T) {
	s := NewApprovalSet()
	s.Add("a1", "search", nil)
	s.Add("a2", "delete", nil)
	s.Add("a3", "fetch", nil)
	s.Approve("a1")
	s.Reject("a2")
	s.Mock("a3", map[string]any{"hits": 3})

	d := s.Decisions()

	if got := d.Approvals["a1"]; got != true {
		t.Errorf("a1 approval: got %v, want true", got)
	}
	if got := d.Approvals["a2"]; got != false {
		t.Errorf("a2 approval: got %v, want false", got)
	}
	// Mocked calls count as approved and carry the substitute value.
	if got := d.Approvals["a3"]; got != true {
		t.Errorf("a3 approval: got %v, want true", got)
	}
	if _, ok := d.Calls["a3"]; !ok {
		t.Error("a3 mock value missing from calls")
	}
	if _, ok := d.Calls["a1"]; ok {
		t.Error("approved call must not carry a substitute value")
	}
}

func TestApprovalSetClear(t *testing.T) {
	s := NewApprovalSet()
	s.Add("a1", "search", nil)
	s.Approve("a1")
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("length after clear: got %d, want 0", s.Len())
	}
	if s.AllHandled() {
		t.Error("cleared set should not be handled")
	}

	// Ids from the previous turn are fresh again.
	s.Add("a1", "search", nil)
	if s.Pending()[0].Status != ApprovalPending {
		t.Error("re-added call should be pending")
	}
}
