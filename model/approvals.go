package model

import (
	"github.com/orlevii/agent-prism/prism"
)

// ApprovalStatus is the lifecycle state of one pending tool approval.
// Pending is the only non-terminal state.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalMocked   ApprovalStatus = "mocked"
)

// PendingTool is one tool call the backend paused on, waiting for a human
// decision.
type PendingTool struct {
	ToolCallID string
	ToolName   string
	Arguments  map[string]any
	Status     ApprovalStatus
	MockValue  any
}

// ApprovalSet collects the approval requests of the current paused turn and
// the decisions made on them. Requests keep arrival order for display.
type ApprovalSet struct {
	pending []PendingTool
	index   map[string]int
}

// NewApprovalSet returns an empty approval set.
func NewApprovalSet() *ApprovalSet {
	return &ApprovalSet{index: make(map[string]int)}
}

// Add registers an approval request. A request for an already known
// tool_call_id is ignored so replayed events cannot reset a decision.
func (s *ApprovalSet) Add(toolCallID, toolName string, arguments map[string]any) {
	if _, exists := s.index[toolCallID]; exists {
		return
	}
	s.index[toolCallID] = len(s.pending)
	s.pending = append(s.pending, PendingTool{
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Arguments:  arguments,
		Status:     ApprovalPending,
	})
}

// Approve marks the call approved for real execution. Returns false when the
// id is unknown or already decided.
func (s *ApprovalSet) Approve(toolCallID string) bool {
	return s.decide(toolCallID, ApprovalApproved, nil)
}

// Reject marks the call rejected.
func (s *ApprovalSet) Reject(toolCallID string) bool {
	return s.decide(toolCallID, ApprovalRejected, nil)
}

// Mock marks the call mocked with a caller-supplied result. The backend skips
// real execution and hands the model this value as the tool result.
func (s *ApprovalSet) Mock(toolCallID string, value any) bool {
	return s.decide(toolCallID, ApprovalMocked, value)
}

func (s *ApprovalSet) decide(toolCallID string, status ApprovalStatus, mockValue any) bool {
	i, ok := s.index[toolCallID]
	if !ok || s.pending[i].Status != ApprovalPending {
		return false
	}
	s.pending[i].Status = status
	s.pending[i].MockValue = mockValue
	return true
}

// Pending returns the requests in arrival order.
func (s *ApprovalSet) Pending() []PendingTool {
	out := make([]PendingTool, len(s.pending))
	copy(out, s.pending)
	return out
}

// Len returns the number of registered requests.
func (s *ApprovalSet) Len() int {
	return len(s.pending)
}

// AllHandled reports whether the set is non-empty and every request has a
// decision. An empty set is not handled: there is nothing to resume with.
func (s *ApprovalSet) AllHandled() bool {
	if len(s.pending) == 0 {
		return false
	}
	for _, p := range s.pending {
		if p.Status == ApprovalPending {
			return false
		}
	}
	return true
}

// Decisions converts the set into the deferred results payload of a resume
// request. Mocked calls count as approved and additionally carry the mock
// value, which the backend substitutes for real execution.
func (s *ApprovalSet) Decisions() prism.DeferredToolResults {
	deferred := prism.NewDeferredToolResults()
	for _, p := range s.pending {
		switch p.Status {
		case ApprovalApproved:
			deferred.Approvals[p.ToolCallID] = true
		case ApprovalRejected:
			deferred.Approvals[p.ToolCallID] = false
		case ApprovalMocked:
			deferred.Approvals[p.ToolCallID] = true
			deferred.Calls[p.ToolCallID] = p.MockValue
		}
	}
	return deferred
}

// Clear drops every request, typically right after Decisions was consumed by
// a resume request.
func (s *ApprovalSet) Clear() {
	s.pending = nil
	s.index = make(map[string]int)
}
