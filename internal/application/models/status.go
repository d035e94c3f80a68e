package models

import (
	dErrors "bolsas/pkg/domain-errors"
)

// Status is the lifecycle position of an application.
type Status string

const (
	StatusSubmitted            Status = "submitted"
	StatusUnderReview          Status = "under_review"
	StatusDocumentationPending Status = "documentation_pending"
	StatusApproved             Status = "approved"
	StatusRejected             Status = "rejected"
	StatusCancelled            Status = "cancelled"
)

// transitions is the complete edge set. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusSubmitted:            {StatusUnderReview, StatusCancelled},
	StatusUnderReview:          {StatusDocumentationPending, StatusApproved, StatusRejected, StatusCancelled},
	StatusDocumentationPending: {StatusUnderReview, StatusCancelled},
}

var allStatuses = []Status{
	StatusSubmitted,
	StatusUnderReview,
	StatusDocumentationPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus validates external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown status "+s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo reports whether s -> target is an edge of the lifecycle graph.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from s in one step.
func (s Status) Next() []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

func (s Status) String() string {
	return string(s)
}
