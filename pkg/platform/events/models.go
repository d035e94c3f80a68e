// Package events carries application lifecycle notifications from the
// service to an external sink without blocking requests.
package events

import "time"

// Kind names a notification type. Values are stable wire identifiers.
type Kind string

const (
	KindApplicationSubmitted Kind = "application_submitted"
	KindStatusChanged        Kind = "status_changed"
	KindApplicationCancelled Kind = "application_cancelled"
	KindOpinionIssued        Kind = "opinion_issued"
)

// Event is a committed lifecycle fact. It is emitted only after the owning
// transaction commits, so sinks may treat it as authoritative.
type Event struct {
	Kind          Kind      `json:"kind"`
	ApplicationID string    `json:"application_id"`
	CandidateID   string    `json:"candidate_id"`
	ActorID       string    `json:"actor_id"`
	Status        string    `json:"status"`
	FromStatus    string    `json:"from_status,omitempty"`
	OpinionKind   string    `json:"opinion_kind,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Key partitions events so every event for one application lands in order.
func (e Event) Key() string {
	return e.ApplicationID
}
