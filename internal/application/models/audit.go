package models

import (
	"time"

	"bolsas/pkg/domain"
)

// Trail notes written by the service for actions without a caller note.
const (
	NoteSubmitted = "application submitted"
	NoteCancelled = "application cancelled by candidate"
)

// AuditEntry is one immutable step of an application's history.
// SequenceNo starts at 1 and is assigned by the store inside the
// transaction that performs the causing mutation.
type AuditEntry struct {
	ApplicationID domain.ApplicationID
	SequenceNo    int64
	ActorID       domain.UserID
	StatusAtEvent Status
	Note          string
	OccurredAt    time.Time
}

// NewAuditEntry builds an entry awaiting its sequence number.
func NewAuditEntry(app domain.ApplicationID, actor domain.UserID, status Status, note string, now time.Time) *AuditEntry {
	return &AuditEntry{
		ApplicationID: app,
		ActorID:       actor,
		StatusAtEvent: status,
		Note:          note,
		OccurredAt:    now,
	}
}
