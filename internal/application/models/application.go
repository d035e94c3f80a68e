package models

import (
	"time"

	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
)

const maxNoteLength = 2000

// Application is the aggregate root of the lifecycle. It owns its opinions
// and audit entries; both are written only through the transactional store.
//
// Invariants:
//   - Status is always one of the six lifecycle values
//   - Approved, Rejected and Cancelled are terminal
//   - CandidateID, CallID and SubmittedAt never change after construction
//   - Version increases by one on every accepted status change
type Application struct {
	ID          domain.ApplicationID
	CandidateID domain.UserID
	CallID      domain.CallID
	Status      Status
	Note        string
	SubmittedAt time.Time
	UpdatedAt   time.Time
	Version     int64
}

// NewApplication builds a freshly submitted application.
func NewApplication(id domain.ApplicationID, candidate domain.UserID, call domain.CallID, now time.Time) (*Application, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application ID cannot be nil")
	}
	if candidate.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "candidate ID cannot be nil")
	}
	if call.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "call ID cannot be nil")
	}
	return &Application{
		ID:          id,
		CandidateID: candidate,
		CallID:      call,
		Status:      StatusSubmitted,
		SubmittedAt: now,
		UpdatedAt:   now,
		Version:     1,
	}, nil
}

func (a *Application) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// CanTransition checks a requested status change against the lifecycle graph.
// A terminal application yields Conflict; a missing edge yields Validation.
func (a *Application) CanTransition(target Status) error {
	if !target.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown status "+target.String())
	}
	if a.Status.IsTerminal() {
		return dErrors.New(dErrors.CodeConflict, "terminal state")
	}
	if !a.Status.CanTransitionTo(target) {
		return dErrors.New(dErrors.CodeValidation, "illegal transition")
	}
	return nil
}

// ApplyTransition moves the application to target.
// Call CanTransition first.
func (a *Application) ApplyTransition(target Status, note string, now time.Time) {
	a.Status = target
	a.Note = note
	a.UpdatedAt = now
	a.Version++
}

// ValidateNote bounds free-text transition notes.
func ValidateNote(note string) error {
	if len([]rune(note)) > maxNoteLength {
		return dErrors.New(dErrors.CodeValidation, "note must be at most 2000 characters")
	}
	return nil
}
