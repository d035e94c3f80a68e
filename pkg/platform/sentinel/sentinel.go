package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors:
//   - ErrNotFound: row does not exist
//   - ErrAlreadyUsed: a unique key is already taken (opinion kind, active application per call)
//   - ErrConflict: a compare-and-swap update lost against a concurrent writer
//   - ErrUnavailable: a collaborator is temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
