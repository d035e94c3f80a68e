package domain

import dErrors "bolsas/pkg/domain-errors"

// Role is the actor's function within an institution or the platform.
// Invariant: the value must be one of the supported roles.
//
// Usage: construct via ParseRole at trust boundaries (token claims, fixtures);
// direct casting bypasses validation.
type Role string

const (
	RoleInstitutionAdmin Role = "institution_admin"
	RoleSocialCaseworker Role = "social_caseworker"
	RoleLegalReviewer    Role = "legal_reviewer"
	RoleSupervisor       Role = "supervisor"
	RoleOversight        Role = "oversight"
	RoleAdmin            Role = "admin"
	RoleCandidate        Role = "candidate"
)

// validRoles is the single source of truth for supported roles.
var validRoles = map[Role]bool{
	RoleInstitutionAdmin: true,
	RoleSocialCaseworker: true,
	RoleLegalReviewer:    true,
	RoleSupervisor:       true,
	RoleOversight:        true,
	RoleAdmin:            true,
	RoleCandidate:        true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsStaff reports whether the role belongs to institution or platform staff.
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RoleCandidate
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   UserID
	Role Role
}
