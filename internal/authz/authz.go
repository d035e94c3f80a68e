// Package authz decides whether an actor may perform an action on an
// application.
//
// Decisions are made in two places. HTTP middleware asks MayAttempt before a
// handler runs, using only the caller's role. The service asks Permit once it
// has loaded the application, so ownership and terminal state are known.
// Permit evaluates an ordered chain of rules; the first rule that allows or
// denies wins and anything left undecided is denied.
package authz

import (
	"bolsas/pkg/domain"
)

// Action is an operation guarded by the gate.
type Action string

const (
	ActionViewQueue          Action = "view_queue"
	ActionViewOne            Action = "view_one"
	ActionViewAuditTrail     Action = "view_audit_trail"
	ActionChangeStatus       Action = "change_status"
	ActionCancel             Action = "cancel"
	ActionIssueSocialOpinion Action = "issue_social_opinion"
	ActionIssueLegalOpinion  Action = "issue_legal_opinion"
	ActionSubmit             Action = "submit"
)

func (a Action) String() string { return string(a) }

// Scope qualifies an allowed decision.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeFull
	// ScopeRestricted hides the audit trail from the read model.
	ScopeRestricted
)

func (s Scope) String() string {
	switch s {
	case ScopeFull:
		return "full"
	case ScopeRestricted:
		return "restricted"
	default:
		return "none"
	}
}

// Resource carries the facts about the target application that rules need.
type Resource struct {
	OwnerID  domain.UserID
	Terminal bool
}

// Decision is the gate's answer.
type Decision struct {
	Allowed bool
	Scope   Scope
	Reason  string
}

func allow(scope Scope) Decision { return Decision{Allowed: true, Scope: scope} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// capabilities is the role/action matrix for staff and the resource-free
// candidate capability. Owner-dependent candidate access is granted by rules.
var capabilities = map[domain.Role]map[Action]Scope{
	domain.RoleInstitutionAdmin: {
		ActionViewQueue:      ScopeFull,
		ActionViewOne:        ScopeFull,
		ActionViewAuditTrail: ScopeFull,
		ActionChangeStatus:   ScopeFull,
	},
	domain.RoleSocialCaseworker: {
		ActionViewQueue:          ScopeFull,
		ActionViewOne:            ScopeFull,
		ActionViewAuditTrail:     ScopeFull,
		ActionChangeStatus:       ScopeFull,
		ActionIssueSocialOpinion: ScopeFull,
	},
	domain.RoleLegalReviewer: {
		ActionViewOne:           ScopeRestricted,
		ActionIssueLegalOpinion: ScopeFull,
	},
	domain.RoleSupervisor: {
		ActionViewQueue:      ScopeFull,
		ActionViewOne:        ScopeFull,
		ActionViewAuditTrail: ScopeFull,
		ActionChangeStatus:   ScopeFull,
	},
	domain.RoleOversight: {
		ActionViewQueue:      ScopeFull,
		ActionViewOne:        ScopeFull,
		ActionViewAuditTrail: ScopeFull,
	},
	domain.RoleAdmin: {
		ActionViewQueue:      ScopeFull,
		ActionViewOne:        ScopeFull,
		ActionViewAuditTrail: ScopeFull,
		ActionChangeStatus:   ScopeFull,
	},
	domain.RoleCandidate: {
		ActionSubmit: ScopeFull,
	},
}

// ownerActions are granted to the candidate who owns the application.
var ownerActions = map[Action]bool{
	ActionViewOne:        true,
	ActionViewAuditTrail: true,
	ActionCancel:         true,
}

// MayAttempt reports whether some resource exists on which role could be
// permitted action. It is the role-level check applied before any lookup.
func MayAttempt(role domain.Role, action Action) bool {
	if !role.IsValid() {
		return false
	}
	if _, ok := capabilities[role][action]; ok {
		return true
	}
	return role == domain.RoleCandidate && ownerActions[action]
}

// Permit evaluates the rule chain. res may be nil for actions that do not
// target an existing application (ViewQueue, Submit).
func Permit(actor domain.Actor, action Action, res *Resource) Decision {
	for _, r := range chain {
		if d, decided := r(actor, action, res); decided {
			return d
		}
	}
	return deny("no rule permits " + action.String())
}

// rule returns decided=false to abstain.
type rule func(actor domain.Actor, action Action, res *Resource) (d Decision, decided bool)

var chain = []rule{
	knownRole,
	ownerMayRead,
	capabilityTable,
	ownerMayCancel,
	cancelRequiresActive,
}

func knownRole(actor domain.Actor, _ Action, _ *Resource) (Decision, bool) {
	if !actor.Role.IsValid() {
		return deny("unknown role"), true
	}
	return Decision{}, false
}

func ownerMayRead(actor domain.Actor, action Action, res *Resource) (Decision, bool) {
	if action != ActionViewOne && action != ActionViewAuditTrail {
		return Decision{}, false
	}
	if isOwner(actor, res) {
		return allow(ScopeFull), true
	}
	return Decision{}, false
}

func capabilityTable(actor domain.Actor, action Action, _ *Resource) (Decision, bool) {
	if action == ActionCancel {
		return Decision{}, false
	}
	if scope, ok := capabilities[actor.Role][action]; ok {
		return allow(scope), true
	}
	return deny("role " + actor.Role.String() + " may not " + action.String()), true
}

func ownerMayCancel(actor domain.Actor, action Action, res *Resource) (Decision, bool) {
	if action != ActionCancel {
		return Decision{}, false
	}
	if !isOwner(actor, res) {
		return deny("only the owning candidate may cancel"), true
	}
	return Decision{}, false
}

func cancelRequiresActive(_ domain.Actor, action Action, res *Resource) (Decision, bool) {
	if action != ActionCancel || res == nil {
		return Decision{}, false
	}
	if res.Terminal {
		return deny("application is in a terminal state"), true
	}
	return allow(ScopeFull), true
}

func isOwner(actor domain.Actor, res *Resource) bool {
	return res != nil &&
		actor.Role == domain.RoleCandidate &&
		!actor.ID.IsNil() &&
		actor.ID == res.OwnerID
}
