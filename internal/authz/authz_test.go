package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bolsas/pkg/domain"
)

var (
	ownerID    = domain.UserID(uuid.New())
	strangerID = domain.UserID(uuid.New())
	staffID    = domain.UserID(uuid.New())
)

func actor(role domain.Role) domain.Actor {
	id := staffID
	if role == domain.RoleCandidate {
		id = ownerID
	}
	return domain.Actor{ID: id, Role: role}
}

func active() *Resource   { return &Resource{OwnerID: ownerID} }
func terminal() *Resource { return &Resource{OwnerID: ownerID, Terminal: true} }

func TestPermit_CapabilityMatrix(t *testing.T) {
	staff := []domain.Role{
		domain.RoleInstitutionAdmin,
		domain.RoleSocialCaseworker,
		domain.RoleLegalReviewer,
		domain.RoleSupervisor,
		domain.RoleOversight,
		domain.RoleAdmin,
	}

	expected := map[Action][]domain.Role{
		ActionViewQueue:          {domain.RoleInstitutionAdmin, domain.RoleSocialCaseworker, domain.RoleSupervisor, domain.RoleOversight, domain.RoleAdmin},
		ActionViewOne:            {domain.RoleInstitutionAdmin, domain.RoleSocialCaseworker, domain.RoleLegalReviewer, domain.RoleSupervisor, domain.RoleOversight, domain.RoleAdmin},
		ActionViewAuditTrail:     {domain.RoleInstitutionAdmin, domain.RoleSocialCaseworker, domain.RoleSupervisor, domain.RoleOversight, domain.RoleAdmin},
		ActionChangeStatus:       {domain.RoleInstitutionAdmin, domain.RoleSocialCaseworker, domain.RoleSupervisor, domain.RoleAdmin},
		ActionIssueSocialOpinion: {domain.RoleSocialCaseworker},
		ActionIssueLegalOpinion:  {domain.RoleLegalReviewer},
		ActionCancel:             {},
	}

	for action, allowed := range expected {
		for _, role := range staff {
			want := false
			for _, r := range allowed {
				if r == role {
					want = true
				}
			}
			d := Permit(actor(role), action, active())
			assert.Equal(t, want, d.Allowed, "%s/%s", role, action)
			if !d.Allowed {
				assert.NotEmpty(t, d.Reason, "%s/%s denial carries a reason", role, action)
			}
		}
	}
}

func TestPermit_LegalReviewerHasRestrictedScope(t *testing.T) {
	d := Permit(actor(domain.RoleLegalReviewer), ActionViewOne, active())
	assert.True(t, d.Allowed)
	assert.Equal(t, ScopeRestricted, d.Scope)

	d = Permit(actor(domain.RoleSupervisor), ActionViewOne, active())
	assert.Equal(t, ScopeFull, d.Scope)
}

func TestPermit_CandidateOwnership(t *testing.T) {
	owner := domain.Actor{ID: ownerID, Role: domain.RoleCandidate}
	stranger := domain.Actor{ID: strangerID, Role: domain.RoleCandidate}

	t.Run("owner reads own application", func(t *testing.T) {
		assert.True(t, Permit(owner, ActionViewOne, active()).Allowed)
		assert.True(t, Permit(owner, ActionViewAuditTrail, active()).Allowed)
	})

	t.Run("other candidates are denied", func(t *testing.T) {
		assert.False(t, Permit(stranger, ActionViewOne, active()).Allowed)
		assert.False(t, Permit(stranger, ActionCancel, active()).Allowed)
	})

	t.Run("owner cancels only while active", func(t *testing.T) {
		assert.True(t, Permit(owner, ActionCancel, active()).Allowed)
		d := Permit(owner, ActionCancel, terminal())
		assert.False(t, d.Allowed)
		assert.Equal(t, "application is in a terminal state", d.Reason)
	})

	t.Run("candidate cannot change status or opine", func(t *testing.T) {
		assert.False(t, Permit(owner, ActionChangeStatus, active()).Allowed)
		assert.False(t, Permit(owner, ActionIssueSocialOpinion, active()).Allowed)
		assert.False(t, Permit(owner, ActionViewQueue, nil).Allowed)
	})

	t.Run("candidate submits", func(t *testing.T) {
		assert.True(t, Permit(owner, ActionSubmit, nil).Allowed)
		assert.False(t, Permit(actor(domain.RoleSupervisor), ActionSubmit, nil).Allowed)
	})

	t.Run("cancel without a resource is denied", func(t *testing.T) {
		assert.False(t, Permit(owner, ActionCancel, nil).Allowed)
	})
}

func TestPermit_UnknownRoleDenied(t *testing.T) {
	d := Permit(domain.Actor{ID: staffID, Role: domain.Role("janitor")}, ActionViewQueue, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, "unknown role", d.Reason)
}

func TestMayAttempt(t *testing.T) {
	assert.True(t, MayAttempt(domain.RoleCandidate, ActionCancel))
	assert.True(t, MayAttempt(domain.RoleCandidate, ActionViewOne))
	assert.False(t, MayAttempt(domain.RoleCandidate, ActionViewQueue))
	assert.False(t, MayAttempt(domain.RoleCandidate, ActionChangeStatus))
	assert.True(t, MayAttempt(domain.RoleLegalReviewer, ActionIssueLegalOpinion))
	assert.False(t, MayAttempt(domain.RoleLegalReviewer, ActionViewAuditTrail))
	assert.False(t, MayAttempt(domain.RoleOversight, ActionChangeStatus))
	assert.False(t, MayAttempt(domain.Role(""), ActionViewOne))
}

func TestPermit_StaffCannotCancel(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSupervisor, domain.RoleInstitutionAdmin} {
		d := Permit(actor(role), ActionCancel, active())
		assert.False(t, d.Allowed, role)
		assert.Equal(t, "only the owning candidate may cancel", d.Reason)
	}
}
