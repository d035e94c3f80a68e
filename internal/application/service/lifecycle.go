package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"bolsas/internal/application/models"
	"bolsas/internal/application/store"
	"bolsas/internal/authz"
	"bolsas/pkg/domain"
	"bolsas/pkg/platform/events"
	"bolsas/pkg/requestcontext"
)

// ChangeStatus moves an application along the lifecycle graph on behalf of
// staff. Cancellation is reserved to the owning candidate.
func (s *Service) ChangeStatus(ctx context.Context, actor domain.Actor, id domain.ApplicationID, target models.Status, note string) (*models.Application, error) {
	return s.Transition(ctx, actor, id, target, note)
}

// CancelApplication withdraws the candidate's own application.
func (s *Service) CancelApplication(ctx context.Context, actor domain.Actor, id domain.ApplicationID) (*models.Application, error) {
	return s.Transition(ctx, actor, id, models.StatusCancelled, models.NoteCancelled)
}

// Transition applies one status change and records it in the audit trail.
//
// Checks run in order: role gate, existence, terminal state (Conflict),
// graph edge (Validation), resource gate. The status update is a
// compare-and-swap on the status read before the checks, so a concurrent
// writer makes this call fail with Conflict instead of overwriting it.
func (s *Service) Transition(ctx context.Context, actor domain.Actor, id domain.ApplicationID, target models.Status, note string) (_ *models.Application, err error) {
	attrs := append(actorAttrs(actor), applicationAttr(id), attribute.String("status.target", target.String()))
	ctx, end := s.begin(ctx, "transition", attrs...)
	defer end(&err)

	action := authz.ActionChangeStatus
	if target == models.StatusCancelled {
		action = authz.ActionCancel
	}
	if !authz.MayAttempt(actor.Role, action) {
		return nil, forbidden("role " + actor.Role.String() + " may not " + action.String())
	}
	if err := models.ValidateNote(note); err != nil {
		return nil, err
	}

	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "application not found", "", "failed to load application")
	}
	if err := app.CanTransition(target); err != nil {
		return nil, err
	}
	decision := authz.Permit(actor, action, &authz.Resource{OwnerID: app.CandidateID, Terminal: app.IsTerminal()})
	if !decision.Allowed {
		return nil, forbidden(decision.Reason)
	}

	from := app.Status
	now := requestcontext.Now(ctx)
	app.ApplyTransition(target, note, now)

	err = s.store.RunInTx(ctx, func(w store.Writer) error {
		if err := w.UpdateStatus(ctx, app, from); err != nil {
			return err
		}
		return w.AppendAudit(ctx, models.NewAuditEntry(app.ID, actor.ID, target, note, now))
	})
	if err != nil {
		return nil, translate(err, "application not found", "application was modified concurrently", "failed to change status")
	}

	s.invalidateChecklist(ctx, app.ID)
	s.metrics.IncrementTransition(from.String(), target.String())
	s.logger.InfoContext(ctx, "application status changed",
		"application_id", app.ID.String(),
		"from", from.String(),
		"to", target.String(),
		"actor_id", actor.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)

	kind := events.KindStatusChanged
	if target == models.StatusCancelled {
		kind = events.KindApplicationCancelled
	}
	s.notify(ctx, events.Event{
		Kind:          kind,
		ApplicationID: app.ID.String(),
		CandidateID:   app.CandidateID.String(),
		ActorID:       actor.ID.String(),
		Status:        target.String(),
		FromStatus:    from.String(),
		OccurredAt:    now,
	})
	return app, nil
}
