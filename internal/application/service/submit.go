package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"bolsas/internal/application/models"
	"bolsas/internal/application/store"
	"bolsas/internal/authz"
	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/events"
	"bolsas/pkg/requestcontext"
)

// Submit files a new application for the calling candidate. A candidate may
// hold at most one non-cancelled application per call.
func (s *Service) Submit(ctx context.Context, actor domain.Actor, callID domain.CallID) (_ *models.Application, err error) {
	attrs := append(actorAttrs(actor), attribute.String("call.id", callID.String()))
	ctx, end := s.begin(ctx, "submit", attrs...)
	defer end(&err)

	if d := authz.Permit(actor, authz.ActionSubmit, nil); !d.Allowed {
		return nil, forbidden(d.Reason)
	}
	if callID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "call_id is required")
	}
	if s.calls != nil {
		open, err := s.calls.Exists(ctx, callID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check call")
		}
		if !open {
			return nil, dErrors.New(dErrors.CodeValidation, "call does not exist or is closed")
		}
	}

	now := requestcontext.Now(ctx)
	app, err := models.NewApplication(domain.NewApplicationID(now), actor.ID, callID, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(w store.Writer) error {
		if err := w.Create(ctx, app); err != nil {
			return err
		}
		return w.AppendAudit(ctx, models.NewAuditEntry(app.ID, actor.ID, app.Status, models.NoteSubmitted, now))
	})
	if err != nil {
		return nil, translate(err, "application not found", "candidate already has an active application for this call", "failed to submit application")
	}

	s.metrics.IncrementSubmitted()
	s.logger.InfoContext(ctx, "application submitted",
		"application_id", app.ID.String(),
		"call_id", callID.String(),
		"candidate_id", actor.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.notify(ctx, events.Event{
		Kind:          events.KindApplicationSubmitted,
		ApplicationID: app.ID.String(),
		CandidateID:   app.CandidateID.String(),
		ActorID:       actor.ID.String(),
		Status:        app.Status.String(),
		OccurredAt:    now,
	})
	return app, nil
}
