package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"bolsas/internal/application/models"
	"bolsas/internal/application/store"
	"bolsas/internal/authz"
	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/events"
	"bolsas/pkg/platform/sentinel"
	"bolsas/pkg/requestcontext"
)

// IssueSocialOpinion records the social caseworker's opinion.
func (s *Service) IssueSocialOpinion(ctx context.Context, actor domain.Actor, id domain.ApplicationID, body, recommendation string) (*models.Opinion, error) {
	return s.Issue(ctx, actor, id, models.OpinionDraft{
		Kind:           models.OpinionSocial,
		Body:           body,
		Recommendation: recommendation,
	})
}

// IssueLegalOpinion records the legal reviewer's opinion.
func (s *Service) IssueLegalOpinion(ctx context.Context, actor domain.Actor, id domain.ApplicationID, body, fundamentals, recommendation string) (*models.Opinion, error) {
	return s.Issue(ctx, actor, id, models.OpinionDraft{
		Kind:           models.OpinionLegal,
		Body:           body,
		Fundamentals:   fundamentals,
		Recommendation: recommendation,
	})
}

// Issue writes an opinion of draft.Kind and its audit entry in one
// transaction. The application row stays locked for the whole transaction,
// so issuance and status changes on the same application serialize.
// Issuing never changes the application's status, and an opinion may be
// recorded after the application reached a final status.
func (s *Service) Issue(ctx context.Context, actor domain.Actor, id domain.ApplicationID, draft models.OpinionDraft) (_ *models.Opinion, err error) {
	attrs := append(actorAttrs(actor), applicationAttr(id), attribute.String("opinion.kind", draft.Kind.String()))
	ctx, end := s.begin(ctx, "issue_opinion", attrs...)
	defer end(&err)

	var action authz.Action
	switch draft.Kind {
	case models.OpinionSocial:
		action = authz.ActionIssueSocialOpinion
	case models.OpinionLegal:
		action = authz.ActionIssueLegalOpinion
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown opinion kind")
	}
	if !authz.MayAttempt(actor.Role, action) {
		return nil, forbidden("role " + actor.Role.String() + " may not " + action.String())
	}

	now := requestcontext.Now(ctx)
	var (
		opinion   *models.Opinion
		status    models.Status
		candidate domain.UserID
	)
	err = s.store.RunInTx(ctx, func(w store.Writer) error {
		app, err := w.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d := authz.Permit(actor, action, &authz.Resource{OwnerID: app.CandidateID, Terminal: app.IsTerminal()}); !d.Allowed {
			return forbidden(d.Reason)
		}
		if err := requireAbsent(ctx, w, id, draft.Kind); err != nil {
			return err
		}

		op, err := models.NewOpinion(domain.NewOpinionID(), id, actor.ID, draft, now)
		if err != nil {
			return err
		}
		if draft.Kind == models.OpinionLegal && s.requireSocialBeforeLegal {
			if _, err := w.FindOpinion(ctx, id, models.OpinionSocial); err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return dErrors.New(dErrors.CodeConflict, "social opinion must be issued before the legal opinion")
				}
				return err
			}
		}

		if err := w.InsertOpinion(ctx, op); err != nil {
			return err
		}
		if err := w.AppendAudit(ctx, models.NewAuditEntry(id, actor.ID, app.Status, draft.Kind.AuditNote(), now)); err != nil {
			return err
		}
		opinion = op
		status = app.Status
		candidate = app.CandidateID
		return nil
	})
	if err != nil {
		return nil, translate(err, "application not found", "opinion already issued", "failed to issue opinion")
	}

	s.metrics.IncrementOpinion(draft.Kind.String())
	s.logger.InfoContext(ctx, "opinion issued",
		"application_id", id.String(),
		"kind", draft.Kind.String(),
		"author_id", actor.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.notify(ctx, events.Event{
		Kind:          events.KindOpinionIssued,
		ApplicationID: id.String(),
		CandidateID:   candidate.String(),
		ActorID:       actor.ID.String(),
		Status:        status.String(),
		OpinionKind:   draft.Kind.String(),
		OccurredAt:    now,
	})
	return opinion, nil
}

func requireAbsent(ctx context.Context, w store.Writer, id domain.ApplicationID, kind models.OpinionKind) error {
	_, err := w.FindOpinion(ctx, id, kind)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeConflict, "opinion already issued")
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	default:
		return err
	}
}
