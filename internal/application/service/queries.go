package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bolsas/internal/application/models"
	"bolsas/internal/application/ports"
	"bolsas/internal/application/store"
	"bolsas/internal/authz"
	"bolsas/pkg/domain"
	"bolsas/pkg/requestcontext"
)

// Get composes the read model of one application. Opinions, the audit trail
// and the document checklist are fetched concurrently and outside any
// transaction. A failing checklist degrades the view instead of failing it.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id domain.ApplicationID) (_ *models.ApplicationView, err error) {
	ctx, end := s.begin(ctx, "get", append(actorAttrs(actor), applicationAttr(id))...)
	defer end(&err)

	if !authz.MayAttempt(actor.Role, authz.ActionViewOne) {
		return nil, forbidden("role " + actor.Role.String() + " may not view applications")
	}
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "application not found", "", "failed to load application")
	}
	decision := authz.Permit(actor, authz.ActionViewOne, &authz.Resource{OwnerID: app.CandidateID, Terminal: app.IsTerminal()})
	if !decision.Allowed {
		return nil, forbidden(decision.Reason)
	}

	view := &models.ApplicationView{
		Application:        app,
		AuditTrailIncluded: decision.Scope == authz.ScopeFull,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opinions, err := s.store.ListOpinions(gctx, id)
		if err != nil {
			return err
		}
		for _, op := range opinions {
			switch op.Kind {
			case models.OpinionSocial:
				view.SocialOpinion = op
			case models.OpinionLegal:
				view.LegalOpinion = op
			}
		}
		return nil
	})
	if view.AuditTrailIncluded {
		g.Go(func() error {
			trail, err := s.store.ListAudit(gctx, id)
			if err != nil {
				return err
			}
			view.AuditTrail = trail
			return nil
		})
	}
	g.Go(func() error {
		view.Checklist, view.ChecklistAvailable = s.checklistFor(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "application not found", "", "failed to load application details")
	}
	return view, nil
}

func (s *Service) checklistFor(ctx context.Context, id domain.ApplicationID) (*models.ChecklistSummary, bool) {
	if s.checklist == nil {
		return nil, false
	}
	summary, err := s.checklist.Status(ctx, id)
	if err != nil || summary == nil {
		s.metrics.IncrementChecklistDegraded()
		s.logger.WarnContext(ctx, "document checklist unavailable",
			"application_id", id.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, false
	}
	return summary, true
}

// invalidateChecklist drops a cached checklist summary, if the checklist
// source caches. Failures leave the entry to expire on its own.
func (s *Service) invalidateChecklist(ctx context.Context, id domain.ApplicationID) {
	inv, ok := s.checklist.(ports.ChecklistInvalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cached checklist",
			"application_id", id.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// List returns one page of the review queue ordered by application ID.
// The first page pins a snapshot instant into the cursor; later pages reuse
// it so applications submitted meanwhile never shift the listing.
func (s *Service) List(ctx context.Context, actor domain.Actor, filter models.Filter, page models.PageRequest) (_ *models.Page, err error) {
	ctx, end := s.begin(ctx, "list", actorAttrs(actor)...)
	defer end(&err)

	if d := authz.Permit(actor, authz.ActionViewQueue, nil); !d.Allowed {
		return nil, forbidden(d.Reason)
	}
	page = page.Normalize()

	q := store.ListQuery{
		Filter: filter,
		AsOf:   requestcontext.Now(ctx),
		Limit:  page.Size + 1,
	}
	if page.Cursor != nil {
		after := page.Cursor.AfterID
		q.AfterID = &after
		q.AsOf = page.Cursor.AsOf
	}

	items, err := s.store.List(ctx, q)
	if err != nil {
		return nil, translate(err, "", "", "failed to list applications")
	}

	result := &models.Page{Items: items}
	if len(items) > page.Size {
		result.Items = items[:page.Size]
		result.Next = &models.Cursor{
			AfterID: result.Items[page.Size-1].ID,
			AsOf:    q.AsOf,
		}
	}
	return result, nil
}

// ListAuditTrail returns an application's history, oldest entry first.
func (s *Service) ListAuditTrail(ctx context.Context, actor domain.Actor, id domain.ApplicationID) (_ []*models.AuditEntry, err error) {
	ctx, end := s.begin(ctx, "list_audit_trail", append(actorAttrs(actor), applicationAttr(id))...)
	defer end(&err)

	if !authz.MayAttempt(actor.Role, authz.ActionViewAuditTrail) {
		return nil, forbidden("role " + actor.Role.String() + " may not view the audit trail")
	}
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "application not found", "", "failed to load application")
	}
	if d := authz.Permit(actor, authz.ActionViewAuditTrail, &authz.Resource{OwnerID: app.CandidateID, Terminal: app.IsTerminal()}); !d.Allowed {
		return nil, forbidden(d.Reason)
	}
	trail, err := s.store.ListAudit(ctx, id)
	if err != nil {
		return nil, translate(err, "application not found", "", "failed to load audit trail")
	}
	return trail, nil
}
