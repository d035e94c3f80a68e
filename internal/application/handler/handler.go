package handler

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"bolsas/internal/application/models"
	"bolsas/internal/authz"
	"bolsas/internal/platform/metrics"
	platformmw "bolsas/internal/platform/middleware"
	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/httputil"
	authmw "bolsas/pkg/platform/middleware/auth"
	"bolsas/pkg/platform/middleware/metadata"
	"bolsas/pkg/platform/middleware/ratelimit"
	"bolsas/pkg/platform/middleware/request"
	"bolsas/pkg/platform/middleware/requesttime"
	pstrings "bolsas/pkg/platform/strings"
	"bolsas/pkg/requestcontext"
)

// Service defines the application operations exposed over HTTP.
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, callID domain.CallID) (*models.Application, error)
	List(ctx context.Context, actor domain.Actor, filter models.Filter, page models.PageRequest) (*models.Page, error)
	Get(ctx context.Context, actor domain.Actor, id domain.ApplicationID) (*models.ApplicationView, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id domain.ApplicationID, target models.Status, note string) (*models.Application, error)
	CancelApplication(ctx context.Context, actor domain.Actor, id domain.ApplicationID) (*models.Application, error)
	IssueSocialOpinion(ctx context.Context, actor domain.Actor, id domain.ApplicationID, body, recommendation string) (*models.Opinion, error)
	IssueLegalOpinion(ctx context.Context, actor domain.Actor, id domain.ApplicationID, body, fundamentals, recommendation string) (*models.Opinion, error)
	ListAuditTrail(ctx context.Context, actor domain.Actor, id domain.ApplicationID) ([]*models.AuditEntry, error)
}

// Handler serves the /applications routes.
type Handler struct {
	service      Service
	logger       *slog.Logger
	metrics      *metrics.HTTP
	jwtValidator authmw.JWTValidator
	limiter      *ratelimit.Limiter
	timeout      time.Duration
}

type Option func(*Handler)

func WithMetrics(m *metrics.HTTP) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// New creates a new application Handler.
func New(service Service, logger *slog.Logger, jwtValidator authmw.JWTValidator, opts ...Option) *Handler {
	h := &Handler{
		service:      service,
		logger:       logger,
		jwtValidator: jwtValidator,
		timeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the application routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(request.Recovery(h.logger))
	router.Use(request.RequestID)
	router.Use(request.Logger(h.logger))
	router.Use(request.Timeout(h.timeout))
	router.Use(request.ContentTypeJSON)
	if h.metrics != nil {
		router.Use(platformmw.Latency(h.metrics))
	}
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)
	router.Use(authmw.RequireAuth(h.jwtValidator, h.logger))
	if h.limiter != nil {
		router.Use(h.limiter.Middleware)
	}

	can := func(action authz.Action) func(http.Handler) http.Handler {
		return platformmw.RequireCapability(action, h.logger)
	}

	router.With(can(authz.ActionSubmit)).Post("/applications", h.handleSubmit)
	router.With(can(authz.ActionViewQueue)).Get("/applications", h.handleList)
	router.Route("/applications/{id}", func(r chi.Router) {
		r.With(can(authz.ActionViewOne)).Get("/", h.handleGet)
		r.With(can(authz.ActionChangeStatus)).Post("/status", h.handleChangeStatus)
		r.With(can(authz.ActionCancel)).Post("/cancel", h.handleCancel)
		r.With(can(authz.ActionIssueSocialOpinion)).Post("/opinions/social", h.handleIssueSocialOpinion)
		r.With(can(authz.ActionIssueLegalOpinion)).Post("/opinions/legal", h.handleIssueLegalOpinion)
		r.With(can(authz.ActionViewAuditTrail)).Get("/audit", h.handleListAudit)
	})

	r.Mount("/", router)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SubmitApplicationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "submit", err)
		return
	}
	callID, err := domain.ParseCallID(strings.TrimSpace(req.CallID))
	if err != nil {
		h.fail(ctx, w, "submit", err)
		return
	}
	actor := h.actor(ctx)
	app, err := h.service.Submit(ctx, actor, callID)
	if err != nil {
		h.fail(ctx, w, "submit", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toApplicationResponse(app))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, page, err := parseListQuery(r)
	if err != nil {
		h.fail(ctx, w, "list", err)
		return
	}
	result, err := h.service.List(ctx, h.actor(ctx), filter, page)
	if err != nil {
		h.fail(ctx, w, "list", err)
		return
	}
	resp := ListApplicationsResponse{Items: make([]ApplicationResponse, 0, len(result.Items))}
	for _, app := range result.Items {
		resp.Items = append(resp.Items, toApplicationResponse(app))
	}
	if result.Next != nil {
		resp.NextCursor = result.Next.Encode()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := applicationID(r)
	if err != nil {
		h.fail(ctx, w, "get", err)
		return
	}
	view, err := h.service.Get(ctx, h.actor(ctx), id)
	if err != nil {
		h.fail(ctx, w, "get", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDetailResponse(view))
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := applicationID(r)
	if err != nil {
		h.fail(ctx, w, "change_status", err)
		return
	}
	var req ChangeStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "change_status", err)
		return
	}
	target, err := models.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		h.fail(ctx, w, "change_status", err)
		return
	}
	app, err := h.service.ChangeStatus(ctx, h.actor(ctx), id, target, strings.TrimSpace(req.Note))
	if err != nil {
		h.fail(ctx, w, "change_status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := applicationID(r)
	if err != nil {
		h.fail(ctx, w, "cancel", err)
		return
	}
	app, err := h.service.CancelApplication(ctx, h.actor(ctx), id)
	if err != nil {
		h.fail(ctx, w, "cancel", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) handleIssueSocialOpinion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := applicationID(r)
	if err != nil {
		h.fail(ctx, w, "issue_social_opinion", err)
		return
	}
	var req IssueSocialOpinionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "issue_social_opinion", err)
		return
	}
	op, err := h.service.IssueSocialOpinion(ctx, h.actor(ctx), id, req.Body, req.Recommendation)
	if err != nil {
		h.fail(ctx, w, "issue_social_opinion", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toOpinionResponse(op))
}

func (h *Handler) handleIssueLegalOpinion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := applicationID(r)
	if err != nil {
		h.fail(ctx, w, "issue_legal_opinion", err)
		return
	}
	var req IssueLegalOpinionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "issue_legal_opinion", err)
		return
	}
	op, err := h.service.IssueLegalOpinion(ctx, h.actor(ctx), id, req.Body, req.Fundamentals, req.Recommendation)
	if err != nil {
		h.fail(ctx, w, "issue_legal_opinion", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toOpinionResponse(op))
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := applicationID(r)
	if err != nil {
		h.fail(ctx, w, "list_audit", err)
		return
	}
	entries, err := h.service.ListAuditTrail(ctx, h.actor(ctx), id)
	if err != nil {
		h.fail(ctx, w, "list_audit", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditTrailResponse{
		ApplicationID: id.String(),
		Entries:       toAuditResponses(entries),
	})
}

// actor returns the caller set by RequireAuth. Routes are never reachable
// without it.
func (h *Handler) actor(ctx context.Context) domain.Actor {
	actor, _ := requestcontext.Actor(ctx)
	return actor
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := dErrors.CodeOf(err)
	attrs := []any{
		"operation", operation,
		"code", string(code),
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	}
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "request failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, "request rejected", attrs...)
	}
	httputil.WriteError(w, err)
}

func applicationID(r *http.Request) (domain.ApplicationID, error) {
	return domain.ParseApplicationID(chi.URLParam(r, "id"))
}

func parseListQuery(r *http.Request) (models.Filter, models.PageRequest, error) {
	var (
		filter models.Filter
		page   models.PageRequest
	)
	q := r.URL.Query()

	for _, part := range pstrings.SplitDedupe(q["status"], ",") {
		st, err := models.ParseStatus(part)
		if err != nil {
			return filter, page, dErrors.New(dErrors.CodeBadRequest, "invalid status filter")
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	if raw := strings.TrimSpace(q.Get("call_id")); raw != "" {
		call, err := domain.ParseCallID(raw)
		if err != nil {
			return filter, page, err
		}
		filter.CallID = &call
	}
	if raw := strings.TrimSpace(q.Get("page_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return filter, page, dErrors.New(dErrors.CodeBadRequest, "page_size must be a positive integer")
		}
		page.Size = size
	}
	if raw := strings.TrimSpace(q.Get("cursor")); raw != "" {
		cursor, err := models.DecodeCursor(raw)
		if err != nil {
			return filter, page, err
		}
		page.Cursor = cursor
	}
	return filter, page, nil
}
