// Package service orchestrates the scholarship application lifecycle:
// submission, status transitions, specialist opinions and the read model.
//
// Every mutation runs in one store transaction together with its audit
// entry. Notifications are emitted only after the transaction commits and
// never fail the request.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bolsas/internal/application/metrics"
	"bolsas/internal/application/ports"
	"bolsas/internal/application/store"
	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/events"
	"bolsas/pkg/platform/sentinel"
	"bolsas/pkg/requestcontext"
)

const tracerName = "bolsas/internal/application/service"

// Service implements the application operations.
type Service struct {
	store     store.Store
	calls     ports.CallCatalog
	checklist ports.DocumentChecklist
	notifier  ports.Notifier
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	requireSocialBeforeLegal bool
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithSocialBeforeLegal makes a legal opinion wait for the social opinion.
func WithSocialBeforeLegal(required bool) Option {
	return func(s *Service) {
		s.requireSocialBeforeLegal = required
	}
}

// New constructs a Service. calls, checklist and notifier may be nil: a nil
// catalog accepts every call, a nil checklist always reports unavailable and
// a nil notifier discards events.
func New(st store.Store, calls ports.CallCatalog, checklist ports.DocumentChecklist, notifier ports.Notifier, opts ...Option) *Service {
	s := &Service{
		store:     st,
		calls:     calls,
		checklist: checklist,
		notifier:  notifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// begin starts a span and returns a finish func that records the outcome.
func (s *Service) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "application."+operation, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		defer span.End()
		s.metrics.ObserveOperation(operation, started)
		if errp == nil || *errp == nil {
			return
		}
		code := dErrors.CodeOf(*errp)
		span.RecordError(*errp)
		span.SetStatus(codes.Error, string(code))
		s.metrics.IncrementRejection(operation, string(code))
		if code == dErrors.CodeInternal {
			s.logger.ErrorContext(ctx, "application operation failed",
				"operation", operation,
				"request_id", requestcontext.RequestID(ctx),
				"error", *errp,
			)
		}
	}
}

// notify hands a committed event to the notifier. Failures are logged only.
func (s *Service) notify(ctx context.Context, event events.Event) {
	if s.notifier == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to enqueue notification",
			"kind", string(event.Kind),
			"application_id", event.ApplicationID,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

// translate maps store sentinels onto domain errors. Errors that already
// carry a domain code pass through untouched.
func translate(err error, notFound, conflict, internal string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFound)
	case errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, conflict)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internal)
	}
}

func forbidden(reason string) error {
	if reason == "" {
		reason = "operation not permitted"
	}
	return dErrors.New(dErrors.CodeForbidden, reason)
}

func applicationAttr(id domain.ApplicationID) attribute.KeyValue {
	return attribute.String("application.id", id.String())
}

func actorAttrs(actor domain.Actor) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("actor.id", actor.ID.String()),
		attribute.String("actor.role", actor.Role.String()),
	}
}
