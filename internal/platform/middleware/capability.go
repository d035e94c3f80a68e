package middleware

import (
	"log/slog"
	"net/http"

	"bolsas/internal/authz"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/httputil"
	"bolsas/pkg/requestcontext"
)

// RequireCapability rejects requests whose role can never perform action,
// before any handler logic or lookup runs. Resource-level checks (ownership,
// terminal state) remain with the service.
func RequireCapability(action authz.Action, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor, ok := requestcontext.Actor(ctx)
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !authz.MayAttempt(actor.Role, action) {
				logger.WarnContext(ctx, "capability denied",
					"action", action.String(),
					"role", actor.Role.String(),
					"user_id", actor.ID.String(),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "role "+actor.Role.String()+" may not "+action.String()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
