package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/httputil"
	request "bolsas/pkg/platform/middleware/request"
	"bolsas/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is the transport-neutral view of a validated token.
type JWTClaims struct {
	UserID string
	Role   string
	JTI    string
}

// RequireAuth validates the bearer token and stores the resulting actor in
// the request context. Tokens naming an unknown role or a malformed subject
// are rejected as unauthorized.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - unusable claims",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}

func actorFromClaims(claims *JWTClaims) (domain.Actor, error) {
	userID, err := domain.ParseUserID(claims.UserID)
	if err != nil {
		return domain.Actor{}, err
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.Actor{ID: userID, Role: role}, nil
}
