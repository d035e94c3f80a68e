package testutil

import (
	"net/http"

	"github.com/google/uuid"

	"bolsas/pkg/domain"
	"bolsas/pkg/requestcontext"
)

// NewActor returns an actor with a fresh user ID.
func NewActor(role domain.Role) domain.Actor {
	return domain.Actor{ID: domain.UserID(uuid.New()), Role: role}
}

// WithActor simulates what RequireAuth does for an authenticated request.
func WithActor(req *http.Request, actor domain.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}
