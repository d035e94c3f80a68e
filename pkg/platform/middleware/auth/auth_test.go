package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolsas/pkg/domain"
	"bolsas/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := uuid.New()

	var got domain.Actor
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = requestcontext.Actor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	send := func(v JWTValidator, header string) *httptest.ResponseRecorder {
		found = false
		req := httptest.NewRequest(http.MethodGet, "/applications", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		RequireAuth(v, logger)(next).ServeHTTP(w, req)
		return w
	}

	t.Run("valid token sets actor", func(t *testing.T) {
		w := send(stubValidator{claims: &JWTClaims{UserID: userID.String(), Role: "supervisor"}}, "Bearer tok")
		require.Equal(t, http.StatusNoContent, w.Code)
		require.True(t, found)
		assert.Equal(t, domain.UserID(userID), got.ID)
		assert.Equal(t, domain.RoleSupervisor, got.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		w := send(stubValidator{}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, found)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := send(stubValidator{err: errors.New("bad signature")}, "Bearer tok")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"unauthorized","error_description":"Invalid or expired token"}`, w.Body.String())
	})

	t.Run("unknown role", func(t *testing.T) {
		w := send(stubValidator{claims: &JWTClaims{UserID: userID.String(), Role: "janitor"}}, "Bearer tok")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, found)
	})

	t.Run("malformed subject", func(t *testing.T) {
		w := send(stubValidator{claims: &JWTClaims{UserID: "not-a-uuid", Role: "candidate"}}, "Bearer tok")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
