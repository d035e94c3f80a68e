package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newApp(t *testing.T) *Application {
	t.Helper()
	app, err := NewApplication(domain.NewApplicationID(now), domain.UserID(uuid.New()), domain.CallID(uuid.New()), now)
	require.NoError(t, err)
	return app
}

func TestStatusGraph(t *testing.T) {
	edges := map[Status][]Status{
		StatusSubmitted:            {StatusUnderReview, StatusCancelled},
		StatusUnderReview:          {StatusDocumentationPending, StatusApproved, StatusRejected, StatusCancelled},
		StatusDocumentationPending: {StatusUnderReview, StatusCancelled},
		StatusApproved:             {},
		StatusRejected:             {},
		StatusCancelled:            {},
	}
	for from, allowed := range edges {
		for _, to := range AllStatuses() {
			want := false
			for _, a := range allowed {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		assert.Equal(t, len(allowed) == 0, from.IsTerminal(), from)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("documentation_pending")
	require.NoError(t, err)
	assert.Equal(t, StatusDocumentationPending, st)

	_, err = ParseStatus("EM_ANALISE")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestApplication_CanTransition(t *testing.T) {
	t.Run("edge is accepted", func(t *testing.T) {
		app := newApp(t)
		require.NoError(t, app.CanTransition(StatusUnderReview))
		app.ApplyTransition(StatusUnderReview, "picked up", now.Add(time.Minute))
		assert.Equal(t, StatusUnderReview, app.Status)
		assert.Equal(t, "picked up", app.Note)
		assert.Equal(t, int64(2), app.Version)
		assert.Equal(t, now, app.SubmittedAt)
	})

	t.Run("non-edge is a validation error", func(t *testing.T) {
		app := newApp(t)
		err := app.CanTransition(StatusApproved)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "illegal transition", dErrors.MessageOf(err))
	})

	t.Run("terminal is a conflict", func(t *testing.T) {
		app := newApp(t)
		app.ApplyTransition(StatusCancelled, "", now)
		err := app.CanTransition(StatusUnderReview)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		assert.Equal(t, "terminal state", dErrors.MessageOf(err))
	})
}

func TestNewApplication_RejectsNilReferences(t *testing.T) {
	_, err := NewApplication(domain.NewApplicationID(now), domain.UserID{}, domain.CallID(uuid.New()), now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestNewOpinion(t *testing.T) {
	appID := domain.NewApplicationID(now)
	author := domain.UserID(uuid.New())
	build := func(d OpinionDraft) (*Opinion, error) {
		return NewOpinion(domain.NewOpinionID(), appID, author, d, now)
	}

	t.Run("short body rejected", func(t *testing.T) {
		_, err := build(OpinionDraft{Kind: OpinionSocial, Body: "abc"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("whitespace does not count toward the minimum", func(t *testing.T) {
		_, err := build(OpinionDraft{Kind: OpinionSocial, Body: "   short    "})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("length counts runes", func(t *testing.T) {
		op, err := build(OpinionDraft{Kind: OpinionSocial, Body: "ação social"})
		require.NoError(t, err)
		assert.Equal(t, "ação social", op.Body)
	})

	t.Run("social recommendation is optional", func(t *testing.T) {
		op, err := build(OpinionDraft{Kind: OpinionSocial, Body: "  household income verified  "})
		require.NoError(t, err)
		assert.Equal(t, "household income verified", op.Body)
		assert.Empty(t, op.Recommendation)
	})

	t.Run("legal requires a known recommendation", func(t *testing.T) {
		_, err := build(OpinionDraft{Kind: OpinionLegal, Body: "complies with call rules"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = build(OpinionDraft{Kind: OpinionLegal, Body: "complies with call rules", Recommendation: "maybe"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		op, err := build(OpinionDraft{Kind: OpinionLegal, Body: "complies with call rules", Recommendation: "conditional", Fundamentals: "art. 5"})
		require.NoError(t, err)
		assert.Equal(t, "art. 5", op.Fundamentals)
	})

	t.Run("fundamentals are legal only", func(t *testing.T) {
		_, err := build(OpinionDraft{Kind: OpinionSocial, Body: "household income verified", Fundamentals: "x"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("audit note names the kind", func(t *testing.T) {
		assert.Equal(t, "legal opinion issued", OpinionLegal.AuditNote())
	})
}

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{AfterID: domain.NewApplicationID(now), AsOf: now}
	decoded, err := DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.Equal(t, c.AfterID, decoded.AfterID)
	assert.True(t, c.AsOf.Equal(decoded.AsOf))

	for _, bad := range []string{"", "!!", "bm90LWEtY3Vyc29y"} {
		_, err := DecodeCursor(bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest), bad)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, PageRequest{}.Normalize().Size)
	assert.Equal(t, MaxPageSize, PageRequest{Size: 1000}.Normalize().Size)
	assert.Equal(t, 5, PageRequest{Size: 5}.Normalize().Size)
}
