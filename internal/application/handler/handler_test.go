package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bolsas/internal/application/handler/mocks"
	"bolsas/internal/application/models"
	jwttoken "bolsas/internal/jwt_token"
	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	jwt     *jwttoken.JWTService
	router  http.Handler
	now     time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.jwt = jwttoken.NewJWTService("test-signing-key", "bolsas", "bolsas-api")
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.service, logger, jwttoken.NewJWTServiceAdapter(s.jwt))
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) token(actor domain.Actor) string {
	tok, err := s.jwt.GenerateAccessToken(actor.ID, actor.Role, time.Hour)
	s.Require().NoError(err)
	return tok
}

func (s *HandlerSuite) do(actor domain.Actor, method, path string, body any) *httptest.ResponseRecorder {
	req := testutil.WithBearer(testutil.NewJSONRequest(s.T(), method, path, body), s.token(actor))
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) app(candidate domain.UserID, status models.Status) *models.Application {
	return &models.Application{
		ID:          domain.NewApplicationID(s.now),
		CandidateID: candidate,
		CallID:      domain.CallID(uuid.New()),
		Status:      status,
		SubmittedAt: s.now,
		UpdatedAt:   s.now,
		Version:     1,
	}
}

func (s *HandlerSuite) TestAuthentication() {
	s.Run("missing token is unauthorized", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/applications", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("token signed with another key is unauthorized", func() {
		other := jwttoken.NewJWTService("another-key", "bolsas", "bolsas-api")
		actor := testutil.NewActor(domain.RoleSupervisor)
		tok, err := other.GenerateAccessToken(actor.ID, actor.Role, time.Hour)
		s.Require().NoError(err)
		req := testutil.WithBearer(testutil.NewJSONRequest(s.T(), http.MethodGet, "/applications", nil), tok)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})
}

func (s *HandlerSuite) TestSubmit() {
	candidate := testutil.NewActor(domain.RoleCandidate)

	s.Run("created", func() {
		app := s.app(candidate.ID, models.StatusSubmitted)
		s.service.EXPECT().Submit(gomock.Any(), candidate, app.CallID).Return(app, nil)

		rr := s.do(candidate, http.MethodPost, "/applications", SubmitApplicationRequest{CallID: app.CallID.String()})
		s.Equal(http.StatusCreated, rr.Code, rr.Body.String())
		resp := testutil.UnmarshalResponse[ApplicationResponse](s.T(), rr)
		s.Equal(app.ID.String(), resp.ID)
		s.Equal("submitted", resp.Status)
	})

	s.Run("staff are stopped before the service", func() {
		rr := s.do(testutil.NewActor(domain.RoleSupervisor), http.MethodPost, "/applications", SubmitApplicationRequest{CallID: uuid.NewString()})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("malformed call id", func() {
		rr := s.do(candidate, http.MethodPost, "/applications", SubmitApplicationRequest{CallID: "nope"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("unknown fields are rejected", func() {
		req := testutil.WithBearer(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/applications", `{"call":"x"}`), s.token(candidate))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("duplicate is a conflict", func() {
		call := domain.CallID(uuid.New())
		s.service.EXPECT().Submit(gomock.Any(), candidate, call).
			Return(nil, dErrors.New(dErrors.CodeConflict, "candidate already has an active application for this call"))
		rr := s.do(candidate, http.MethodPost, "/applications", SubmitApplicationRequest{CallID: call.String()})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})
}

func (s *HandlerSuite) TestList() {
	caseworker := testutil.NewActor(domain.RoleSocialCaseworker)

	s.Run("filters and cursor are parsed", func() {
		call := domain.CallID(uuid.New())
		first := s.app(domain.UserID(uuid.New()), models.StatusUnderReview)
		next := &models.Cursor{AfterID: first.ID, AsOf: s.now}

		s.service.EXPECT().List(gomock.Any(), caseworker, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Actor, f models.Filter, p models.PageRequest) (*models.Page, error) {
				s.Equal([]models.Status{models.StatusUnderReview, models.StatusSubmitted}, f.Statuses)
				s.Require().NotNil(f.CallID)
				s.Equal(call, *f.CallID)
				s.Equal(1, p.Size)
				return &models.Page{Items: []*models.Application{first}, Next: next}, nil
			})

		rr := s.do(caseworker, http.MethodGet, "/applications?status=under_review,submitted&page_size=1&call_id="+call.String(), nil)
		s.Equal(http.StatusOK, rr.Code, rr.Body.String())
		resp := testutil.UnmarshalResponse[ListApplicationsResponse](s.T(), rr)
		s.Require().Len(resp.Items, 1)
		s.Equal(next.Encode(), resp.NextCursor)
	})

	s.Run("bad cursor", func() {
		rr := s.do(caseworker, http.MethodGet, "/applications?cursor=not-a-cursor", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("legal reviewer cannot list the queue", func() {
		rr := s.do(testutil.NewActor(domain.RoleLegalReviewer), http.MethodGet, "/applications", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})
}

func (s *HandlerSuite) TestGet() {
	legal := testutil.NewActor(domain.RoleLegalReviewer)
	app := s.app(domain.UserID(uuid.New()), models.StatusUnderReview)

	s.Run("restricted view omits the trail", func() {
		s.service.EXPECT().Get(gomock.Any(), legal, app.ID).Return(&models.ApplicationView{
			Application:        app,
			AuditTrailIncluded: false,
			ChecklistAvailable: false,
		}, nil)

		rr := s.do(legal, http.MethodGet, "/applications/"+app.ID.String(), nil)
		s.Equal(http.StatusOK, rr.Code, rr.Body.String())
		body := rr.Body.String()
		s.NotContains(body, "audit_trail")
		s.Contains(body, `"checklist":null`)
		s.Contains(body, `"checklist_available":false`)
	})

	s.Run("malformed id", func() {
		rr := s.do(legal, http.MethodGet, "/applications/not-a-ulid", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("not found", func() {
		missing := domain.NewApplicationID(s.now)
		s.service.EXPECT().Get(gomock.Any(), legal, missing).Return(nil, dErrors.New(dErrors.CodeNotFound, "application not found"))
		rr := s.do(legal, http.MethodGet, "/applications/"+missing.String(), nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestChangeStatus() {
	supervisor := testutil.NewActor(domain.RoleSupervisor)
	app := s.app(domain.UserID(uuid.New()), models.StatusSubmitted)

	s.Run("accepted", func() {
		moved := *app
		moved.Status = models.StatusUnderReview
		s.service.EXPECT().ChangeStatus(gomock.Any(), supervisor, app.ID, models.StatusUnderReview, "ok").Return(&moved, nil)

		rr := s.do(supervisor, http.MethodPost, "/applications/"+app.ID.String()+"/status", ChangeStatusRequest{Status: "under_review", Note: " ok "})
		s.Equal(http.StatusOK, rr.Code, rr.Body.String())
		s.Equal("under_review", testutil.UnmarshalResponse[ApplicationResponse](s.T(), rr).Status)
	})

	s.Run("unknown status is a validation error", func() {
		rr := s.do(supervisor, http.MethodPost, "/applications/"+app.ID.String()+"/status", ChangeStatusRequest{Status: "reopened"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")
	})

	s.Run("oversight is stopped by the capability gate", func() {
		rr := s.do(testutil.NewActor(domain.RoleOversight), http.MethodPost, "/applications/"+app.ID.String()+"/status", ChangeStatusRequest{Status: "under_review"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("internal errors hide their description", func() {
		s.service.EXPECT().ChangeStatus(gomock.Any(), supervisor, app.ID, models.StatusUnderReview, "").
			Return(nil, dErrors.New(dErrors.CodeInternal, "pq: connection refused"))
		rr := s.do(supervisor, http.MethodPost, "/applications/"+app.ID.String()+"/status", ChangeStatusRequest{Status: "under_review"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
		s.NotContains(rr.Body.String(), "connection refused")
	})
}

func (s *HandlerSuite) TestCancel() {
	candidate := testutil.NewActor(domain.RoleCandidate)
	app := s.app(candidate.ID, models.StatusDocumentationPending)

	testutil.Given(s.T(), "a pending application owned by the caller", func(t *testing.T) {
		testutil.When(t, "the candidate cancels twice", func(t *testing.T) {
			cancelled := *app
			cancelled.Status = models.StatusCancelled
			gomock.InOrder(
				s.service.EXPECT().CancelApplication(gomock.Any(), candidate, app.ID).Return(&cancelled, nil),
				s.service.EXPECT().CancelApplication(gomock.Any(), candidate, app.ID).Return(nil, dErrors.New(dErrors.CodeConflict, "terminal state")),
			)

			first := s.do(candidate, http.MethodPost, "/applications/"+app.ID.String()+"/cancel", nil)
			second := s.do(candidate, http.MethodPost, "/applications/"+app.ID.String()+"/cancel", nil)

			testutil.Then(t, "the first succeeds and the retry conflicts", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, first.Code)
				testutil.AssertStatusAndError(t, second, http.StatusConflict, "conflict")
			})
		})
	})

	s.Run("staff cannot reach cancel", func() {
		rr := s.do(testutil.NewActor(domain.RoleInstitutionAdmin), http.MethodPost, "/applications/"+app.ID.String()+"/cancel", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})
}

func (s *HandlerSuite) TestOpinions() {
	caseworker := testutil.NewActor(domain.RoleSocialCaseworker)
	legal := testutil.NewActor(domain.RoleLegalReviewer)
	app := s.app(domain.UserID(uuid.New()), models.StatusUnderReview)

	s.Run("social opinion created", func() {
		op := &models.Opinion{
			ID:            domain.NewOpinionID(),
			ApplicationID: app.ID,
			Kind:          models.OpinionSocial,
			AuthorID:      caseworker.ID,
			Body:          "household visit completed",
			IssuedAt:      s.now,
		}
		s.service.EXPECT().IssueSocialOpinion(gomock.Any(), caseworker, app.ID, op.Body, "").Return(op, nil)

		rr := s.do(caseworker, http.MethodPost, "/applications/"+app.ID.String()+"/opinions/social", IssueSocialOpinionRequest{Body: op.Body})
		s.Equal(http.StatusCreated, rr.Code, rr.Body.String())
		resp := testutil.UnmarshalResponse[OpinionResponse](s.T(), rr)
		s.Equal("social", resp.Kind)
		s.Equal(caseworker.ID.String(), resp.AuthorID)
	})

	s.Run("short body is a validation error", func() {
		s.service.EXPECT().IssueSocialOpinion(gomock.Any(), caseworker, app.ID, "abc", "").
			Return(nil, dErrors.New(dErrors.CodeValidation, "opinion body must be at least 10 characters"))
		rr := s.do(caseworker, http.MethodPost, "/applications/"+app.ID.String()+"/opinions/social", IssueSocialOpinionRequest{Body: "abc"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")
	})

	s.Run("caseworker cannot issue the legal opinion", func() {
		rr := s.do(caseworker, http.MethodPost, "/applications/"+app.ID.String()+"/opinions/legal",
			IssueLegalOpinionRequest{Body: "reasonable legal reasoning", Recommendation: "favorable"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("legal opinion passes fundamentals through", func() {
		op := &models.Opinion{ID: domain.NewOpinionID(), ApplicationID: app.ID, Kind: models.OpinionLegal, AuthorID: legal.ID, IssuedAt: s.now}
		s.service.EXPECT().IssueLegalOpinion(gomock.Any(), legal, app.ID, "reasonable legal reasoning", "art. 5", "favorable").Return(op, nil)
		rr := s.do(legal, http.MethodPost, "/applications/"+app.ID.String()+"/opinions/legal",
			IssueLegalOpinionRequest{Body: "reasonable legal reasoning", Fundamentals: "art. 5", Recommendation: "favorable"})
		s.Equal(http.StatusCreated, rr.Code, rr.Body.String())
	})
}

func (s *HandlerSuite) TestAuditTrail() {
	owner := testutil.NewActor(domain.RoleCandidate)
	app := s.app(owner.ID, models.StatusSubmitted)
	entries := []*models.AuditEntry{
		{ApplicationID: app.ID, SequenceNo: 1, ActorID: owner.ID, StatusAtEvent: models.StatusSubmitted, Note: models.NoteSubmitted, OccurredAt: s.now},
	}
	s.service.EXPECT().ListAuditTrail(gomock.Any(), owner, app.ID).Return(entries, nil)

	rr := s.do(owner, http.MethodGet, "/applications/"+app.ID.String()+"/audit", nil)
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
	resp := testutil.UnmarshalResponse[AuditTrailResponse](s.T(), rr)
	require.Len(s.T(), resp.Entries, 1)
	s.Equal(int64(1), resp.Entries[0].SequenceNo)
	s.Equal(app.ID.String(), resp.ApplicationID)

	s.Run("legal reviewer cannot read the trail", func() {
		rr := s.do(testutil.NewActor(domain.RoleLegalReviewer), http.MethodGet, "/applications/"+app.ID.String()+"/audit", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})
}
