package handler

import (
	"time"

	"bolsas/internal/application/models"
)

// SubmitApplicationRequest is the body of POST /applications.
type SubmitApplicationRequest struct {
	CallID string `json:"call_id"`
}

// ChangeStatusRequest is the body of POST /applications/{id}/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// IssueSocialOpinionRequest is the body of POST /applications/{id}/opinions/social.
type IssueSocialOpinionRequest struct {
	Body           string `json:"body"`
	Recommendation string `json:"recommendation,omitempty"`
}

// IssueLegalOpinionRequest is the body of POST /applications/{id}/opinions/legal.
type IssueLegalOpinionRequest struct {
	Body           string `json:"body"`
	Fundamentals   string `json:"fundamentals,omitempty"`
	Recommendation string `json:"recommendation"`
}

type ApplicationResponse struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	CallID      string    `json:"call_id"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

type OpinionResponse struct {
	ID             string    `json:"id"`
	ApplicationID  string    `json:"application_id"`
	Kind           string    `json:"kind"`
	AuthorID       string    `json:"author_id"`
	Body           string    `json:"body"`
	Fundamentals   string    `json:"fundamentals,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
	IssuedAt       time.Time `json:"issued_at"`
}

type AuditEntryResponse struct {
	SequenceNo    int64     `json:"sequence_no"`
	ActorID       string    `json:"actor_id"`
	StatusAtEvent string    `json:"status_at_event"`
	Note          string    `json:"note,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type ChecklistResponse struct {
	Complete bool           `json:"complete"`
	Counts   map[string]int `json:"counts"`
}

// ApplicationDetailResponse is the composed record returned by
// GET /applications/{id}. AuditTrail is absent in restricted views.
type ApplicationDetailResponse struct {
	ApplicationResponse
	SocialOpinion      *OpinionResponse     `json:"social_opinion"`
	LegalOpinion       *OpinionResponse     `json:"legal_opinion"`
	AuditTrail         []AuditEntryResponse `json:"audit_trail,omitempty"`
	Checklist          *ChecklistResponse   `json:"checklist"`
	ChecklistAvailable bool                 `json:"checklist_available"`
}

type ListApplicationsResponse struct {
	Items      []ApplicationResponse `json:"items"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

type AuditTrailResponse struct {
	ApplicationID string               `json:"application_id"`
	Entries       []AuditEntryResponse `json:"entries"`
}

func toApplicationResponse(app *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          app.ID.String(),
		CandidateID: app.CandidateID.String(),
		CallID:      app.CallID.String(),
		Status:      app.Status.String(),
		Note:        app.Note,
		SubmittedAt: app.SubmittedAt,
		UpdatedAt:   app.UpdatedAt,
		Version:     app.Version,
	}
}

func toOpinionResponse(op *models.Opinion) *OpinionResponse {
	if op == nil {
		return nil
	}
	return &OpinionResponse{
		ID:             op.ID.String(),
		ApplicationID:  op.ApplicationID.String(),
		Kind:           op.Kind.String(),
		AuthorID:       op.AuthorID.String(),
		Body:           op.Body,
		Fundamentals:   op.Fundamentals,
		Recommendation: op.Recommendation,
		IssuedAt:       op.IssuedAt,
	}
}

func toAuditResponses(entries []*models.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			SequenceNo:    e.SequenceNo,
			ActorID:       e.ActorID.String(),
			StatusAtEvent: e.StatusAtEvent.String(),
			Note:          e.Note,
			OccurredAt:    e.OccurredAt,
		})
	}
	return out
}

func toDetailResponse(view *models.ApplicationView) ApplicationDetailResponse {
	resp := ApplicationDetailResponse{
		ApplicationResponse: toApplicationResponse(view.Application),
		SocialOpinion:       toOpinionResponse(view.SocialOpinion),
		LegalOpinion:        toOpinionResponse(view.LegalOpinion),
		ChecklistAvailable:  view.ChecklistAvailable,
	}
	if view.AuditTrailIncluded {
		resp.AuditTrail = toAuditResponses(view.AuditTrail)
	}
	if view.Checklist != nil {
		resp.Checklist = &ChecklistResponse{Complete: view.Checklist.Complete, Counts: view.Checklist.Counts}
	}
	return resp
}
