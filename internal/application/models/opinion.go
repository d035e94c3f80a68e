package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
)

// OpinionKind identifies which specialist wrote an opinion.
type OpinionKind string

const (
	OpinionSocial OpinionKind = "social"
	OpinionLegal  OpinionKind = "legal"
)

func (k OpinionKind) IsValid() bool {
	return k == OpinionSocial || k == OpinionLegal
}

func (k OpinionKind) String() string { return string(k) }

// Legal recommendations form a closed set.
const (
	RecommendationFavorable   = "favorable"
	RecommendationUnfavorable = "unfavorable"
	RecommendationConditional = "conditional"
)

const (
	MinOpinionBodyLength       = 10
	MaxOpinionBodyLength       = 20000
	MaxSocialRecommendation    = 2000
	MaxLegalFundamentalsLength = 20000
)

// Opinion is a permanent, immutable specialist assessment.
// At most one exists per (ApplicationID, Kind).
type Opinion struct {
	ID             domain.OpinionID
	ApplicationID  domain.ApplicationID
	Kind           OpinionKind
	AuthorID       domain.UserID
	Body           string
	Fundamentals   string
	Recommendation string
	IssuedAt       time.Time
}

// OpinionDraft is the unvalidated content of an opinion.
type OpinionDraft struct {
	Kind           OpinionKind
	Body           string
	Fundamentals   string
	Recommendation string
}

// NewOpinion validates the draft and builds the opinion. The body and
// recommendation are stored trimmed.
func NewOpinion(id domain.OpinionID, app domain.ApplicationID, author domain.UserID, draft OpinionDraft, now time.Time) (*Opinion, error) {
	if !draft.Kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown opinion kind")
	}
	body := strings.TrimSpace(draft.Body)
	n := utf8.RuneCountInString(body)
	if n < MinOpinionBodyLength {
		return nil, dErrors.New(dErrors.CodeValidation, "opinion body must be at least 10 characters")
	}
	if n > MaxOpinionBodyLength {
		return nil, dErrors.New(dErrors.CodeValidation, "opinion body must be at most 20000 characters")
	}

	recommendation := strings.TrimSpace(draft.Recommendation)
	fundamentals := strings.TrimSpace(draft.Fundamentals)
	switch draft.Kind {
	case OpinionLegal:
		switch recommendation {
		case RecommendationFavorable, RecommendationUnfavorable, RecommendationConditional:
		case "":
			return nil, dErrors.New(dErrors.CodeValidation, "legal opinion requires a recommendation")
		default:
			return nil, dErrors.New(dErrors.CodeValidation, "recommendation must be favorable, unfavorable or conditional")
		}
		if utf8.RuneCountInString(fundamentals) > MaxLegalFundamentalsLength {
			return nil, dErrors.New(dErrors.CodeValidation, "fundamentals must be at most 20000 characters")
		}
	case OpinionSocial:
		if fundamentals != "" {
			return nil, dErrors.New(dErrors.CodeValidation, "fundamentals apply to legal opinions only")
		}
		if utf8.RuneCountInString(recommendation) > MaxSocialRecommendation {
			return nil, dErrors.New(dErrors.CodeValidation, "recommendation must be at most 2000 characters")
		}
	}

	return &Opinion{
		ID:             id,
		ApplicationID:  app,
		Kind:           draft.Kind,
		AuthorID:       author,
		Body:           body,
		Fundamentals:   fundamentals,
		Recommendation: recommendation,
		IssuedAt:       now,
	}, nil
}

// AuditNote is the trail note recorded when the opinion is issued.
func (k OpinionKind) AuditNote() string {
	return string(k) + " opinion issued"
}
