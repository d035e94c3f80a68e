package models

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
)

// ChecklistSummary is the read-only document checklist fact.
type ChecklistSummary struct {
	Complete bool
	Counts   map[string]int
}

// ApplicationView is the composed read model returned by Get.
// AuditTrail is nil when the caller's scope hides it. Checklist is nil when
// the checklist collaborator could not answer.
type ApplicationView struct {
	Application        *Application
	SocialOpinion      *Opinion
	LegalOpinion       *Opinion
	AuditTrail         []*AuditEntry
	AuditTrailIncluded bool
	Checklist          *ChecklistSummary
	ChecklistAvailable bool
}

// Filter narrows the review queue.
type Filter struct {
	Statuses []Status
	CallID   *domain.CallID
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest asks for one page of the queue.
type PageRequest struct {
	Size   int
	Cursor *Cursor
}

// Normalize clamps the size into [1, MaxPageSize].
func (p PageRequest) Normalize() PageRequest {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Page is one page of applications ordered by ID. Next is nil on the last page.
type Page struct {
	Items []*Application
	Next  *Cursor
}

// Cursor resumes a listing after AfterID. AsOf pins the snapshot taken when
// the first page was read; rows submitted later never appear in the listing.
type Cursor struct {
	AfterID domain.ApplicationID
	AsOf    time.Time
}

// Encode renders an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw := c.AfterID.String() + "." + strconv.FormatInt(c.AsOf.UnixNano(), 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Encode.
func DecodeCursor(token string) (*Cursor, error) {
	invalid := dErrors.New(dErrors.CodeBadRequest, "invalid cursor")
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, invalid
	}
	idPart, tsPart, ok := strings.Cut(string(raw), ".")
	if !ok {
		return nil, invalid
	}
	after, err := domain.ParseApplicationID(idPart)
	if err != nil {
		return nil, invalid
	}
	nanos, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil || nanos <= 0 {
		return nil, invalid
	}
	return &Cursor{AfterID: after, AsOf: time.Unix(0, nanos).UTC()}, nil
}
