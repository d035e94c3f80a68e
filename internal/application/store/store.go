// Package store defines persistence for the application aggregate.
//
// Reads go through Reader. Every write goes through the Writer handed to the
// callback of RunInTx; implementations never expose a Writer outside a
// transaction, so opinions and audit entries cannot be written on their own.
// Implementations live in the memory and postgres subpackages and report
// infrastructure facts as pkg/platform/sentinel errors.
package store

import (
	"context"
	"time"

	"bolsas/internal/application/models"
	"bolsas/pkg/domain"
)

// DefaultTxTimeout bounds a transaction whose context carries no deadline.
const DefaultTxTimeout = 5 * time.Second

// ListQuery selects one keyset page of applications ordered by ID.
type ListQuery struct {
	Filter  models.Filter
	AfterID *domain.ApplicationID
	AsOf    time.Time
	Limit   int
}

// Reader serves the read model. Results are copies; mutating them has no
// effect on stored state.
type Reader interface {
	FindByID(ctx context.Context, id domain.ApplicationID) (*models.Application, error)
	List(ctx context.Context, q ListQuery) ([]*models.Application, error)
	ListOpinions(ctx context.Context, id domain.ApplicationID) ([]*models.Opinion, error)
	ListAudit(ctx context.Context, id domain.ApplicationID) ([]*models.AuditEntry, error)
}

// Writer mutates one application aggregate inside a transaction.
type Writer interface {
	// FindByIDForUpdate loads the application and locks it until the
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id domain.ApplicationID) (*models.Application, error)

	// Create inserts a new application. It returns sentinel.ErrAlreadyUsed
	// when the candidate already holds a non-cancelled application for the call.
	Create(ctx context.Context, app *models.Application) error

	// UpdateStatus writes app's status, note, UpdatedAt and Version only if
	// the stored status still equals expected; otherwise sentinel.ErrConflict.
	UpdateStatus(ctx context.Context, app *models.Application, expected models.Status) error

	// FindOpinion returns sentinel.ErrNotFound when no opinion of kind exists.
	FindOpinion(ctx context.Context, id domain.ApplicationID, kind models.OpinionKind) (*models.Opinion, error)

	// InsertOpinion returns sentinel.ErrAlreadyUsed when (application, kind) exists.
	InsertOpinion(ctx context.Context, op *models.Opinion) error

	// AppendAudit assigns entry.SequenceNo = previous max + 1 and inserts it.
	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
}

// Store is the full persistence port consumed by the service.
type Store interface {
	Reader
	RunInTx(ctx context.Context, fn func(w Writer) error) error
	Ping(ctx context.Context) error
}
