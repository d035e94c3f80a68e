// Package ports declares the collaborators the application service consumes
// but does not own.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"bolsas/internal/application/models"
	"bolsas/pkg/domain"
	"bolsas/pkg/platform/events"
)

// DocumentChecklist reports the evidence checklist of an application.
// It is read-only from this service's perspective and is always called
// outside any transaction.
type DocumentChecklist interface {
	Status(ctx context.Context, id domain.ApplicationID) (*models.ChecklistSummary, error)
}

// ChecklistInvalidator is implemented by checklist sources that cache
// summaries. The service drops the cached entry after a committed
// transition.
type ChecklistInvalidator interface {
	Invalidate(ctx context.Context, id domain.ApplicationID) error
}

// Notifier receives committed lifecycle events. Delivery is best effort;
// an error never undoes the mutation that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event events.Event) error
}

// CallCatalog answers whether a call exists and accepts applications.
type CallCatalog interface {
	Exists(ctx context.Context, id domain.CallID) (bool, error)
}
