// Package memory is the in-process application store used in development
// and tests. A single lock serializes transactions and an undo log gives
// them all-or-nothing semantics.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"bolsas/internal/application/models"
	"bolsas/internal/application/store"
	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/sentinel"
)

type opinionKey struct {
	app  domain.ApplicationID
	kind models.OpinionKind
}

type activeKey struct {
	candidate domain.UserID
	call      domain.CallID
}

// InMemory implements store.Store.
type InMemory struct {
	mu       sync.RWMutex
	apps     map[domain.ApplicationID]*models.Application
	active   map[activeKey]domain.ApplicationID
	opinions map[opinionKey]*models.Opinion
	audit    map[domain.ApplicationID][]*models.AuditEntry
	timeout  time.Duration
}

type Option func(*InMemory)

// WithTxTimeout overrides store.DefaultTxTimeout.
func WithTxTimeout(d time.Duration) Option {
	return func(m *InMemory) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func New(opts ...Option) *InMemory {
	m := &InMemory{
		apps:     make(map[domain.ApplicationID]*models.Application),
		active:   make(map[activeKey]domain.ApplicationID),
		opinions: make(map[opinionKey]*models.Opinion),
		audit:    make(map[domain.ApplicationID][]*models.AuditEntry),
		timeout:  store.DefaultTxTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *InMemory) Ping(context.Context) error { return nil }

// RunInTx runs fn holding the store lock. If fn fails, or the context expires
// before fn returns, every write made through the Writer is undone.
func (m *InMemory) RunInTx(ctx context.Context, fn func(w store.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	// The transaction ends at the earlier of the caller's deadline and the
	// store timeout.
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	w := &writer{m: m}
	if err := fn(w); err != nil {
		w.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		w.rollback()
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted before commit")
	}
	return nil
}

func (m *InMemory) FindByID(_ context.Context, id domain.ApplicationID) (*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneApp(app), nil
}

func (m *InMemory) List(_ context.Context, q store.ListQuery) ([]*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Application, 0, q.Limit)
	for _, app := range m.apps {
		if !matches(app, q) {
			continue
		}
		out = append(out, cloneApp(app))
	}
	slices.SortFunc(out, func(a, b *models.Application) int { return a.ID.Compare(b.ID) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(app *models.Application, q store.ListQuery) bool {
	if q.AfterID != nil && app.ID.Compare(*q.AfterID) <= 0 {
		return false
	}
	if !q.AsOf.IsZero() && app.SubmittedAt.After(q.AsOf) {
		return false
	}
	if q.Filter.CallID != nil && app.CallID != *q.Filter.CallID {
		return false
	}
	if len(q.Filter.Statuses) > 0 && !slices.Contains(q.Filter.Statuses, app.Status) {
		return false
	}
	return true
}

func (m *InMemory) ListOpinions(_ context.Context, id domain.ApplicationID) ([]*models.Opinion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Opinion
	for _, kind := range []models.OpinionKind{models.OpinionSocial, models.OpinionLegal} {
		if op, ok := m.opinions[opinionKey{app: id, kind: kind}]; ok {
			cp := *op
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *InMemory) ListAudit(_ context.Context, id domain.ApplicationID) ([]*models.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.audit[id]
	out := make([]*models.AuditEntry, len(entries))
	for i, e := range entries {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}

func cloneApp(app *models.Application) *models.Application {
	cp := *app
	return &cp
}

// writer is only ever constructed by RunInTx and used while m.mu is held.
type writer struct {
	m    *InMemory
	undo []func()
}

func (w *writer) rollback() {
	for i := len(w.undo) - 1; i >= 0; i-- {
		w.undo[i]()
	}
	w.undo = nil
}

func (w *writer) FindByIDForUpdate(_ context.Context, id domain.ApplicationID) (*models.Application, error) {
	app, ok := w.m.apps[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneApp(app), nil
}

func (w *writer) Create(_ context.Context, app *models.Application) error {
	if _, exists := w.m.apps[app.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	key := activeKey{candidate: app.CandidateID, call: app.CallID}
	if app.Status != models.StatusCancelled {
		if _, taken := w.m.active[key]; taken {
			return sentinel.ErrAlreadyUsed
		}
		w.m.active[key] = app.ID
	}
	w.m.apps[app.ID] = cloneApp(app)
	w.undo = append(w.undo, func() {
		delete(w.m.apps, app.ID)
		if w.m.active[key] == app.ID {
			delete(w.m.active, key)
		}
	})
	return nil
}

func (w *writer) UpdateStatus(_ context.Context, app *models.Application, expected models.Status) error {
	current, ok := w.m.apps[app.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Status != expected {
		return sentinel.ErrConflict
	}
	prev := cloneApp(current)
	next := cloneApp(current)
	next.Status = app.Status
	next.Note = app.Note
	next.UpdatedAt = app.UpdatedAt
	next.Version = current.Version + 1
	app.Version = next.Version
	w.m.apps[app.ID] = next

	key := activeKey{candidate: current.CandidateID, call: current.CallID}
	releasedSlot := next.Status == models.StatusCancelled && w.m.active[key] == app.ID
	if releasedSlot {
		delete(w.m.active, key)
	}
	w.undo = append(w.undo, func() {
		w.m.apps[app.ID] = prev
		if releasedSlot {
			w.m.active[key] = app.ID
		}
	})
	return nil
}

func (w *writer) FindOpinion(_ context.Context, id domain.ApplicationID, kind models.OpinionKind) (*models.Opinion, error) {
	op, ok := w.m.opinions[opinionKey{app: id, kind: kind}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *op
	return &cp, nil
}

func (w *writer) InsertOpinion(_ context.Context, op *models.Opinion) error {
	key := opinionKey{app: op.ApplicationID, kind: op.Kind}
	if _, exists := w.m.opinions[key]; exists {
		return sentinel.ErrAlreadyUsed
	}
	cp := *op
	w.m.opinions[key] = &cp
	w.undo = append(w.undo, func() { delete(w.m.opinions, key) })
	return nil
}

func (w *writer) AppendAudit(_ context.Context, entry *models.AuditEntry) error {
	entries := w.m.audit[entry.ApplicationID]
	entry.SequenceNo = int64(len(entries)) + 1
	cp := *entry
	w.m.audit[entry.ApplicationID] = append(entries, &cp)
	w.undo = append(w.undo, func() {
		trail := w.m.audit[entry.ApplicationID]
		w.m.audit[entry.ApplicationID] = trail[:len(trail)-1]
	})
	return nil
}
