// Package postgres implements the application store on PostgreSQL.
//
// Mutations are serialized per application with SELECT ... FOR UPDATE on the
// application row. Status changes are additionally guarded by a
// compare-and-swap on the previously read status, and the unique keys on
// opinions (application_id, kind) and audit_entries (application_id,
// sequence_no) back the aggregate invariants at the storage level.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bolsas/internal/application/models"
	"bolsas/internal/application/store"
	pgplatform "bolsas/internal/platform/postgres"
	"bolsas/pkg/domain"
	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/sentinel"
)

const (
	constraintOneActivePerCall = "applications_one_active_per_call"
	constraintApplicationsPkey = "applications_pkey"
	constraintOpinionPerKind   = "opinions_one_per_kind"
	constraintAuditSequence    = "audit_entries_pkey"
)

const applicationColumns = `id, candidate_id, call_id, status, note, submitted_at, updated_at, version`

const (
	queryFindByID          = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	queryFindByIDForUpdate = queryFindByID + ` FOR UPDATE`
	queryList              = `SELECT ` + applicationColumns + ` FROM applications
		WHERE ($1::text IS NULL OR id > $1)
		  AND ($2::timestamptz IS NULL OR submitted_at <= $2)
		  AND ($3::uuid IS NULL OR call_id = $3)
		  AND (cardinality($4::text[]) = 0 OR status = ANY($4::text[]))
		ORDER BY id
		LIMIT $5`
	queryInsertApplication = `INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	queryUpdateStatus = `UPDATE applications
		SET status = $2, note = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND status = $5
		RETURNING version`

	opinionColumns      = `id, application_id, kind, author_id, body, fundamentals, recommendation, issued_at`
	queryFindOpinion    = `SELECT ` + opinionColumns + ` FROM opinions WHERE application_id = $1 AND kind = $2`
	queryListOpinions   = `SELECT ` + opinionColumns + ` FROM opinions WHERE application_id = $1 ORDER BY kind DESC`
	queryInsertOpinion  = `INSERT INTO opinions (` + opinionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	queryAppendAudit    = `INSERT INTO audit_entries (application_id, sequence_no, actor_id, status_at_event, note, occurred_at)
		SELECT $1, COALESCE(MAX(sequence_no), 0) + 1, $2, $3, $4, $5
		FROM audit_entries WHERE application_id = $1
		RETURNING sequence_no`
	queryListAudit = `SELECT application_id, sequence_no, actor_id, status_at_event, note, occurred_at
		FROM audit_entries WHERE application_id = $1 ORDER BY sequence_no`
)

// Store implements store.Store.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

type Option func(*Store)

// WithTxTimeout overrides store.DefaultTxTimeout.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, timeout: store.DefaultTxTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunInTx runs fn in a read-committed transaction and commits when fn
// returns nil.
func (s *Store) RunInTx(ctx context.Context, fn func(w store.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	// The transaction ends at the earlier of the caller's deadline and the
	// store timeout.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&txWriter{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) FindByID(ctx context.Context, id domain.ApplicationID) (*models.Application, error) {
	return findApplication(ctx, s.db, queryFindByID, id)
}

func (s *Store) List(ctx context.Context, q store.ListQuery) ([]*models.Application, error) {
	var after sql.NullString
	if q.AfterID != nil {
		after = sql.NullString{String: q.AfterID.String(), Valid: true}
	}
	var asOf sql.NullTime
	if !q.AsOf.IsZero() {
		asOf = sql.NullTime{Time: q.AsOf, Valid: true}
	}
	var call uuid.NullUUID
	if q.Filter.CallID != nil {
		call = uuid.NullUUID{UUID: uuid.UUID(*q.Filter.CallID), Valid: true}
	}
	statuses := make([]string, len(q.Filter.Statuses))
	for i, st := range q.Filter.Statuses {
		statuses[i] = st.String()
	}
	limit := q.Limit
	if limit <= 0 {
		limit = models.MaxPageSize
	}

	rows, err := s.db.QueryContext(ctx, queryList, after, asOf, call, pq.Array(statuses), limit)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}

func (s *Store) ListOpinions(ctx context.Context, id domain.ApplicationID) ([]*models.Opinion, error) {
	rows, err := s.db.QueryContext(ctx, queryListOpinions, id.String())
	if err != nil {
		return nil, fmt.Errorf("list opinions: %w", err)
	}
	defer rows.Close()

	var out []*models.Opinion
	for rows.Next() {
		op, err := scanOpinion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opinions: %w", err)
	}
	return out, nil
}

func (s *Store) ListAudit(ctx context.Context, id domain.ApplicationID) ([]*models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, queryListAudit, id.String())
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []*models.AuditEntry
	for rows.Next() {
		var (
			appID  string
			entry  models.AuditEntry
			actor  uuid.UUID
			status string
		)
		if err := rows.Scan(&appID, &entry.SequenceNo, &actor, &status, &entry.Note, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		parsed, err := domain.ParseApplicationID(appID)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ApplicationID = parsed
		entry.ActorID = domain.UserID(actor)
		entry.StatusAtEvent = models.Status(status)
		out = append(out, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return out, nil
}

// txWriter is constructed only by RunInTx.
type txWriter struct {
	tx *sql.Tx
}

func (w *txWriter) FindByIDForUpdate(ctx context.Context, id domain.ApplicationID) (*models.Application, error) {
	return findApplication(ctx, w.tx, queryFindByIDForUpdate, id)
}

func (w *txWriter) Create(ctx context.Context, app *models.Application) error {
	_, err := w.tx.ExecContext(ctx, queryInsertApplication,
		app.ID.String(),
		uuid.UUID(app.CandidateID),
		uuid.UUID(app.CallID),
		app.Status.String(),
		app.Note,
		app.SubmittedAt,
		app.UpdatedAt,
		app.Version,
	)
	if err != nil {
		if pgplatform.IsUniqueViolation(err, constraintOneActivePerCall) ||
			pgplatform.IsUniqueViolation(err, constraintApplicationsPkey) {
			return fmt.Errorf("insert application: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (w *txWriter) UpdateStatus(ctx context.Context, app *models.Application, expected models.Status) error {
	var version int64
	err := w.tx.QueryRowContext(ctx, queryUpdateStatus,
		app.ID.String(),
		app.Status.String(),
		app.Note,
		app.UpdatedAt,
		expected.String(),
	).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update application status: %w", err)
	}
	app.Version = version
	return nil
}

func (w *txWriter) FindOpinion(ctx context.Context, id domain.ApplicationID, kind models.OpinionKind) (*models.Opinion, error) {
	op, err := scanOpinion(w.tx.QueryRowContext(ctx, queryFindOpinion, id.String(), kind.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return op, nil
}

func (w *txWriter) InsertOpinion(ctx context.Context, op *models.Opinion) error {
	_, err := w.tx.ExecContext(ctx, queryInsertOpinion,
		uuid.UUID(op.ID),
		op.ApplicationID.String(),
		op.Kind.String(),
		uuid.UUID(op.AuthorID),
		op.Body,
		op.Fundamentals,
		op.Recommendation,
		op.IssuedAt,
	)
	if err != nil {
		if pgplatform.IsUniqueViolation(err, constraintOpinionPerKind) {
			return fmt.Errorf("insert opinion: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert opinion: %w", err)
	}
	return nil
}

func (w *txWriter) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	err := w.tx.QueryRowContext(ctx, queryAppendAudit,
		entry.ApplicationID.String(),
		uuid.UUID(entry.ActorID),
		entry.StatusAtEvent.String(),
		entry.Note,
		entry.OccurredAt,
	).Scan(&entry.SequenceNo)
	if err != nil {
		if pgplatform.IsUniqueViolation(err, constraintAuditSequence) {
			return fmt.Errorf("append audit entry: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func findApplication(ctx context.Context, q queryer, query string, id domain.ApplicationID) (*models.Application, error) {
	app, err := scanApplication(q.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		id        string
		candidate uuid.UUID
		call      uuid.UUID
		status    string
		app       models.Application
	)
	if err := row.Scan(&id, &candidate, &call, &status, &app.Note, &app.SubmittedAt, &app.UpdatedAt, &app.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	parsed, err := domain.ParseApplicationID(id)
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}
	app.ID = parsed
	app.CandidateID = domain.UserID(candidate)
	app.CallID = domain.CallID(call)
	app.Status = models.Status(status)
	return &app, nil
}

func scanOpinion(row rowScanner) (*models.Opinion, error) {
	var (
		id     uuid.UUID
		appID  string
		kind   string
		author uuid.UUID
		op     models.Opinion
	)
	if err := row.Scan(&id, &appID, &kind, &author, &op.Body, &op.Fundamentals, &op.Recommendation, &op.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan opinion: %w", err)
	}
	parsed, err := domain.ParseApplicationID(appID)
	if err != nil {
		return nil, fmt.Errorf("scan opinion: %w", err)
	}
	op.ID = domain.OpinionID(id)
	op.ApplicationID = parsed
	op.Kind = models.OpinionKind(kind)
	op.AuthorID = domain.UserID(author)
	return &op, nil
}
