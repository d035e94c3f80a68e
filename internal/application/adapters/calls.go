package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bolsas/pkg/domain"
)

const queryCallOpen = `
	SELECT EXISTS (
		SELECT 1 FROM calls
		WHERE id = $1
		  AND active
		  AND opens_at <= $2
		  AND (closes_at IS NULL OR closes_at > $2)
	)`

// PostgresCallCatalog answers from the read-only calls table.
type PostgresCallCatalog struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresCallCatalog(db *sql.DB) *PostgresCallCatalog {
	return &PostgresCallCatalog{db: db, now: time.Now}
}

// Exists reports whether the call exists and is currently accepting
// applications.
func (c *PostgresCallCatalog) Exists(ctx context.Context, id domain.CallID) (bool, error) {
	var open bool
	if err := c.db.QueryRowContext(ctx, queryCallOpen, id.String(), c.now().UTC()).Scan(&open); err != nil {
		return false, fmt.Errorf("check call %s: %w", id, err)
	}
	return open, nil
}

// StaticCallCatalog serves a fixed set of open calls. An empty catalog
// accepts every call, which is what the in-memory development mode uses.
type StaticCallCatalog struct {
	open map[domain.CallID]struct{}
}

func NewStaticCallCatalog(ids ...domain.CallID) *StaticCallCatalog {
	open := make(map[domain.CallID]struct{}, len(ids))
	for _, id := range ids {
		open[id] = struct{}{}
	}
	return &StaticCallCatalog{open: open}
}

func (c *StaticCallCatalog) Exists(_ context.Context, id domain.CallID) (bool, error) {
	if len(c.open) == 0 {
		return true, nil
	}
	_, ok := c.open[id]
	return ok, nil
}
