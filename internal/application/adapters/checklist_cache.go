package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"bolsas/internal/application/models"
	"bolsas/internal/application/ports"
	"bolsas/pkg/domain"
)

const (
	checklistKeyPrefix  = "bolsas:checklist:"
	defaultChecklistTTL = 30 * time.Second
)

// CachedChecklist puts a Redis cache-aside in front of another checklist
// source. Cache errors are logged and bypassed; they never fail a read.
type CachedChecklist struct {
	next   ports.DocumentChecklist
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.ChecklistInvalidator = (*CachedChecklist)(nil)

// NewCachedChecklist wraps next. A non-positive ttl uses the default.
func NewCachedChecklist(next ports.DocumentChecklist, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedChecklist {
	if ttl <= 0 {
		ttl = defaultChecklistTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedChecklist{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedChecklist) Status(ctx context.Context, id domain.ApplicationID) (*models.ChecklistSummary, error) {
	key := checklistKeyPrefix + id.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached checklistResponse
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &models.ChecklistSummary{Complete: cached.Complete, Counts: cached.Counts}, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt checklist cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "checklist cache read failed", "key", key, "error", err)
	}

	summary, err := c.next.Status(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(checklistResponse{Complete: summary.Complete, Counts: summary.Counts})
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "checklist cache write failed", "key", key, "error", err)
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary for id.
func (c *CachedChecklist) Invalidate(ctx context.Context, id domain.ApplicationID) error {
	return c.client.Del(ctx, checklistKeyPrefix+id.String()).Err()
}
