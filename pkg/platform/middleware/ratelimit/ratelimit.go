// Package ratelimit throttles requests with one token bucket per caller.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	dErrors "bolsas/pkg/domain-errors"
	"bolsas/pkg/platform/httputil"
	"bolsas/pkg/requestcontext"
)

const (
	defaultIdleTTL       = 5 * time.Minute
	defaultSweepInterval = time.Minute
)

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps a token bucket per key. Keys are the authenticated user ID
// when present and the client IP otherwise.
type Limiter struct {
	perSecond rate.Limit
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu      sync.Mutex
	buckets map[string]*bucket
}

// New creates a limiter allowing perSecond sustained requests with the given burst.
func New(perSecond float64, burst int, logger *slog.Logger) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		idleTTL:   defaultIdleTTL,
		now:       time.Now,
		logger:    logger,
		buckets:   make(map[string]*bucket),
	}
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.perSecond, l.burst)}
		l.buckets[key] = b
	}
	now := l.now()
	b.lastSeen = now
	l.mu.Unlock()
	return b.lim.AllowN(now, 1)
}

// Sweep removes buckets idle for longer than the TTL.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.idleTTL)
	for k, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}

// Run sweeps idle buckets until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Middleware rejects callers that exhausted their bucket with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := keyFor(ctx)
		if !l.Allow(key) {
			l.logger.WarnContext(ctx, "rate limit exceeded",
				"key", key,
				"request_id", requestcontext.RequestID(ctx),
			)
			w.Header().Set("Retry-After", "1")
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func keyFor(ctx context.Context) string {
	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		return "user:" + userID.String()
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}
