package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"bolsas/internal/application/adapters"
	appmetrics "bolsas/internal/application/metrics"
	"bolsas/internal/application/ports"
	"bolsas/internal/application/service"
	"bolsas/internal/application/store"
	"bolsas/internal/application/store/memory"
	pgstore "bolsas/internal/application/store/postgres"
	"bolsas/internal/platform/config"
	"bolsas/internal/platform/postgres"
	"bolsas/internal/platform/redis"
	"bolsas/migrations"
	"bolsas/pkg/platform/circuit"
	"bolsas/pkg/platform/events"
)

// infra holds the external resources selected by configuration. Every
// resource is optional; the service falls back to in-process stand-ins.
type infra struct {
	db        *sql.DB
	redis     *redis.Client
	kafka     *kgo.Client
	topic     string
	store     store.Store
	calls     ports.CallCatalog
	checklist ports.DocumentChecklist
}

func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{topic: cfg.Kafka.Topic}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxConns,
			MaxIdleConns:    cfg.Database.MaxConns / 2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		in.db = db
		if err := postgres.Migrate(ctx, db, migrations.FS); err != nil {
			in.Close()
			return nil, err
		}
		in.store = pgstore.New(db, pgstore.WithTxTimeout(cfg.Database.TxTimeout))
		in.calls = adapters.NewPostgresCallCatalog(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		in.store = memory.New(memory.WithTxTimeout(cfg.Database.TxTimeout))
		in.calls = adapters.NewStaticCallCatalog()
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.redis = rc

	if cfg.Documents.BaseURL != "" {
		breaker := circuit.New("documents")
		docs := adapters.NewDocumentsClient(cfg.Documents.BaseURL,
			adapters.WithBreaker(breaker),
			adapters.WithDocumentsLogger(log),
		)
		if rc != nil {
			in.checklist = adapters.NewCachedChecklist(docs, rc.Client, cfg.Documents.CacheTTL, log)
		} else {
			in.checklist = docs
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		client, err := adapters.NewKafkaClient(cfg.Kafka.Brokers, "bolsas")
		if err != nil {
			in.Close()
			return nil, err
		}
		in.kafka = client
		if err := adapters.EnsureTopic(ctx, client, cfg.Kafka.Topic, 3, 1); err != nil {
			in.Close()
			return nil, fmt.Errorf("ensure topic %s: %w", cfg.Kafka.Topic, err)
		}
	}

	return in, nil
}

// dispatcher builds the asynchronous notifier over Kafka when configured,
// otherwise over the structured log.
func (in *infra) dispatcher(log *slog.Logger, m *appmetrics.Metrics, drain time.Duration) *events.Dispatcher {
	var sink events.Sink = adapters.NewLogSink(log)
	if in.kafka != nil {
		sink = adapters.NewKafkaSink(in.kafka, in.topic)
	}
	return events.NewDispatcher(sink,
		events.WithLogger(log),
		events.WithObserver(m),
		events.WithDrainTimeout(drain),
	)
}

// Ready reports whether the store and the cache answer.
func (in *infra) Ready(ctx context.Context, svc *service.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	var errs []error
	if err := svc.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if in.redis != nil {
		if err := in.redis.Health(ctx); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}
