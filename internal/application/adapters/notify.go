package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"bolsas/pkg/platform/events"
)

// producer is the slice of *kgo.Client the sink needs.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink publishes lifecycle events to a Kafka topic, keyed by
// application ID so one application's events stay ordered.
type KafkaSink struct {
	producer producer
	topic    string
}

func NewKafkaSink(client *kgo.Client, topic string) *KafkaSink {
	return &KafkaSink{producer: client, topic: topic}
}

// NewKafkaClient connects a producer to brokers.
func NewKafkaClient(brokers []string, clientID string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// EnsureTopic creates topic if the cluster does not have it yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicas int16) error {
	adm := kadm.NewClient(client)
	_, err := adm.CreateTopic(ctx, partitions, replicas, nil, topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}

// Deliver implements events.Sink.
func (k *KafkaSink) Deliver(ctx context.Context, batch []events.Event) error {
	records := make([]*kgo.Record, 0, len(batch))
	for _, e := range batch {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", e.Kind, err)
		}
		records = append(records, &kgo.Record{
			Topic:     k.topic,
			Key:       []byte(e.Key()),
			Value:     value,
			Timestamp: e.OccurredAt,
			Headers:   []kgo.RecordHeader{{Key: "kind", Value: []byte(e.Kind)}},
		})
	}
	if err := k.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce events: %w", err)
	}
	return nil
}

// LogSink writes events to the structured log. It is the sink used when no
// broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (l *LogSink) Deliver(ctx context.Context, batch []events.Event) error {
	for _, e := range batch {
		l.logger.InfoContext(ctx, "lifecycle notification",
			"kind", string(e.Kind),
			"application_id", e.ApplicationID,
			"status", e.Status,
			"actor_id", e.ActorID,
			"request_id", e.RequestID,
		)
	}
	return nil
}
