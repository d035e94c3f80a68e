//go:build integration

package adapters

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"bolsas/pkg/domain"
	"bolsas/pkg/platform/events"
	"bolsas/pkg/testutil/containers"
)

func TestKafkaSink_Redpanda(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	topic := "bolsas.lifecycle." + domain.NewApplicationID(time.Now()).String()

	client, err := NewKafkaClient([]string{rp.Broker}, "bolsas-test")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, EnsureTopic(ctx, client, topic, 1, 1))
	require.NoError(t, EnsureTopic(ctx, client, topic, 1, 1), "existing topic is accepted")

	now := time.Now().UTC().Truncate(time.Millisecond)
	batch := []events.Event{
		{
			Kind:          events.KindApplicationSubmitted,
			ApplicationID: domain.NewApplicationID(now).String(),
			CandidateID:   "cand-1",
			ActorID:       "cand-1",
			Status:        "submitted",
			OccurredAt:    now,
		},
		{
			Kind:          events.KindStatusChanged,
			ApplicationID: domain.NewApplicationID(now).String(),
			CandidateID:   "cand-2",
			ActorID:       "analyst-1",
			Status:        "under_review",
			FromStatus:    "submitted",
			OccurredAt:    now,
		},
	}
	require.NoError(t, NewKafkaSink(client, topic).Deliver(ctx, batch))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) < len(batch) {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err(), "timed out waiting for records")
		fetches.EachError(func(_ string, _ int32, err error) {
			t.Fatalf("fetch: %v", err)
		})
		records = append(records, fetches.Records()...)
	}

	require.Len(t, records, len(batch))
	for i, r := range records {
		want := batch[i]
		assert.Equal(t, want.ApplicationID, string(r.Key))
		require.Len(t, r.Headers, 1)
		assert.Equal(t, "kind", r.Headers[0].Key)
		assert.Equal(t, string(want.Kind), string(r.Headers[0].Value))

		var got events.Event
		require.NoError(t, json.Unmarshal(r.Value, &got))
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.FromStatus, got.FromStatus)
		assert.Equal(t, want.ActorID, got.ActorID)
		assert.True(t, want.OccurredAt.Equal(got.OccurredAt))
	}
}
